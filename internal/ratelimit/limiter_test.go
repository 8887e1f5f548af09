package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock lets tests move the wall clock by hand.
type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time          { return f.t }
func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestLimiter() (*Limiter, *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	return New(WithClock(clock.now)), clock
}

func TestCheck_AllowsUpToBudget(t *testing.T) {
	l, _ := newTestLimiter()
	for i := 0; i < 30; i++ {
		require.Nil(t, l.Check("1.2.3.4", 30, time.Minute), "call %d should be allowed", i+1)
	}
	deny := l.Check("1.2.3.4", 30, time.Minute)
	require.NotNil(t, deny, "call 31 should be denied")
	assert.Equal(t, 429, deny.Status)
	assert.Equal(t, 60, deny.RetryAfter)
}

func TestCheck_DenyHeaders(t *testing.T) {
	l, clock := newTestLimiter()
	require.Nil(t, l.Check("k", 1, time.Minute))
	clock.advance(10 * time.Second)

	deny := l.Check("k", 1, time.Minute)
	require.NotNil(t, deny)
	assert.Equal(t, 50, deny.RetryAfter)
	assert.Equal(t, "50", deny.Headers["Retry-After"])
	assert.Equal(t, "1", deny.Headers["X-RateLimit-Limit"])
	assert.Equal(t, "0", deny.Headers["X-RateLimit-Remaining"])

	reset, err := time.Parse(time.RFC3339, deny.Headers["X-RateLimit-Reset"])
	require.NoError(t, err)
	assert.True(t, reset.Equal(clock.t.Add(50*time.Second)), "reset header: %v", reset)

	body := deny.Body()
	assert.Equal(t, 50, body["retryAfter"])
	assert.NotEmpty(t, body["error"])
}

func TestCheck_WindowReset(t *testing.T) {
	l, clock := newTestLimiter()
	for i := 0; i < 5; i++ {
		l.Check("k", 5, time.Minute)
	}
	require.NotNil(t, l.Check("k", 5, time.Minute))

	// after resetAt has passed the counter starts over at 1
	clock.advance(61 * time.Second)
	require.Nil(t, l.Check("k", 5, time.Minute))
	for i := 0; i < 4; i++ {
		require.Nil(t, l.Check("k", 5, time.Minute))
	}
	require.NotNil(t, l.Check("k", 5, time.Minute))
}

func TestCheck_KeyIsolation(t *testing.T) {
	l, _ := newTestLimiter()
	for i := 0; i < 10; i++ {
		require.Nil(t, l.Check("a", 10, time.Minute))
	}
	require.NotNil(t, l.Check("a", 10, time.Minute))
	// a different identifier still has its full budget
	require.Nil(t, l.Check("b", 10, time.Minute))
}

func TestCheck_PerCallBudgets(t *testing.T) {
	// the limiter is generic; budgets come from the call site
	l, _ := newTestLimiter()
	require.Nil(t, l.Check("list", 120, time.Minute))
	require.Nil(t, l.Check("create", 2, time.Minute))
	require.Nil(t, l.Check("create", 2, time.Minute))
	require.NotNil(t, l.Check("create", 2, time.Minute))
}

func TestSweep_RemovesExpiredEntries(t *testing.T) {
	l, clock := newTestLimiter()
	l.Check("old", 5, time.Minute)
	clock.advance(2 * time.Minute)
	l.Check("fresh", 5, time.Minute)

	require.Equal(t, 2, l.Len())
	l.Sweep()
	assert.Equal(t, 1, l.Len())

	// decisions stay correct whether or not the sweep ran
	require.Nil(t, l.Check("old", 5, time.Minute))
}
