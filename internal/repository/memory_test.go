package repository

import (
	"context"
	"testing"
	"time"

	"godha/internal/domain"
)

func TestMemoryStore_ProductCRUD(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	p := domain.Product{Name: "Silk Saree", Category: "sarees", SubCategory: "kanchivaram", Price: 2999, Stock: 10}
	if err := store.Create(ctx, &p); err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.ID == "" {
		t.Fatalf("no id")
	}

	got, err := store.GetByID(ctx, p.ID)
	if err != nil || got.ID != p.ID {
		t.Fatalf("get: %v", err)
	}

	p.Price = 2499
	if err := store.Update(ctx, &p); err != nil {
		t.Fatalf("update: %v", err)
	}

	if err := store.Delete(ctx, p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.GetByID(ctx, p.ID); err == nil {
		t.Fatalf("expected not found")
	}
}

func TestMemoryTx_TransactionalUpdate(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	tx := NewMemoryTx(store)
	orders := NewMemoryOrders(store)

	// seed product
	p := domain.Product{Name: "Silk Saree", Category: "sarees", SubCategory: "kanchivaram", Price: 2999, Stock: 5}
	if err := store.Create(ctx, &p); err != nil {
		t.Fatal(err)
	}

	// emulate atomic create order with stock decrease
	err := tx.WithTransaction(ctx, func(ctx context.Context) error {
		pp, err := store.GetByID(ctx, p.ID)
		if err != nil {
			return err
		}
		if pp.Stock < 3 {
			t.Fatalf("stock precondition")
		}
		pp.Stock -= 3
		if err := store.Update(ctx, pp); err != nil {
			return err
		}
		o := domain.Order{
			UserID: "u1",
			Items:  []domain.OrderItem{{ID: p.ID, Name: p.Name, Price: p.Price, Quantity: 3}},
			Total:  3 * p.Price,
		}
		return orders.Create(ctx, &o)
	})
	if err != nil {
		t.Fatalf("tx: %v", err)
	}

	// check stock after
	pp, _ := store.GetByID(context.Background(), p.ID)
	if pp.Stock != 2 {
		t.Fatalf("stock expected 2, got %v", pp.Stock)
	}
}

func TestList_Filtering(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	add := func(name, cat, sub, desc string) {
		p := domain.Product{Name: name, Category: cat, SubCategory: sub, Description: desc, Price: 100, Stock: 1}
		if err := store.Create(ctx, &p); err != nil {
			t.Fatal(err)
		}
	}
	add("Kanchivaram Silk", "sarees", "kanchivaram", "bridal wear")
	add("Cotton Kurti", "ethnic-wear", "kurtis", "daily wear")
	add("Frock Dress", "dresses", "frocks", "party")

	// category
	list, _ := store.List(ctx, ProductFilter{Category: "sarees"})
	if len(list) != 1 || list[0].Category != "sarees" {
		t.Fatalf("category filter: %v", list)
	}

	// subcategory
	list, _ = store.List(ctx, ProductFilter{Category: "ethnic-wear", SubCategory: "kurtis"})
	if len(list) != 1 {
		t.Fatalf("subcategory filter: %v", list)
	}

	// search matches name or description, case-insensitive
	list, _ = store.List(ctx, ProductFilter{Search: "WEAR"})
	if len(list) != 2 {
		t.Fatalf("search filter expected 2, got %d", len(list))
	}

	// limit
	list, _ = store.List(ctx, ProductFilter{Limit: 2})
	if len(list) != 2 {
		t.Fatalf("limit: %d", len(list))
	}
}

func TestList_NewestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	older := domain.Product{Name: "Old", Category: "sarees", SubCategory: "bengal", Price: 1, Stock: 1, CreatedAt: time.Now().Add(-time.Hour)}
	newer := domain.Product{Name: "New", Category: "sarees", SubCategory: "bengal", Price: 1, Stock: 1, CreatedAt: time.Now()}
	if err := store.Create(ctx, &older); err != nil {
		t.Fatal(err)
	}
	if err := store.Create(ctx, &newer); err != nil {
		t.Fatal(err)
	}

	list, _ := store.List(ctx, ProductFilter{})
	if len(list) != 2 || list[0].Name != "New" {
		t.Fatalf("expected newest first, got %v", list)
	}
}

func TestMemoryOrders_ListByUser(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	orders := NewMemoryOrders(store)

	for _, uid := range []string{"u1", "u2", "u1"} {
		o := domain.Order{UserID: uid, Items: []domain.OrderItem{{Name: "x", Quantity: 1}}, Total: 10}
		if err := orders.Create(ctx, &o); err != nil {
			t.Fatal(err)
		}
	}

	list, err := orders.List(ctx, OrderFilter{UserID: "u1"})
	if err != nil || len(list) != 2 {
		t.Fatalf("user filter: %v %v", list, err)
	}
	list, _ = orders.List(ctx, OrderFilter{})
	if len(list) != 3 {
		t.Fatalf("expected all orders, got %d", len(list))
	}
}
