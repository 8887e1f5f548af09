// Package validation narrows untrusted request bodies into typed, bounds-checked
// inputs. Validators are pure functions: first violated constraint wins and is
// returned as a single descriptive error, successes carry fully sanitized data.
package validation

import (
	"errors"
	"fmt"
	"math"
	"mime/multipart"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"godha/internal/domain"
)

var (
	tagRe     = regexp.MustCompile(`<[^>]*>`)
	phoneRe   = regexp.MustCompile(`^[6-9]\d{9}$`)
	pincodeRe = regexp.MustCompile(`^\d{6}$`)
)

// sanitize strips HTML-like tags and surrounding whitespace.
func sanitize(s string) string {
	return strings.TrimSpace(tagRe.ReplaceAllString(s, ""))
}

// runeLen counts characters, not bytes. Length bounds apply to what the user
// typed, so a Devanagari product name is measured the same as a Latin one.
func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

// asString renders a raw JSON value the way the admin form submits it:
// strings pass through, numbers are printed, everything else is empty.
func asString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case nil:
		return ""
	default:
		return ""
	}
}

// asNumber parses a raw JSON value as a float. Returns NaN when it cannot.
func asNumber(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

// asInt parses a raw JSON value as an integer, truncating floats — "10.5"
// counts as 10, the way parseInt reads it.
func asInt(v any) (int, bool) {
	switch t := v.(type) {
	case float64:
		return int(t), true
	case string:
		s := strings.TrimSpace(t)
		if n, err := strconv.Atoi(s); err == nil {
			return n, true
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int(f), true
		}
		return 0, false
	default:
		return 0, false
	}
}

// filterImages keeps URL-sized string entries and silently drops the rest;
// a malformed image entry is never a rejection.
func filterImages(v any) []string {
	out := []string{}
	arr, ok := v.([]any)
	if !ok {
		return out
	}
	for _, e := range arr {
		s, ok := e.(string)
		if ok && runeLen(s) > 0 && runeLen(s) < maxImageURLLen {
			out = append(out, s)
		}
	}
	return out
}

// filterStrings keeps sanitized non-empty strings, silently dropping the rest.
func filterStrings(v any) []string {
	out := []string{}
	arr, ok := v.([]any)
	if !ok {
		return out
	}
	for _, e := range arr {
		s, ok := e.(string)
		if !ok || strings.TrimSpace(s) == "" {
			continue
		}
		out = append(out, sanitize(s))
	}
	return out
}

// ProductInput is a product record that passed validation.
type ProductInput struct {
	Name          string
	Price         float64
	OriginalPrice *float64
	Category      string
	SubCategory   string
	Description   string
	Images        []string
	Stock         int
	Sizes         []string
	Colors        []string
}

const (
	maxPrice       = 10_000_000
	maxStock       = 999_999
	maxNameLen     = 200
	minNameLen     = 3
	maxSubCatLen   = 100
	maxDescLen     = 5000
	maxImageURLLen = 2000
)

// Product validates a raw product payload.
func Product(raw map[string]any) (ProductInput, error) {
	var in ProductInput
	if raw == nil {
		return in, errors.New("request body must be a JSON object")
	}

	name := sanitize(asString(raw["name"]))
	if runeLen(name) < minNameLen {
		return in, fmt.Errorf("product name must be at least %d characters", minNameLen)
	}
	if runeLen(name) > maxNameLen {
		return in, fmt.Errorf("product name must be under %d characters", maxNameLen)
	}
	in.Name = name

	price := asNumber(raw["price"])
	if math.IsNaN(price) || price <= 0 {
		return in, errors.New("price must be a positive number")
	}
	if price > maxPrice {
		return in, errors.New("price exceeds maximum allowed value")
	}
	in.Price = price

	if v, present := raw["originalPrice"]; present && v != nil && v != "" {
		op := asNumber(v)
		if math.IsNaN(op) || op < 0 {
			return in, errors.New("original price must be a non-negative number")
		}
		in.OriginalPrice = &op
	}

	category := sanitize(asString(raw["category"]))
	if _, ok := domain.CategoryBySlug(category); !ok {
		return in, fmt.Errorf("category must be one of: %s", strings.Join(categorySlugs(), ", "))
	}
	in.Category = category

	subCategory := sanitize(asString(raw["subCategory"]))
	if runeLen(subCategory) < 1 {
		return in, errors.New("sub-category is required")
	}
	if runeLen(subCategory) > maxSubCatLen {
		return in, fmt.Errorf("sub-category must be under %d characters", maxSubCatLen)
	}
	in.SubCategory = subCategory

	description := sanitize(asString(raw["description"]))
	if runeLen(description) > maxDescLen {
		return in, fmt.Errorf("description must be under %d characters", maxDescLen)
	}
	in.Description = description

	in.Images = filterImages(raw["images"])

	if v, present := raw["stock"]; present && v != nil && v != "" {
		stock, ok := asInt(v)
		if !ok || stock < 0 {
			return in, errors.New("stock must be a non-negative integer")
		}
		if stock > maxStock {
			return in, errors.New("stock exceeds maximum allowed value")
		}
		in.Stock = stock
	}

	in.Sizes = filterStrings(raw["sizes"])
	in.Colors = filterStrings(raw["colors"])

	return in, nil
}

func categorySlugs() []string {
	return []string{"dresses", "sarees", "ethnic-wear"}
}

// ProductPatch carries only the fields present in an update payload. Nil means
// the key was absent and the stored value stays untouched.
type ProductPatch struct {
	Name               *string
	Price              *float64
	OriginalPrice      *float64
	ClearOriginalPrice bool
	Category           *string
	SubCategory        *string
	Description        *string
	Images             *[]string
	Stock              *int
	Sizes              *[]string
	Colors             *[]string
}

// ProductUpdate validates an update payload field by field: keys present in
// the body are checked with the same rules as creation, absent keys are left
// alone. A stock-only inventory tweak therefore never trips the name check.
func ProductUpdate(raw map[string]any) (ProductPatch, error) {
	var p ProductPatch
	if raw == nil {
		return p, errors.New("request body must be a JSON object")
	}

	if v, ok := raw["name"]; ok {
		name := sanitize(asString(v))
		if runeLen(name) < minNameLen {
			return p, fmt.Errorf("product name must be at least %d characters", minNameLen)
		}
		if runeLen(name) > maxNameLen {
			return p, fmt.Errorf("product name must be under %d characters", maxNameLen)
		}
		p.Name = &name
	}

	if v, ok := raw["price"]; ok {
		price := asNumber(v)
		if math.IsNaN(price) || price <= 0 {
			return p, errors.New("price must be a positive number")
		}
		if price > maxPrice {
			return p, errors.New("price exceeds maximum allowed value")
		}
		p.Price = &price
	}

	if v, ok := raw["originalPrice"]; ok {
		// present but empty clears the discount marker
		if v == nil || v == "" {
			p.ClearOriginalPrice = true
		} else {
			op := asNumber(v)
			if math.IsNaN(op) || op < 0 {
				return p, errors.New("original price must be a non-negative number")
			}
			p.OriginalPrice = &op
		}
	}

	if v, ok := raw["category"]; ok {
		category := sanitize(asString(v))
		if _, ok := domain.CategoryBySlug(category); !ok {
			return p, fmt.Errorf("category must be one of: %s", strings.Join(categorySlugs(), ", "))
		}
		p.Category = &category
	}

	if v, ok := raw["subCategory"]; ok {
		subCategory := sanitize(asString(v))
		if runeLen(subCategory) < 1 {
			return p, errors.New("sub-category is required")
		}
		if runeLen(subCategory) > maxSubCatLen {
			return p, fmt.Errorf("sub-category must be under %d characters", maxSubCatLen)
		}
		p.SubCategory = &subCategory
	}

	if v, ok := raw["description"]; ok {
		description := sanitize(asString(v))
		if runeLen(description) > maxDescLen {
			return p, fmt.Errorf("description must be under %d characters", maxDescLen)
		}
		p.Description = &description
	}

	if _, ok := raw["images"]; ok {
		images := filterImages(raw["images"])
		p.Images = &images
	}

	if v, ok := raw["stock"]; ok && v != nil && v != "" {
		stock, ok := asInt(v)
		if !ok || stock < 0 {
			return p, errors.New("stock must be a non-negative integer")
		}
		if stock > maxStock {
			return p, errors.New("stock exceeds maximum allowed value")
		}
		p.Stock = &stock
	}

	if _, ok := raw["sizes"]; ok {
		sizes := filterStrings(raw["sizes"])
		p.Sizes = &sizes
	}
	if _, ok := raw["colors"]; ok {
		colors := filterStrings(raw["colors"])
		p.Colors = &colors
	}

	return p, nil
}

// OrderInput is an order record that passed validation.
type OrderInput struct {
	UserID          string
	UserEmail       string
	Items           []domain.OrderItem
	Total           float64
	ShippingAddress domain.ShippingAddress
	PaymentMethod   string
	PaymentStatus   string
}

// Order validates a raw order payload. Top-level required fields and the
// shipping address are strict; item price/quantity are coerced leniently
// (0 and 1 on parse failure) so a single display glitch does not kill an order.
func Order(raw map[string]any) (OrderInput, error) {
	var in OrderInput
	if raw == nil {
		return in, errors.New("request body must be a JSON object")
	}

	in.UserID = sanitize(asString(raw["userId"]))
	if in.UserID == "" {
		return in, errors.New("user ID is required")
	}
	in.UserEmail = sanitize(asString(raw["userEmail"]))

	rawItems, ok := raw["items"].([]any)
	if !ok || len(rawItems) == 0 {
		return in, errors.New("order must contain at least one item")
	}
	in.Items = make([]domain.OrderItem, 0, len(rawItems))
	for _, e := range rawItems {
		m, _ := e.(map[string]any)
		item := domain.OrderItem{Quantity: 1}
		if m != nil {
			item.ID = sanitize(asString(m["id"]))
			item.Name = sanitize(asString(m["name"]))
			if p := asNumber(m["price"]); !math.IsNaN(p) {
				item.Price = p
			}
			if q, ok := asInt(m["quantity"]); ok && q != 0 {
				item.Quantity = q
			}
		}
		in.Items = append(in.Items, item)
	}

	total := asNumber(raw["total"])
	if math.IsNaN(total) || total <= 0 {
		return in, errors.New("total must be a positive number")
	}
	in.Total = total

	addr, ok := raw["shippingAddress"].(map[string]any)
	if !ok {
		return in, errors.New("shipping address is required")
	}

	fullName := sanitize(asString(addr["fullName"]))
	if fullName == "" {
		// legacy checkout forms sent "name"
		fullName = sanitize(asString(addr["name"]))
	}
	if runeLen(fullName) < 2 {
		return in, errors.New("full name must be at least 2 characters")
	}
	if runeLen(fullName) > 100 {
		return in, errors.New("full name must be under 100 characters")
	}

	phone := sanitize(asString(addr["phone"]))
	if !phoneRe.MatchString(phone) {
		return in, errors.New("please enter a valid 10-digit Indian phone number")
	}

	address := sanitize(asString(addr["address"]))
	if runeLen(address) < 10 {
		return in, errors.New("address must be at least 10 characters")
	}
	if runeLen(address) > 500 {
		return in, errors.New("address must be under 500 characters")
	}

	city := sanitize(asString(addr["city"]))
	if runeLen(city) < 2 {
		return in, errors.New("city is required")
	}

	state := sanitize(asString(addr["state"]))
	if runeLen(state) < 2 {
		return in, errors.New("state is required")
	}

	pincode := sanitize(asString(addr["pincode"]))
	if !pincodeRe.MatchString(pincode) {
		return in, errors.New("please enter a valid 6-digit pincode")
	}

	in.ShippingAddress = domain.ShippingAddress{
		FullName: fullName,
		Phone:    phone,
		Address:  address,
		City:     city,
		State:    state,
		Pincode:  pincode,
	}

	in.PaymentMethod = sanitize(asString(raw["paymentMethod"]))
	if in.PaymentMethod == "" {
		in.PaymentMethod = "razorpay"
	}
	in.PaymentStatus = sanitize(asString(raw["paymentStatus"]))
	if in.PaymentStatus == "" {
		in.PaymentStatus = string(domain.PaymentStatusPending)
	}

	return in, nil
}

// UploadCandidate is a file handle that passed validation. The actual byte
// transfer belongs to the storage collaborator.
type UploadCandidate struct {
	Filename    string
	ContentType string
	Size        int64
}

const (
	maxFileSize    = 5 << 20 // 5 MiB
	maxFilenameLen = 255
)

var allowedMimeTypes = []string{
	"image/jpeg",
	"image/png",
	"image/webp",
	"image/avif",
	"image/gif",
}

// Upload validates a multipart file header for the image upload endpoint.
func Upload(file *multipart.FileHeader) (UploadCandidate, error) {
	var c UploadCandidate
	if file == nil {
		return c, errors.New("no file provided")
	}

	contentType := file.Header.Get("Content-Type")
	allowed := false
	for _, t := range allowedMimeTypes {
		if contentType == t {
			allowed = true
			break
		}
	}
	if !allowed {
		short := make([]string, len(allowedMimeTypes))
		for i, t := range allowedMimeTypes {
			short[i] = strings.TrimPrefix(t, "image/")
		}
		return c, fmt.Errorf("invalid file type. Allowed: %s", strings.Join(short, ", "))
	}

	if file.Size > maxFileSize {
		return c, errors.New("file size must be under 5 MB")
	}

	if runeLen(file.Filename) > maxFilenameLen {
		return c, errors.New("file name is too long")
	}

	return UploadCandidate{
		Filename:    file.Filename,
		ContentType: contentType,
		Size:        file.Size,
	}, nil
}
