package domain

// Subcategory подраздел каталога
type Subcategory struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Category раздел каталога со своими подразделами
type Category struct {
	Name          string        `json:"name"`
	Slug          string        `json:"slug"`
	Subcategories []Subcategory `json:"subcategories"`
}

// Categories — фиксированная таксономия магазина.
// "ethnic-wear" replaced the legacy "ethnic" slug; only the new slug is valid.
var Categories = map[string]Category{
	"ethnic-wear": {
		Name: "Ethnic Wear",
		Slug: "ethnic-wear",
		Subcategories: []Subcategory{
			{Name: "Kurtis", Slug: "kurtis"},
			{Name: "2 Piece Sets", Slug: "2-piece-sets"},
			{Name: "3 Piece Sets", Slug: "3-piece-sets"},
			{Name: "Lehanga Sets", Slug: "lehanga-sets"},
		},
	},
	"dresses": {
		Name: "Dresses",
		Slug: "dresses",
		Subcategories: []Subcategory{
			{Name: "Frocks", Slug: "frocks"},
			{Name: "Indo-Western", Slug: "indo-western"},
		},
	},
	"sarees": {
		Name: "Sarees",
		Slug: "sarees",
		Subcategories: []Subcategory{
			{Name: "Mangalgiri", Slug: "mangalgiri"},
			{Name: "Kalamkari", Slug: "kalamkari"},
			{Name: "Dharmavaram", Slug: "dharmavaram"},
			{Name: "Gadwal", Slug: "gadwal"},
			{Name: "Kanchivaram", Slug: "kanchivaram"},
			{Name: "Bengal", Slug: "bengal"},
			{Name: "Pochampally", Slug: "pochampally"},
		},
	},
}

// CategoryBySlug возвращает раздел по slug.
func CategoryBySlug(slug string) (Category, bool) {
	c, ok := Categories[slug]
	return c, ok
}

// SubcategoryBySlug ищет подраздел внутри раздела.
func SubcategoryBySlug(categorySlug, subcategorySlug string) (Subcategory, bool) {
	c, ok := Categories[categorySlug]
	if !ok {
		return Subcategory{}, false
	}
	for _, sub := range c.Subcategories {
		if sub.Slug == subcategorySlug {
			return sub, true
		}
	}
	return Subcategory{}, false
}
