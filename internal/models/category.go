package models

// Category groups products.
type Category struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Description   string        `json:"description,omitempty"`
	SubCategories []SubCategory `json:"sub_categories,omitempty"`
	ProductCount  int           `json:"product_count,omitempty"`
}

// SubCategory belongs to one category.
type SubCategory struct {
	ID         string `json:"id"`
	CategoryID string `json:"category_id"`
	Name       string `json:"name"`
}

// CategoryInput is the create/update payload for categories and
// sub-categories.
type CategoryInput struct {
	Name        string `json:"name" form:"name" validate:"required"`
	Description string `json:"description,omitempty" form:"description"`
}
