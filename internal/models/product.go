package models

import "time"

// Product is a sellable item.
type Product struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	Barcode       string    `json:"barcode,omitempty"`
	CategoryID    string    `json:"category_id"`
	Category      string    `json:"category,omitempty"`
	SubCategoryID string    `json:"sub_category_id,omitempty"`
	Price         float64   `json:"price"`
	TaxRate       float64   `json:"tax_rate"`
	Unit          string    `json:"unit,omitempty"`
	ImageURL      string    `json:"image_url,omitempty"`
	Stock         *float64  `json:"stock,omitempty"`
	CompanyID     string    `json:"company_id,omitempty"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"created_at"`
}

// GetCompanyID implements CompanyScoped.
func (p *Product) GetCompanyID() string { return p.CompanyID }

// StockLevel returns the reported stock and whether the backend sent one.
func (p *Product) StockLevel() (float64, bool) {
	if p.Stock == nil {
		return 0, false
	}
	return *p.Stock, true
}

// Sellable reports whether the product can go in a cart: stock is either
// unreported or above zero.
func (p *Product) Sellable() bool {
	s, ok := p.StockLevel()
	return !ok || s > 0
}

// PriceWithTax is the unit price including tax.
func (p *Product) PriceWithTax() float64 { return p.Price * (1 + p.TaxRate) }

// TaxRatePercent returns the rate for form display (0.19 -> 19).
func (p *Product) TaxRatePercent() float64 { return p.TaxRate * 100 }

// ProductInput is the create/update payload.
type ProductInput struct {
	Name          string  `json:"name" form:"name" validate:"required"`
	Description   string  `json:"description,omitempty" form:"description"`
	Barcode       string  `json:"barcode,omitempty" form:"barcode"`
	CategoryID    string  `json:"category_id" form:"category_id" validate:"required"`
	SubCategoryID string  `json:"sub_category_id,omitempty" form:"sub_category_id"`
	Price         float64 `json:"price" form:"price" validate:"gt=0"`
	TaxRate       float64 `json:"tax_rate" form:"tax_rate" validate:"gte=0,lte=1"`
	Unit          string  `json:"unit,omitempty" form:"unit"`
	CompanyID     string  `json:"company_id,omitempty" form:"company_id"`
	Active        bool    `json:"active" form:"active"`
}
