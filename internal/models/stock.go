package models

import "time"

// Stock is the quantity on hand of one product.
type Stock struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"product_id"`
	ProductName string    `json:"product_name"`
	Quantity    float64   `json:"quantity"`
	Threshold   float64   `json:"threshold"`
	Unit        string    `json:"unit,omitempty"`
	Location    string    `json:"location,omitempty"`
	CompanyID   string    `json:"company_id,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// GetCompanyID implements CompanyScoped.
func (s *Stock) GetCompanyID() string { return s.CompanyID }

// IsLow reports whether the quantity is at or below the threshold. When the
// stock has no threshold of its own, fallback is used.
func (s *Stock) IsLow(fallback float64) bool {
	limit := s.Threshold
	if limit <= 0 {
		limit = fallback
	}
	return s.Quantity <= limit
}

// StockMovement adjusts a stock by Delta (positive in, negative out).
type StockMovement struct {
	Delta  float64 `json:"delta"`
	Reason string  `json:"reason"`
}
