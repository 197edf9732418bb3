package models

import (
	"strings"
	"time"
)

// Address is embedded in companies.
type Address struct {
	Street     string `json:"street,omitempty"`
	City       string `json:"city,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Wilaya     string `json:"wilaya,omitempty"`
	Country    string `json:"country,omitempty"`
}

// String renders the non-empty parts on one line.
func (a Address) String() string {
	city := strings.TrimSpace(a.PostalCode + " " + a.City)
	var parts []string
	for _, p := range []string{a.Street, city, a.Wilaya, a.Country} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// Company is a customer or branch organisation.
type Company struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	TaxNumber string    `json:"tax_number,omitempty"` // NIF
	RC        string    `json:"rc,omitempty"`         // trade register number
	Address   Address   `json:"address"`
	CreatedAt time.Time `json:"created_at"`
}

// GetCompanyID implements CompanyScoped: a company is scoped to itself.
func (c *Company) GetCompanyID() string { return c.ID }

// CompanyInput is the create/update payload.
type CompanyInput struct {
	Name      string  `json:"name" form:"name" validate:"required"`
	Email     string  `json:"email,omitempty" form:"email" validate:"omitempty,email"`
	Phone     string  `json:"phone,omitempty" form:"phone"`
	TaxNumber string  `json:"tax_number,omitempty" form:"tax_number"`
	RC        string  `json:"rc,omitempty" form:"rc"`
	Address   Address `json:"address" form:"-"`
}
