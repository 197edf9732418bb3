package models

import (
	"math"
	"testing"
	"time"
)

func TestProduct_PriceWithTax(t *testing.T) {
	tests := []struct {
		name  string
		price float64
		rate  float64
		want  float64
	}{
		{"standard rate", 100, 0.19, 119},
		{"reduced rate", 50, 0.09, 54.5},
		{"no tax", 10, 0, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Product{Price: tt.price, TaxRate: tt.rate}
			if got := p.PriceWithTax(); math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("PriceWithTax() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStock_IsLow(t *testing.T) {
	tests := []struct {
		name     string
		stock    Stock
		fallback float64
		want     bool
	}{
		{"own threshold above qty", Stock{Quantity: 3, Threshold: 5}, 10, true},
		{"own threshold below qty", Stock{Quantity: 8, Threshold: 5}, 10, false},
		{"fallback used", Stock{Quantity: 8}, 10, true},
		{"equal is low", Stock{Quantity: 10}, 10, true},
		{"plenty", Stock{Quantity: 100}, 10, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.stock.IsLow(tt.fallback); got != tt.want {
				t.Fatalf("IsLow(%v) = %v, want %v", tt.fallback, got, tt.want)
			}
		})
	}
}

func TestAddress_String(t *testing.T) {
	a := Address{Street: "12 rue Didouche", City: "Alger", PostalCode: "16000", Country: "DZ"}
	if got, want := a.String(), "12 rue Didouche, 16000 Alger, DZ"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
	if got := (Address{}).String(); got != "" {
		t.Fatalf("empty address = %q", got)
	}
}

func TestDriver_LicenseExpired(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	past := now.AddDate(0, -1, 0)
	future := now.AddDate(1, 0, 0)
	if (&Driver{}).LicenseExpired(now) {
		t.Fatal("driver without expiry should not be expired")
	}
	if !(&Driver{LicenseExpiry: &past}).LicenseExpired(now) {
		t.Fatal("past expiry should be expired")
	}
	if (&Driver{LicenseExpiry: &future}).LicenseExpired(now) {
		t.Fatal("future expiry should not be expired")
	}
}

func TestGetCompanyID(t *testing.T) {
	scoped := []CompanyScoped{
		&Product{CompanyID: "c1"},
		&Stock{CompanyID: "c1"},
		&Order{CompanyID: "c1"},
		&Truck{CompanyID: "c1"},
		&Driver{CompanyID: "c1"},
		&User{CompanyID: "c1"},
		&Company{ID: "c1"},
	}
	for i, s := range scoped {
		if got := s.GetCompanyID(); got != "c1" {
			t.Fatalf("item %d: GetCompanyID() = %q", i, got)
		}
	}
}
