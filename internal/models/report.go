package models

import "time"

// Report types the backend can generate.
const (
	ReportSales      = "sales"
	ReportStock      = "stock"
	ReportOrders     = "orders"
	ReportDeliveries = "deliveries"
)

// ReportTypes lists the report types in menu order.
var ReportTypes = []string{ReportSales, ReportStock, ReportOrders, ReportDeliveries}

// ReportRequest selects a report and its period.
type ReportRequest struct {
	Type      string    `json:"type"`
	From      time.Time `json:"from"`
	To        time.Time `json:"to"`
	CompanyID string    `json:"company_id,omitempty"`
}

// Report is a generated tabular report.
type Report struct {
	Type        string             `json:"type"`
	Columns     []string           `json:"columns"`
	Rows        [][]string         `json:"rows"`
	Totals      map[string]float64 `json:"totals,omitempty"`
	GeneratedAt time.Time          `json:"generated_at"`
}
