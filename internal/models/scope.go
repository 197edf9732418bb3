// Package models mirrors the records served by the backend API. The
// dashboard never persists them; it renders them and posts edits back.
package models

// CompanyScoped is implemented by records that belong to one company.
// An empty company id means the record is shared.
type CompanyScoped interface {
	GetCompanyID() string
}
