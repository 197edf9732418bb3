package models

import "time"

// Truck ("camion") delivers orders.
type Truck struct {
	ID          string     `json:"id"`
	Plate       string     `json:"plate"`
	Brand       string     `json:"brand,omitempty"`
	Model       string     `json:"model,omitempty"`
	CapacityKg  float64    `json:"capacity_kg"`
	Status      string     `json:"status"`
	DriverID    string     `json:"driver_id,omitempty"`
	CompanyID   string     `json:"company_id,omitempty"`
	LastService *time.Time `json:"last_service,omitempty"`
}

// Truck statuses.
const (
	TruckAvailable   = "available"
	TruckInUse       = "in_use"
	TruckMaintenance = "maintenance"
)

// TruckStatuses lists the truck statuses.
var TruckStatuses = []string{TruckAvailable, TruckInUse, TruckMaintenance}

// GetCompanyID implements CompanyScoped.
func (t *Truck) GetCompanyID() string { return t.CompanyID }

// TruckInput is the create/update payload.
type TruckInput struct {
	Plate      string  `json:"plate" form:"plate" validate:"required"`
	Brand      string  `json:"brand,omitempty" form:"brand"`
	Model      string  `json:"model,omitempty" form:"model"`
	CapacityKg float64 `json:"capacity_kg" form:"capacity_kg" validate:"gte=0"`
	Status     string  `json:"status" form:"status" validate:"required,oneof=available in_use maintenance"`
	DriverID   string  `json:"driver_id,omitempty" form:"driver_id"`
	CompanyID  string  `json:"company_id,omitempty" form:"company_id"`
}

// Driver ("chauffeur") drives a truck.
type Driver struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Phone         string     `json:"phone"`
	LicenseNumber string     `json:"license_number"`
	LicenseExpiry *time.Time `json:"license_expiry,omitempty"`
	Status        string     `json:"status"`
	TruckID       string     `json:"truck_id,omitempty"`
	CompanyID     string     `json:"company_id,omitempty"`
}

// Driver statuses.
const (
	DriverAvailable = "available"
	DriverOnDuty    = "on_duty"
	DriverOffDuty   = "off_duty"
)

// DriverStatuses lists the driver statuses.
var DriverStatuses = []string{DriverAvailable, DriverOnDuty, DriverOffDuty}

// GetCompanyID implements CompanyScoped.
func (d *Driver) GetCompanyID() string { return d.CompanyID }

// LicenseExpired reports whether the license expiry is before now.
func (d *Driver) LicenseExpired(now time.Time) bool {
	return d.LicenseExpiry != nil && d.LicenseExpiry.Before(now)
}

// DriverInput is the create/update payload.
type DriverInput struct {
	Name          string     `json:"name" form:"name" validate:"required"`
	Phone         string     `json:"phone" form:"phone" validate:"required"`
	LicenseNumber string     `json:"license_number" form:"license_number" validate:"required"`
	LicenseExpiry *time.Time `json:"license_expiry,omitempty" form:"-"`
	Status        string     `json:"status" form:"status" validate:"required,oneof=available on_duty off_duty"`
	TruckID       string     `json:"truck_id,omitempty" form:"truck_id"`
	CompanyID     string     `json:"company_id,omitempty" form:"company_id"`
}
