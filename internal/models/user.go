package models

import "time"

// Role names known to the dashboard. The backend stores the role on the user.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleCashier = "cashier"
	RoleDriver  = "driver"
)

// Roles lists the assignable roles in display order.
var Roles = []string{RoleAdmin, RoleManager, RoleCashier, RoleDriver}

// User is a dashboard account as returned by the backend.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Role      string    `json:"role"`
	CompanyID string    `json:"company_id,omitempty"`
	Company   *Company  `json:"company,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GetCompanyID implements CompanyScoped.
func (u *User) GetCompanyID() string { return u.CompanyID }

// UserInput is the create/update payload. Password is only sent when set.
type UserInput struct {
	Name      string `json:"name" form:"name" validate:"required"`
	Email     string `json:"email" form:"email" validate:"required,email"`
	Phone     string `json:"phone,omitempty" form:"phone"`
	Role      string `json:"role" form:"role" validate:"required,oneof=admin manager cashier driver"`
	CompanyID string `json:"company_id,omitempty" form:"company_id"`
	Active    bool   `json:"active" form:"active"`
	Password  string `json:"password,omitempty" form:"password"`
}
