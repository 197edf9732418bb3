package models

import "time"

// OrderStatus is the lifecycle state of an order, owned by the backend.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderConfirmed  OrderStatus = "confirmed"
	OrderInDelivery OrderStatus = "in_delivery"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

// OrderStatuses lists the statuses in lifecycle order.
var OrderStatuses = []OrderStatus{OrderPending, OrderConfirmed, OrderInDelivery, OrderDelivered, OrderCancelled}

// Payment methods accepted at the POS.
const (
	PaymentCash     = "cash"
	PaymentCard     = "card"
	PaymentTransfer = "transfer"
)

// PaymentMethods lists the accepted payment methods.
var PaymentMethods = []string{PaymentCash, PaymentCard, PaymentTransfer}

// Order is a customer order, either placed at the POS or by a client.
type Order struct {
	ID            string      `json:"id"`
	Reference     string      `json:"reference"`
	CustomerName  string      `json:"customer_name,omitempty"`
	CustomerPhone string      `json:"customer_phone,omitempty"`
	Address       string      `json:"address,omitempty"`
	Status        OrderStatus `json:"status"`
	Items         []OrderItem `json:"items,omitempty"`
	Subtotal      float64     `json:"subtotal"`
	Tax           float64     `json:"tax"`
	Total         float64     `json:"total"`
	PaymentMethod string      `json:"payment_method,omitempty"`
	Source        string      `json:"source,omitempty"` // pos, web, mobile
	TruckID       string      `json:"truck_id,omitempty"`
	DriverID      string      `json:"driver_id,omitempty"`
	CompanyID     string      `json:"company_id,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
}

// GetCompanyID implements CompanyScoped.
func (o *Order) GetCompanyID() string { return o.CompanyID }

// OrderItem is one line of an order.
type OrderItem struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name,omitempty"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Total       float64 `json:"total"`
}

// OrderInput is the payload sent to create an order.
type OrderInput struct {
	CustomerName  string      `json:"customer_name,omitempty"`
	CustomerPhone string      `json:"customer_phone,omitempty"`
	Items         []OrderItem `json:"items"`
	Subtotal      float64     `json:"subtotal"`
	Tax           float64     `json:"tax"`
	Total         float64     `json:"total"`
	PaymentMethod string      `json:"payment_method"`
	AmountPaid    float64     `json:"amount_paid"`
	Source        string      `json:"source"`
	Status        OrderStatus `json:"status,omitempty"`
}

// Assignment puts a truck and a driver on an order.
type Assignment struct {
	TruckID  string `json:"truck_id"`
	DriverID string `json:"driver_id"`
}
