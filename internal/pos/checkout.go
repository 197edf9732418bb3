package pos

import (
	"slices"

	"github.com/shopspring/decimal"

	"github.com/diewo77/stock-admin/internal/models"
)

// CheckoutRequest carries what the cashier entered at payment time.
type CheckoutRequest struct {
	PaymentMethod string
	Tendered      decimal.Decimal
	TaxRate       decimal.Decimal
	CustomerName  string
	CustomerPhone string
}

// Receipt is the outcome of a checkout, ready to post to the backend.
type Receipt struct {
	Order    models.OrderInput
	Totals   Totals
	Tendered decimal.Decimal
	Change   decimal.Decimal
	Count    int
}

// Checkout validates payment and builds the order. The cart is left as is;
// callers clear it once the backend accepted the order.
func (c *Cart) Checkout(req CheckoutRequest) (*Receipt, error) {
	if c.Empty() {
		return nil, ErrEmptyCart
	}
	if !slices.Contains(models.PaymentMethods, req.PaymentMethod) {
		return nil, ErrInvalidPayment
	}
	totals := c.Totals(req.TaxRate)
	tendered := totals.Total
	change := decimal.Zero
	if req.PaymentMethod == models.PaymentCash {
		tendered = req.Tendered.Round(2)
		if tendered.LessThan(totals.Total) {
			return nil, ErrInsufficientPayment
		}
		change = tendered.Sub(totals.Total)
	}

	items := make([]models.OrderItem, 0, len(c.Lines))
	for _, l := range c.Lines {
		items = append(items, models.OrderItem{
			ProductID:   l.ProductID,
			ProductName: l.Name,
			Quantity:    float64(l.Quantity),
			UnitPrice:   l.UnitPrice.InexactFloat64(),
			Total:       l.Total().InexactFloat64(),
		})
	}
	return &Receipt{
		Order: models.OrderInput{
			CustomerName:  req.CustomerName,
			CustomerPhone: req.CustomerPhone,
			Items:         items,
			Subtotal:      totals.Subtotal.InexactFloat64(),
			Tax:           totals.Tax.InexactFloat64(),
			Total:         totals.Total.InexactFloat64(),
			PaymentMethod: req.PaymentMethod,
			AmountPaid:    tendered.InexactFloat64(),
			Source:        "pos",
			Status:        models.OrderConfirmed,
		},
		Totals:   totals,
		Tendered: tendered,
		Change:   change,
		Count:    c.Count(),
	}, nil
}
