// Package pos holds the point-of-sale cart and checkout arithmetic. Amounts
// are decimals rounded half away from zero to two places.
package pos

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/diewo77/stock-admin/internal/models"
)

var (
	ErrEmptyCart           = errors.New("pos: cart is empty")
	ErrInvalidQuantity     = errors.New("pos: quantity must be at least 1")
	ErrUnknownProduct      = errors.New("pos: product not in cart")
	ErrInsufficientStock   = errors.New("pos: not enough stock")
	ErrInsufficientPayment = errors.New("pos: amount tendered is below the total")
	ErrInvalidPayment      = errors.New("pos: unknown payment method")
)

// UnknownStock marks a line whose stock level was not reported. Any
// negative stock is treated the same way.
const UnknownStock = -1

// Item is a product as offered on the POS grid.
type Item struct {
	ProductID string
	Name      string
	UnitPrice decimal.Decimal
	Stock     float64
}

// ItemFromProduct converts a backend product for the cart.
func ItemFromProduct(p models.Product) Item {
	stock, ok := p.StockLevel()
	if !ok {
		stock = UnknownStock
	}
	return Item{
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: decimal.NewFromFloat(p.Price),
		Stock:     stock,
	}
}

// exceeds reports whether qty units go beyond a known stock level.
func exceeds(qty int, stock float64) bool {
	return stock >= 0 && float64(qty) > stock
}

// Line is one product in the cart.
type Line struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Stock     float64         `json:"stock"`
}

// Total is the rounded line amount.
func (l Line) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))).Round(2)
}

// Cart is the cashier's current sale. The zero value is an empty cart.
type Cart struct {
	Lines []Line `json:"lines"`
}

func (c *Cart) index(productID string) int {
	for i, l := range c.Lines {
		if l.ProductID == productID {
			return i
		}
	}
	return -1
}

// Add puts qty units of item in the cart, merging with an existing line.
func (c *Cart) Add(item Item, qty int) error {
	if qty < 1 {
		return ErrInvalidQuantity
	}
	i := c.index(item.ProductID)
	total := qty
	if i >= 0 {
		total += c.Lines[i].Quantity
	}
	if exceeds(total, item.Stock) {
		return ErrInsufficientStock
	}
	if i >= 0 {
		c.Lines[i].Quantity = total
		c.Lines[i].UnitPrice = item.UnitPrice
		c.Lines[i].Stock = item.Stock
		return nil
	}
	c.Lines = append(c.Lines, Line{
		ProductID: item.ProductID,
		Name:      item.Name,
		UnitPrice: item.UnitPrice,
		Quantity:  qty,
		Stock:     item.Stock,
	})
	return nil
}

// Update sets the quantity of a line. A quantity of zero or less removes it.
func (c *Cart) Update(productID string, qty int) error {
	i := c.index(productID)
	if i < 0 {
		return ErrUnknownProduct
	}
	if qty <= 0 {
		c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
		return nil
	}
	if exceeds(qty, c.Lines[i].Stock) {
		return ErrInsufficientStock
	}
	c.Lines[i].Quantity = qty
	return nil
}

// Remove drops a line.
func (c *Cart) Remove(productID string) error {
	return c.Update(productID, 0)
}

// Clear empties the cart.
func (c *Cart) Clear() { c.Lines = nil }

// Empty reports whether the cart has no lines.
func (c *Cart) Empty() bool { return len(c.Lines) == 0 }

// Count is the number of units in the cart.
func (c *Cart) Count() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

// Totals is the priced summary of a cart.
type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// Totals prices the cart with taxRate (0.19 for 19%).
func (c *Cart) Totals(taxRate decimal.Decimal) Totals {
	sub := decimal.Zero
	for _, l := range c.Lines {
		sub = sub.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	sub = sub.Round(2)
	tax := sub.Mul(taxRate).Round(2)
	return Totals{Subtotal: sub, Tax: tax, Total: sub.Add(tax)}
}
