package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/diewo77/stock-admin/auth"
	"github.com/diewo77/stock-admin/gate"
	"github.com/diewo77/stock-admin/httpx"
	"github.com/diewo77/stock-admin/internal/backend"
	"github.com/diewo77/stock-admin/internal/listing"
	"github.com/diewo77/stock-admin/internal/models"
	"github.com/diewo77/stock-admin/internal/policy"
	"github.com/diewo77/stock-admin/internal/pos"
)

// CartStore persists one POS cart per session.
type CartStore interface {
	Load(ctx context.Context, sessionID string) (*pos.Cart, error)
	Save(ctx context.Context, sessionID string, cart *pos.Cart) error
	Delete(ctx context.Context, sessionID string) error
}

// POSHandler runs the point-of-sale screen.
type POSHandler struct {
	Base
	Carts   CartStore
	TaxRate decimal.Decimal
}

func NewPOSHandler(b Base, carts CartStore, taxRate float64) *POSHandler {
	return &POSHandler{Base: b, Carts: carts, TaxRate: decimal.NewFromFloat(taxRate)}
}

// cartView is the cart as shown next to the product grid.
type cartView struct {
	Lines  []pos.Line `json:"lines"`
	Count  int        `json:"count"`
	Totals pos.Totals `json:"totals"`
}

func (h *POSHandler) cart(r *http.Request) (string, *pos.Cart, error) {
	s, ok := auth.SessionFromContext(r.Context())
	if !ok {
		return "", nil, gate.ErrUnauthorized
	}
	c, err := h.Carts.Load(r.Context(), s.ID)
	return s.ID, c, err
}

func (h *POSHandler) viewOf(c *pos.Cart) cartView {
	return cartView{Lines: c.Lines, Count: c.Count(), Totals: c.Totals(h.TaxRate)}
}

func (h *POSHandler) Index(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	_, c, err := h.cart(r)
	if err != nil {
		h.cartFailed(w, r, err)
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, h.viewOf(c))
		return
	}
	q := listing.ParseQuery(r.URL.Query())
	products, err := h.API.ListProducts(ctx)
	if err != nil {
		h.backendFailed(w, r, err)
		return
	}
	products = visible(ctx, h.Gate, policy.ResourceProduct, products)
	products = listing.Where(products, func(p models.Product) bool { return p.Active })
	rows := listing.Filter(products, q, productFields, nil)
	if cat := q.Get("category"); cat != "" {
		rows = listing.Where(rows, func(p models.Product) bool { return p.CategoryID == cat })
	}
	categories, err := h.API.ListCategories(ctx)
	if err != nil {
		logFor(r).Warn().Err(err).Msg("categories for pos")
	}
	render(w, r, "pos/index.html", map[string]any{
		"Products":       rows,
		"Categories":     categories,
		"Query":          q,
		"Cart":           h.viewOf(c),
		"PaymentMethods": models.PaymentMethods,
		"TaxPercent":     h.TaxRate.Mul(decimal.NewFromInt(100)).InexactFloat64(),
	})
}

// mutate loads the cart, applies fn and saves it. Cart errors are reported
// on the POS page.
func (h *POSHandler) mutate(w http.ResponseWriter, r *http.Request, fn func(*pos.Cart) error) {
	id, c, err := h.cart(r)
	if err != nil {
		h.cartFailed(w, r, err)
		return
	}
	if err := fn(c); err != nil {
		h.cartFailed(w, r, err)
		return
	}
	if err := h.Carts.Save(r.Context(), id, c); err != nil {
		h.cartFailed(w, r, err)
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, h.viewOf(c))
		return
	}
	http.Redirect(w, r, "/pos", http.StatusSeeOther)
}

// Add looks the product up so price and stock come from the backend.
func (h *POSHandler) Add(w http.ResponseWriter, r *http.Request) {
	qty := formInt(r, "quantity")
	if formString(r, "quantity") == "" {
		qty = 1
	}
	p, err := h.API.GetProduct(r.Context(), formString(r, "product_id"))
	if err != nil {
		h.backendFailed(w, r, err)
		return
	}
	if !h.allowed(w, r, gate.ActionView, policy.ResourceProduct, p) {
		return
	}
	h.mutate(w, r, func(c *pos.Cart) error { return c.Add(pos.ItemFromProduct(*p), qty) })
}

func (h *POSHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, qty := r.PathValue("id"), formInt(r, "quantity")
	h.mutate(w, r, func(c *pos.Cart) error { return c.Update(id, qty) })
}

func (h *POSHandler) Remove(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	h.mutate(w, r, func(c *pos.Cart) error { return c.Remove(id) })
}

func (h *POSHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(c *pos.Cart) error {
		c.Clear()
		return nil
	})
}

// Checkout posts the sale as a backend order, empties the cart and shows
// the receipt.
func (h *POSHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	id, c, err := h.cart(r)
	if err != nil {
		h.cartFailed(w, r, err)
		return
	}
	tendered, err := decimal.NewFromString(formString(r, "tendered"))
	if err != nil {
		tendered = decimal.Zero
	}
	receipt, err := c.Checkout(pos.CheckoutRequest{
		PaymentMethod: formString(r, "payment_method"),
		Tendered:      tendered,
		TaxRate:       h.TaxRate,
		CustomerName:  formString(r, "customer_name"),
		CustomerPhone: formString(r, "customer_phone"),
	})
	if err != nil {
		h.cartFailed(w, r, err)
		return
	}
	order, err := h.API.CreateOrder(r.Context(), receipt.Order)
	if err != nil {
		if backendAuthFailure(err) {
			h.backendFailed(w, r, err)
			return
		}
		h.cartFailed(w, r, err)
		return
	}
	if err := h.Carts.Delete(r.Context(), id); err != nil {
		logFor(r).Warn().Err(err).Msg("clear cart after checkout")
	}
	logFor(r).Info().Str("order_id", order.ID).Str("total", receipt.Totals.Total.StringFixed(2)).Msg("pos sale")
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusCreated, map[string]any{
			"order":    order,
			"total":    receipt.Totals.Total,
			"tendered": receipt.Tendered,
			"change":   receipt.Change,
		})
		return
	}
	render(w, r, "pos/receipt.html", map[string]any{
		"Order":   order,
		"Receipt": receipt,
		"Lines":   c.Lines,
	})
}

var cartErrorCodes = map[error]string{
	pos.ErrEmptyCart:           "pos.empty_cart",
	pos.ErrInvalidQuantity:     "pos.invalid_quantity",
	pos.ErrUnknownProduct:      "pos.unknown_product",
	pos.ErrInsufficientStock:   "pos.insufficient_stock",
	pos.ErrInsufficientPayment: "pos.insufficient_payment",
	pos.ErrInvalidPayment:      "pos.invalid_payment",
}

func cartErrorCode(err error) (string, bool) {
	for target, code := range cartErrorCodes {
		if errors.Is(err, target) {
			return code, true
		}
	}
	return "", false
}

// cartFailed reports a cart or checkout error back on the POS page.
func (h *POSHandler) cartFailed(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, gate.ErrUnauthorized) {
		auth.Unauthorized(w, r)
		return
	}
	status, msg := http.StatusUnprocessableEntity, ""
	switch code, ok := cartErrorCode(err); {
	case ok:
		msg = tr(r, code)
	case backend.IsValidation(err):
		msg = backend.Message(err)
	default:
		logFor(r).Error().Err(err).Msg("pos")
		status, msg = http.StatusBadGateway, tr(r, "error.backend")+": "+backend.Message(err)
	}
	if httpx.WantsJSON(r) {
		httpx.JSONError(w, status, msg, nil)
		return
	}
	flashError(w, msg)
	http.Redirect(w, r, "/pos", http.StatusSeeOther)
}
