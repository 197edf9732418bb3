package handlers

import (
	"encoding/csv"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/diewo77/stock-admin/gate"
	"github.com/diewo77/stock-admin/httpx"
	"github.com/diewo77/stock-admin/internal/listing"
	"github.com/diewo77/stock-admin/internal/models"
	"github.com/diewo77/stock-admin/internal/policy"
	"github.com/diewo77/stock-admin/validation"
)

type OrderHandler struct {
	Base
}

func NewOrderHandler(b Base) *OrderHandler {
	return &OrderHandler{Base: b}
}

var orderTabs = listing.NewTabs(orderStatusNames()...)

func orderStatusNames() []string {
	out := make([]string, len(models.OrderStatuses))
	for i, s := range models.OrderStatuses {
		out[i] = string(s)
	}
	return out
}

func orderFields(o models.Order) []string {
	return []string{o.Reference, o.CustomerName, o.CustomerPhone}
}

func orderDate(o models.Order) time.Time { return o.CreatedAt }

// filtered applies search, date range and tab to the visible orders. The
// counts are taken before the tab is applied.
func (h *OrderHandler) filtered(r *http.Request, q listing.Query) ([]models.Order, listing.Tab, map[string]int, error) {
	orders, err := h.API.ListOrders(r.Context())
	if err != nil {
		return nil, "", nil, err
	}
	orders = visible(r.Context(), h.Gate, policy.ResourceOrder, orders)
	rows := listing.Filter(orders, q, orderFields, orderDate)
	tab := orderTabs.Resolve(q.Tab)
	counts := listing.Count(rows, orderTabs, func(o models.Order) string { return string(o.Status) })
	rows = listing.Where(rows, func(o models.Order) bool { return tab.Matches(string(o.Status)) })
	return rows, tab, counts, nil
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	q := listing.ParseQuery(r.URL.Query())
	rows, tab, counts, err := h.filtered(r, q)
	if err != nil {
		h.backendFailed(w, r, err)
		return
	}
	page := listing.Paginate(rows, q)
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{"items": page.Items, "total": page.Total, "page": page.Page, "pages": page.Pages})
		return
	}
	render(w, r, "orders/index.html", map[string]any{
		"Page":   page,
		"Query":  q,
		"Tabs":   orderTabs,
		"Tab":    tab,
		"Counts": counts,
	})
}

// Export writes the filtered orders (all pages) as CSV.
func (h *OrderHandler) Export(w http.ResponseWriter, r *http.Request) {
	q := listing.ParseQuery(r.URL.Query())
	rows, _, _, err := h.filtered(r, q)
	if err != nil {
		h.backendFailed(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="orders-`+time.Now().Format("20060102")+`.csv"`)
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"reference", "date", "customer", "phone", "status", "payment", "subtotal", "tax", "total"})
	for _, o := range rows {
		_ = cw.Write([]string{
			csvText(o.Reference),
			o.CreatedAt.Format(time.DateTime),
			csvText(o.CustomerName),
			csvText(o.CustomerPhone),
			string(o.Status),
			csvText(o.PaymentMethod),
			strconv.FormatFloat(o.Subtotal, 'f', 2, 64),
			strconv.FormatFloat(o.Tax, 'f', 2, 64),
			strconv.FormatFloat(o.Total, 'f', 2, 64),
		})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		logFor(r).Error().Err(err).Msg("orders csv")
	}
}

// csvText quotes free text that a spreadsheet would otherwise evaluate as a
// formula.
func csvText(s string) string {
	if s != "" && strings.ContainsRune("=+-@\t\r", rune(s[0])) {
		return "'" + s
	}
	return s
}

func (h *OrderHandler) load(w http.ResponseWriter, r *http.Request, action gate.Action) (*models.Order, bool) {
	o, err := h.API.GetOrder(r.Context(), r.PathValue("id"))
	if err != nil {
		h.backendFailed(w, r, err)
		return nil, false
	}
	if !h.allowed(w, r, action, policy.ResourceOrder, o) {
		return nil, false
	}
	return o, true
}

func (h *OrderHandler) View(w http.ResponseWriter, r *http.Request) {
	o, ok := h.load(w, r, gate.ActionView)
	if !ok {
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, o)
		return
	}
	h.show(w, r, http.StatusOK, o, nil, "")
}

func (h *OrderHandler) show(w http.ResponseWriter, r *http.Request, status int, o *models.Order, v validation.Violations, msg string) {
	if httpx.WantsJSON(r) {
		httpx.JSONError(w, status, "validation_failed", v)
		return
	}
	ctx := r.Context()
	data := map[string]any{
		"Order":    o,
		"Statuses": models.OrderStatuses,
		"Errors":   v,
	}
	if h.Gate.CanProfile(ctx, gate.ActionAssign, policy.ResourceOrder) {
		trucks, err := h.API.ListTrucks(ctx)
		if err != nil {
			logFor(r).Warn().Err(err).Msg("trucks for assignment")
		}
		drivers, err := h.API.ListDrivers(ctx)
		if err != nil {
			logFor(r).Warn().Err(err).Msg("drivers for assignment")
		}
		data["Trucks"] = visible(ctx, h.Gate, policy.ResourceTruck, trucks)
		data["Drivers"] = visible(ctx, h.Gate, policy.ResourceDriver, drivers)
	}
	if msg != "" {
		data["Error"] = msg
	}
	renderStatus(w, r, status, "orders/show.html", data)
}

func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	o, ok := h.load(w, r, gate.ActionUpdate)
	if !ok {
		return
	}
	status := formString(r, "status")
	v := make(validation.Violations)
	validation.OneOf("status", status, orderStatusNames(), v)
	if !v.Empty() {
		h.show(w, r, http.StatusUnprocessableEntity, o, v, "")
		return
	}
	updated, err := h.API.UpdateOrderStatus(r.Context(), o.ID, models.OrderStatus(status))
	if err != nil {
		if msg, ok := h.mutationFailed(w, r, err, v); ok {
			h.show(w, r, http.StatusUnprocessableEntity, o, v, msg)
		}
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, updated)
		return
	}
	redirectFlash(w, r, "/orders/"+o.ID, "success", "flash.updated")
}

func (h *OrderHandler) Assign(w http.ResponseWriter, r *http.Request) {
	o, ok := h.load(w, r, gate.ActionAssign)
	if !ok {
		return
	}
	a := models.Assignment{TruckID: formString(r, "truck_id"), DriverID: formString(r, "driver_id")}
	v := make(validation.Violations)
	validation.Required("truck_id", a.TruckID, v)
	validation.Required("driver_id", a.DriverID, v)
	if !v.Empty() {
		h.show(w, r, http.StatusUnprocessableEntity, o, v, "")
		return
	}
	updated, err := h.API.AssignOrder(r.Context(), o.ID, a)
	if err != nil {
		if msg, ok := h.mutationFailed(w, r, err, v); ok {
			h.show(w, r, http.StatusUnprocessableEntity, o, v, msg)
		}
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, updated)
		return
	}
	redirectFlash(w, r, "/orders/"+o.ID, "success", "flash.assigned")
}

func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	o, ok := h.load(w, r, gate.ActionDelete)
	if !ok {
		return
	}
	if err := h.API.DeleteOrder(r.Context(), o.ID); err != nil {
		h.deleteFailed(w, r, err, "/orders/"+o.ID)
		return
	}
	redirectFlash(w, r, "/orders", "success", "flash.deleted")
}

// PDF streams the backend's printable order.
func (h *OrderHandler) PDF(w http.ResponseWriter, r *http.Request) {
	o, ok := h.load(w, r, gate.ActionPrint)
	if !ok {
		return
	}
	doc, err := h.API.OrderPDF(r.Context(), o.ID)
	if err != nil {
		h.backendFailed(w, r, err)
		return
	}
	httpx.Binary(w, doc.ContentType, doc.Filename, doc.Body)
}
