package handlers

import (
	"math"
	"net/http"

	"github.com/diewo77/stock-admin/gate"
	"github.com/diewo77/stock-admin/httpx"
	"github.com/diewo77/stock-admin/internal/listing"
	"github.com/diewo77/stock-admin/internal/models"
	"github.com/diewo77/stock-admin/internal/policy"
	"github.com/diewo77/stock-admin/validation"
)

// StockHandler lists stock levels and records movements.
type StockHandler struct {
	Base
	LowThreshold float64
}

func NewStockHandler(b Base, lowThreshold float64) *StockHandler {
	return &StockHandler{Base: b, LowThreshold: lowThreshold}
}

const stockLow = "low"

var stockTabs = listing.NewTabs(stockLow)

func (h *StockHandler) level(s models.Stock) string {
	if s.IsLow(h.LowThreshold) {
		return stockLow
	}
	return "ok"
}

func (h *StockHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := listing.ParseQuery(r.URL.Query())
	stock, err := h.API.ListStock(ctx)
	if err != nil {
		h.backendFailed(w, r, err)
		return
	}
	stock = visible(ctx, h.Gate, policy.ResourceStock, stock)
	rows := listing.Filter(stock, q, func(s models.Stock) []string {
		return []string{s.ProductName, s.Location}
	}, nil)
	tab := stockTabs.Resolve(q.Tab)
	counts := listing.Count(rows, stockTabs, h.level)
	rows = listing.Where(rows, func(s models.Stock) bool { return tab.Matches(h.level(s)) })
	page := listing.Paginate(rows, q)

	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{"items": page.Items, "total": page.Total, "page": page.Page, "pages": page.Pages})
		return
	}
	low := make(map[string]bool)
	for _, s := range page.Items {
		low[s.ID] = s.IsLow(h.LowThreshold)
	}
	render(w, r, "stock/index.html", map[string]any{
		"Page":   page,
		"Query":  q,
		"Tabs":   stockTabs,
		"Tab":    tab,
		"Counts": counts,
		"Low":    low,
	})
}

func (h *StockHandler) load(w http.ResponseWriter, r *http.Request, action gate.Action) (*models.Stock, bool) {
	s, err := h.API.GetStock(r.Context(), r.PathValue("id"))
	if err != nil {
		h.backendFailed(w, r, err)
		return nil, false
	}
	if !h.allowed(w, r, action, policy.ResourceStock, s) {
		return nil, false
	}
	return s, true
}

func (h *StockHandler) renderAdjust(w http.ResponseWriter, r *http.Request, status int, s *models.Stock, mv models.StockMovement, threshold float64, v validation.Violations, msg string) {
	if httpx.WantsJSON(r) {
		httpx.JSONError(w, status, "validation_failed", v)
		return
	}
	data := map[string]any{
		"Stock":     s,
		"Movement":  mv,
		"Threshold": threshold,
		"Low":       s.IsLow(h.LowThreshold),
		"Errors":    v,
	}
	if msg != "" {
		data["Error"] = msg
	}
	renderStatus(w, r, status, "stock/adjust.html", data)
}

func (h *StockHandler) AdjustForm(w http.ResponseWriter, r *http.Request) {
	s, ok := h.load(w, r, gate.ActionView)
	if !ok {
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, s)
		return
	}
	h.renderAdjust(w, r, http.StatusOK, s, models.StockMovement{}, s.Threshold, nil, "")
}

// Adjust records a movement. The delta is signed: the "direction" field
// ("in" / "out") flips a positive quantity when present.
func (h *StockHandler) Adjust(w http.ResponseWriter, r *http.Request) {
	s, ok := h.load(w, r, gate.ActionAdjust)
	if !ok {
		return
	}
	mv := models.StockMovement{Delta: formFloat(r, "delta"), Reason: formString(r, "reason")}
	if formString(r, "direction") == "out" {
		mv.Delta = -math.Abs(mv.Delta)
	}
	v := make(validation.Violations)
	if mv.Delta == 0 {
		v.Add("delta", "must_not_be_zero")
	}
	validation.Required("reason", mv.Reason, v)
	if !v.Empty() {
		h.renderAdjust(w, r, http.StatusUnprocessableEntity, s, mv, s.Threshold, v, "")
		return
	}
	updated, err := h.API.AdjustStock(r.Context(), s.ID, mv)
	if err != nil {
		if msg, ok := h.mutationFailed(w, r, err, v); ok {
			h.renderAdjust(w, r, http.StatusUnprocessableEntity, s, mv, s.Threshold, v, msg)
		}
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, updated)
		return
	}
	redirectFlash(w, r, "/stock", "success", "flash.stock_adjusted")
}

func (h *StockHandler) UpdateThreshold(w http.ResponseWriter, r *http.Request) {
	s, ok := h.load(w, r, gate.ActionUpdate)
	if !ok {
		return
	}
	threshold := formFloat(r, "threshold")
	v := make(validation.Violations)
	validation.NonNegativeFloat("threshold", threshold, v)
	if !v.Empty() {
		h.renderAdjust(w, r, http.StatusUnprocessableEntity, s, models.StockMovement{}, threshold, v, "")
		return
	}
	updated, err := h.API.UpdateStock(r.Context(), s.ID, threshold)
	if err != nil {
		if msg, ok := h.mutationFailed(w, r, err, v); ok {
			h.renderAdjust(w, r, http.StatusUnprocessableEntity, s, models.StockMovement{}, threshold, v, msg)
		}
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, updated)
		return
	}
	redirectFlash(w, r, "/stock/"+s.ID+"/adjust", "success", "flash.updated")
}
