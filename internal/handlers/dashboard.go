package handlers

import (
	"net/http"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/diewo77/stock-admin/gate"
	"github.com/diewo77/stock-admin/httpx"
	"github.com/diewo77/stock-admin/internal/models"
	"github.com/diewo77/stock-admin/internal/policy"
)

// DashboardHandler shows the home page counters.
type DashboardHandler struct {
	Base
	LowStockThreshold float64
}

func NewDashboardHandler(b Base, lowStock float64) *DashboardHandler {
	return &DashboardHandler{Base: b, LowStockThreshold: lowStock}
}

// DashboardStats are the counters of the home page. A nil counter means
// its widget failed to load.
type DashboardStats struct {
	Products        *int           `json:"products"`
	PendingOrders   *int           `json:"pending_orders"`
	LowStock        *int           `json:"low_stock"`
	AvailableTrucks *int           `json:"available_trucks"`
	RecentOrders    []models.Order `json:"recent_orders"`
	Failed          []string       `json:"failed,omitempty"`
}

func (h *DashboardHandler) Show(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var (
		stats DashboardStats
		mu    sync.Mutex
	)
	fail := func(widget string, err error) {
		logFor(r).Warn().Err(err).Str("widget", widget).Msg("dashboard widget failed")
		mu.Lock()
		stats.Failed = append(stats.Failed, widget)
		mu.Unlock()
	}
	count := func(n int) *int { return &n }

	// Widgets degrade independently: the group never returns an error.
	var g errgroup.Group
	if h.Gate.CanProfile(ctx, gate.ActionList, policy.ResourceProduct) {
		g.Go(func() error {
			products, err := h.API.ListProducts(ctx)
			if err != nil {
				fail("products", err)
				return nil
			}
			stats.Products = count(len(visible(ctx, h.Gate, policy.ResourceProduct, products)))
			return nil
		})
	}
	if h.Gate.CanProfile(ctx, gate.ActionList, policy.ResourceOrder) {
		g.Go(func() error {
			orders, err := h.API.ListOrders(ctx)
			if err != nil {
				fail("orders", err)
				return nil
			}
			orders = visible(ctx, h.Gate, policy.ResourceOrder, orders)
			pending := 0
			for _, o := range orders {
				if o.Status == models.OrderPending {
					pending++
				}
			}
			slices.SortFunc(orders, func(a, b models.Order) int { return b.CreatedAt.Compare(a.CreatedAt) })
			stats.PendingOrders = count(pending)
			stats.RecentOrders = orders[:min(5, len(orders))]
			return nil
		})
	}
	if h.Gate.CanProfile(ctx, gate.ActionList, policy.ResourceStock) {
		g.Go(func() error {
			stock, err := h.API.ListStock(ctx)
			if err != nil {
				fail("stock", err)
				return nil
			}
			low := 0
			for _, s := range visible(ctx, h.Gate, policy.ResourceStock, stock) {
				if s.IsLow(h.LowStockThreshold) {
					low++
				}
			}
			stats.LowStock = count(low)
			return nil
		})
	}
	if h.Gate.CanProfile(ctx, gate.ActionList, policy.ResourceTruck) {
		g.Go(func() error {
			trucks, err := h.API.ListTrucks(ctx)
			if err != nil {
				fail("trucks", err)
				return nil
			}
			avail := 0
			for _, t := range visible(ctx, h.Gate, policy.ResourceTruck, trucks) {
				if t.Status == models.TruckAvailable {
					avail++
				}
			}
			stats.AvailableTrucks = count(avail)
			return nil
		})
	}
	_ = g.Wait()
	slices.Sort(stats.Failed)

	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, stats)
		return
	}
	render(w, r, "dashboard.html", map[string]any{
		"Stats": stats,
	})
}
