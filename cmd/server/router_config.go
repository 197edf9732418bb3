package main

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/diewo77/stock-admin/internal/backend"
	"github.com/diewo77/stock-admin/internal/config"
	"github.com/diewo77/stock-admin/internal/handlers"
	"github.com/diewo77/stock-admin/internal/middleware"
	"github.com/diewo77/stock-admin/internal/policy"
	"github.com/diewo77/stock-admin/internal/store"
)

// profileCacheTTL bounds how long a role change made elsewhere can go
// unnoticed.
const profileCacheTTL = 5 * time.Minute

// RouterConfig holds configured handlers and middleware for the application.
type RouterConfig struct {
	// AuthGate provides authorization checks and middleware
	AuthGate *policy.AuthGate

	// LoginLimiter throttles POST /login per client IP.
	LoginLimiter *middleware.RateLimiter

	AuthHandler      *handlers.AuthHandler
	DashboardHandler *handlers.DashboardHandler

	// Catalog and stock
	ProductHandler  *handlers.ProductHandler
	CategoryHandler *handlers.CategoryHandler
	StockHandler    *handlers.StockHandler

	// Sales and delivery
	OrderHandler  *handlers.OrderHandler
	POSHandler    *handlers.POSHandler
	TruckHandler  *handlers.TruckHandler
	DriverHandler *handlers.DriverHandler

	ReportHandler       *handlers.ReportHandler
	NotificationHandler *handlers.NotificationHandler

	// Administration
	UserHandler      *handlers.UserHandler
	CompanyHandler   *handlers.CompanyHandler
	AdminRoleHandler *handlers.AdminRoleHandler

	Proxy  *handlers.Proxy
	Health *handlers.Health
}

// Deps are the long-lived services the handlers are built from.
type Deps struct {
	Config   *config.Config
	API      *backend.Client
	DB       *gorm.DB
	Sessions *store.SessionStore
	Carts    *store.CartStore
	Roles    *policy.Roles
}

// NewRouterConfig wires the authorization gate and every screen handler.
func NewRouterConfig(d Deps) (*RouterConfig, error) {
	authGate := policy.NewAuthGate(d.API, d.Roles, profileCacheTTL)
	authGate.Forbidden = handlers.Forbidden

	base := handlers.Base{API: d.API, Gate: authGate, Sessions: d.Sessions}
	cfg := d.Config

	proxy, err := handlers.NewProxy(base)
	if err != nil {
		return nil, err
	}

	authHandler := handlers.NewAuthHandler(d.API, d.Sessions, d.Carts, authGate, cfg.Session.TTL)
	limiter := middleware.NewRateLimiter(cfg.Server.LoginRatePerMinute)
	limiter.Rejected = authHandler.LoginThrottled

	rc := &RouterConfig{
		AuthGate:            authGate,
		LoginLimiter:        limiter,
		AuthHandler:         authHandler,
		DashboardHandler:    handlers.NewDashboardHandler(base, cfg.POS.LowStockThreshold),
		ProductHandler:      handlers.NewProductHandler(base, cfg.POS.TaxRate),
		CategoryHandler:     handlers.NewCategoryHandler(base),
		StockHandler:        handlers.NewStockHandler(base, cfg.POS.LowStockThreshold),
		OrderHandler:        handlers.NewOrderHandler(base),
		POSHandler:          handlers.NewPOSHandler(base, d.Carts, cfg.POS.TaxRate),
		TruckHandler:        handlers.NewTruckHandler(base),
		DriverHandler:       handlers.NewDriverHandler(base),
		ReportHandler:       handlers.NewReportHandler(base),
		NotificationHandler: handlers.NewNotificationHandler(base),
		UserHandler:         handlers.NewUserHandler(base, d.Sessions),
		CompanyHandler:      handlers.NewCompanyHandler(base),
		AdminRoleHandler:    handlers.NewAdminRoleHandler(base, d.Roles, authGate, d.Sessions),
		Proxy:               proxy,
		Health: handlers.NewHealth(map[string]handlers.Pinger{
			"store":   func(ctx context.Context) error { return store.Ping(ctx, d.DB) },
			"backend": d.API.Ping,
		}),
	}
	return rc, nil
}
