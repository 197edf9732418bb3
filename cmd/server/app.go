package main

import (
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/diewo77/stock-admin/auth"
	"github.com/diewo77/stock-admin/gate"
	"github.com/diewo77/stock-admin/internal/handlers"
	"github.com/diewo77/stock-admin/internal/middleware"
	"github.com/diewo77/stock-admin/internal/policy"
	"github.com/diewo77/stock-admin/view"
	"github.com/diewo77/stock-admin/web"
)

// App is the main application handler that sets up all routes.
type App struct {
	mux       *http.ServeMux
	handler   http.Handler
	routerCfg *RouterConfig
}

// NewApp creates a new application with all routes configured.
func NewApp(routerCfg *RouterConfig, logger zerolog.Logger, devMode bool) *App {
	app := &App{
		mux:       http.NewServeMux(),
		routerCfg: routerCfg,
	}
	configureView(routerCfg.AuthGate, devMode)
	app.setupRoutes()

	// Outermost first.
	var h http.Handler = app.mux
	h = auth.Middleware(h)
	h = middleware.Prefs(h)
	h = middleware.Metrics(h)
	h = chimw.Recoverer(h)
	h = middleware.RequestLogger(logger)(h)
	h = chimw.RealIP(h)
	h = chimw.RequestID(h)
	app.handler = h
	return app
}

// configureView exposes the embedded templates and the request resolvers
// templates rely on.
func configureView(ag *policy.AuthGate, devMode bool) {
	view.Configure(web.Templates(), web.Static(), devMode)
	view.SetHooks(view.Hooks{
		Lang:  middleware.LangFrom,
		Theme: middleware.ThemeFrom,
		Can: func(r *http.Request, resource, action string) bool {
			return ag.CanProfile(r.Context(), gate.Action(action), resource)
		},
		IsAdmin: func(r *http.Request) bool {
			s, ok := auth.SessionFromContext(r.Context())
			return ok && s.IsAdmin()
		},
		Flash: func(w http.ResponseWriter, r *http.Request) any {
			if f, ok := middleware.PopFlash(w, r); ok {
				return f
			}
			return nil
		},
	})
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.handler.ServeHTTP(w, r)
}

// handle registers h under pattern and reports the pattern to the metrics
// middleware.
func (a *App) handle(pattern string, h http.Handler) {
	a.mux.Handle(pattern, middleware.Routed(h))
}

// protected requires a session and the role permission action on resource.
func (a *App) protected(resource string, action gate.Action, fn http.HandlerFunc) http.Handler {
	return a.requireAuth(a.requirePermission(resource, action)(fn))
}

// setupRoutes configures all application routes.
func (a *App) setupRoutes() {
	rc := a.routerCfg

	// Public
	ah := rc.AuthHandler
	a.handle("GET /login", http.HandlerFunc(ah.LoginForm))
	a.handle("POST /login", rc.LoginLimiter.Handler(http.HandlerFunc(ah.Login)))
	a.handle("POST /logout", http.HandlerFunc(ah.Logout))
	a.handle("GET /health", http.HandlerFunc(rc.Health.Live))
	a.handle("GET /healthz", http.HandlerFunc(rc.Health.Ready))
	a.handle("GET /metrics", promhttp.Handler())
	a.handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(web.Static())))

	a.handle("GET /{$}", a.requireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	})))
	a.handle("GET /dashboard", a.requireAuth(http.HandlerFunc(rc.DashboardHandler.Show)))

	// Products
	ph := rc.ProductHandler
	a.handle("GET /products", a.protected(policy.ResourceProduct, gate.ActionList, ph.List))
	a.handle("GET /products/new", a.protected(policy.ResourceProduct, gate.ActionCreate, ph.New))
	a.handle("POST /products", a.protected(policy.ResourceProduct, gate.ActionCreate, ph.Create))
	a.handle("GET /products/{id}", a.protected(policy.ResourceProduct, gate.ActionView, ph.View))
	a.handle("GET /products/{id}/edit", a.protected(policy.ResourceProduct, gate.ActionUpdate, ph.Edit))
	a.handle("POST /products/{id}", a.protected(policy.ResourceProduct, gate.ActionUpdate, ph.Update))
	a.handle("POST /products/{id}/delete", a.protected(policy.ResourceProduct, gate.ActionDelete, ph.Delete))

	// Categories and their sub-categories
	ch := rc.CategoryHandler
	a.handle("GET /categories", a.protected(policy.ResourceCategory, gate.ActionList, ch.List))
	a.handle("POST /categories", a.protected(policy.ResourceCategory, gate.ActionCreate, ch.Create))
	a.handle("GET /categories/{id}", a.protected(policy.ResourceCategory, gate.ActionView, ch.View))
	a.handle("POST /categories/{id}", a.protected(policy.ResourceCategory, gate.ActionUpdate, ch.Update))
	a.handle("POST /categories/{id}/delete", a.protected(policy.ResourceCategory, gate.ActionDelete, ch.Delete))
	a.handle("POST /categories/{id}/subcategories", a.protected(policy.ResourceCategory, gate.ActionCreate, ch.CreateSub))
	a.handle("POST /categories/{id}/subcategories/{sub}/delete", a.protected(policy.ResourceCategory, gate.ActionDelete, ch.DeleteSub))

	// Stock
	sh := rc.StockHandler
	a.handle("GET /stock", a.protected(policy.ResourceStock, gate.ActionList, sh.List))
	a.handle("GET /stock/{id}/adjust", a.protected(policy.ResourceStock, gate.ActionAdjust, sh.AdjustForm))
	a.handle("POST /stock/{id}/adjust", a.protected(policy.ResourceStock, gate.ActionAdjust, sh.Adjust))
	a.handle("POST /stock/{id}/threshold", a.protected(policy.ResourceStock, gate.ActionUpdate, sh.UpdateThreshold))

	// Orders
	oh := rc.OrderHandler
	a.handle("GET /orders", a.protected(policy.ResourceOrder, gate.ActionList, oh.List))
	a.handle("GET /orders/export.csv", a.protected(policy.ResourceOrder, gate.ActionExport, oh.Export))
	a.handle("GET /orders/{id}", a.protected(policy.ResourceOrder, gate.ActionView, oh.View))
	a.handle("POST /orders/{id}/status", a.protected(policy.ResourceOrder, gate.ActionUpdate, oh.UpdateStatus))
	a.handle("POST /orders/{id}/assign", a.protected(policy.ResourceOrder, gate.ActionAssign, oh.Assign))
	a.handle("POST /orders/{id}/delete", a.protected(policy.ResourceOrder, gate.ActionDelete, oh.Delete))
	a.handle("GET /orders/{id}/pdf", a.protected(policy.ResourceOrder, gate.ActionPrint, oh.PDF))

	// Point of sale
	pos := rc.POSHandler
	a.handle("GET /pos", a.protected(policy.ResourcePOS, gate.ActionView, pos.Index))
	a.handle("POST /pos/cart", a.protected(policy.ResourcePOS, gate.ActionView, pos.Add))
	a.handle("POST /pos/cart/clear", a.protected(policy.ResourcePOS, gate.ActionView, pos.Clear))
	a.handle("POST /pos/cart/{id}", a.protected(policy.ResourcePOS, gate.ActionView, pos.Update))
	a.handle("POST /pos/cart/{id}/remove", a.protected(policy.ResourcePOS, gate.ActionView, pos.Remove))
	a.handle("POST /pos/checkout", a.protected(policy.ResourcePOS, gate.ActionCheckout, pos.Checkout))

	// Fleet
	th := rc.TruckHandler
	a.handle("GET /trucks", a.protected(policy.ResourceTruck, gate.ActionList, th.List))
	a.handle("GET /trucks/new", a.protected(policy.ResourceTruck, gate.ActionCreate, th.New))
	a.handle("POST /trucks", a.protected(policy.ResourceTruck, gate.ActionCreate, th.Create))
	a.handle("GET /trucks/{id}/edit", a.protected(policy.ResourceTruck, gate.ActionUpdate, th.Edit))
	a.handle("POST /trucks/{id}", a.protected(policy.ResourceTruck, gate.ActionUpdate, th.Update))
	a.handle("POST /trucks/{id}/delete", a.protected(policy.ResourceTruck, gate.ActionDelete, th.Delete))

	dh := rc.DriverHandler
	a.handle("GET /drivers", a.protected(policy.ResourceDriver, gate.ActionList, dh.List))
	a.handle("GET /drivers/new", a.protected(policy.ResourceDriver, gate.ActionCreate, dh.New))
	a.handle("POST /drivers", a.protected(policy.ResourceDriver, gate.ActionCreate, dh.Create))
	a.handle("GET /drivers/{id}/edit", a.protected(policy.ResourceDriver, gate.ActionUpdate, dh.Edit))
	a.handle("POST /drivers/{id}", a.protected(policy.ResourceDriver, gate.ActionUpdate, dh.Update))
	a.handle("POST /drivers/{id}/delete", a.protected(policy.ResourceDriver, gate.ActionDelete, dh.Delete))

	// Reports
	rh := rc.ReportHandler
	a.handle("GET /reports", a.protected(policy.ResourceReport, gate.ActionView, rh.Index))
	a.handle("POST /reports", a.protected(policy.ResourceReport, gate.ActionView, rh.Generate))
	a.handle("GET /reports/{type}/pdf", a.protected(policy.ResourceReport, gate.ActionPrint, rh.PDF))

	// Notifications
	nh := rc.NotificationHandler
	a.handle("GET /notifications", a.protected(policy.ResourceNotification, gate.ActionList, nh.Index))
	a.handle("POST /notifications/topics", a.protected(policy.ResourceNotification, gate.ActionCreate, nh.CreateTopic))
	a.handle("POST /notifications/topics/{id}/delete", a.protected(policy.ResourceNotification, gate.ActionDelete, nh.DeleteTopic))
	a.handle("POST /notifications/send", a.protected(policy.ResourceNotification, gate.ActionSend, nh.Send))

	// Users and companies
	uh := rc.UserHandler
	a.handle("GET /users", a.protected(policy.ResourceUser, gate.ActionList, uh.List))
	a.handle("GET /users/new", a.protected(policy.ResourceUser, gate.ActionCreate, uh.New))
	a.handle("POST /users", a.protected(policy.ResourceUser, gate.ActionCreate, uh.Create))
	a.handle("GET /users/{id}/edit", a.protected(policy.ResourceUser, gate.ActionUpdate, uh.Edit))
	a.handle("POST /users/{id}", a.protected(policy.ResourceUser, gate.ActionUpdate, uh.Update))
	a.handle("POST /users/{id}/delete", a.protected(policy.ResourceUser, gate.ActionDelete, uh.Delete))

	coh := rc.CompanyHandler
	a.handle("GET /companies", a.protected(policy.ResourceCompany, gate.ActionList, coh.List))
	a.handle("GET /companies/new", a.protected(policy.ResourceCompany, gate.ActionCreate, coh.New))
	a.handle("POST /companies", a.protected(policy.ResourceCompany, gate.ActionCreate, coh.Create))
	a.handle("GET /companies/{id}/edit", a.protected(policy.ResourceCompany, gate.ActionUpdate, coh.Edit))
	a.handle("POST /companies/{id}", a.protected(policy.ResourceCompany, gate.ActionUpdate, coh.Update))
	a.handle("POST /companies/{id}/delete", a.protected(policy.ResourceCompany, gate.ActionDelete, coh.Delete))

	// Admin
	arh := rc.AdminRoleHandler
	a.handle("GET /admin/roles", a.requireAdmin(http.HandlerFunc(arh.List)))
	a.handle("POST /admin/roles/assign", a.requireAdmin(http.HandlerFunc(arh.Assign)))
	a.handle("POST /admin/roles/cache/clear", a.requireAdmin(http.HandlerFunc(arh.ClearCache)))

	// Backend pass-through for scripts on the pages. Any method.
	a.handle(handlers.ProxyPrefix+"{path...}", rc.Proxy)
}

// requireAuth redirects anonymous requests to the login page.
func (a *App) requireAuth(next http.Handler) http.Handler {
	return auth.RequireAuth(next)
}

// requireAdmin wraps a handler to require admin permissions.
func (a *App) requireAdmin(next http.Handler) http.Handler {
	return a.requireAuth(a.routerCfg.AuthGate.RequireAdmin()(next))
}

// requirePermission wraps a handler to require specific resource permission.
func (a *App) requirePermission(resourceType string, action gate.Action) func(http.Handler) http.Handler {
	return a.routerCfg.AuthGate.RequirePermission(resourceType, action)
}
