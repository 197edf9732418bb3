package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/diewo77/stock-admin/auth"
	"github.com/diewo77/stock-admin/gate"
	"github.com/diewo77/stock-admin/internal/backend"
	"github.com/diewo77/stock-admin/internal/models"
	"github.com/diewo77/stock-admin/internal/pos"
	"github.com/diewo77/stock-admin/view"
	"github.com/diewo77/stock-admin/web"
)

func TestMain(m *testing.M) {
	view.Configure(web.Templates(), web.Static(), false)
	os.Exit(m.Run())
}

// stubGate allows everything except records of denyCompany.
type stubGate struct {
	mu          sync.Mutex
	denyCompany string
	invalidated []string
}

func (g *stubGate) Authorize(_ context.Context, _ gate.Action, _ string, resource any) error {
	if s, ok := resource.(models.CompanyScoped); ok && g.denyCompany != "" && s.GetCompanyID() == g.denyCompany {
		return gate.ErrUnauthorized
	}
	return nil
}

func (g *stubGate) CanProfile(context.Context, gate.Action, string) bool { return true }

func (g *stubGate) InvalidateUser(userID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.invalidated = append(g.invalidated, userID)
}

func (g *stubGate) InvalidateAll() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.invalidated = append(g.invalidated, "*")
}

// memSessions records deleted and revoked sessions.
type memSessions struct {
	mu      sync.Mutex
	deleted []string
	revoked []string
}

func (s *memSessions) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *memSessions) DeleteByUser(_ context.Context, userID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked = append(s.revoked, userID)
	return 1, nil
}

// memCarts keeps carts in memory.
type memCarts struct {
	mu    sync.Mutex
	carts map[string]*pos.Cart
}

func newMemCarts() *memCarts { return &memCarts{carts: map[string]*pos.Cart{}} }

func (m *memCarts) Load(_ context.Context, id string) (*pos.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.carts[id]; ok {
		cp := *c
		cp.Lines = append([]pos.Line(nil), c.Lines...)
		return &cp, nil
	}
	return &pos.Cart{}, nil
}

func (m *memCarts) Save(_ context.Context, id string, c *pos.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.carts[id] = c
	return nil
}

func (m *memCarts) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, id)
	return nil
}

type testEnv struct {
	backend  *http.ServeMux
	gate     *stubGate
	sessions *memSessions
	base     Base
}

// newEnv starts a fake backend under /api and returns a Base pointing at it.
func newEnv(t *testing.T) *testEnv {
	t.Helper()
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	env := &testEnv{backend: mux, gate: &stubGate{}, sessions: &memSessions{}}
	env.base = Base{
		API:      backend.NewClient(srv.URL+"/api", 5*time.Second, backend.WithTokenSource(auth.TokenFromContext)),
		Gate:     env.gate,
		Sessions: env.sessions,
	}
	return env
}

var (
	managerSession = &auth.Session{ID: "s-manager", UserID: "u1", Name: "Amina", Role: "manager", CompanyID: "c1", Token: "tok-m", ExpiresAt: time.Now().Add(time.Hour)}
	adminSession   = &auth.Session{ID: "s-admin", UserID: "u0", Name: "Root", Role: "admin", Token: "tok-a", ExpiresAt: time.Now().Add(time.Hour)}
)

// request builds a request carrying s. A non-nil form is sent urlencoded.
func request(method, target string, form url.Values, s *auth.Session) *http.Request {
	var r *http.Request
	if form != nil {
		r = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		r = httptest.NewRequest(method, target, nil)
	}
	if s != nil {
		r = r.WithContext(auth.WithSession(r.Context(), s))
	}
	return r
}

func asJSON(r *http.Request) *http.Request {
	r.Header.Set("Accept", "application/json")
	return r
}

// serve routes r through a one-pattern mux so PathValue works.
func serve(pattern string, h http.HandlerFunc, r *http.Request) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	mux.HandleFunc(pattern, h)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, r)
	return rec
}
