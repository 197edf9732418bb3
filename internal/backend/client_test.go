package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diewo77/stock-admin/internal/models"
)

func newTestClient(t *testing.T, mux *http.ServeMux, token string) *Client {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/api", 5*time.Second, WithTokenSource(func(context.Context) string { return token }))
}

func TestUnwrap(t *testing.T) {
	cases := map[string]string{
		`[1,2]`:                         `[1,2]`,
		`{"data":[1]}`:                  `[1]`,
		`{"items":[1],"total":1}`:       `[1]`,
		`{"data":{"items":[3]}}`:        `[3]`,
		`{"data":{"id":"x"}}`:           `{"id":"x"}`,
		`{"id":"o1","items":[{"a":1}]}`: `{"id":"o1","items":[{"a":1}]}`,
		`{"type":"sales","rows":[]}`:    `{"type":"sales","rows":[]}`,
	}
	for in, want := range cases {
		assert.JSONEq(t, want, string(unwrap([]byte(in))), in)
	}
}

func TestListProducts_SendsBearerAndUnwraps(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/products", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{"items":[{"id":"p1","name":"Huile","price":250}],"total":1}`)
	})
	c := newTestClient(t, mux, "tok-1")

	products, err := c.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Huile", products[0].Name)
	assert.Equal(t, 250.0, products[0].Price)
}

func TestWithToken_OverridesSource(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer fresh", r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{"data":{"id":"u1","email":"a@b.dz","role":"admin"}}`)
	})
	c := newTestClient(t, mux, "stale")

	u, err := c.Me(WithToken(context.Background(), "fresh"))
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
	assert.Equal(t, models.RoleAdmin, u.Role)
}

func TestAPIError_ExtractsMessageAndFields(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/products", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = io.WriteString(w, `{"message":"Validation failed","errors":[{"field":"name","message":"already exists"}]}`)
	})
	mux.HandleFunc("GET /api/products/missing", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"error":{"message":"Product not found"}}`)
	})
	mux.HandleFunc("GET /api/orders", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	c := newTestClient(t, mux, "tok")
	ctx := context.Background()

	_, err := c.CreateProduct(ctx, models.ProductInput{Name: "x"})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Equal(t, "Validation failed", Message(err))
	assert.Equal(t, map[string]string{"name": "already exists"}, FieldErrors(err))

	_, err = c.GetProduct(ctx, "missing")
	assert.True(t, IsNotFound(err))
	assert.Equal(t, "Product not found", Message(err))

	_, err = c.ListOrders(ctx)
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, "Unauthorized", Message(err))
}

func TestFieldErrors_ObjectForm(t *testing.T) {
	e := newAPIError("POST", "/users", 400, []byte(`{"errors":{"email":["is invalid"],"name":"required"}}`))
	assert.Equal(t, map[string]string{"email": "is invalid", "name": "required"}, e.Fields)
	assert.Equal(t, "Bad Request", e.Message)
}

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return tok
}

func TestLogin_UserFromBody(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ali@shop.dz", body["email"])
		_, _ = io.WriteString(w, `{"data":{"access_token":"abc","refresh_token":"r","user":{"id":"u7","name":"Ali","role":"cashier","company_id":"c1"}}}`)
	})
	c := newTestClient(t, mux, "should-not-be-sent")

	res, err := c.Login(context.Background(), "ali@shop.dz", "secret")
	require.NoError(t, err)
	assert.Equal(t, "abc", res.Token)
	assert.Equal(t, "r", res.RefreshToken)
	assert.Equal(t, "u7", res.User.ID)
	assert.Equal(t, "cashier", res.User.Role)
	assert.Equal(t, "ali@shop.dz", res.User.Email)
}

func TestLogin_UserFromClaims(t *testing.T) {
	tok := signedToken(t, jwt.MapClaims{
		"sub":        "u9",
		"role":       "manager",
		"company_id": "c2",
		"exp":        time.Now().Add(time.Hour).Unix(),
	})
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"token": tok})
	})
	c := newTestClient(t, mux, "")

	res, err := c.Login(context.Background(), "m@shop.dz", "pw")
	require.NoError(t, err)
	assert.Equal(t, "u9", res.User.ID)
	assert.Equal(t, "manager", res.User.Role)
	assert.Equal(t, "c2", res.User.CompanyID)
}

func TestLogin_NoToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"ok":true}`)
	})
	c := newTestClient(t, mux, "")
	_, err := c.Login(context.Background(), "a", "b")
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestParseTokenClaims(t *testing.T) {
	exp := time.Now().Add(2 * time.Hour).Truncate(time.Second)
	tok := signedToken(t, jwt.MapClaims{"id": float64(42), "role": "driver", "companyId": "c3", "exp": exp.Unix()})

	claims, err := ParseTokenClaims(tok)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, "driver", claims.Role)
	assert.Equal(t, "c3", claims.CompanyID)
	assert.True(t, claims.ExpiresAt.Equal(exp))

	_, err = ParseTokenClaims("not-a-jwt")
	assert.Error(t, err)
}

func TestOrderPDF(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/orders/o1/pdf", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="BL-0001.pdf"`)
		_, _ = io.WriteString(w, "%PDF-1.4")
	})
	c := newTestClient(t, mux, "tok")

	b, err := c.OrderPDF(context.Background(), "o1")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", b.ContentType)
	assert.Equal(t, "BL-0001.pdf", b.Filename)
	assert.Equal(t, "%PDF-1.4", string(b.Body))
}

func TestGenerateReport(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/reports/sales", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "2025-01-01", body["from"])
		assert.Equal(t, "2025-01-31", body["to"])
		_, _ = io.WriteString(w, `{"data":{"columns":["day","total"],"rows":[["2025-01-02","100"]],"totals":{"total":100}}}`)
	})
	c := newTestClient(t, mux, "tok")

	rep, err := c.GenerateReport(context.Background(), models.ReportRequest{
		Type: models.ReportSales,
		From: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, models.ReportSales, rep.Type)
	assert.Equal(t, []string{"day", "total"}, rep.Columns)
	assert.Equal(t, 100.0, rep.Totals["total"])
}

func TestDeleteAndNoContent(t *testing.T) {
	var deleted string
	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /api/camions/{id}", func(w http.ResponseWriter, r *http.Request) {
		deleted = r.PathValue("id")
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("POST /api/notifications/send", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	c := newTestClient(t, mux, "tok")

	require.NoError(t, c.DeleteTruck(context.Background(), "t 1"))
	assert.Equal(t, "t 1", deleted)
	require.NoError(t, c.SendNotification(context.Background(), models.NotificationInput{Topic: "all", Title: "x", Body: "y"}))
}

func TestPing(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	c := newTestClient(t, mux, "")
	assert.NoError(t, c.Ping(context.Background()))

	down := NewClient("http://127.0.0.1:1", time.Second)
	assert.Error(t, down.Ping(context.Background()))
}

func TestResourceOf(t *testing.T) {
	assert.Equal(t, "orders", resourceOf("/orders/o1/pdf"))
	assert.Equal(t, "products", resourceOf("products"))
	assert.Equal(t, "root", resourceOf("/"))
}
