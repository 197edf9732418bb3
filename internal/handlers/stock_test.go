package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diewo77/stock-admin/internal/models"
	"github.com/diewo77/stock-admin/view"
)

func stockEnv(t *testing.T) (*testEnv, *StockHandler) {
	t.Helper()
	env := newEnv(t)
	env.backend.HandleFunc("GET /api/stocks", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[
			{"id":"s1","product_id":"p1","product_name":"Huile","quantity":4,"threshold":0,"company_id":"c1"},
			{"id":"s2","product_id":"p2","product_name":"Sucre","quantity":30,"threshold":50,"company_id":"c1"},
			{"id":"s3","product_id":"p3","product_name":"Lait","quantity":80,"threshold":0,"company_id":"c1"}
		]`)
	})
	env.backend.HandleFunc("GET /api/stocks/s1", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"id":"s1","product_id":"p1","product_name":"Huile","quantity":4,"company_id":"c1"}`)
	})
	return env, NewStockHandler(env.base, 10)
}

func TestStockList_LowTab(t *testing.T) {
	_, h := stockEnv(t)

	rec := serve("GET /stock", h.List, asJSON(request(http.MethodGet, "/stock?tab=low", nil, managerSession)))
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Items []models.Stock `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	ids := []string{}
	for _, s := range body.Items {
		ids = append(ids, s.ID)
	}
	assert.ElementsMatch(t, []string{"s1", "s2"}, ids, "default threshold for s1, own threshold for s2")
}

func TestStockAdjust_OutFlipsSign(t *testing.T) {
	env, h := stockEnv(t)
	var sent models.StockMovement
	env.backend.HandleFunc("POST /api/stocks/s1/movements", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&sent))
		_, _ = io.WriteString(w, `{"id":"s1","quantity":1}`)
	})

	form := url.Values{"delta": {"3"}, "direction": {"out"}, "reason": {"casse"}}
	rec := serve("POST /stock/{id}/adjust", h.Adjust, request(http.MethodPost, "/stock/s1/adjust", form, managerSession))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/stock", rec.Header().Get("Location"))
	assert.InDelta(t, -3, sent.Delta, 1e-9)
	assert.Equal(t, "casse", sent.Reason)
}

func TestStockAdjust_Validation(t *testing.T) {
	_, h := stockEnv(t)

	rec := serve("POST /stock/{id}/adjust", h.Adjust, asJSON(request(http.MethodPost, "/stock/s1/adjust", url.Values{"delta": {"0"}}, managerSession)))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), `"delta":"must_not_be_zero"`)
	assert.Contains(t, rec.Body.String(), `"reason":"required"`)
}

func TestStockAdjustForm_Renders(t *testing.T) {
	_, h := stockEnv(t)

	rec := serve("GET /stock/{id}/adjust", h.AdjustForm, request(http.MethodGet, "/stock/s1/adjust", nil, managerSession))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "Huile")
}

func TestReportGenerate(t *testing.T) {
	env := newEnv(t)
	var sent map[string]string
	env.backend.HandleFunc("POST /api/reports/sales", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&sent))
		_, _ = io.WriteString(w, `{"data":{"rows":[],"totals":{"total":0}}}`)
	})
	h := NewReportHandler(env.base)
	h.now = func() time.Time { return time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC) }

	form := url.Values{"type": {"sales"}, "from": {"2026-03-01"}, "to": {"2026-03-15"}, "company_id": {"c9"}}
	rec := serve("POST /reports", h.Generate, asJSON(request(http.MethodPost, "/reports", form, managerSession)))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, map[string]string{"from": "2026-03-01", "to": "2026-03-15", "company_id": "c1"}, sent, "non-admins stay in their company")

	form = url.Values{"type": {"profit"}, "from": {"2026-03-10"}, "to": {"2026-03-01"}}
	rec = serve("POST /reports", h.Generate, asJSON(request(http.MethodPost, "/reports", form, managerSession)))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), `"type":"invalid_choice"`)

	form = url.Values{"type": {"sales"}, "from": {"2026-03-10"}, "to": {"2026-03-01"}}
	rec = serve("POST /reports", h.Generate, asJSON(request(http.MethodPost, "/reports", form, managerSession)))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), `"to":"date_before_start"`)
}

func TestReportGenerate_PDFLinkKeepsCompany(t *testing.T) {
	env := newEnv(t)
	env.backend.HandleFunc("POST /api/reports/stock", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"columns":["produit","quantite"],"rows":[["Huile","4"]]}`)
	})
	h := NewReportHandler(env.base)
	view.SetHooks(view.Hooks{Can: func(*http.Request, string, string) bool { return true }})
	t.Cleanup(func() { view.SetHooks(view.Hooks{}) })

	form := url.Values{"type": {"stock"}, "from": {"2026-03-01"}, "to": {"2026-03-15"}, "company_id": {"c9"}}
	rec := serve("POST /reports", h.Generate, request(http.MethodPost, "/reports", form, adminSession))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "/reports/stock/pdf?company_id=c9&amp;from=2026-03-01&amp;to=2026-03-15")

	rec = serve("POST /reports", h.Generate, request(http.MethodPost, "/reports", form, managerSession))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/reports/stock/pdf?company_id=c1&amp;")
}
