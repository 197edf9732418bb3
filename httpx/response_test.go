package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJSONError(t *testing.T) {
	w := httptest.NewRecorder()
	JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"name": "required"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"validation_failed","details":{"name":"required"}}`, w.Body.String())
}

func TestJSONNil(t *testing.T) {
	w := httptest.NewRecorder()
	JSON(w, http.StatusOK, nil)
	assert.Equal(t, "null", w.Body.String())
}

func TestWantsJSON(t *testing.T) {
	cases := map[string]bool{
		"application/json":            true,
		"text/html,application/json":  false,
		"text/html":                   false,
		"":                            false,
	}
	for accept, want := range cases {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Accept", accept)
		assert.Equal(t, want, WantsJSON(r), accept)
	}
}

func TestBinary(t *testing.T) {
	w := httptest.NewRecorder()
	Binary(w, "application/pdf", "order-42.pdf", []byte("%PDF"))
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "order-42.pdf")
	assert.Equal(t, "%PDF", w.Body.String())
}
