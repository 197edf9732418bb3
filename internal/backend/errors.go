package backend

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"
)

// APIError is a non-2xx answer from the backend.
type APIError struct {
	Method  string
	Path    string
	Status  int
	Message string
	// Fields holds per-field messages from validation failures.
	Fields map[string]string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend %s %s: status %d: %s", e.Method, e.Path, e.Status, e.Message)
}

var messagePaths = []string{"message", "error.message", "error", "errors.0.message", "detail", "msg"}

func newAPIError(method, path string, status int, body []byte) *APIError {
	e := &APIError{Method: method, Path: path, Status: status}
	if gjson.ValidBytes(body) {
		res := gjson.ParseBytes(body)
		for _, p := range messagePaths {
			if v := res.Get(p); v.Type == gjson.String && v.Str != "" {
				e.Message = v.Str
				break
			}
		}
		e.Fields = fieldErrors(res.Get("errors"))
	}
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}
	return e
}

// fieldErrors accepts [{"field": "name", "message": "..."}] as well as
// {"name": "..."} and {"name": ["..."]}.
func fieldErrors(errs gjson.Result) map[string]string {
	out := map[string]string{}
	switch {
	case errs.IsArray():
		errs.ForEach(func(_, v gjson.Result) bool {
			if f := v.Get("field").String(); f != "" {
				out[f] = v.Get("message").String()
			}
			return true
		})
	case errs.IsObject():
		errs.ForEach(func(k, v gjson.Result) bool {
			if v.IsArray() {
				v = v.Get("0")
			}
			out[k.String()] = v.String()
			return true
		})
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func statusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// IsNotFound reports a backend 404.
func IsNotFound(err error) bool { return statusOf(err) == http.StatusNotFound }

// IsUnauthorized reports a backend 401 (expired or revoked token).
func IsUnauthorized(err error) bool { return statusOf(err) == http.StatusUnauthorized }

// IsForbidden reports a backend 403.
func IsForbidden(err error) bool { return statusOf(err) == http.StatusForbidden }

// IsValidation reports a 400 or 422 answer.
func IsValidation(err error) bool {
	s := statusOf(err)
	return s == http.StatusBadRequest || s == http.StatusUnprocessableEntity
}

// FieldErrors returns the per-field messages carried by err, if any.
func FieldErrors(err error) map[string]string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Fields
	}
	return nil
}

// Message returns the backend's message for err, or err.Error() for
// transport failures.
func Message(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
