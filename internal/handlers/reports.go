package handlers

import (
	"net/http"
	"net/url"
	"time"

	"github.com/diewo77/stock-admin/auth"
	"github.com/diewo77/stock-admin/httpx"
	"github.com/diewo77/stock-admin/internal/backend"
	"github.com/diewo77/stock-admin/internal/models"
	"github.com/diewo77/stock-admin/validation"
)

// ReportHandler asks the backend for reports and their PDFs.
type ReportHandler struct {
	Base
	now func() time.Time
}

func NewReportHandler(b Base) *ReportHandler {
	return &ReportHandler{Base: b, now: time.Now}
}

// reportForm is the period selection as typed by the user.
type reportForm struct {
	Type      string
	From      string
	To        string
	CompanyID string
}

// parse validates the form and builds the request. Non-admins are always
// scoped to their own company.
func (f reportForm) parse(r *http.Request) (models.ReportRequest, validation.Violations) {
	v := make(validation.Violations)
	validation.OneOf("type", f.Type, models.ReportTypes, v)
	req := models.ReportRequest{Type: f.Type}
	var err error
	if req.From, err = time.Parse(time.DateOnly, f.From); err != nil {
		v.Add("from", "invalid_date")
	}
	if req.To, err = time.Parse(time.DateOnly, f.To); err != nil {
		v.Add("to", "invalid_date")
	}
	if v.Empty() && req.To.Before(req.From) {
		v.Add("to", "date_before_start")
	}
	if s, ok := auth.SessionFromContext(r.Context()); ok && !s.IsAdmin() {
		req.CompanyID = s.CompanyID
	} else {
		req.CompanyID = r.FormValue("company_id")
	}
	return req, v
}

func (h *ReportHandler) defaults() reportForm {
	now := h.now()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return reportForm{Type: models.ReportSales, From: first.Format(time.DateOnly), To: now.Format(time.DateOnly)}
}

func (h *ReportHandler) render(w http.ResponseWriter, r *http.Request, status int, f reportForm, report *models.Report, v validation.Violations, msg string) {
	data := map[string]any{
		"Form":   f,
		"Types":  models.ReportTypes,
		"Report": report,
		"Errors": v,
	}
	if report != nil {
		q := url.Values{"from": {f.From}, "to": {f.To}}
		if f.CompanyID != "" {
			q.Set("company_id", f.CompanyID)
		}
		data["PDFURL"] = "/reports/" + url.PathEscape(f.Type) + "/pdf?" + q.Encode()
	}
	if msg != "" {
		data["Error"] = msg
	}
	renderStatus(w, r, status, "reports/index.html", data)
}

func (h *ReportHandler) Index(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, h.defaults(), nil, nil, "")
}

func (h *ReportHandler) Generate(w http.ResponseWriter, r *http.Request) {
	f := reportForm{Type: formString(r, "type"), From: formString(r, "from"), To: formString(r, "to")}
	req, v := f.parse(r)
	f.CompanyID = req.CompanyID
	if !v.Empty() {
		if httpx.WantsJSON(r) {
			httpx.JSONError(w, http.StatusUnprocessableEntity, "validation_failed", v)
			return
		}
		h.render(w, r, http.StatusUnprocessableEntity, f, nil, v, "")
		return
	}
	report, err := h.API.GenerateReport(r.Context(), req)
	if err != nil {
		if msg, ok := h.mutationFailed(w, r, err, v); ok {
			status := http.StatusBadGateway
			if backend.IsValidation(err) {
				status = http.StatusUnprocessableEntity
			}
			if httpx.WantsJSON(r) {
				httpx.JSONError(w, status, msg, v)
				return
			}
			h.render(w, r, status, f, nil, v, msg)
		}
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, report)
		return
	}
	h.render(w, r, http.StatusOK, f, report, nil, "")
}

// PDF streams the backend rendering of a report.
func (h *ReportHandler) PDF(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	f := reportForm{Type: r.PathValue("type"), From: qs.Get("from"), To: qs.Get("to")}
	req, v := f.parse(r)
	if !v.Empty() {
		renderError(w, r, http.StatusBadRequest, "error.bad_request")
		return
	}
	doc, err := h.API.ReportPDF(r.Context(), req)
	if err != nil {
		h.backendFailed(w, r, err)
		return
	}
	httpx.Binary(w, doc.ContentType, doc.Filename, doc.Body)
}
