package handlers

import (
	"net/http"

	"github.com/diewo77/stock-admin/gate"
	"github.com/diewo77/stock-admin/httpx"
	"github.com/diewo77/stock-admin/internal/listing"
	"github.com/diewo77/stock-admin/internal/models"
	"github.com/diewo77/stock-admin/internal/policy"
	"github.com/diewo77/stock-admin/validation"
)

type CompanyHandler struct {
	Base
}

func NewCompanyHandler(b Base) *CompanyHandler {
	return &CompanyHandler{Base: b}
}

func (h *CompanyHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := listing.ParseQuery(r.URL.Query())
	companies, err := h.API.ListCompanies(ctx)
	if err != nil {
		h.backendFailed(w, r, err)
		return
	}
	companies = visible(ctx, h.Gate, policy.ResourceCompany, companies)
	rows := listing.Filter(companies, q, func(c models.Company) []string {
		return []string{c.Name, c.Email, c.Phone, c.TaxNumber, c.Address.City, c.Address.Wilaya}
	}, nil)
	page := listing.Paginate(rows, q)
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{"items": page.Items, "total": page.Total, "page": page.Page, "pages": page.Pages})
		return
	}
	render(w, r, "companies/index.html", map[string]any{
		"Page":  page,
		"Query": q,
	})
}

func (h *CompanyHandler) renderForm(w http.ResponseWriter, r *http.Request, status int, id string, in models.CompanyInput, v validation.Violations, msg string) {
	if httpx.WantsJSON(r) {
		httpx.JSONError(w, status, "validation_failed", v)
		return
	}
	data := map[string]any{
		"ID":      id,
		"Company": in,
		"Errors":  v,
	}
	if msg != "" {
		data["Error"] = msg
	}
	renderStatus(w, r, status, "companies/form.html", data)
}

func companyFromForm(r *http.Request) models.CompanyInput {
	return models.CompanyInput{
		Name:      formString(r, "name"),
		Email:     formString(r, "email"),
		Phone:     formString(r, "phone"),
		TaxNumber: formString(r, "tax_number"),
		RC:        formString(r, "rc"),
		Address: models.Address{
			Street:     formString(r, "street"),
			City:       formString(r, "city"),
			PostalCode: formString(r, "postal_code"),
			Wilaya:     formString(r, "wilaya"),
			Country:    formString(r, "country"),
		},
	}
}

func (h *CompanyHandler) New(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, http.StatusOK, "", models.CompanyInput{Address: models.Address{Country: "Algérie"}}, nil, "")
}

func (h *CompanyHandler) Create(w http.ResponseWriter, r *http.Request) {
	in := companyFromForm(r)
	v := validation.Struct(in)
	if !v.Empty() {
		h.renderForm(w, r, http.StatusUnprocessableEntity, "", in, v, "")
		return
	}
	c, err := h.API.CreateCompany(r.Context(), in)
	if err != nil {
		if msg, ok := h.mutationFailed(w, r, err, v); ok {
			h.renderForm(w, r, http.StatusUnprocessableEntity, "", in, v, msg)
		}
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusCreated, c)
		return
	}
	redirectFlash(w, r, "/companies", "success", "flash.created")
}

func (h *CompanyHandler) load(w http.ResponseWriter, r *http.Request, action gate.Action) (*models.Company, bool) {
	c, err := h.API.GetCompany(r.Context(), r.PathValue("id"))
	if err != nil {
		h.backendFailed(w, r, err)
		return nil, false
	}
	if !h.allowed(w, r, action, policy.ResourceCompany, c) {
		return nil, false
	}
	return c, true
}

func (h *CompanyHandler) Edit(w http.ResponseWriter, r *http.Request) {
	c, ok := h.load(w, r, gate.ActionView)
	if !ok {
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, c)
		return
	}
	h.renderForm(w, r, http.StatusOK, c.ID, models.CompanyInput{
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		TaxNumber: c.TaxNumber,
		RC:        c.RC,
		Address:   c.Address,
	}, nil, "")
}

func (h *CompanyHandler) Update(w http.ResponseWriter, r *http.Request) {
	c, ok := h.load(w, r, gate.ActionUpdate)
	if !ok {
		return
	}
	in := companyFromForm(r)
	v := validation.Struct(in)
	if !v.Empty() {
		h.renderForm(w, r, http.StatusUnprocessableEntity, c.ID, in, v, "")
		return
	}
	updated, err := h.API.UpdateCompany(r.Context(), c.ID, in)
	if err != nil {
		if msg, ok := h.mutationFailed(w, r, err, v); ok {
			h.renderForm(w, r, http.StatusUnprocessableEntity, c.ID, in, v, msg)
		}
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, updated)
		return
	}
	redirectFlash(w, r, "/companies", "success", "flash.updated")
}

func (h *CompanyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	c, ok := h.load(w, r, gate.ActionDelete)
	if !ok {
		return
	}
	if err := h.API.DeleteCompany(r.Context(), c.ID); err != nil {
		h.deleteFailed(w, r, err, "/companies/"+c.ID+"/edit")
		return
	}
	redirectFlash(w, r, "/companies", "success", "flash.deleted")
}
