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

type ProductHandler struct {
	Base
	DefaultTaxRate float64
}

func NewProductHandler(b Base, defaultTax float64) *ProductHandler {
	return &ProductHandler{Base: b, DefaultTaxRate: defaultTax}
}

func productFields(p models.Product) []string {
	return []string{p.Name, p.Barcode, p.Category}
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := listing.ParseQuery(r.URL.Query())

	products, err := h.API.ListProducts(ctx)
	if err != nil {
		h.backendFailed(w, r, err)
		return
	}
	products = visible(ctx, h.Gate, policy.ResourceProduct, products)
	rows := listing.Filter(products, q, productFields, nil)
	if cat := q.Get("category"); cat != "" {
		rows = listing.Where(rows, func(p models.Product) bool { return p.CategoryID == cat })
	}
	page := listing.Paginate(rows, q)

	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{"items": page.Items, "total": page.Total, "page": page.Page, "pages": page.Pages})
		return
	}
	categories, err := h.API.ListCategories(ctx)
	if err != nil {
		logFor(r).Warn().Err(err).Msg("categories for product filter")
	}
	render(w, r, "products/index.html", map[string]any{
		"Page":       page,
		"Query":      q,
		"Categories": categories,
	})
}

func (h *ProductHandler) renderForm(w http.ResponseWriter, r *http.Request, status int, id string, in models.ProductInput, v validation.Violations, msg string) {
	categories, err := h.API.ListCategories(r.Context())
	if err != nil {
		logFor(r).Warn().Err(err).Msg("categories for product form")
	}
	var subs []models.SubCategory
	if in.CategoryID != "" {
		if subs, err = h.API.ListSubCategories(r.Context(), in.CategoryID); err != nil {
			logFor(r).Warn().Err(err).Msg("sub-categories for product form")
		}
	}
	data := map[string]any{
		"ID":            id,
		"Product":       in,
		"TaxPercent":    in.TaxRate * 100,
		"Categories":    categories,
		"SubCategories": subs,
		"Errors":        v,
	}
	if msg != "" {
		data["Error"] = msg
	}
	if httpx.WantsJSON(r) {
		httpx.JSONError(w, status, "validation_failed", v)
		return
	}
	renderStatus(w, r, status, "products/form.html", data)
}

func (h *ProductHandler) New(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, http.StatusOK, "", models.ProductInput{
		TaxRate:    h.DefaultTaxRate,
		Active:     true,
		CategoryID: r.URL.Query().Get("category"),
	}, nil, "")
}

func productFromForm(r *http.Request) models.ProductInput {
	return models.ProductInput{
		Name:          formString(r, "name"),
		Description:   formString(r, "description"),
		Barcode:       formString(r, "barcode"),
		CategoryID:    formString(r, "category_id"),
		SubCategoryID: formString(r, "sub_category_id"),
		Price:         formFloat(r, "price"),
		TaxRate:       percentRate(formFloat(r, "tax_rate")),
		Unit:          formString(r, "unit"),
		CompanyID:     formString(r, "company_id"),
		Active:        formBool(r, "active"),
	}
}

func validateProduct(in models.ProductInput) validation.Violations {
	v := validation.Struct(in)
	validation.RangeFloat("tax_rate", in.TaxRate, 0, 1, v)
	return v
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	in := productFromForm(r)
	if in.CompanyID == "" {
		in.CompanyID = sessionCompany(r)
	}
	if !h.allowed(w, r, gate.ActionCreate, policy.ResourceProduct, &models.Product{CompanyID: in.CompanyID}) {
		return
	}
	v := validateProduct(in)
	if !v.Empty() {
		h.renderForm(w, r, http.StatusUnprocessableEntity, "", in, v, "")
		return
	}
	p, err := h.API.CreateProduct(r.Context(), in)
	if err != nil {
		if msg, ok := h.mutationFailed(w, r, err, v); ok {
			h.renderForm(w, r, http.StatusUnprocessableEntity, "", in, v, msg)
		}
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusCreated, p)
		return
	}
	redirectFlash(w, r, "/products/"+p.ID, "success", "flash.created")
}

// load fetches a product and checks the company scope for action.
func (h *ProductHandler) load(w http.ResponseWriter, r *http.Request, action gate.Action) (*models.Product, bool) {
	p, err := h.API.GetProduct(r.Context(), r.PathValue("id"))
	if err != nil {
		h.backendFailed(w, r, err)
		return nil, false
	}
	if !h.allowed(w, r, action, policy.ResourceProduct, p) {
		return nil, false
	}
	return p, true
}

func (h *ProductHandler) View(w http.ResponseWriter, r *http.Request) {
	p, ok := h.load(w, r, gate.ActionView)
	if !ok {
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, p)
		return
	}
	render(w, r, "products/show.html", map[string]any{
		"Product": p,
	})
}

func (h *ProductHandler) Edit(w http.ResponseWriter, r *http.Request) {
	p, ok := h.load(w, r, gate.ActionUpdate)
	if !ok {
		return
	}
	h.renderForm(w, r, http.StatusOK, p.ID, models.ProductInput{
		Name:          p.Name,
		Description:   p.Description,
		Barcode:       p.Barcode,
		CategoryID:    p.CategoryID,
		SubCategoryID: p.SubCategoryID,
		Price:         p.Price,
		TaxRate:       p.TaxRate,
		Unit:          p.Unit,
		CompanyID:     p.CompanyID,
		Active:        p.Active,
	}, nil, "")
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	p, ok := h.load(w, r, gate.ActionUpdate)
	if !ok {
		return
	}
	in := productFromForm(r)
	if in.CompanyID == "" {
		in.CompanyID = p.CompanyID
	}
	if in.CompanyID != p.CompanyID && !h.allowed(w, r, gate.ActionUpdate, policy.ResourceProduct, &models.Product{CompanyID: in.CompanyID}) {
		return
	}
	v := validateProduct(in)
	if !v.Empty() {
		h.renderForm(w, r, http.StatusUnprocessableEntity, p.ID, in, v, "")
		return
	}
	updated, err := h.API.UpdateProduct(r.Context(), p.ID, in)
	if err != nil {
		if msg, ok := h.mutationFailed(w, r, err, v); ok {
			h.renderForm(w, r, http.StatusUnprocessableEntity, p.ID, in, v, msg)
		}
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, updated)
		return
	}
	redirectFlash(w, r, "/products/"+p.ID, "success", "flash.updated")
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p, ok := h.load(w, r, gate.ActionDelete)
	if !ok {
		return
	}
	if err := h.API.DeleteProduct(r.Context(), p.ID); err != nil {
		h.deleteFailed(w, r, err, "/products/"+p.ID)
		return
	}
	redirectFlash(w, r, "/products", "success", "flash.deleted")
}
