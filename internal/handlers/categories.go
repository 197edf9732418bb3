package handlers

import (
	"net/http"

	"github.com/diewo77/stock-admin/httpx"
	"github.com/diewo77/stock-admin/internal/listing"
	"github.com/diewo77/stock-admin/internal/models"
	"github.com/diewo77/stock-admin/validation"
)

// CategoryHandler manages categories and their sub-categories.
type CategoryHandler struct {
	Base
}

func NewCategoryHandler(b Base) *CategoryHandler {
	return &CategoryHandler{Base: b}
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, http.StatusOK, models.CategoryInput{}, nil, "")
}

func (h *CategoryHandler) list(w http.ResponseWriter, r *http.Request, status int, in models.CategoryInput, v validation.Violations, msg string) {
	q := listing.ParseQuery(r.URL.Query())
	categories, err := h.API.ListCategories(r.Context())
	if err != nil {
		h.backendFailed(w, r, err)
		return
	}
	rows := listing.Filter(categories, q, func(c models.Category) []string {
		return []string{c.Name, c.Description}
	}, nil)
	if httpx.WantsJSON(r) {
		if v != nil && !v.Empty() {
			httpx.JSONError(w, status, "validation_failed", v)
			return
		}
		httpx.JSON(w, http.StatusOK, rows)
		return
	}
	data := map[string]any{
		"Page":     listing.Paginate(rows, q),
		"Query":    q,
		"Category": in,
		"Errors":   v,
	}
	if msg != "" {
		data["Error"] = msg
	}
	renderStatus(w, r, status, "categories/index.html", data)
}

func categoryFromForm(r *http.Request) models.CategoryInput {
	return models.CategoryInput{
		Name:        formString(r, "name"),
		Description: formString(r, "description"),
	}
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	in := categoryFromForm(r)
	v := validation.Struct(in)
	if !v.Empty() {
		h.list(w, r, http.StatusUnprocessableEntity, in, v, "")
		return
	}
	c, err := h.API.CreateCategory(r.Context(), in)
	if err != nil {
		if msg, ok := h.mutationFailed(w, r, err, v); ok {
			h.list(w, r, http.StatusUnprocessableEntity, in, v, msg)
		}
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusCreated, c)
		return
	}
	redirectFlash(w, r, "/categories/"+c.ID, "success", "flash.created")
}

// View shows the edit form and the sub-categories of one category.
func (h *CategoryHandler) View(w http.ResponseWriter, r *http.Request) {
	h.view(w, r, http.StatusOK, nil, nil, nil, "")
}

func (h *CategoryHandler) view(w http.ResponseWriter, r *http.Request, status int, edit *models.CategoryInput, sub *models.CategoryInput, v validation.Violations, msg string) {
	ctx := r.Context()
	c, err := h.API.GetCategory(ctx, r.PathValue("id"))
	if err != nil {
		h.backendFailed(w, r, err)
		return
	}
	subs, err := h.API.ListSubCategories(ctx, c.ID)
	if err != nil {
		logFor(r).Warn().Err(err).Msg("sub-categories")
		subs = c.SubCategories
	}
	if httpx.WantsJSON(r) {
		if v != nil && !v.Empty() {
			httpx.JSONError(w, status, "validation_failed", v)
			return
		}
		c.SubCategories = subs
		httpx.JSON(w, http.StatusOK, c)
		return
	}
	form := models.CategoryInput{Name: c.Name, Description: c.Description}
	if edit != nil {
		form = *edit
	}
	data := map[string]any{
		"Category":      c,
		"Form":          form,
		"SubCategories": subs,
		"Sub":           sub,
		"Errors":        v,
	}
	if msg != "" {
		data["Error"] = msg
	}
	renderStatus(w, r, status, "categories/show.html", data)
}

func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	in := categoryFromForm(r)
	v := validation.Struct(in)
	if !v.Empty() {
		h.view(w, r, http.StatusUnprocessableEntity, &in, nil, v, "")
		return
	}
	c, err := h.API.UpdateCategory(r.Context(), id, in)
	if err != nil {
		if msg, ok := h.mutationFailed(w, r, err, v); ok {
			h.view(w, r, http.StatusUnprocessableEntity, &in, nil, v, msg)
		}
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, c)
		return
	}
	redirectFlash(w, r, "/categories/"+id, "success", "flash.updated")
}

func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.API.DeleteCategory(r.Context(), id); err != nil {
		h.deleteFailed(w, r, err, "/categories/"+id)
		return
	}
	redirectFlash(w, r, "/categories", "success", "flash.deleted")
}

func (h *CategoryHandler) CreateSub(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	in := models.CategoryInput{Name: formString(r, "sub_name")}
	v := make(validation.Violations)
	validation.Required("sub_name", in.Name, v)
	if !v.Empty() {
		h.view(w, r, http.StatusUnprocessableEntity, nil, &in, v, "")
		return
	}
	sub, err := h.API.CreateSubCategory(r.Context(), id, in)
	if err != nil {
		if msg, ok := h.mutationFailed(w, r, err, v); ok {
			h.view(w, r, http.StatusUnprocessableEntity, nil, &in, v, msg)
		}
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusCreated, sub)
		return
	}
	redirectFlash(w, r, "/categories/"+id, "success", "flash.created")
}

func (h *CategoryHandler) DeleteSub(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.API.DeleteSubCategory(r.Context(), r.PathValue("sub")); err != nil {
		h.deleteFailed(w, r, err, "/categories/"+id)
		return
	}
	redirectFlash(w, r, "/categories/"+id, "success", "flash.deleted")
}
