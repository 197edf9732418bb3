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

// TruckHandler serves the fleet ("camions") screens.
type TruckHandler struct {
	Base
}

func NewTruckHandler(b Base) *TruckHandler {
	return &TruckHandler{Base: b}
}

var truckTabs = listing.NewTabs(models.TruckStatuses...)

func (h *TruckHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := listing.ParseQuery(r.URL.Query())
	trucks, err := h.API.ListTrucks(ctx)
	if err != nil {
		h.backendFailed(w, r, err)
		return
	}
	trucks = visible(ctx, h.Gate, policy.ResourceTruck, trucks)
	rows := listing.Filter(trucks, q, func(t models.Truck) []string {
		return []string{t.Plate, t.Brand, t.Model}
	}, nil)
	tab := truckTabs.Resolve(q.Tab)
	counts := listing.Count(rows, truckTabs, func(t models.Truck) string { return t.Status })
	rows = listing.Where(rows, func(t models.Truck) bool { return tab.Matches(t.Status) })
	page := listing.Paginate(rows, q)

	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{"items": page.Items, "total": page.Total, "page": page.Page, "pages": page.Pages})
		return
	}
	render(w, r, "trucks/index.html", map[string]any{
		"Page":   page,
		"Query":  q,
		"Tabs":   truckTabs,
		"Tab":    tab,
		"Counts": counts,
	})
}

func (h *TruckHandler) renderForm(w http.ResponseWriter, r *http.Request, status int, id string, in models.TruckInput, v validation.Violations, msg string) {
	if httpx.WantsJSON(r) {
		httpx.JSONError(w, status, "validation_failed", v)
		return
	}
	drivers, err := h.API.ListDrivers(r.Context())
	if err != nil {
		logFor(r).Warn().Err(err).Msg("drivers for truck form")
	}
	data := map[string]any{
		"ID":       id,
		"Truck":    in,
		"Statuses": models.TruckStatuses,
		"Drivers":  visible(r.Context(), h.Gate, policy.ResourceDriver, drivers),
		"Errors":   v,
	}
	if msg != "" {
		data["Error"] = msg
	}
	renderStatus(w, r, status, "trucks/form.html", data)
}

func truckFromForm(r *http.Request) models.TruckInput {
	return models.TruckInput{
		Plate:      formString(r, "plate"),
		Brand:      formString(r, "brand"),
		Model:      formString(r, "model"),
		CapacityKg: formFloat(r, "capacity_kg"),
		Status:     formString(r, "status"),
		DriverID:   formString(r, "driver_id"),
		CompanyID:  formString(r, "company_id"),
	}
}

func validateTruck(in models.TruckInput) validation.Violations {
	v := validation.Struct(in)
	validation.NonNegativeFloat("capacity_kg", in.CapacityKg, v)
	return v
}

func (h *TruckHandler) New(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, http.StatusOK, "", models.TruckInput{Status: models.TruckAvailable}, nil, "")
}

func (h *TruckHandler) Create(w http.ResponseWriter, r *http.Request) {
	in := truckFromForm(r)
	if in.CompanyID == "" {
		in.CompanyID = sessionCompany(r)
	}
	if !h.allowed(w, r, gate.ActionCreate, policy.ResourceTruck, &models.Truck{CompanyID: in.CompanyID}) {
		return
	}
	v := validateTruck(in)
	if !v.Empty() {
		h.renderForm(w, r, http.StatusUnprocessableEntity, "", in, v, "")
		return
	}
	t, err := h.API.CreateTruck(r.Context(), in)
	if err != nil {
		if msg, ok := h.mutationFailed(w, r, err, v); ok {
			h.renderForm(w, r, http.StatusUnprocessableEntity, "", in, v, msg)
		}
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusCreated, t)
		return
	}
	redirectFlash(w, r, "/trucks", "success", "flash.created")
}

func (h *TruckHandler) load(w http.ResponseWriter, r *http.Request, action gate.Action) (*models.Truck, bool) {
	t, err := h.API.GetTruck(r.Context(), r.PathValue("id"))
	if err != nil {
		h.backendFailed(w, r, err)
		return nil, false
	}
	if !h.allowed(w, r, action, policy.ResourceTruck, t) {
		return nil, false
	}
	return t, true
}

func (h *TruckHandler) Edit(w http.ResponseWriter, r *http.Request) {
	t, ok := h.load(w, r, gate.ActionView)
	if !ok {
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, t)
		return
	}
	h.renderForm(w, r, http.StatusOK, t.ID, models.TruckInput{
		Plate:      t.Plate,
		Brand:      t.Brand,
		Model:      t.Model,
		CapacityKg: t.CapacityKg,
		Status:     t.Status,
		DriverID:   t.DriverID,
		CompanyID:  t.CompanyID,
	}, nil, "")
}

func (h *TruckHandler) Update(w http.ResponseWriter, r *http.Request) {
	t, ok := h.load(w, r, gate.ActionUpdate)
	if !ok {
		return
	}
	in := truckFromForm(r)
	if in.CompanyID == "" {
		in.CompanyID = t.CompanyID
	}
	if in.CompanyID != t.CompanyID && !h.allowed(w, r, gate.ActionUpdate, policy.ResourceTruck, &models.Truck{CompanyID: in.CompanyID}) {
		return
	}
	v := validateTruck(in)
	if !v.Empty() {
		h.renderForm(w, r, http.StatusUnprocessableEntity, t.ID, in, v, "")
		return
	}
	updated, err := h.API.UpdateTruck(r.Context(), t.ID, in)
	if err != nil {
		if msg, ok := h.mutationFailed(w, r, err, v); ok {
			h.renderForm(w, r, http.StatusUnprocessableEntity, t.ID, in, v, msg)
		}
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, updated)
		return
	}
	redirectFlash(w, r, "/trucks", "success", "flash.updated")
}

func (h *TruckHandler) Delete(w http.ResponseWriter, r *http.Request) {
	t, ok := h.load(w, r, gate.ActionDelete)
	if !ok {
		return
	}
	if err := h.API.DeleteTruck(r.Context(), t.ID); err != nil {
		h.deleteFailed(w, r, err, "/trucks")
		return
	}
	redirectFlash(w, r, "/trucks", "success", "flash.deleted")
}
