package handlers

import (
	"net/http"
	"time"

	"github.com/diewo77/stock-admin/gate"
	"github.com/diewo77/stock-admin/httpx"
	"github.com/diewo77/stock-admin/internal/listing"
	"github.com/diewo77/stock-admin/internal/models"
	"github.com/diewo77/stock-admin/internal/policy"
	"github.com/diewo77/stock-admin/validation"
)

// DriverHandler serves the "chauffeurs" screens.
type DriverHandler struct {
	Base
	now func() time.Time
}

func NewDriverHandler(b Base) *DriverHandler {
	return &DriverHandler{Base: b, now: time.Now}
}

var driverTabs = listing.NewTabs(models.DriverStatuses...)

func (h *DriverHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := listing.ParseQuery(r.URL.Query())
	drivers, err := h.API.ListDrivers(ctx)
	if err != nil {
		h.backendFailed(w, r, err)
		return
	}
	drivers = visible(ctx, h.Gate, policy.ResourceDriver, drivers)
	rows := listing.Filter(drivers, q, func(d models.Driver) []string {
		return []string{d.Name, d.Phone, d.LicenseNumber}
	}, nil)
	tab := driverTabs.Resolve(q.Tab)
	counts := listing.Count(rows, driverTabs, func(d models.Driver) string { return d.Status })
	rows = listing.Where(rows, func(d models.Driver) bool { return tab.Matches(d.Status) })
	page := listing.Paginate(rows, q)

	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{"items": page.Items, "total": page.Total, "page": page.Page, "pages": page.Pages})
		return
	}
	expired := make(map[string]bool)
	for _, d := range page.Items {
		if d.LicenseExpired(h.now()) {
			expired[d.ID] = true
		}
	}
	render(w, r, "drivers/index.html", map[string]any{
		"Page":    page,
		"Query":   q,
		"Tabs":    driverTabs,
		"Tab":     tab,
		"Counts":  counts,
		"Expired": expired,
	})
}

func (h *DriverHandler) renderForm(w http.ResponseWriter, r *http.Request, status int, id string, in models.DriverInput, v validation.Violations, msg string) {
	if httpx.WantsJSON(r) {
		httpx.JSONError(w, status, "validation_failed", v)
		return
	}
	trucks, err := h.API.ListTrucks(r.Context())
	if err != nil {
		logFor(r).Warn().Err(err).Msg("trucks for driver form")
	}
	expiry := ""
	if in.LicenseExpiry != nil {
		expiry = in.LicenseExpiry.Format(time.DateOnly)
	}
	data := map[string]any{
		"ID":            id,
		"Driver":        in,
		"LicenseExpiry": expiry,
		"Statuses":      models.DriverStatuses,
		"Trucks":        visible(r.Context(), h.Gate, policy.ResourceTruck, trucks),
		"Errors":        v,
	}
	if msg != "" {
		data["Error"] = msg
	}
	renderStatus(w, r, status, "drivers/form.html", data)
}

// driverFromForm also reports a malformed license expiry date.
func driverFromForm(r *http.Request) (models.DriverInput, bool) {
	in := models.DriverInput{
		Name:          formString(r, "name"),
		Phone:         formString(r, "phone"),
		LicenseNumber: formString(r, "license_number"),
		Status:        formString(r, "status"),
		TruckID:       formString(r, "truck_id"),
		CompanyID:     formString(r, "company_id"),
	}
	raw := formString(r, "license_expiry")
	if raw == "" {
		return in, true
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return in, false
	}
	in.LicenseExpiry = &t
	return in, true
}

func validateDriver(in models.DriverInput, expiryOK bool) validation.Violations {
	v := validation.Struct(in)
	if !expiryOK {
		v.Add("license_expiry", "invalid_date")
	}
	return v
}

func (h *DriverHandler) New(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, http.StatusOK, "", models.DriverInput{Status: models.DriverAvailable}, nil, "")
}

func (h *DriverHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, expiryOK := driverFromForm(r)
	if in.CompanyID == "" {
		in.CompanyID = sessionCompany(r)
	}
	if !h.allowed(w, r, gate.ActionCreate, policy.ResourceDriver, &models.Driver{CompanyID: in.CompanyID}) {
		return
	}
	v := validateDriver(in, expiryOK)
	if !v.Empty() {
		h.renderForm(w, r, http.StatusUnprocessableEntity, "", in, v, "")
		return
	}
	d, err := h.API.CreateDriver(r.Context(), in)
	if err != nil {
		if msg, ok := h.mutationFailed(w, r, err, v); ok {
			h.renderForm(w, r, http.StatusUnprocessableEntity, "", in, v, msg)
		}
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusCreated, d)
		return
	}
	redirectFlash(w, r, "/drivers", "success", "flash.created")
}

func (h *DriverHandler) load(w http.ResponseWriter, r *http.Request, action gate.Action) (*models.Driver, bool) {
	d, err := h.API.GetDriver(r.Context(), r.PathValue("id"))
	if err != nil {
		h.backendFailed(w, r, err)
		return nil, false
	}
	if !h.allowed(w, r, action, policy.ResourceDriver, d) {
		return nil, false
	}
	return d, true
}

func (h *DriverHandler) Edit(w http.ResponseWriter, r *http.Request) {
	d, ok := h.load(w, r, gate.ActionView)
	if !ok {
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, d)
		return
	}
	h.renderForm(w, r, http.StatusOK, d.ID, models.DriverInput{
		Name:          d.Name,
		Phone:         d.Phone,
		LicenseNumber: d.LicenseNumber,
		LicenseExpiry: d.LicenseExpiry,
		Status:        d.Status,
		TruckID:       d.TruckID,
		CompanyID:     d.CompanyID,
	}, nil, "")
}

func (h *DriverHandler) Update(w http.ResponseWriter, r *http.Request) {
	d, ok := h.load(w, r, gate.ActionUpdate)
	if !ok {
		return
	}
	in, expiryOK := driverFromForm(r)
	if in.CompanyID == "" {
		in.CompanyID = d.CompanyID
	}
	if in.CompanyID != d.CompanyID && !h.allowed(w, r, gate.ActionUpdate, policy.ResourceDriver, &models.Driver{CompanyID: in.CompanyID}) {
		return
	}
	v := validateDriver(in, expiryOK)
	if !v.Empty() {
		h.renderForm(w, r, http.StatusUnprocessableEntity, d.ID, in, v, "")
		return
	}
	updated, err := h.API.UpdateDriver(r.Context(), d.ID, in)
	if err != nil {
		if msg, ok := h.mutationFailed(w, r, err, v); ok {
			h.renderForm(w, r, http.StatusUnprocessableEntity, d.ID, in, v, msg)
		}
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, updated)
		return
	}
	redirectFlash(w, r, "/drivers", "success", "flash.updated")
}

func (h *DriverHandler) Delete(w http.ResponseWriter, r *http.Request) {
	d, ok := h.load(w, r, gate.ActionDelete)
	if !ok {
		return
	}
	if err := h.API.DeleteDriver(r.Context(), d.ID); err != nil {
		h.deleteFailed(w, r, err, "/drivers")
		return
	}
	redirectFlash(w, r, "/drivers", "success", "flash.deleted")
}
