package handlers

import (
	"net/http"
	"sort"

	"github.com/diewo77/stock-admin/gate"
	"github.com/diewo77/stock-admin/httpx"
	"github.com/diewo77/stock-admin/internal/models"
	"github.com/diewo77/stock-admin/internal/policy"
	"github.com/diewo77/stock-admin/validation"
)

// NotificationHandler manages push topics and sends notifications.
type NotificationHandler struct {
	Base
}

func NewNotificationHandler(b Base) *NotificationHandler {
	return &NotificationHandler{Base: b}
}

const recentNotifications = 20

// page renders the topics, the send form and the recent notifications.
// Forms carry what the user typed when re-rendered after an error.
func (h *NotificationHandler) page(w http.ResponseWriter, r *http.Request, status int, topic models.TopicInput, msg models.NotificationInput, v validation.Violations, errMsg string) {
	ctx := r.Context()
	topics, err := h.API.ListTopics(ctx)
	if err != nil {
		h.backendFailed(w, r, err)
		return
	}
	var recent []models.Notification
	if h.Gate.CanProfile(ctx, gate.ActionList, policy.ResourceNotification) {
		if recent, err = h.API.ListNotifications(ctx); err != nil {
			logFor(r).Warn().Err(err).Msg("recent notifications")
		}
		sort.SliceStable(recent, func(i, j int) bool { return recent[i].SentAt.After(recent[j].SentAt) })
		if len(recent) > recentNotifications {
			recent = recent[:recentNotifications]
		}
	}
	if httpx.WantsJSON(r) {
		if !v.Empty() {
			httpx.JSONError(w, status, "validation_failed", v)
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]any{"topics": topics, "recent": recent})
		return
	}
	data := map[string]any{
		"Topics":  topics,
		"Recent":  recent,
		"Topic":   topic,
		"Message": msg,
		"Errors":  v,
	}
	if errMsg != "" {
		data["Error"] = errMsg
	}
	renderStatus(w, r, status, "notifications/index.html", data)
}

func (h *NotificationHandler) Index(w http.ResponseWriter, r *http.Request) {
	h.page(w, r, http.StatusOK, models.TopicInput{}, models.NotificationInput{}, validation.Violations{}, "")
}

func (h *NotificationHandler) CreateTopic(w http.ResponseWriter, r *http.Request) {
	in := models.TopicInput{Name: formString(r, "name"), Description: formString(r, "description")}
	v := validation.Struct(in)
	if !v.Empty() {
		h.page(w, r, http.StatusUnprocessableEntity, in, models.NotificationInput{}, v, "")
		return
	}
	if _, err := h.API.CreateTopic(r.Context(), in); err != nil {
		if msg, ok := h.mutationFailed(w, r, err, v); ok {
			h.page(w, r, http.StatusUnprocessableEntity, in, models.NotificationInput{}, v, msg)
		}
		return
	}
	redirectFlash(w, r, "/notifications", "success", "flash.created")
}

func (h *NotificationHandler) DeleteTopic(w http.ResponseWriter, r *http.Request) {
	if err := h.API.DeleteTopic(r.Context(), r.PathValue("id")); err != nil {
		h.deleteFailed(w, r, err, "/notifications")
		return
	}
	redirectFlash(w, r, "/notifications", "success", "flash.deleted")
}

func (h *NotificationHandler) Send(w http.ResponseWriter, r *http.Request) {
	in := models.NotificationInput{Topic: formString(r, "topic"), Title: formString(r, "title"), Body: formString(r, "body")}
	v := validation.Struct(in)
	if !v.Empty() {
		h.page(w, r, http.StatusUnprocessableEntity, models.TopicInput{}, in, v, "")
		return
	}
	if err := h.API.SendNotification(r.Context(), in); err != nil {
		if msg, ok := h.mutationFailed(w, r, err, v); ok {
			h.page(w, r, http.StatusUnprocessableEntity, models.TopicInput{}, in, v, msg)
		}
		return
	}
	logFor(r).Info().Str("topic", in.Topic).Msg("notification sent")
	redirectFlash(w, r, "/notifications", "success", "flash.notification_sent")
}
