package models

import "time"

// NotificationTopic is a push-notification channel devices subscribe to.
type NotificationTopic struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Subscribers int    `json:"subscribers,omitempty"`
}

// Notification is a push notification sent through the backend.
type Notification struct {
	ID     string    `json:"id"`
	Topic  string    `json:"topic"`
	Title  string    `json:"title"`
	Body   string    `json:"body"`
	SentAt time.Time `json:"sent_at"`
	SentBy string    `json:"sent_by,omitempty"`
}

// NotificationInput is the dispatch payload.
type NotificationInput struct {
	Topic string `json:"topic" form:"topic" validate:"required"`
	Title string `json:"title" form:"title" validate:"required"`
	Body  string `json:"body" form:"body" validate:"required"`
}

// TopicInput creates a topic.
type TopicInput struct {
	Name        string `json:"name" form:"name" validate:"required"`
	Description string `json:"description,omitempty" form:"description"`
}
