package dto

import (
	"time"

	"github.com/noah-isme/socrates-echo-api/internal/models"
)

// NotificationCreateRequest adds a notification to the workspace feed. An empty ID is
// generated server side.
type NotificationCreateRequest struct {
	ID        string     `json:"id" validate:"omitempty,max=64"`
	Title     string     `json:"title" validate:"max=256"`
	Message   string     `json:"message" validate:"max=2048"`
	Category  string     `json:"category" validate:"required"`
	Priority  string     `json:"priority" validate:"omitempty,oneof=normal high"`
	CreatedAt *time.Time `json:"created_at"`
}

// NotificationResponse is a notification with its presentation icon.
type NotificationResponse struct {
	models.Notification
	Icon string `json:"icon"`
}

// NotificationListResponse is a filtered notification view.
type NotificationListResponse struct {
	Filter  string                 `json:"filter"`
	Items   []NotificationResponse `json:"items"`
	Total   int                    `json:"total"`
	Preview bool                   `json:"preview"`
	Limit   int                    `json:"limit,omitempty"`
}

// MarkAllReadResponse reports how many notifications changed state.
type MarkAllReadResponse struct {
	Updated int `json:"updated"`
}

// NewNotificationResponse decorates a notification with its icon.
func NewNotificationResponse(notification models.Notification) NotificationResponse {
	return NotificationResponse{Notification: notification, Icon: notification.Category.Icon()}
}

// NewNotificationResponses decorates a list of notifications.
func NewNotificationResponses(notifications []models.Notification) []NotificationResponse {
	items := make([]NotificationResponse, 0, len(notifications))
	for _, notification := range notifications {
		items = append(items, NewNotificationResponse(notification))
	}
	return items
}
