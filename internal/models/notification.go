package models

import (
	"strings"
	"time"
)

// NotificationCategory classifies a notification for filtering and iconography.
type NotificationCategory string

const (
	CategoryAchievement NotificationCategory = "achievement"
	CategorySystem      NotificationCategory = "system"
	CategoryMessage     NotificationCategory = "message"
	CategoryAssignment  NotificationCategory = "assignment"
	CategoryReminder    NotificationCategory = "reminder"
	CategorySuccess     NotificationCategory = "success"
	CategoryWarning     NotificationCategory = "warning"
	CategoryError       NotificationCategory = "error"
)

var categoryIcons = map[NotificationCategory]string{
	CategoryAchievement: "Trophy",
	CategorySystem:      "Bell",
	CategoryMessage:     "MessageCircle",
	CategoryAssignment:  "BookOpen",
	CategoryReminder:    "Clock",
	CategorySuccess:     "CheckCircle",
	CategoryWarning:     "AlertTriangle",
	CategoryError:       "AlertCircle",
}

// Valid reports whether the category is recognised.
func (c NotificationCategory) Valid() bool {
	_, ok := categoryIcons[c]
	return ok
}

// Icon returns the icon reference for the category, defaulting to a bell.
func (c NotificationCategory) Icon() string {
	if icon, ok := categoryIcons[c]; ok {
		return icon
	}
	return "Bell"
}

// SystemClass reports whether the category belongs to the "system" filter tab.
func (c NotificationCategory) SystemClass() bool {
	return c == CategorySystem || c == CategoryAssignment || c == CategoryReminder
}

// NotificationPriority marks notifications that deserve emphasis.
type NotificationPriority string

const (
	PriorityNormal NotificationPriority = "normal"
	PriorityHigh   NotificationPriority = "high"
)

// ParsePriority normalises a priority, defaulting to normal.
func ParsePriority(value string) (NotificationPriority, bool) {
	switch NotificationPriority(strings.ToLower(strings.TrimSpace(value))) {
	case "", PriorityNormal:
		return PriorityNormal, true
	case PriorityHigh:
		return PriorityHigh, true
	default:
		return "", false
	}
}

// Notification is an in-memory unread/read record surfaced by the bell icon.
type Notification struct {
	ID        string               `json:"id"`
	Title     string               `json:"title"`
	Message   string               `json:"message"`
	Category  NotificationCategory `json:"category"`
	Read      bool                 `json:"read"`
	CreatedAt time.Time            `json:"created_at"`
	Priority  NotificationPriority `json:"priority"`
}
