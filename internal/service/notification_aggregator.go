package service

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/socrates-echo-api/internal/models"
	"github.com/noah-isme/socrates-echo-api/internal/observability"
)

const (
	defaultMaxRetainedNotifications = 100
	defaultNotificationPreviewLimit = 5
	badgeLabelCap                   = 9
)

// NotificationFilter names one of the four notification views.
type NotificationFilter string

const (
	FilterAll          NotificationFilter = "all"
	FilterUnread       NotificationFilter = "unread"
	FilterAchievements NotificationFilter = "achievements"
	FilterSystem       NotificationFilter = "system"
)

// ParseNotificationFilter accepts the view names and their long aliases. An empty value
// means all.
func ParseNotificationFilter(value string) (NotificationFilter, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "all":
		return FilterAll, nil
	case "unread", "unread-only":
		return FilterUnread, nil
	case "achievements", "achievements-only":
		return FilterAchievements, nil
	case "system", "system-class":
		return FilterSystem, nil
	default:
		return "", &ValidationError{Field: "filter", Reason: "unknown notification filter " + strconv.Quote(value)}
	}
}

// Matches reports whether notification belongs to the view.
func (f NotificationFilter) Matches(notification models.Notification) bool {
	switch f {
	case FilterUnread:
		return !notification.Read
	case FilterAchievements:
		return notification.Category == models.CategoryAchievement
	case FilterSystem:
		return notification.Category.SystemClass()
	default:
		return true
	}
}

// NotificationCounts holds per-view totals for the filter tabs.
type NotificationCounts struct {
	All          int    `json:"all"`
	Unread       int    `json:"unread"`
	Achievements int    `json:"achievements"`
	System       int    `json:"system"`
	Badge        string `json:"badge"`
}

// NotificationInput is the producer-facing payload for Publish.
type NotificationInput struct {
	Title     string
	Message   string
	Category  models.NotificationCategory
	Priority  string
	CreatedAt time.Time
}

// NotificationListener observes aggregator mutations. Calls happen outside the
// aggregator lock.
type NotificationListener interface {
	NotificationAdded(notification models.Notification)
	NotificationsRead(ids []string)
}

// NotificationAggregatorConfig bounds the collection.
type NotificationAggregatorConfig struct {
	MaxRetained  int
	PreviewLimit int
}

type notificationEntry struct {
	notification models.Notification
}

// NotificationAggregator owns a notification collection and its derived views.
type NotificationAggregator struct {
	mu      sync.RWMutex
	entries []*notificationEntry
	index   map[string]*notificationEntry

	maxRetained  int
	previewLimit int
	listener     NotificationListener
	sanitizer    *bluemonday.Policy
	tracer       trace.Tracer
	logger       zerolog.Logger
	now          func() time.Time
}

// NewNotificationAggregator builds an empty aggregator. Zero config values take defaults.
func NewNotificationAggregator(cfg NotificationAggregatorConfig, logger zerolog.Logger) *NotificationAggregator {
	if cfg.MaxRetained <= 0 {
		cfg.MaxRetained = defaultMaxRetainedNotifications
	}
	if cfg.PreviewLimit <= 0 {
		cfg.PreviewLimit = defaultNotificationPreviewLimit
	}

	return &NotificationAggregator{
		index:        make(map[string]*notificationEntry),
		maxRetained:  cfg.MaxRetained,
		previewLimit: cfg.PreviewLimit,
		sanitizer:    bluemonday.StrictPolicy(),
		tracer:       otel.Tracer("github.com/noah-isme/socrates-echo-api/internal/service/notification"),
		logger:       logger.With().Str("component", "notification_aggregator").Logger(),
		now:          time.Now,
	}
}

// SetListener registers the observer notified on additions and reads.
func (a *NotificationAggregator) SetListener(listener NotificationListener) {
	a.mu.Lock()
	a.listener = listener
	a.mu.Unlock()
}

// Add inserts notification. Duplicate identifiers fail with ConflictError and leave the
// collection untouched. New entries always start unread.
func (a *NotificationAggregator) Add(notification models.Notification) (models.Notification, error) {
	normalized, err := a.normalize(notification)
	if err != nil {
		return models.Notification{}, err
	}

	a.mu.Lock()
	if _, exists := a.index[normalized.ID]; exists {
		a.mu.Unlock()
		return models.Notification{}, &ConflictError{Resource: "notification", ID: normalized.ID}
	}

	entry := &notificationEntry{notification: normalized}
	a.entries = append(a.entries, entry)
	a.index[normalized.ID] = entry
	evicted := a.enforceRetentionLocked()
	listener := a.listener
	a.mu.Unlock()

	if len(evicted) > 0 {
		a.logger.Debug().Strs("notification_ids", evicted).Int("max_retained", a.maxRetained).Msg("evicted notifications beyond retention")
	}
	observability.NotificationsAddedTotal().WithLabelValues(string(normalized.Category)).Inc()
	if listener != nil {
		listener.NotificationAdded(normalized)
	}

	return normalized, nil
}

// Publish assigns a fresh identifier to input and adds it.
func (a *NotificationAggregator) Publish(ctx context.Context, input NotificationInput) (models.Notification, error) {
	_, span := a.tracer.Start(ctx, "notifications.publish", trace.WithAttributes(
		attribute.String("notification.category", string(input.Category)),
	))
	defer span.End()

	priority, ok := models.ParsePriority(input.Priority)
	if !ok {
		err := &ValidationError{Field: "priority", Reason: "priority must be normal or high"}
		span.RecordError(err)
		return models.Notification{}, err
	}

	notification, err := a.Add(models.Notification{
		ID:        uuid.NewString(),
		Title:     input.Title,
		Message:   input.Message,
		Category:  input.Category,
		Priority:  priority,
		CreatedAt: input.CreatedAt,
	})
	if err != nil {
		span.RecordError(err)
		return models.Notification{}, err
	}
	return notification, nil
}

// MarkRead flags id as read. Already-read entries are left alone; unknown ids are
// logged and ignored. The return value reports whether id is known.
func (a *NotificationAggregator) MarkRead(id string) bool {
	id = strings.TrimSpace(id)

	a.mu.Lock()
	entry, ok := a.index[id]
	changed := ok && !entry.notification.Read
	if changed {
		entry.notification.Read = true
	}
	listener := a.listener
	a.mu.Unlock()

	if !ok {
		a.logger.Warn().Str("notification_id", id).Msg("mark read on unknown notification")
		return false
	}
	if changed {
		observability.NotificationsReadTotal().Add(1)
		if listener != nil {
			listener.NotificationsRead([]string{id})
		}
	}
	return true
}

// MarkAllRead flags every unread entry as read in one pass and returns how many changed.
func (a *NotificationAggregator) MarkAllRead() int {
	a.mu.Lock()
	changed := make([]string, 0)
	for _, entry := range a.entries {
		if !entry.notification.Read {
			entry.notification.Read = true
			changed = append(changed, entry.notification.ID)
		}
	}
	listener := a.listener
	a.mu.Unlock()

	if len(changed) > 0 {
		observability.NotificationsReadTotal().Add(float64(len(changed)))
		if listener != nil {
			listener.NotificationsRead(changed)
		}
	}
	return len(changed)
}

// UnreadCount scans the collection for unread entries.
func (a *NotificationAggregator) UnreadCount() int {
	a.mu.RLock()
	defer a.mu.RUnlock()

	count := 0
	for _, entry := range a.entries {
		if !entry.notification.Read {
			count++
		}
	}
	return count
}

// Len returns the number of retained notifications.
func (a *NotificationAggregator) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.entries)
}

// Get returns the notification with id.
func (a *NotificationAggregator) Get(id string) (models.Notification, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	entry, ok := a.index[strings.TrimSpace(id)]
	if !ok {
		return models.Notification{}, false
	}
	return entry.notification, true
}

// Filter returns the notifications in view, most recent first. Equal timestamps keep
// insertion order.
func (a *NotificationAggregator) Filter(view NotificationFilter) []models.Notification {
	a.mu.RLock()
	snapshot := make([]*notificationEntry, 0, len(a.entries))
	for _, entry := range a.entries {
		if view.Matches(entry.notification) {
			copied := *entry
			snapshot = append(snapshot, &copied)
		}
	}
	a.mu.RUnlock()

	sort.SliceStable(snapshot, func(i, j int) bool {
		return snapshot[i].notification.CreatedAt.After(snapshot[j].notification.CreatedAt)
	})

	out := make([]models.Notification, 0, len(snapshot))
	for _, entry := range snapshot {
		out = append(out, entry.notification)
	}
	return out
}

// Preview is Filter capped at the preview limit. The collection itself is not trimmed.
func (a *NotificationAggregator) Preview(view NotificationFilter) []models.Notification {
	all := a.Filter(view)
	if len(all) > a.previewLimit {
		return all[:a.previewLimit]
	}
	return all
}

// PreviewLimit returns the preview cap.
func (a *NotificationAggregator) PreviewLimit() int {
	return a.previewLimit
}

// Counts returns the totals shown on the filter tabs.
func (a *NotificationAggregator) Counts() NotificationCounts {
	a.mu.RLock()
	defer a.mu.RUnlock()

	counts := NotificationCounts{All: len(a.entries)}
	for _, entry := range a.entries {
		if FilterUnread.Matches(entry.notification) {
			counts.Unread++
		}
		if FilterAchievements.Matches(entry.notification) {
			counts.Achievements++
		}
		if FilterSystem.Matches(entry.notification) {
			counts.System++
		}
	}
	counts.Badge = BadgeLabel(counts.Unread)
	return counts
}

// BadgeLabel renders the unread badge text for the bell icon.
func BadgeLabel(unread int) string {
	switch {
	case unread <= 0:
		return ""
	case unread > badgeLabelCap:
		return strconv.Itoa(badgeLabelCap) + "+"
	default:
		return strconv.Itoa(unread)
	}
}

func (a *NotificationAggregator) normalize(notification models.Notification) (models.Notification, error) {
	notification.ID = strings.TrimSpace(notification.ID)
	if notification.ID == "" {
		return models.Notification{}, &ValidationError{Field: "id", Reason: "notification id is required"}
	}
	if !notification.Category.Valid() {
		return models.Notification{}, &ValidationError{Field: "category", Reason: "unknown notification category " + strconv.Quote(string(notification.Category))}
	}
	priority, ok := models.ParsePriority(string(notification.Priority))
	if !ok {
		return models.Notification{}, &ValidationError{Field: "priority", Reason: "priority must be normal or high"}
	}
	notification.Priority = priority

	notification.Title = strings.TrimSpace(a.sanitizer.Sanitize(notification.Title))
	notification.Message = strings.TrimSpace(a.sanitizer.Sanitize(notification.Message))
	if notification.Title == "" && notification.Message == "" {
		return models.Notification{}, &ValidationError{Field: "message", Reason: "notification is empty after sanitization"}
	}

	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = a.now()
	}
	notification.CreatedAt = notification.CreatedAt.UTC()
	notification.Read = false

	return notification, nil
}

func (a *NotificationAggregator) enforceRetentionLocked() []string {
	over := len(a.entries) - a.maxRetained
	if over <= 0 {
		return nil
	}

	evicted := make([]string, 0, over)
	for _, entry := range a.entries[:over] {
		delete(a.index, entry.notification.ID)
		evicted = append(evicted, entry.notification.ID)
	}
	a.entries = append([]*notificationEntry(nil), a.entries[over:]...)
	return evicted
}
