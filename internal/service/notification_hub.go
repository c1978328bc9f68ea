package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/socrates-echo-api/internal/models"
	"github.com/noah-isme/socrates-echo-api/internal/observability"
)

const (
	notificationBufferSize = 16
	relayPublishTimeout    = 2 * time.Second
)

// NotificationEventKind distinguishes stream events.
type NotificationEventKind string

const (
	EventNotificationAdded NotificationEventKind = "notification.added"
	EventNotificationsRead NotificationEventKind = "notification.read"
)

// NotificationEvent is pushed to stream subscribers and relayed between nodes.
type NotificationEvent struct {
	Source       string                `json:"source"`
	WorkspaceID  string                `json:"workspace_id"`
	Kind         NotificationEventKind `json:"kind"`
	Notification *models.Notification  `json:"notification,omitempty"`
	IDs          []string              `json:"ids,omitempty"`
	SentAt       time.Time             `json:"sent_at"`
}

// NotificationHub fans aggregator events out to open streams and, when configured,
// relays them over Redis pub/sub and NATS.
type NotificationHub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan NotificationEvent]struct{}

	redis        *redis.Client
	redisChannel string
	nats         *nats.Conn
	natsSubject  string
	nodeID       string
	logger       zerolog.Logger
	now          func() time.Time
}

// NewNotificationHub constructs a hub. Empty channelBase disables relaying.
func NewNotificationHub(redisClient *redis.Client, natsConn *nats.Conn, channelBase string, logger zerolog.Logger) *NotificationHub {
	channel := ""
	subject := ""
	if channelBase != "" {
		channel = channelBase + ":notifications"
		subject = strings.ReplaceAll(channelBase, ":", ".") + ".notifications"
	}

	return &NotificationHub{
		subscribers:  make(map[string]map[chan NotificationEvent]struct{}),
		redis:        redisClient,
		redisChannel: channel,
		nats:         natsConn,
		natsSubject:  subject,
		nodeID:       uuid.NewString(),
		logger:       logger.With().Str("component", "notification_hub").Logger(),
		now:          time.Now,
	}
}

// Start consumes relayed events until ctx ends.
func (h *NotificationHub) Start(ctx context.Context) {
	if h.redis != nil && h.redisChannel != "" {
		go h.consumeRedis(ctx)
	}
	if h.nats != nil && h.natsSubject != "" {
		go h.consumeNATS(ctx)
	}
}

// Subscribe opens a stream for workspaceID. The returned func closes it.
func (h *NotificationHub) Subscribe(workspaceID string) (<-chan NotificationEvent, func()) {
	channel := make(chan NotificationEvent, notificationBufferSize)

	h.mu.Lock()
	if _, exists := h.subscribers[workspaceID]; !exists {
		h.subscribers[workspaceID] = make(map[chan NotificationEvent]struct{})
	}
	h.subscribers[workspaceID][channel] = struct{}{}
	h.mu.Unlock()
	observability.SSEClientsActive().Inc()

	cleanup := func() {
		if h.unsubscribe(workspaceID, channel) {
			observability.SSEClientsActive().Dec()
		}
	}
	return channel, cleanup
}

// Close drops every stream of workspaceID.
func (h *NotificationHub) Close(workspaceID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subscribers[workspaceID] {
		close(ch)
		observability.SSEClientsActive().Dec()
	}
	delete(h.subscribers, workspaceID)
}

// ListenerFor returns an aggregator listener bound to workspaceID.
func (h *NotificationHub) ListenerFor(workspaceID string) NotificationListener {
	return &workspaceNotificationListener{hub: h, workspaceID: workspaceID}
}

type workspaceNotificationListener struct {
	hub         *NotificationHub
	workspaceID string
}

func (l *workspaceNotificationListener) NotificationAdded(notification models.Notification) {
	l.hub.dispatch(NotificationEvent{
		WorkspaceID:  l.workspaceID,
		Kind:         EventNotificationAdded,
		Notification: &notification,
	})
}

func (l *workspaceNotificationListener) NotificationsRead(ids []string) {
	l.hub.dispatch(NotificationEvent{
		WorkspaceID: l.workspaceID,
		Kind:        EventNotificationsRead,
		IDs:         append([]string(nil), ids...),
	})
}

func (h *NotificationHub) dispatch(event NotificationEvent) {
	event.Source = h.nodeID
	event.SentAt = h.now().UTC()

	h.broadcast(event)
	if err := h.publish(event); err != nil {
		h.logger.Warn().Err(err).Str("workspace_id", event.WorkspaceID).Msg("failed to relay notification event")
	}
}

func (h *NotificationHub) publish(event NotificationEvent) error {
	if (h.redis == nil || h.redisChannel == "") && (h.nats == nil || h.natsSubject == "") {
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if h.redis != nil && h.redisChannel != "" {
		ctx, cancel := context.WithTimeout(context.Background(), relayPublishTimeout)
		defer cancel()
		if err := h.redis.Publish(ctx, h.redisChannel, payload).Err(); err != nil {
			return err
		}
	}

	if h.nats != nil && h.natsSubject != "" {
		if err := h.nats.Publish(h.natsSubject, payload); err != nil {
			return err
		}
	}

	return nil
}

func (h *NotificationHub) consumeRedis(ctx context.Context) {
	pubsub := h.redis.Subscribe(ctx, h.redisChannel)
	defer func() { _ = pubsub.Close() }()

	for {
		msg, err := pubsub.ReceiveMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			h.logger.Error().Err(err).Msg("notification redis subscription closed")
			return
		}
		h.handleRelayed([]byte(msg.Payload))
	}
}

func (h *NotificationHub) consumeNATS(ctx context.Context) {
	sub, err := h.nats.Subscribe(h.natsSubject, func(msg *nats.Msg) {
		h.handleRelayed(msg.Data)
	})
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to subscribe to nats notifications subject")
		return
	}

	go func() {
		<-ctx.Done()
		if err := sub.Drain(); err != nil {
			h.logger.Warn().Err(err).Msg("failed to drain notification nats subscription")
		}
	}()
}

func (h *NotificationHub) handleRelayed(payload []byte) {
	var event NotificationEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		h.logger.Warn().Err(err).Msg("invalid notification event payload")
		return
	}

	if event.Source == h.nodeID || event.WorkspaceID == "" {
		return
	}

	h.broadcast(event)
}

func (h *NotificationHub) unsubscribe(workspaceID string, ch chan NotificationEvent) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	subscribers, ok := h.subscribers[workspaceID]
	if !ok {
		return false
	}
	if _, present := subscribers[ch]; !present {
		return false
	}
	delete(subscribers, ch)
	close(ch)
	if len(subscribers) == 0 {
		delete(h.subscribers, workspaceID)
	}
	return true
}

func (h *NotificationHub) broadcast(event NotificationEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subscribers[event.WorkspaceID] {
		select {
		case ch <- event:
		default:
		}
	}
}
