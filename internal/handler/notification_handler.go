package handler

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/socrates-echo-api/internal/dto"
	"github.com/noah-isme/socrates-echo-api/internal/models"
	"github.com/noah-isme/socrates-echo-api/internal/service"
	"github.com/noah-isme/socrates-echo-api/internal/utils"
)

// NotificationStreamer opens per-workspace event streams.
type NotificationStreamer interface {
	Subscribe(workspaceID string) (<-chan service.NotificationEvent, func())
}

// NotificationHandler manages the notification feed of a workspace and its SSE stream.
type NotificationHandler struct {
	streamer  NotificationStreamer
	validator *validator.Validate
	logger    zerolog.Logger
	keepAlive time.Duration
}

// NewNotificationHandler constructs a handler instance. streamer may be nil, in which
// case the stream endpoint is unavailable.
func NewNotificationHandler(streamer NotificationStreamer, validate *validator.Validate, logger zerolog.Logger, keepAlive time.Duration) *NotificationHandler {
	if validate == nil {
		validate = validator.New(validator.WithRequiredStructEnabled())
	}
	return &NotificationHandler{
		streamer:  streamer,
		validator: validate,
		logger:    logger.With().Str("component", "notification_handler").Logger(),
		keepAlive: keepAlive,
	}
}

// Register binds the notification routes.
func (h *NotificationHandler) Register(router fiber.Router) {
	router.Get("/", h.list)
	router.Get("/counts", h.counts)
	router.Get("/stream", h.stream)
	router.Post("/", h.create)
	router.Post("/read-all", h.markAllRead)
	router.Patch("/:id/read", h.markRead)
}

func (h *NotificationHandler) list(c *fiber.Ctx) error {
	workspace, err := workspaceFromContext(c)
	if workspace == nil {
		return err
	}

	filter, err := service.ParseNotificationFilter(c.Query("filter"))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	preview, err := parseQueryBool(c, "preview")
	if err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "invalid preview flag", fiber.Map{"field": "preview"})
	}

	var notifications []models.Notification
	limit := 0
	if preview {
		notifications = workspace.Notifications.Preview(filter)
		limit = workspace.Notifications.PreviewLimit()
	} else {
		notifications = workspace.Notifications.Filter(filter)
	}

	counts := workspace.Notifications.Counts()
	return utils.OK(c, dto.NotificationListResponse{
		Filter:  string(filter),
		Items:   dto.NewNotificationResponses(notifications),
		Total:   len(notifications),
		Preview: preview,
		Limit:   limit,
	}, "notifications", counts)
}

func (h *NotificationHandler) counts(c *fiber.Ctx) error {
	workspace, err := workspaceFromContext(c)
	if workspace == nil {
		return err
	}
	return utils.SendSuccess(c, "notification counts", workspace.Notifications.Counts())
}

func (h *NotificationHandler) create(c *fiber.Ctx) error {
	workspace, err := workspaceFromContext(c)
	if workspace == nil {
		return err
	}

	var payload dto.NotificationCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validator.Struct(payload); err != nil {
		return respondError(c, h.logger, err)
	}

	createdAt := time.Time{}
	if payload.CreatedAt != nil {
		createdAt = *payload.CreatedAt
	}
	category := models.NotificationCategory(strings.ToLower(strings.TrimSpace(payload.Category)))

	var notification models.Notification
	if strings.TrimSpace(payload.ID) == "" {
		notification, err = workspace.Notifications.Publish(requestContext(c), service.NotificationInput{
			Title:     payload.Title,
			Message:   payload.Message,
			Category:  category,
			Priority:  payload.Priority,
			CreatedAt: createdAt,
		})
	} else {
		notification, err = workspace.Notifications.Add(models.Notification{
			ID:        payload.ID,
			Title:     payload.Title,
			Message:   payload.Message,
			Category:  category,
			Priority:  models.NotificationPriority(payload.Priority),
			CreatedAt: createdAt,
		})
	}
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "notification added", dto.NewNotificationResponse(notification))
}

func (h *NotificationHandler) markRead(c *fiber.Ctx) error {
	workspace, err := workspaceFromContext(c)
	if workspace == nil {
		return err
	}

	id := strings.TrimSpace(c.Params("id"))
	if id == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "notification id required")
	}

	if !workspace.Notifications.MarkRead(id) {
		return utils.SendError(c, fiber.StatusNotFound, "notification not found")
	}

	notification, _ := workspace.Notifications.Get(id)
	return utils.SendSuccess(c, "notification updated", dto.NewNotificationResponse(notification))
}

func (h *NotificationHandler) markAllRead(c *fiber.Ctx) error {
	workspace, err := workspaceFromContext(c)
	if workspace == nil {
		return err
	}
	updated := workspace.Notifications.MarkAllRead()
	return utils.SendSuccess(c, "notifications updated", dto.MarkAllReadResponse{Updated: updated})
}

func (h *NotificationHandler) stream(c *fiber.Ctx) error {
	workspace, err := workspaceFromContext(c)
	if workspace == nil {
		return err
	}
	if h.streamer == nil {
		return utils.SendError(c, fiber.StatusServiceUnavailable, "notification stream unavailable")
	}

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	ctx, cancel := context.WithCancel(requestContext(c))
	events, cleanup := h.streamer.Subscribe(workspace.ID)
	logger := requestLogger(h.logger, c).With().Str("workspace_id", workspace.ID).Logger()

	keepAliveInterval := h.keepAlive
	if keepAliveInterval <= 0 {
		keepAliveInterval = 30 * time.Second
	}

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer func() {
			cleanup()
			cancel()
		}()

		if err := writeStreamEvent(w, "counts", workspace.Notifications.Counts()); err != nil {
			return
		}

		ticker := time.NewTicker(keepAliveInterval)
		defer ticker.Stop()

		for {
			select {
			case event, ok := <-events:
				if !ok {
					return
				}
				if err := writeStreamEvent(w, string(event.Kind), event); err != nil {
					logger.Debug().Err(err).Msg("failed to write notification event")
					return
				}
			case <-ticker.C:
				if err := writeKeepAlive(w); err != nil {
					logger.Debug().Err(err).Msg("failed to write notification keepalive")
					return
				}
			case <-ctx.Done():
				return
			}
		}
	})

	return nil
}

func writeStreamEvent(w *bufio.Writer, name string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "event: %s\n", name); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
		return err
	}
	return w.Flush()
}

func writeKeepAlive(w *bufio.Writer) error {
	if _, err := fmt.Fprintf(w, ": keep-alive %s\n\n", time.Now().UTC().Format(time.RFC3339)); err != nil {
		return err
	}
	return w.Flush()
}
