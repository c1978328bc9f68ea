package handler

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/socrates-echo-api/internal/middleware"
	"github.com/noah-isme/socrates-echo-api/internal/service"
	"github.com/noah-isme/socrates-echo-api/internal/utils"
)

func parseQueryInt(c *fiber.Ctx, key string) (int, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return 0, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	return parsed, nil
}

func parseQueryBool(c *fiber.Ctx, key string) (bool, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return false, nil
	}
	return strconv.ParseBool(value)
}

func requestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	logger := base
	if c != nil {
		if correlation := middleware.GetCorrelationID(c); correlation != "" {
			logger = base.With().Str("correlation_id", correlation).Logger()
		}
	}
	return &logger
}

func requestContext(c *fiber.Ctx) context.Context {
	ctx := c.UserContext()
	if ctx == nil {
		ctx = context.Background()
	}
	return middleware.ContextWithCorrelation(ctx, middleware.GetCorrelationID(c))
}

func workspaceFromContext(c *fiber.Ctx) (*service.Workspace, error) {
	workspace := middleware.GetWorkspace(c)
	if workspace == nil {
		return nil, utils.SendError(c, fiber.StatusUnauthorized, "workspace required")
	}
	return workspace, nil
}

// respondError maps service errors onto the response envelope.
func respondError(c *fiber.Ctx, logger zerolog.Logger, err error) error {
	var validationErr *service.ValidationError
	var conflictErr *service.ConflictError
	var validationErrors validator.ValidationErrors

	switch {
	case errors.As(err, &validationErr):
		return utils.Fail(c, fiber.StatusBadRequest, validationErr.Error(), fiber.Map{"field": validationErr.Field})
	case errors.As(err, &validationErrors):
		details := make([]fiber.Map, 0, len(validationErrors))
		for _, fieldErr := range validationErrors {
			details = append(details, fiber.Map{"field": fieldErr.Field(), "rule": fieldErr.Tag()})
		}
		return utils.Fail(c, fiber.StatusBadRequest, "invalid payload", details)
	case errors.As(err, &conflictErr):
		return utils.SendError(c, fiber.StatusConflict, conflictErr.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		return utils.SendError(c, fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrInvalidClassCode):
		return utils.Fail(c, fiber.StatusBadRequest, err.Error(), fiber.Map{"field": "code"})
	case errors.Is(err, service.ErrActionBusy):
		return utils.SendError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, service.ErrWorkspaceNotFound):
		return utils.SendError(c, fiber.StatusNotFound, err.Error())
	default:
		requestLogger(logger, c).Error().Err(err).Msg("request failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
