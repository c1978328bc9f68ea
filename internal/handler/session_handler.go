package handler

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/socrates-echo-api/internal/dto"
	"github.com/noah-isme/socrates-echo-api/internal/service"
	"github.com/noah-isme/socrates-echo-api/internal/utils"
)

// SessionHandler exposes the session store of the calling workspace: login,
// registration, class joining, logout and language.
type SessionHandler struct {
	authenticator *service.Authenticator
	validator     *validator.Validate
	logger        zerolog.Logger
}

// NewSessionHandler constructs a handler instance.
func NewSessionHandler(authenticator *service.Authenticator, validate *validator.Validate, logger zerolog.Logger) *SessionHandler {
	if validate == nil {
		validate = validator.New(validator.WithRequiredStructEnabled())
	}
	return &SessionHandler{
		authenticator: authenticator,
		validator:     validate,
		logger:        logger.With().Str("component", "session_handler").Logger(),
	}
}

// Register binds the session routes. loginGuards run before the login handler.
func (h *SessionHandler) Register(router fiber.Router, loginGuards ...fiber.Handler) {
	router.Get("/", h.state)
	router.Post("/login", append(loginGuards, h.login)...)
	router.Post("/register", h.register)
	router.Post("/join-class", h.joinClass)
	router.Post("/logout", h.logout)
	router.Put("/language", h.language)
}

func (h *SessionHandler) state(c *fiber.Ctx) error {
	workspace, err := workspaceFromContext(c)
	if workspace == nil {
		return err
	}
	return utils.SendSuccess(c, "session state", workspace.State())
}

func (h *SessionHandler) login(c *fiber.Ctx) error {
	workspace, err := workspaceFromContext(c)
	if workspace == nil {
		return err
	}

	var payload dto.LoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validator.Struct(payload); err != nil {
		return respondError(c, h.logger, err)
	}

	future, err := workspace.Login(h.authenticator, payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	user, err := future.Wait(requestContext(c))
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return utils.SendSuccessWithStatus(c, fiber.StatusAccepted, "login pending", workspace.State())
	case err != nil:
		requestLogger(h.logger, c).Info().Err(err).Str("workspace_id", workspace.ID).Msg("login rejected")
		return respondError(c, h.logger, err)
	}

	requestLogger(h.logger, c).Info().Str("workspace_id", workspace.ID).Str("role", string(user.Role)).Msg("login succeeded")
	return utils.SendSuccess(c, "login successful", workspace.State())
}

func (h *SessionHandler) register(c *fiber.Ctx) error {
	workspace, err := workspaceFromContext(c)
	if workspace == nil {
		return err
	}

	var payload dto.RegisterRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	user, err := h.authenticator.Register(payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	if _, err := workspace.Authenticate(requestContext(c), user); err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "account created", workspace.State())
}

func (h *SessionHandler) joinClass(c *fiber.Ctx) error {
	workspace, err := workspaceFromContext(c)
	if workspace == nil {
		return err
	}

	var payload dto.JoinClassRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	user, err := h.authenticator.JoinClass(payload.Code)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	if _, err := workspace.Authenticate(requestContext(c), user); err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "joined class", workspace.State())
}

func (h *SessionHandler) logout(c *fiber.Ctx) error {
	workspace, err := workspaceFromContext(c)
	if workspace == nil {
		return err
	}

	workspace.Logout(requestContext(c))
	return utils.SendSuccess(c, "logged out", workspace.State())
}

func (h *SessionHandler) language(c *fiber.Ctx) error {
	workspace, err := workspaceFromContext(c)
	if workspace == nil {
		return err
	}

	var payload dto.LanguageRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	workspace.SetLanguage(requestContext(c), payload.Code)
	return utils.SendSuccess(c, "language updated", workspace.State())
}
