package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/socrates-echo-api/internal/dto"
	"github.com/noah-isme/socrates-echo-api/internal/service"
	"github.com/noah-isme/socrates-echo-api/internal/utils"
)

// WorkspaceHandler creates client instances and hands out their tokens.
type WorkspaceHandler struct {
	registry  *service.WorkspaceRegistry
	issuer    *service.TokenIssuer
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewWorkspaceHandler constructs a handler instance.
func NewWorkspaceHandler(registry *service.WorkspaceRegistry, issuer *service.TokenIssuer, validate *validator.Validate, logger zerolog.Logger) *WorkspaceHandler {
	if validate == nil {
		validate = validator.New(validator.WithRequiredStructEnabled())
	}
	return &WorkspaceHandler{
		registry:  registry,
		issuer:    issuer,
		validator: validate,
		logger:    logger.With().Str("component", "workspace_handler").Logger(),
	}
}

// Register binds the workspace routes.
func (h *WorkspaceHandler) Register(router fiber.Router) {
	router.Post("/", h.create)
}

func (h *WorkspaceHandler) create(c *fiber.Ctx) error {
	var payload dto.CreateWorkspaceRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&payload); err != nil {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
		}
	}
	if err := h.validator.Struct(payload); err != nil {
		return respondError(c, h.logger, err)
	}

	workspace, err := h.registry.Create(requestContext(c), payload.ClientKey)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	token, err := h.issuer.Issue(workspace)
	if err != nil {
		h.registry.Remove(workspace.ID)
		return respondError(c, h.logger, err)
	}

	requestLogger(h.logger, c).Info().Str("workspace_id", workspace.ID).Msg("workspace created")
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "workspace created", dto.WorkspaceResponse{
		WorkspaceID: workspace.ID,
		Token:       token,
		Session:     workspace.State(),
	})
}
