package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/socrates-echo-api/internal/dto"
	"github.com/noah-isme/socrates-echo-api/internal/models"
	"github.com/noah-isme/socrates-echo-api/internal/service"
	"github.com/noah-isme/socrates-echo-api/internal/utils"
)

// NavigationHandler drives the view router and the role-based navigation chrome.
type NavigationHandler struct {
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewNavigationHandler constructs a handler instance.
func NewNavigationHandler(validate *validator.Validate, logger zerolog.Logger) *NavigationHandler {
	if validate == nil {
		validate = validator.New(validator.WithRequiredStructEnabled())
	}
	return &NavigationHandler{
		validator: validate,
		logger:    logger.With().Str("component", "navigation_handler").Logger(),
	}
}

// Register binds the navigation routes.
func (h *NavigationHandler) Register(router fiber.Router) {
	router.Get("/", h.resolve)
	router.Post("/navigate", h.navigate)
	router.Post("/sidebar/toggle", h.toggleSidebar)
	router.Get("/quick-actions", h.quickActions)
}

func (h *NavigationHandler) resolve(c *fiber.Ctx) error {
	workspace, err := workspaceFromContext(c)
	if workspace == nil {
		return err
	}

	viewport := service.ParseViewport(c.Query("viewport"))
	if c.Query("width") != "" {
		width, err := parseQueryInt(c, "width")
		if err != nil || width < 0 {
			return utils.Fail(c, fiber.StatusBadRequest, "invalid width", fiber.Map{"field": "width"})
		}
		viewport = service.ClassifyViewport(width)
	}

	resolved := workspace.Navigation(viewport)
	return utils.SendSuccess(c, "navigation resolved", dto.NavigationResponse{
		Role:     resolved.Role,
		Viewport: viewport,
		Layout:   resolved.Layout,
		Sidebar:  resolved.Sidebar,
		Mode:     resolved.Mode(),
		Title:    resolved.Title,
		Items:    resolved.Items,
	})
}

func (h *NavigationHandler) navigate(c *fiber.Ctx) error {
	workspace, err := workspaceFromContext(c)
	if workspace == nil {
		return err
	}

	var payload dto.NavigateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validator.Struct(payload); err != nil {
		return respondError(c, h.logger, err)
	}

	result := workspace.Navigate(payload.Route, payload.Params)
	message := "navigated"
	switch {
	case result.Redirected():
		message = "authentication required"
	case result.NotFound():
		message = "route not found"
	}

	return utils.SendSuccess(c, message, dto.NavigateResponse{
		Requested: result.Requested,
		Route:     result.Route,
		View:      result.View,
		Params:    result.Params,
		Outcome:   string(result.Outcome),
	})
}

func (h *NavigationHandler) toggleSidebar(c *fiber.Ctx) error {
	workspace, err := workspaceFromContext(c)
	if workspace == nil {
		return err
	}
	return utils.SendSuccess(c, "sidebar toggled", dto.SidebarResponse{Sidebar: workspace.ToggleSidebar()})
}

func (h *NavigationHandler) quickActions(c *fiber.Ctx) error {
	workspace, err := workspaceFromContext(c)
	if workspace == nil {
		return err
	}

	actions := workspace.QuickActions()
	if actions == nil {
		actions = []models.QuickAction{}
	}
	return utils.SendSuccess(c, "quick actions", actions)
}
