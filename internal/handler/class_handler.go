package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/socrates-echo-api/internal/dto"
	"github.com/noah-isme/socrates-echo-api/internal/service"
	"github.com/noah-isme/socrates-echo-api/internal/utils"
)

// ClassHandler serves teacher class-management helpers.
type ClassHandler struct {
	generate func() (string, error)
	logger   zerolog.Logger
}

// NewClassHandler constructs a handler instance.
func NewClassHandler(logger zerolog.Logger) *ClassHandler {
	return &ClassHandler{
		generate: service.GenerateInviteCode,
		logger:   logger.With().Str("component", "class_handler").Logger(),
	}
}

// Register binds the class routes. Callers guard them with the teacher role.
func (h *ClassHandler) Register(router fiber.Router) {
	router.Post("/invite-codes", h.createInviteCode)
}

func (h *ClassHandler) createInviteCode(c *fiber.Ctx) error {
	code, err := h.generate()
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "invite code generated", dto.InviteCodeResponse{Code: code})
}
