package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/socrates-echo-api/internal/service"
	"github.com/noah-isme/socrates-echo-api/internal/utils"
)

const workspaceLocalKey = "workspace"

// WorkspaceAuth resolves the bearer token to a live workspace and exposes it, with the
// session's current user and role, through the request locals.
func WorkspaceAuth(issuer *service.TokenIssuer, registry *service.WorkspaceRegistry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authorization := c.Get(fiber.HeaderAuthorization)
		if authorization == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "authorization header missing")
		}

		const bearer = "Bearer "
		if len(authorization) < len(bearer) || !strings.EqualFold(authorization[:len(bearer)], bearer) {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid authorization header")
		}

		tokenString := strings.TrimSpace(authorization[len(bearer):])
		if tokenString == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		claims, err := issuer.Parse(tokenString)
		if err != nil {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		workspace, err := registry.Get(claims.Subject)
		if err != nil {
			return utils.SendError(c, fiber.StatusUnauthorized, "workspace expired")
		}

		c.Locals(workspaceLocalKey, workspace)
		if user, ok := workspace.Session.CurrentUser(); ok {
			c.Locals("user_id", user.ID)
			c.Locals("user_role", string(user.Role))
		}

		return c.Next()
	}
}

// WithWorkspace stores workspace in the request locals. Used by tests and by handlers
// that create a workspace within the request.
func WithWorkspace(c *fiber.Ctx, workspace *service.Workspace) {
	c.Locals(workspaceLocalKey, workspace)
}

// GetWorkspace returns the workspace bound to the request.
func GetWorkspace(c *fiber.Ctx) *service.Workspace {
	if c == nil {
		return nil
	}
	if workspace, ok := c.Locals(workspaceLocalKey).(*service.Workspace); ok {
		return workspace
	}
	return nil
}
