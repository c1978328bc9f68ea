package handler_test

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/socrates-echo-api/internal/dto"
	"github.com/noah-isme/socrates-echo-api/internal/models"
)

func TestNavigateRedirectsWhenUnauthenticated(t *testing.T) {
	server := newTestServer(t)
	workspace := server.createWorkspace(t)

	resp := server.do(t, http.MethodPost, "/api/v1/navigation/navigate", workspace.Token, dto.NavigateRequest{Route: models.RouteTrails})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body envelope[dto.NavigateResponse]
	decodeResponse(t, resp, &body)
	require.Equal(t, "redirected", body.Data.Outcome)
	require.Equal(t, models.RouteAuthentication, body.Data.Route)
	require.Equal(t, "authentication required", body.Message)
}

func TestNavigateKeepsParamsAndReportsUnknownRoutes(t *testing.T) {
	server := newTestServer(t)
	workspace := server.createWorkspace(t)
	server.login(t, workspace.Token, "aluno@teste.com", "student")

	resp := server.do(t, http.MethodPost, "/api/v1/navigation/navigate", workspace.Token, dto.NavigateRequest{
		Route:  models.RouteJourney,
		Params: map[string]string{"topic": "ethics"},
	})
	var body envelope[dto.NavigateResponse]
	decodeResponse(t, resp, &body)
	require.Equal(t, "navigated", body.Data.Outcome)
	require.Equal(t, "ethics", body.Data.Params["topic"])

	resp = server.do(t, http.MethodPost, "/api/v1/navigation/navigate", workspace.Token, dto.NavigateRequest{Route: "/nowhere"})
	var missing envelope[dto.NavigateResponse]
	decodeResponse(t, resp, &missing)
	require.Equal(t, "not_found", missing.Data.Outcome)
	require.Equal(t, models.ViewNotFound, missing.Data.View)
}

func TestNavigateRequiresRoute(t *testing.T) {
	server := newTestServer(t)
	workspace := server.createWorkspace(t)

	resp := server.do(t, http.MethodPost, "/api/v1/navigation/navigate", workspace.Token, dto.NavigateRequest{})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestResolveNavigationByViewport(t *testing.T) {
	server := newTestServer(t)
	workspace := server.createWorkspace(t)

	resp := server.do(t, http.MethodGet, "/api/v1/navigation?viewport=narrow", workspace.Token, nil)
	var anonymous envelope[dto.NavigationResponse]
	decodeResponse(t, resp, &anonymous)
	require.Equal(t, models.LayoutNone, anonymous.Data.Layout)
	require.Empty(t, anonymous.Data.Items)

	server.login(t, workspace.Token, "professor@teste.com", "teacher")

	resp = server.do(t, http.MethodGet, "/api/v1/navigation?width=375", workspace.Token, nil)
	var narrow envelope[dto.NavigationResponse]
	decodeResponse(t, resp, &narrow)
	require.Equal(t, models.ViewportNarrow, narrow.Data.Viewport)
	require.Equal(t, models.LayoutAccordion, narrow.Data.Layout)
	require.Len(t, narrow.Data.Items, 3)
	require.Equal(t, models.RouteTeacherDashboard, narrow.Data.Items[0].Route)
	require.True(t, narrow.Data.Items[0].Active)

	resp = server.do(t, http.MethodGet, "/api/v1/navigation?width=1440", workspace.Token, nil)
	var wide envelope[dto.NavigationResponse]
	decodeResponse(t, resp, &wide)
	require.Equal(t, models.LayoutSidebar, wide.Data.Layout)
	require.Equal(t, models.SidebarExpanded, wide.Data.Sidebar)

	resp = server.do(t, http.MethodGet, "/api/v1/navigation?width=abc", workspace.Token, nil)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestToggleSidebarAndQuickActions(t *testing.T) {
	server := newTestServer(t)
	workspace := server.createWorkspace(t)

	resp := server.do(t, http.MethodGet, "/api/v1/navigation/quick-actions", workspace.Token, nil)
	var none envelope[[]models.QuickAction]
	decodeResponse(t, resp, &none)
	require.Empty(t, none.Data)

	server.login(t, workspace.Token, "aluno@teste.com", "student")

	resp = server.do(t, http.MethodPost, "/api/v1/navigation/sidebar/toggle", workspace.Token, nil)
	var toggled envelope[dto.SidebarResponse]
	decodeResponse(t, resp, &toggled)
	require.Equal(t, models.SidebarCollapsed, toggled.Data.Sidebar)

	resp = server.do(t, http.MethodGet, "/api/v1/navigation/quick-actions", workspace.Token, nil)
	var actions envelope[[]models.QuickAction]
	decodeResponse(t, resp, &actions)
	require.Len(t, actions.Data, 3)
}

func TestInviteCodesAreTeacherOnly(t *testing.T) {
	server := newTestServer(t)
	student := server.createWorkspace(t)
	server.login(t, student.Token, "aluno@teste.com", "student")

	resp := server.do(t, http.MethodPost, "/api/v1/classes/invite-codes", student.Token, nil)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	teacher := server.createWorkspace(t)
	server.login(t, teacher.Token, "professor@teste.com", "teacher")

	resp = server.do(t, http.MethodPost, "/api/v1/classes/invite-codes", teacher.Token, nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var body envelope[dto.InviteCodeResponse]
	decodeResponse(t, resp, &body)
	require.Regexp(t, "^[A-Z0-9]{6}$", body.Data.Code)
}
