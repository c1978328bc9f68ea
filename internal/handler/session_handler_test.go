package handler_test

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/socrates-echo-api/internal/dto"
	"github.com/noah-isme/socrates-echo-api/internal/models"
)

func TestWorkspaceCreationStartsUnauthenticated(t *testing.T) {
	server := newTestServer(t)
	workspace := server.createWorkspace(t)

	require.NotEmpty(t, workspace.WorkspaceID)
	require.False(t, workspace.Session.Authenticated)
	require.Equal(t, models.RouteAuthentication, workspace.Session.Route)
	require.Equal(t, "pt", workspace.Session.Language)
	require.Equal(t, 1, server.registry.Len())
}

func TestSessionRequiresToken(t *testing.T) {
	server := newTestServer(t)

	resp := server.do(t, http.MethodGet, "/api/v1/session", "", nil)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestSessionLoginLandsOnRoleDashboard(t *testing.T) {
	server := newTestServer(t)
	workspace := server.createWorkspace(t)

	resp := server.do(t, http.MethodPost, "/api/v1/session/login", workspace.Token, dto.LoginRequest{
		Email:    "professor@teste.com",
		Password: "123456",
		Role:     "teacher",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body envelope[dto.SessionResponse]
	decodeResponse(t, resp, &body)
	require.True(t, body.Data.Authenticated)
	require.Equal(t, models.RoleTeacher, body.Data.User.Role)
	require.Equal(t, models.RouteTeacherDashboard, body.Data.Route)
	require.False(t, body.Data.LoginPending)
}

func TestSessionLoginRejectsWrongCredentials(t *testing.T) {
	server := newTestServer(t)
	workspace := server.createWorkspace(t)

	resp := server.do(t, http.MethodPost, "/api/v1/session/login", workspace.Token, dto.LoginRequest{
		Email:    "aluno@teste.com",
		Password: "wrong",
		Role:     "student",
	})
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = server.do(t, http.MethodGet, "/api/v1/session", workspace.Token, nil)
	var body envelope[dto.SessionResponse]
	decodeResponse(t, resp, &body)
	require.False(t, body.Data.Authenticated)
}

func TestSessionLoginValidatesPayload(t *testing.T) {
	server := newTestServer(t)
	workspace := server.createWorkspace(t)

	resp := server.do(t, http.MethodPost, "/api/v1/session/login", workspace.Token, dto.LoginRequest{
		Email:    "not-an-email",
		Password: "123456",
		Role:     "admin",
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestSessionRegisterTeacherNeedsSchool(t *testing.T) {
	server := newTestServer(t)
	workspace := server.createWorkspace(t)

	payload := dto.RegisterRequest{
		FullName:        "Maria Souza",
		Email:           "maria@escola.com",
		Password:        "segredo",
		ConfirmPassword: "segredo",
		Role:            "teacher",
	}
	resp := server.do(t, http.MethodPost, "/api/v1/session/register", workspace.Token, payload)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	payload.SchoolAffiliation = "Escola Estadual"
	resp = server.do(t, http.MethodPost, "/api/v1/session/register", workspace.Token, payload)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var body envelope[dto.SessionResponse]
	decodeResponse(t, resp, &body)
	require.Equal(t, "Maria Souza", body.Data.User.Name)
	require.Equal(t, models.RouteTeacherDashboard, body.Data.Route)
}

func TestSessionJoinClassAsGuest(t *testing.T) {
	server := newTestServer(t)
	workspace := server.createWorkspace(t)

	resp := server.do(t, http.MethodPost, "/api/v1/session/join-class", workspace.Token, dto.JoinClassRequest{Code: "abc12"})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = server.do(t, http.MethodPost, "/api/v1/session/join-class", workspace.Token, dto.JoinClassRequest{Code: "abc123"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body envelope[dto.SessionResponse]
	decodeResponse(t, resp, &body)
	require.Equal(t, models.RoleStudent, body.Data.User.Role)
	require.Equal(t, "ABC123", body.Data.User.JoinedClass)
	require.Equal(t, models.RouteStudentDashboard, body.Data.Route)
}

func TestSessionLogoutAndLanguage(t *testing.T) {
	server := newTestServer(t)
	workspace := server.createWorkspace(t)
	server.login(t, workspace.Token, "aluno@teste.com", "student")

	resp := server.do(t, http.MethodPut, "/api/v1/session/language", workspace.Token, dto.LanguageRequest{Code: "xx"})
	var body envelope[dto.SessionResponse]
	decodeResponse(t, resp, &body)
	require.Equal(t, "pt", body.Data.Language)

	resp = server.do(t, http.MethodPut, "/api/v1/session/language", workspace.Token, dto.LanguageRequest{Code: "es"})
	decodeResponse(t, resp, &body)
	require.Equal(t, "es", body.Data.Language)

	resp = server.do(t, http.MethodPost, "/api/v1/session/logout", workspace.Token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var loggedOut envelope[dto.SessionResponse]
	decodeResponse(t, resp, &loggedOut)
	require.False(t, loggedOut.Data.Authenticated)
	require.Nil(t, loggedOut.Data.User)
	require.Equal(t, models.RouteAuthentication, loggedOut.Data.Route)
}

func TestHealthReportsWorkspaces(t *testing.T) {
	server := newTestServer(t)
	server.createWorkspace(t)

	resp := server.do(t, http.MethodGet, "/api/v1/health", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body envelope[struct {
		Status     string `json:"status"`
		Workspaces int    `json:"workspaces"`
	}]
	decodeResponse(t, resp, &body)
	require.Equal(t, "ok", body.Data.Status)
	require.Equal(t, 1, body.Data.Workspaces)
}
