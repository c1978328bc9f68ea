package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/socrates-echo-api/internal/config"
	"github.com/noah-isme/socrates-echo-api/internal/dto"
	"github.com/noah-isme/socrates-echo-api/internal/handler"
	"github.com/noah-isme/socrates-echo-api/internal/middleware"
	"github.com/noah-isme/socrates-echo-api/internal/router"
	"github.com/noah-isme/socrates-echo-api/internal/service"
)

type testServer struct {
	app      *fiber.App
	registry *service.WorkspaceRegistry
	hub      *service.NotificationHub
}

type envelope[T any] struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    T               `json:"data"`
	Meta    json.RawMessage `json:"meta"`
	Details json.RawMessage `json:"details"`
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := zerolog.New(io.Discard)
	validate := validator.New(validator.WithRequiredStructEnabled())

	hub := service.NewNotificationHub(nil, nil, "", logger)
	registry := service.NewWorkspaceRegistry(service.WorkspaceRegistryConfig{
		LoginLatency: 10 * time.Millisecond,
	}, nil, hub, validate, logger)

	authenticator, err := service.NewAuthenticator(service.DefaultDemoAccounts, validate, logger)
	require.NoError(t, err)
	issuer, err := service.NewTokenIssuer("handler-secret", time.Hour)
	require.NoError(t, err)

	app := fiber.New()
	router.Register(app, config.Config{AppName: "socrates-echo", AppEnv: "test"}, router.Dependencies{
		Workspaces:          registry,
		WorkspaceHandler:    handler.NewWorkspaceHandler(registry, issuer, validate, logger),
		SessionHandler:      handler.NewSessionHandler(authenticator, validate, logger),
		NavigationHandler:   handler.NewNavigationHandler(validate, logger),
		NotificationHandler: handler.NewNotificationHandler(hub, validate, logger, time.Second),
		ClassHandler:        handler.NewClassHandler(logger),
		WorkspaceAuth:       middleware.WorkspaceAuth(issuer, registry),
	})

	return &testServer{app: app, registry: registry, hub: hub}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (s *testServer) createWorkspace(t *testing.T) dto.WorkspaceResponse {
	t.Helper()

	resp := s.do(t, http.MethodPost, "/api/v1/workspaces", "", nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var body envelope[dto.WorkspaceResponse]
	decodeResponse(t, resp, &body)
	require.NotEmpty(t, body.Data.Token)
	return body.Data
}

func (s *testServer) login(t *testing.T, token, email, role string) {
	t.Helper()

	resp := s.do(t, http.MethodPost, "/api/v1/session/login", token, dto.LoginRequest{
		Email:    email,
		Password: "123456",
		Role:     role,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func decodeResponse(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
}
