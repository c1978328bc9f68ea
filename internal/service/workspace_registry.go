package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/noah-isme/socrates-echo-api/internal/observability"
	"github.com/noah-isme/socrates-echo-api/internal/repository"
)

const defaultWorkspaceIdleTTL = 30 * time.Minute

// ErrWorkspaceNotFound is returned for unknown or expired workspace ids.
var ErrWorkspaceNotFound = errors.New("workspace not found")

// WorkspaceRegistryConfig configures the registry.
type WorkspaceRegistryConfig struct {
	IdleTTL       time.Duration
	LoginLatency  time.Duration
	Notifications NotificationAggregatorConfig
}

// WorkspaceRegistry holds the live client instances of this node.
type WorkspaceRegistry struct {
	mu         sync.RWMutex
	workspaces map[string]*Workspace

	cfg       WorkspaceRegistryConfig
	scratch   repository.ScratchRepository
	hub       *NotificationHub
	validator *validator.Validate
	base      zerolog.Logger
	logger    zerolog.Logger
	now       func() time.Time
}

// NewWorkspaceRegistry constructs an empty registry. hub may be nil.
func NewWorkspaceRegistry(cfg WorkspaceRegistryConfig, scratch repository.ScratchRepository, hub *NotificationHub, validate *validator.Validate, logger zerolog.Logger) *WorkspaceRegistry {
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = defaultWorkspaceIdleTTL
	}
	if scratch == nil {
		scratch = repository.NewScratchRepository(nil, "", 0)
	}
	if validate == nil {
		validate = validator.New(validator.WithRequiredStructEnabled())
	}

	return &WorkspaceRegistry{
		workspaces: make(map[string]*Workspace),
		cfg:        cfg,
		scratch:    scratch,
		hub:        hub,
		validator:  validate,
		base:       logger,
		logger:     logger.With().Str("component", "workspace_registry").Logger(),
		now:        time.Now,
	}
}

// Create allocates a workspace for clientKey, restoring remembered state. An empty
// clientKey gets a fresh one.
func (r *WorkspaceRegistry) Create(ctx context.Context, clientKey string) (*Workspace, error) {
	clientKey = strings.TrimSpace(clientKey)
	if clientKey == "" {
		clientKey = uuid.NewString()
	}
	if len(clientKey) > 64 {
		return nil, &ValidationError{Field: "client_key", Reason: "client key must be at most 64 characters"}
	}

	workspace := NewWorkspace(WorkspaceOptions{
		ID:            uuid.NewString(),
		ClientKey:     clientKey,
		LoginLatency:  r.cfg.LoginLatency,
		Notifications: r.cfg.Notifications,
		Scratch:       r.scratch,
		Validator:     r.validator,
		Logger:        r.base,
	})
	workspace.touch(r.now())
	if r.hub != nil {
		workspace.Notifications.SetListener(r.hub.ListenerFor(workspace.ID))
	}
	workspace.Restore(ctx)

	r.mu.Lock()
	r.workspaces[workspace.ID] = workspace
	r.mu.Unlock()
	observability.WorkspacesActive().Inc()

	r.logger.Debug().Str("workspace_id", workspace.ID).Msg("workspace created")
	return workspace, nil
}

// Get returns the workspace with id and marks it as seen.
func (r *WorkspaceRegistry) Get(id string) (*Workspace, error) {
	r.mu.RLock()
	workspace, ok := r.workspaces[id]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrWorkspaceNotFound
	}

	workspace.touch(r.now())
	return workspace, nil
}

// Remove discards the workspace with id.
func (r *WorkspaceRegistry) Remove(id string) bool {
	r.mu.Lock()
	_, ok := r.workspaces[id]
	delete(r.workspaces, id)
	r.mu.Unlock()

	if ok {
		observability.WorkspacesActive().Dec()
		if r.hub != nil {
			r.hub.Close(id)
		}
	}
	return ok
}

// Len returns the number of live workspaces.
func (r *WorkspaceRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.workspaces)
}

// Sweep removes workspaces idle for longer than the configured TTL.
func (r *WorkspaceRegistry) Sweep(now time.Time) int {
	r.mu.RLock()
	expired := make([]string, 0)
	for id, workspace := range r.workspaces {
		if workspace.idleSince(now) > r.cfg.IdleTTL {
			expired = append(expired, id)
		}
	}
	r.mu.RUnlock()

	removed := 0
	for _, id := range expired {
		if r.Remove(id) {
			removed++
		}
	}
	if removed > 0 {
		r.logger.Info().Int("removed", removed).Msg("expired idle workspaces")
	}
	return removed
}

// Run sweeps periodically until ctx ends.
func (r *WorkspaceRegistry) Run(ctx context.Context) {
	interval := r.cfg.IdleTTL / 2
	if interval <= 0 {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep(r.now())
		}
	}
}
