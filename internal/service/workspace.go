package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/noah-isme/socrates-echo-api/internal/dto"
	"github.com/noah-isme/socrates-echo-api/internal/models"
	"github.com/noah-isme/socrates-echo-api/internal/observability"
	"github.com/noah-isme/socrates-echo-api/internal/repository"
)

// Workspace is one running client instance: its own session, router, notification
// aggregator and the role policy selected at authentication.
type Workspace struct {
	ID        string
	ClientKey string

	Session       *SessionStore
	Router        *ViewRouter
	Notifications *NotificationAggregator

	resolver NavigationResolver
	login    *SimulatedAction[models.User]
	scratch  repository.ScratchRepository
	logger   zerolog.Logger

	mu       sync.Mutex
	policy   RolePolicy
	sidebar  models.SidebarState
	lastSeen time.Time
}

// WorkspaceOptions configures a standalone workspace.
type WorkspaceOptions struct {
	ID            string
	ClientKey     string
	LoginLatency  time.Duration
	Notifications NotificationAggregatorConfig
	Scratch       repository.ScratchRepository
	Validator     *validator.Validate
	Logger        zerolog.Logger
}

// NewWorkspace wires fresh core services together.
func NewWorkspace(opts WorkspaceOptions) *Workspace {
	logger := opts.Logger.With().Str("workspace_id", opts.ID).Logger()
	scratch := opts.Scratch
	if scratch == nil {
		scratch = repository.NewScratchRepository(nil, "", 0)
	}

	session := NewSessionStore(opts.Validator, logger)
	return &Workspace{
		ID:            opts.ID,
		ClientKey:     opts.ClientKey,
		Session:       session,
		Router:        NewViewRouter(session, nil, logger),
		Notifications: NewNotificationAggregator(opts.Notifications, logger),
		resolver:      NewNavigationResolver(),
		login:         NewSimulatedAction[models.User]("login", opts.LoginLatency),
		scratch:       scratch,
		logger:        logger.With().Str("component", "workspace").Logger(),
		sidebar:       models.SidebarExpanded,
		lastSeen:      time.Now(),
	}
}

// Authenticate stores user, selects its role policy, moves to the role's landing route
// and remembers the user in the scratch store.
func (w *Workspace) Authenticate(ctx context.Context, user models.User) (NavigationResult, error) {
	if err := w.Session.Authenticate(user); err != nil {
		return NavigationResult{}, err
	}

	policy, _ := PolicyFor(user.Role)
	w.mu.Lock()
	w.policy = policy
	w.mu.Unlock()

	result := w.Router.Navigate(policy.LandingRoute(), nil)

	if snapshot, err := json.Marshal(user); err == nil {
		if err := w.scratch.SaveUser(ctx, w.ClientKey, snapshot); err != nil {
			w.logger.Warn().Err(err).Msg("failed to remember authenticated user")
		}
	}
	return result, nil
}

// Login runs the mocked credential check behind the simulated latency and
// authenticates on success. The returned future resolves once, after the delay.
func (w *Workspace) Login(authenticator *Authenticator, payload dto.LoginRequest) (*Future[models.User], error) {
	future, err := w.login.Start(func() (models.User, error) {
		ctx, span := otel.Tracer("github.com/noah-isme/socrates-echo-api/internal/service/session").Start(context.Background(), "session.login")
		defer span.End()
		span.SetAttributes(attribute.String("session.role", payload.Role), attribute.String("workspace.id", w.ID))

		user, err := authenticator.Login(payload)
		if err == nil {
			_, err = w.Authenticate(ctx, user)
		}
		if err != nil {
			observability.LoginAttempts().WithLabelValues("rejected").Inc()
			span.SetStatus(codes.Error, err.Error())
			return models.User{}, err
		}
		observability.LoginAttempts().WithLabelValues("accepted").Inc()
		return user, nil
	})
	if err != nil {
		w.logger.Debug().Str("action", w.login.Name()).Msg("action already running")
	}
	return future, err
}

// LoginPending reports whether a login is in flight.
func (w *Workspace) LoginPending() bool {
	return w.login.Busy()
}

// Logout clears the session, the selected policy and the remembered user.
func (w *Workspace) Logout(ctx context.Context) {
	w.Session.Logout()
	w.Router.Reset()

	w.mu.Lock()
	w.policy = nil
	w.mu.Unlock()

	if err := w.scratch.DeleteUser(ctx, w.ClientKey); err != nil {
		w.logger.Warn().Err(err).Msg("failed to forget user")
	}
}

// SetLanguage applies and remembers the preferred language.
func (w *Workspace) SetLanguage(ctx context.Context, code string) string {
	applied := w.Session.SetLanguage(code)
	if err := w.scratch.SaveLanguage(ctx, w.ClientKey, applied); err != nil {
		w.logger.Warn().Err(err).Msg("failed to remember language")
	}
	return applied
}

// Navigate delegates to the view router.
func (w *Workspace) Navigate(route string, params map[string]string) NavigationResult {
	return w.Router.Navigate(route, params)
}

// Navigation resolves the chrome for the current role and marks the active item.
func (w *Workspace) Navigation(viewport models.ViewportClass) ResolvedNavigation {
	w.mu.Lock()
	sidebar := w.sidebar
	w.mu.Unlock()

	return w.resolver.ResolveWithSidebar(w.Session.Role(), viewport, sidebar).MarkActive(w.Router.CurrentRoute())
}

// ToggleSidebar flips the wide layout between expanded and collapsed.
func (w *Workspace) ToggleSidebar() models.SidebarState {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.sidebar == models.SidebarExpanded {
		w.sidebar = models.SidebarCollapsed
	} else {
		w.sidebar = models.SidebarExpanded
	}
	return w.sidebar
}

// Policy returns the role policy selected at authentication.
func (w *Workspace) Policy() (RolePolicy, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.policy, w.policy != nil
}

// QuickActions returns the dashboard shortcuts of the current role.
func (w *Workspace) QuickActions() []models.QuickAction {
	policy, ok := w.Policy()
	if !ok {
		return []models.QuickAction{}
	}
	return policy.ResolveQuickActions()
}

// Restore reapplies the remembered language and user, if any.
func (w *Workspace) Restore(ctx context.Context) {
	if code, found, err := w.scratch.LoadLanguage(ctx, w.ClientKey); err != nil {
		w.logger.Warn().Err(err).Msg("failed to load remembered language")
	} else if found {
		w.Session.SetLanguage(code)
	}

	snapshot, found, err := w.scratch.LoadUser(ctx, w.ClientKey)
	if err != nil {
		w.logger.Warn().Err(err).Msg("failed to load remembered user")
		return
	}
	if !found {
		return
	}

	var user models.User
	if err := json.Unmarshal(snapshot, &user); err != nil {
		w.logger.Warn().Err(err).Msg("discarding unreadable user snapshot")
		return
	}
	if _, err := w.Authenticate(ctx, user); err != nil {
		w.logger.Warn().Err(err).Msg("discarding invalid user snapshot")
	}
}

// State summarises the workspace for API responses.
func (w *Workspace) State() dto.SessionResponse {
	snapshot := w.Session.Snapshot()
	return dto.SessionResponse{
		User:          snapshot.User,
		Authenticated: snapshot.Authenticated(),
		Route:         snapshot.View,
		View:          w.Router.CurrentView(),
		Params:        w.Router.Params(),
		Language:      snapshot.Language,
		UnreadCount:   w.Notifications.UnreadCount(),
		LoginPending:  w.LoginPending(),
	}
}

func (w *Workspace) touch(now time.Time) {
	w.mu.Lock()
	w.lastSeen = now
	w.mu.Unlock()
}

func (w *Workspace) idleSince(now time.Time) time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()
	return now.Sub(w.lastSeen)
}
