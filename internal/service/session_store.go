package service

import (
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/socrates-echo-api/internal/models"
)

// SupportedLanguages lists the language codes the client ships translations for.
// The first entry is the fallback.
var SupportedLanguages = []string{"pt", "en", "es"}

// SessionSnapshot is a point-in-time copy of the session state.
type SessionSnapshot struct {
	User     *models.User `json:"user,omitempty"`
	View     string       `json:"view"`
	Language string       `json:"language"`
}

// Authenticated reports whether the snapshot carries a user.
func (s SessionSnapshot) Authenticated() bool {
	return s.User != nil
}

// SessionStore is the single source of truth for who is logged in, with what role,
// viewing what.
type SessionStore struct {
	mu        sync.RWMutex
	user      *models.User
	view      string
	language  string
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewSessionStore creates an unauthenticated session positioned on the authentication view.
func NewSessionStore(validate *validator.Validate, logger zerolog.Logger) *SessionStore {
	if validate == nil {
		validate = validator.New(validator.WithRequiredStructEnabled())
	}
	return &SessionStore{
		view:      models.RouteAuthentication,
		language:  SupportedLanguages[0],
		validator: validate,
		logger:    logger.With().Str("component", "session_store").Logger(),
	}
}

// Authenticate replaces the current user.
func (s *SessionStore) Authenticate(user models.User) error {
	if !user.Role.Valid() {
		return &ValidationError{Field: "Role", Reason: "role must be student or teacher"}
	}
	user.ID = strings.TrimSpace(user.ID)
	user.Name = strings.TrimSpace(user.Name)
	if err := s.validator.Struct(user); err != nil {
		return newValidationError(err)
	}

	s.mu.Lock()
	s.user = &user
	s.mu.Unlock()

	s.logger.Debug().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("session authenticated")
	return nil
}

// Logout clears the current user and forces the view back to the authentication route.
func (s *SessionStore) Logout() {
	s.mu.Lock()
	s.user = nil
	s.view = models.RouteAuthentication
	s.mu.Unlock()
}

// SetLanguage stores the preferred language. Unknown codes fall back to the first
// supported language. The applied code is returned.
func (s *SessionStore) SetLanguage(code string) string {
	applied := NormalizeLanguage(code)

	s.mu.Lock()
	s.language = applied
	s.mu.Unlock()

	return applied
}

// CurrentUser returns a copy of the authenticated user, if any.
func (s *SessionStore) CurrentUser() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.user == nil {
		return models.User{}, false
	}
	return *s.user, true
}

// Role returns the current user's role, or an empty role when unauthenticated.
func (s *SessionStore) Role() models.Role {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.user == nil {
		return ""
	}
	return s.user.Role
}

// CurrentView returns the active route identifier.
func (s *SessionStore) CurrentView() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view
}

// Language returns the preferred language code.
func (s *SessionStore) Language() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.language
}

// Snapshot copies the session state.
func (s *SessionStore) Snapshot() SessionSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := SessionSnapshot{View: s.view, Language: s.language}
	if s.user != nil {
		user := *s.user
		snapshot.User = &user
	}
	return snapshot
}

// NormalizeLanguage maps a code onto the supported set.
func NormalizeLanguage(code string) string {
	normalized := strings.ToLower(strings.TrimSpace(code))
	for _, supported := range SupportedLanguages {
		if normalized == supported {
			return supported
		}
	}
	return SupportedLanguages[0]
}

// transition atomically decides the next view from the authentication state.
func (s *SessionStore) transition(next func(authenticated bool) string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.view = next(s.user != nil)
	return s.view
}
