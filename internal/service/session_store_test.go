package service

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/socrates-echo-api/internal/models"
)

func newTestSessionStore() *SessionStore {
	return NewSessionStore(nil, zerolog.Nop())
}

func TestSessionStoreStartsUnauthenticated(t *testing.T) {
	store := newTestSessionStore()

	_, ok := store.CurrentUser()
	require.False(t, ok)
	require.Equal(t, models.RouteAuthentication, store.CurrentView())
	require.Equal(t, "pt", store.Language())
	require.False(t, store.Snapshot().Authenticated())
}

func TestSessionStoreAuthenticateReplacesUser(t *testing.T) {
	store := newTestSessionStore()

	require.NoError(t, store.Authenticate(models.User{ID: "1", Name: "Ana Silva", Email: "aluno@teste.com", Role: models.RoleStudent}))
	require.NoError(t, store.Authenticate(models.User{ID: "2", Name: "Prof. Carlos Santos", Role: models.RoleTeacher}))

	user, ok := store.CurrentUser()
	require.True(t, ok)
	require.Equal(t, "2", user.ID)
	require.Equal(t, models.RoleTeacher, store.Role())
}

func TestSessionStoreRejectsUnknownRole(t *testing.T) {
	store := newTestSessionStore()

	err := store.Authenticate(models.User{ID: "1", Name: "Ana", Role: "admin"})
	require.Error(t, err)
	require.True(t, IsValidationError(err))

	_, ok := store.CurrentUser()
	require.False(t, ok)
}

func TestSessionStoreRejectsMissingName(t *testing.T) {
	store := newTestSessionStore()

	err := store.Authenticate(models.User{ID: "1", Name: "   ", Role: models.RoleStudent})
	require.True(t, IsValidationError(err))
}

func TestSessionStoreLogoutForcesAuthenticationView(t *testing.T) {
	store := newTestSessionStore()
	router := NewViewRouter(store, nil, zerolog.Nop())

	require.NoError(t, store.Authenticate(models.User{ID: "1", Name: "Ana", Role: models.RoleStudent}))
	router.Navigate(models.RouteJourney, nil)
	require.Equal(t, models.RouteJourney, store.CurrentView())

	store.Logout()

	_, ok := store.CurrentUser()
	require.False(t, ok)
	require.Equal(t, models.RouteAuthentication, store.CurrentView())
}

func TestSessionStoreLanguageFallsBackToDefault(t *testing.T) {
	store := newTestSessionStore()

	require.Equal(t, "es", store.SetLanguage(" ES "))
	require.Equal(t, "es", store.Language())

	require.Equal(t, "pt", store.SetLanguage("fr"))
	require.Equal(t, "pt", store.Language())
}

func TestSessionSnapshotIsACopy(t *testing.T) {
	store := newTestSessionStore()
	require.NoError(t, store.Authenticate(models.User{ID: "1", Name: "Ana", Role: models.RoleStudent}))

	snapshot := store.Snapshot()
	snapshot.User.Name = "Changed"

	user, _ := store.CurrentUser()
	require.Equal(t, "Ana", user.Name)
}
