package service

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/socrates-echo-api/internal/dto"
	"github.com/noah-isme/socrates-echo-api/internal/models"
	"github.com/noah-isme/socrates-echo-api/internal/repository"
)

func newTestScratch(t *testing.T) repository.ScratchRepository {
	t.Helper()
	mini, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mini.Close)

	client := redis.NewClient(&redis.Options{Addr: mini.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return repository.NewScratchRepository(client, "scratch", time.Hour)
}

func newTestWorkspace(t *testing.T, scratch repository.ScratchRepository) *Workspace {
	t.Helper()
	return NewWorkspace(WorkspaceOptions{
		ID:           "ws-1",
		ClientKey:    "client-1",
		LoginLatency: 10 * time.Millisecond,
		Scratch:      scratch,
		Logger:       zerolog.Nop(),
	})
}

func TestWorkspaceAuthenticateSelectsPolicyAndLanding(t *testing.T) {
	workspace := newTestWorkspace(t, nil)

	result, err := workspace.Authenticate(context.Background(), models.User{ID: "1", Name: "Prof. Carlos Santos", Role: models.RoleTeacher})
	require.NoError(t, err)
	require.Equal(t, models.RouteTeacherDashboard, result.Route)

	policy, ok := workspace.Policy()
	require.True(t, ok)
	require.Equal(t, models.RoleTeacher, policy.Role())
	require.Len(t, workspace.QuickActions(), 4)

	nav := workspace.Navigation(models.ViewportWide)
	require.Equal(t, models.LayoutSidebar, nav.Layout)
	require.True(t, nav.Items[0].Active)
}

func TestWorkspaceNavigationBeforeLoginIsEmpty(t *testing.T) {
	workspace := newTestWorkspace(t, nil)

	require.True(t, workspace.Navigation(models.ViewportNarrow).Empty())
	require.Empty(t, workspace.QuickActions())

	result := workspace.Navigate(models.RouteStudentDashboard, nil)
	require.True(t, result.Redirected())
}

func TestWorkspaceToggleSidebar(t *testing.T) {
	workspace := newTestWorkspace(t, nil)
	_, err := workspace.Authenticate(context.Background(), models.User{ID: "1", Name: "Ana", Role: models.RoleStudent})
	require.NoError(t, err)

	require.Equal(t, models.SidebarCollapsed, workspace.ToggleSidebar())
	require.Equal(t, "sidebar-collapsed", workspace.Navigation(models.ViewportWide).Mode())
	require.Equal(t, models.LayoutBottomBar, workspace.Navigation(models.ViewportNarrow).Layout)
	require.Equal(t, models.SidebarExpanded, workspace.ToggleSidebar())
}

func TestWorkspaceLoginRunsBehindSimulatedLatency(t *testing.T) {
	workspace := newTestWorkspace(t, nil)
	authenticator := newTestAuthenticator(t)

	future, err := workspace.Login(authenticator, dto.LoginRequest{Email: "aluno@teste.com", Password: "123456", Role: "student"})
	require.NoError(t, err)
	require.True(t, workspace.LoginPending())

	_, err = workspace.Login(authenticator, dto.LoginRequest{Email: "aluno@teste.com", Password: "123456", Role: "student"})
	require.ErrorIs(t, err, ErrActionBusy)

	user, err := future.Wait(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Ana Silva", user.Name)
	require.Equal(t, models.RouteStudentDashboard, workspace.Router.CurrentRoute())
	require.False(t, workspace.LoginPending())
}

func TestWorkspaceLoginRejectedLeavesSessionEmpty(t *testing.T) {
	workspace := newTestWorkspace(t, nil)
	authenticator := newTestAuthenticator(t)

	future, err := workspace.Login(authenticator, dto.LoginRequest{Email: "aluno@teste.com", Password: "nope", Role: "student"})
	require.NoError(t, err)

	_, err = future.Wait(context.Background())
	require.ErrorIs(t, err, ErrInvalidCredentials)
	require.False(t, workspace.State().Authenticated)
}

func TestWorkspaceRestoresRememberedState(t *testing.T) {
	scratch := newTestScratch(t)
	ctx := context.Background()

	first := newTestWorkspace(t, scratch)
	require.Equal(t, "en", first.SetLanguage(ctx, "en"))
	_, err := first.Authenticate(ctx, models.User{ID: "1", Name: "Ana Silva", Role: models.RoleStudent})
	require.NoError(t, err)

	second := newTestWorkspace(t, scratch)
	second.Restore(ctx)

	state := second.State()
	require.True(t, state.Authenticated)
	require.Equal(t, "Ana Silva", state.User.Name)
	require.Equal(t, "en", state.Language)
	require.Equal(t, models.RouteStudentDashboard, state.Route)

	second.Logout(ctx)
	third := newTestWorkspace(t, scratch)
	third.Restore(ctx)
	require.False(t, third.State().Authenticated)
	require.Equal(t, "en", third.State().Language)
}

func TestWorkspaceLogoutClearsPolicyAndParams(t *testing.T) {
	workspace := newTestWorkspace(t, nil)
	ctx := context.Background()
	_, err := workspace.Authenticate(ctx, models.User{ID: "1", Name: "Ana", Role: models.RoleStudent})
	require.NoError(t, err)
	workspace.Navigate(models.RouteJourney, map[string]string{"scene": "cave"})

	workspace.Logout(ctx)

	_, ok := workspace.Policy()
	require.False(t, ok)
	state := workspace.State()
	require.False(t, state.Authenticated)
	require.Equal(t, models.RouteAuthentication, state.Route)
	require.Nil(t, state.Params)
}
