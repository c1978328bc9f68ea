package service

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/socrates-echo-api/internal/models"
)

func newTestRouter(t *testing.T, role models.Role) (*SessionStore, *ViewRouter) {
	t.Helper()
	store := newTestSessionStore()
	if role != "" {
		require.NoError(t, store.Authenticate(models.User{ID: "1", Name: "Tester", Role: role}))
	}
	return store, NewViewRouter(store, nil, zerolog.Nop())
}

func TestViewRouterRedirectsUnauthenticatedNavigation(t *testing.T) {
	_, router := newTestRouter(t, "")

	result := router.Navigate(models.RouteStudentDashboard, map[string]string{"tab": "overview"})

	require.True(t, result.Redirected())
	require.Equal(t, models.RouteAuthentication, result.Route)
	require.Equal(t, models.ViewAuthentication, result.View)
	require.Equal(t, models.RouteAuthentication, router.CurrentRoute())
	require.Nil(t, router.Params())
}

func TestViewRouterAllowsPublicRoutesWhenUnauthenticated(t *testing.T) {
	_, router := newTestRouter(t, "")

	result := router.Navigate(models.RouteRoot, nil)

	require.Equal(t, OutcomeNavigated, result.Outcome)
	require.Equal(t, models.ViewAuthentication, result.View)
	require.Equal(t, models.RouteRoot, router.CurrentRoute())
}

func TestViewRouterUnknownRouteWhileUnauthenticatedRedirects(t *testing.T) {
	_, router := newTestRouter(t, "")

	result := router.Navigate("/does-not-exist", nil)

	require.True(t, result.Redirected())
	require.Equal(t, models.RouteAuthentication, router.CurrentRoute())
}

func TestViewRouterNavigatesAndStoresParams(t *testing.T) {
	store, router := newTestRouter(t, models.RoleTeacher)

	params := map[string]string{"class": "phil-101"}
	result := router.Navigate("class-management-interface/", params)
	params["class"] = "mutated"

	require.Equal(t, OutcomeNavigated, result.Outcome)
	require.Equal(t, models.RouteClasses, result.Route)
	require.Equal(t, models.ViewClasses, router.CurrentView())
	require.Equal(t, models.RouteClasses, store.CurrentView())
	require.Equal(t, map[string]string{"class": "phil-101"}, router.Params())
}

func TestViewRouterUnknownRouteResolvesToNotFound(t *testing.T) {
	_, router := newTestRouter(t, models.RoleStudent)

	result := router.Navigate("/settings", map[string]string{"a": "b"})

	require.True(t, result.NotFound())
	require.Equal(t, models.ViewNotFound, result.View)
	require.Equal(t, models.RouteNotFound, router.CurrentRoute())
	require.Equal(t, models.ViewNotFound, router.CurrentView())
	require.Nil(t, router.Params())
}

func TestViewRouterLogoutReturnsToAuthentication(t *testing.T) {
	store, router := newTestRouter(t, models.RoleStudent)
	router.Navigate(models.RouteJourney, nil)

	store.Logout()
	router.Reset()

	require.Equal(t, models.RouteAuthentication, router.CurrentRoute())
	result := router.Navigate(models.RouteJourney, nil)
	require.True(t, result.Redirected())
}

func TestNormalizeRoute(t *testing.T) {
	require.Equal(t, "/", NormalizeRoute(""))
	require.Equal(t, "/", NormalizeRoute("///"))
	require.Equal(t, "/student-dashboard", NormalizeRoute(" student-dashboard/ "))
	require.Equal(t, "/teacher-dashboard", NormalizeRoute("/teacher-dashboard"))
}
