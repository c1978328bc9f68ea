package service

import (
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/noah-isme/socrates-echo-api/internal/models"
	"github.com/noah-isme/socrates-echo-api/internal/observability"
)

// RouteDefinition binds a route identifier to the page controller it activates.
type RouteDefinition struct {
	Path   string
	View   models.View
	Public bool
}

// DefaultRoutes is the static route registry of the client.
var DefaultRoutes = []RouteDefinition{
	{Path: models.RouteRoot, View: models.ViewAuthentication, Public: true},
	{Path: models.RouteAuthentication, View: models.ViewAuthentication, Public: true},
	{Path: models.RouteStudentDashboard, View: models.ViewStudentDashboard},
	{Path: models.RouteTeacherDashboard, View: models.ViewTeacherDashboard},
	{Path: models.RouteTrails, View: models.ViewTrails},
	{Path: models.RouteJourney, View: models.ViewJourney},
	{Path: models.RouteClasses, View: models.ViewClasses},
}

// NavigationOutcome describes how a navigate call was resolved.
type NavigationOutcome string

const (
	OutcomeNavigated  NavigationOutcome = "navigated"
	OutcomeRedirected NavigationOutcome = "redirected"
	OutcomeNotFound   NavigationOutcome = "not_found"
)

// NavigationResult is the resolution of a single navigate call.
type NavigationResult struct {
	Requested string            `json:"requested"`
	Route     string            `json:"route"`
	View      models.View       `json:"view"`
	Params    map[string]string `json:"params,omitempty"`
	Outcome   NavigationOutcome `json:"outcome"`
}

// Redirected reports whether the request was diverted to the authentication route.
func (r NavigationResult) Redirected() bool {
	return r.Outcome == OutcomeRedirected
}

// NotFound reports whether the requested route is not registered.
func (r NavigationResult) NotFound() bool {
	return r.Outcome == OutcomeNotFound
}

// ViewRouter translates route identifiers into the active page controller, gated by
// authentication.
type ViewRouter struct {
	session *SessionStore
	routes  map[string]RouteDefinition
	logger  zerolog.Logger

	mu     sync.RWMutex
	params map[string]string
}

// NewViewRouter builds a router over the provided registry. A nil registry uses DefaultRoutes.
func NewViewRouter(session *SessionStore, routes []RouteDefinition, logger zerolog.Logger) *ViewRouter {
	if routes == nil {
		routes = DefaultRoutes
	}
	registry := make(map[string]RouteDefinition, len(routes))
	for _, route := range routes {
		registry[route.Path] = route
	}

	return &ViewRouter{
		session: session,
		routes:  registry,
		logger:  logger.With().Str("component", "view_router").Logger(),
	}
}

// Navigate activates routeID. Unauthenticated sessions asking for anything but a public
// route are redirected to the authentication route; unknown routes resolve to the
// not-found view. Neither case is an error.
func (r *ViewRouter) Navigate(routeID string, params map[string]string) NavigationResult {
	requested := NormalizeRoute(routeID)
	definition, known := r.routes[requested]

	result := NavigationResult{Requested: requested}
	r.session.transition(func(authenticated bool) string {
		switch {
		case !authenticated && !(known && definition.Public):
			result.Route = models.RouteAuthentication
			result.View = models.ViewAuthentication
			result.Outcome = OutcomeRedirected
		case !known:
			result.Route = models.RouteNotFound
			result.View = models.ViewNotFound
			result.Outcome = OutcomeNotFound
		default:
			result.Route = requested
			result.View = definition.View
			result.Outcome = OutcomeNavigated
			result.Params = copyParams(params)
		}
		return result.Route
	})

	r.mu.Lock()
	r.params = result.Params
	r.mu.Unlock()

	switch result.Outcome {
	case OutcomeRedirected:
		r.logger.Debug().Str("requested", requested).Msg("unauthenticated navigation redirected")
	case OutcomeNotFound:
		r.logger.Warn().Str("requested", requested).Msg("navigation to unknown route")
	}
	observability.NavigationsTotal().WithLabelValues(string(result.Outcome)).Inc()

	return result
}

// CurrentRoute returns the active route identifier.
func (r *ViewRouter) CurrentRoute() string {
	return r.session.CurrentView()
}

// CurrentView returns the page controller bound to the active route.
func (r *ViewRouter) CurrentView() models.View {
	route := r.session.CurrentView()
	if definition, ok := r.routes[route]; ok {
		return definition.View
	}
	return models.ViewNotFound
}

// Params returns a copy of the parameters stored by the last successful navigation.
func (r *ViewRouter) Params() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return copyParams(r.params)
}

// NormalizeRoute trims whitespace and trailing slashes and ensures a leading slash.
func NormalizeRoute(routeID string) string {
	route := strings.TrimSpace(routeID)
	if route == "" {
		return models.RouteRoot
	}
	if !strings.HasPrefix(route, "/") {
		route = "/" + route
	}
	if len(route) > 1 {
		route = strings.TrimRight(route, "/")
		if route == "" {
			route = models.RouteRoot
		}
	}
	return route
}

func copyParams(params map[string]string) map[string]string {
	if len(params) == 0 {
		return nil
	}
	out := make(map[string]string, len(params))
	for key, value := range params {
		out[key] = value
	}
	return out
}

// Reset drops stored parameters. Called on logout.
func (r *ViewRouter) Reset() {
	r.mu.Lock()
	r.params = nil
	r.mu.Unlock()
}
