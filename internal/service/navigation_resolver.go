package service

import (
	"strings"

	"github.com/noah-isme/socrates-echo-api/internal/models"
)

// ResolvedNavigation is the navigation chrome for one role and viewport.
type ResolvedNavigation struct {
	Role    models.Role             `json:"role,omitempty"`
	Layout  models.LayoutMode       `json:"layout"`
	Sidebar models.SidebarState     `json:"sidebar,omitempty"`
	Title   string                  `json:"title,omitempty"`
	Items   []models.NavigationItem `json:"items"`
}

// Empty reports whether the caller should skip rendering navigation chrome.
func (n ResolvedNavigation) Empty() bool {
	return len(n.Items) == 0
}

// Mode folds the layout and sidebar state into a single tag
// (bottom-bar, accordion, sidebar-expanded, sidebar-collapsed).
func (n ResolvedNavigation) Mode() string {
	if n.Layout == models.LayoutSidebar && n.Sidebar != "" {
		return string(n.Layout) + "-" + string(n.Sidebar)
	}
	return string(n.Layout)
}

// MarkActive returns a copy with the item matching route flagged active.
func (n ResolvedNavigation) MarkActive(route string) ResolvedNavigation {
	route = NormalizeRoute(route)
	items := make([]models.NavigationItem, len(n.Items))
	marked := false
	for i, item := range n.Items {
		item.Active = !marked && item.Route == route
		if item.Active {
			marked = true
		}
		items[i] = item
	}
	n.Items = items
	return n
}

// NavigationResolver computes navigation sets from the role policies. It holds no state.
type NavigationResolver struct{}

// NewNavigationResolver constructs a resolver.
func NewNavigationResolver() NavigationResolver {
	return NavigationResolver{}
}

// Resolve returns the ordered items and layout for role and viewport. The sidebar of a
// wide layout is reported expanded; use ResolveWithSidebar for the toggled state.
// Unrecognised roles fail closed with an empty set.
func (r NavigationResolver) Resolve(role models.Role, viewport models.ViewportClass) ResolvedNavigation {
	return r.ResolveWithSidebar(role, viewport, models.SidebarExpanded)
}

// ResolveWithSidebar is Resolve with an explicit sidebar state.
func (NavigationResolver) ResolveWithSidebar(role models.Role, viewport models.ViewportClass, sidebar models.SidebarState) ResolvedNavigation {
	policy, ok := PolicyFor(role)
	if !ok {
		return ResolvedNavigation{Layout: models.LayoutNone, Items: []models.NavigationItem{}}
	}

	resolved := ResolvedNavigation{
		Role:  role,
		Title: policy.PanelTitle(),
		Items: policy.ResolveNavigation(),
	}

	if viewport == models.ViewportNarrow {
		resolved.Layout = policy.NarrowLayout()
		return resolved
	}

	if sidebar != models.SidebarCollapsed {
		sidebar = models.SidebarExpanded
	}
	resolved.Layout = models.LayoutSidebar
	resolved.Sidebar = sidebar
	return resolved
}

// ParseViewport maps a viewport name onto a class. Anything unrecognised is wide.
func ParseViewport(value string) models.ViewportClass {
	if models.ViewportClass(strings.ToLower(strings.TrimSpace(value))) == models.ViewportNarrow {
		return models.ViewportNarrow
	}
	return models.ViewportWide
}

// ClassifyViewport buckets a viewport width in CSS pixels.
func ClassifyViewport(width int) models.ViewportClass {
	if width > 0 && width < models.NarrowViewportMaxWidth {
		return models.ViewportNarrow
	}
	return models.ViewportWide
}
