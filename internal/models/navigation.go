package models

// ViewportClass buckets the client's viewport width.
type ViewportClass string

const (
	ViewportNarrow ViewportClass = "narrow"
	ViewportWide   ViewportClass = "wide"
)

// NarrowViewportMaxWidth is the first width, in CSS pixels, treated as wide.
const NarrowViewportMaxWidth = 768

// LayoutMode is the navigation chrome the client should render.
type LayoutMode string

const (
	LayoutNone      LayoutMode = "none"
	LayoutBottomBar LayoutMode = "bottom-bar"
	LayoutAccordion LayoutMode = "accordion"
	LayoutSidebar   LayoutMode = "sidebar"
)

// SidebarState is pure UI state for the wide layout.
type SidebarState string

const (
	SidebarExpanded  SidebarState = "expanded"
	SidebarCollapsed SidebarState = "collapsed"
)

// NavigationItem is a single destination in a role-specific menu.
type NavigationItem struct {
	Route       string `json:"route"`
	Label       string `json:"label"`
	Icon        string `json:"icon"`
	Description string `json:"description,omitempty"`
	Active      bool   `json:"active"`
}

// QuickAction is a role-specific shortcut shown on a dashboard.
type QuickAction struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Route       string `json:"route,omitempty"`
}
