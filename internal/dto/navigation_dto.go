package dto

import "github.com/noah-isme/socrates-echo-api/internal/models"

// NavigationResponse describes the chrome to render for the current role and viewport.
type NavigationResponse struct {
	Role     models.Role             `json:"role,omitempty"`
	Viewport models.ViewportClass    `json:"viewport"`
	Layout   models.LayoutMode       `json:"layout"`
	Sidebar  models.SidebarState     `json:"sidebar,omitempty"`
	Mode     string                  `json:"mode"`
	Title    string                  `json:"title,omitempty"`
	Items    []models.NavigationItem `json:"items"`
}

// NavigateResponse reports the outcome of a navigation request.
type NavigateResponse struct {
	Requested string            `json:"requested"`
	Route     string            `json:"route"`
	View      models.View       `json:"view"`
	Params    map[string]string `json:"params,omitempty"`
	Outcome   string            `json:"outcome"`
}

// SidebarResponse carries the sidebar state after a toggle.
type SidebarResponse struct {
	Sidebar models.SidebarState `json:"sidebar"`
}
