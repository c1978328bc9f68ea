package dto

import (
	"github.com/noah-isme/socrates-echo-api/internal/models"
)

// LoginRequest is the mock credential check payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=student teacher"`
}

// RegisterRequest is the mock account creation payload.
type RegisterRequest struct {
	FullName          string `json:"full_name" validate:"required,max=128"`
	Email             string `json:"email" validate:"required,email"`
	Password          string `json:"password" validate:"required,min=6"`
	ConfirmPassword   string `json:"confirm_password" validate:"required,eqfield=Password"`
	Role              string `json:"role" validate:"required,oneof=student teacher"`
	SchoolAffiliation string `json:"school_affiliation" validate:"required_if=Role teacher,max=256"`
}

// JoinClassRequest carries a six character class code.
type JoinClassRequest struct {
	Code string `json:"code" validate:"required,len=6,alphanum"`
}

// LanguageRequest changes the preferred language.
type LanguageRequest struct {
	Code string `json:"code"`
}

// NavigateRequest asks the view router to activate a route.
type NavigateRequest struct {
	Route  string            `json:"route" validate:"required,max=256"`
	Params map[string]string `json:"params"`
}

// WorkspaceResponse is returned when a client instance is created.
type WorkspaceResponse struct {
	WorkspaceID string          `json:"workspace_id"`
	Token       string          `json:"token"`
	Session     SessionResponse `json:"session"`
}

// SessionResponse is the serialised session state of a workspace.
type SessionResponse struct {
	User          *models.User      `json:"user,omitempty"`
	Authenticated bool              `json:"authenticated"`
	Route         string            `json:"route"`
	View          models.View       `json:"view"`
	Params        map[string]string `json:"params,omitempty"`
	Language      string            `json:"language"`
	UnreadCount   int               `json:"unread_count"`
	LoginPending  bool              `json:"login_pending"`
}

// InviteCodeResponse carries a generated class invite code.
type InviteCodeResponse struct {
	Code string `json:"code"`
}

// CreateWorkspaceRequest optionally names the client instance whose remembered
// state should be restored.
type CreateWorkspaceRequest struct {
	ClientKey string `json:"client_key" validate:"omitempty,max=64"`
}
