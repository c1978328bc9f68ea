package models

// Role is the two-valued access class of a user.
type Role string

// Recognised roles.
const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
)

// Valid reports whether the role is one of the recognised values.
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleTeacher
}

// User is the identity held by a session. Role is fixed at construction.
type User struct {
	ID          string `json:"id" validate:"required,max=64"`
	Name        string `json:"name" validate:"required,max=128"`
	Email       string `json:"email" validate:"omitempty,email"`
	Role        Role   `json:"role" validate:"required,oneof=student teacher"`
	Avatar      string `json:"avatar,omitempty"`
	JoinedClass string `json:"joined_class,omitempty"`
}
