package model

// Role constants for task-management users. Only staff members receive
// deadline reminder notifications.
const (
	RoleStaff    = "staff"
	RoleManager  = "manager"
	RoleDirector = "director"
)

// User is a member of the task-management system.
type User struct {
	// ID is the unique identifier for this user.
	ID string `json:"id" db:"id"`

	// Name is the display name.
	Name string `json:"name" db:"name"`

	// Email is the address reminder mail is delivered to.
	Email string `json:"email" db:"email"`

	// Role is the user's role (use Role* constants).
	Role string `json:"role" db:"role"`
}
