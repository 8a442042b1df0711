package domain

import "github.com/google/uuid"

// Role of an acting user. Profiles are owned by the auth/registration flow;
// the core only reads them.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleRider    Role = "rider"
)

// Staff reports whether the role belongs to kitchen/admin personnel.
func (r Role) Staff() bool { return r == RoleAdmin || r == RoleManager }

func ParseRole(s string) (Role, bool) {
	switch r := Role(s); r {
	case RoleCustomer, RoleAdmin, RoleManager, RoleRider:
		return r, true
	}
	return "", false
}

type Profile struct {
	ID       uuid.UUID `json:"id"`
	Role     Role      `json:"role"`
	FullName string    `json:"full_name"`
	Phone    string    `json:"phone,omitempty"`
}

// Actor identifies who is invoking a command.
type Actor struct {
	ID   uuid.UUID
	Role Role
}
