package account

import (
	"strings"
)

// Role is the closed set of account kinds. Each role owns one storage
// partition.
type Role int

const (
	RoleUnknown Role = iota
	RoleTeacher
	RoleStudent
	RoleAdministrator
)

var roleAliases = map[string]Role{
	"teacher":       RoleTeacher,
	"learner":       RoleStudent,
	"student":       RoleStudent,
	"admin":         RoleAdministrator,
	"administrator": RoleAdministrator,
}

// ParseRole normalizes a caller-supplied role token. Matching ignores case
// and surrounding whitespace.
func ParseRole(s string) (Role, error) {
	role, ok := roleAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return RoleUnknown, ErrInvalidRole
	}
	return role, nil
}

// String returns the canonical partition name.
func (r Role) String() string {
	switch r {
	case RoleTeacher:
		return "Teacher"
	case RoleStudent:
		return "Student"
	case RoleAdministrator:
		return "Administrator"
	default:
		return "Unknown"
	}
}

// Label is the name clients use for the role.
func (r Role) Label() string {
	switch r {
	case RoleTeacher:
		return "Teacher"
	case RoleStudent:
		return "Learner"
	case RoleAdministrator:
		return "Admin"
	default:
		return ""
	}
}

func (r Role) Table() string {
	switch r {
	case RoleTeacher:
		return "teachers"
	case RoleStudent:
		return "students"
	case RoleAdministrator:
		return "administrators"
	default:
		return ""
	}
}

// Partitions lists every role in lookup order.
func Partitions() []Role {
	return []Role{RoleTeacher, RoleStudent, RoleAdministrator}
}

// Dashboard describes what a signed-in client may render for a role.
// It is a presentation hint only; nothing on the server enforces it.
type Dashboard struct {
	Title   string   `json:"title"`
	Actions []string `json:"actions"`
}

func (r Role) Dashboard() Dashboard {
	switch r {
	case RoleAdministrator:
		return Dashboard{Title: "Administrator dashboard", Actions: []string{"users", "events", "teachers"}}
	case RoleTeacher:
		return Dashboard{Title: "Teacher dashboard", Actions: []string{"profile", "events", "messages"}}
	case RoleStudent:
		return Dashboard{Title: "Learner dashboard", Actions: []string{"profile", "events", "contacts"}}
	default:
		return Dashboard{}
	}
}
