package domain

import "strings"

// Role is one of the four portal roles issued by the school backend.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleFaculty Role = "FACULTY"
	RoleStudent Role = "STUDENT"
	RoleParent  Role = "PARENT"
)

// ParseRole normalises a backend role string. Unknown values are returned
// upper-cased so callers can still report them.
func ParseRole(s string) Role {
	return Role(strings.ToUpper(strings.TrimSpace(s)))
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleFaculty, RoleStudent, RoleParent:
		return true
	}
	return false
}

// ApprovalState tracks whether an administrator has activated the account.
type ApprovalState string

const (
	ApprovalPending ApprovalState = "PENDING"
	ApprovalActive  ApprovalState = "ACTIVE"
)

// Principal is the authenticated identity owned by a session.
type Principal struct {
	ID            string        `json:"id"`
	Email         string        `json:"email"`
	DisplayName   string        `json:"name"`
	Role          Role          `json:"role"`
	ApprovalState ApprovalState `json:"approval_state"`
	Phone         string        `json:"phone,omitempty"`
}

// HasRole reports whether the principal holds any of the given roles.
func (p *Principal) HasRole(roles ...Role) bool {
	if p == nil {
		return false
	}
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}

// AuthGrant is a successful credential exchange.
type AuthGrant struct {
	AccessToken string
	User        *Principal
}

// RegisterFields is the self-service account registration payload.
type RegisterFields struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     Role   `json:"role"`
	Phone    string `json:"phone,omitempty"`
}

// RegisterReply is the decoded backend answer to a registration. Exactly one
// of AccessToken or Message is expected to be set.
type RegisterReply struct {
	AccessToken string
	User        *Principal
	Message     string
	AccountID   string
	Raw         map[string]any
}

// Registration is the outcome of a session-level registration. A pending
// registration carries the backend message and leaves the session untouched.
type Registration struct {
	Pending   bool           `json:"pending"`
	Message   string         `json:"message,omitempty"`
	UserID    string         `json:"user_id,omitempty"`
	Principal *Principal     `json:"user,omitempty"`
	Raw       map[string]any `json:"-"`
}
