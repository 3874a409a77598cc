package domain

import "time"

const (
	RoleAdmin  = "admin"
	RoleUser   = "user"
	RoleViewer = "viewer"
)

// ValidRole reports whether role belongs to the closed role set.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleUser || role == RoleViewer
}

// Principal is a credential record: a person or service allowed to call the
// API. A principal belongs to exactly one company; Active=false revokes access
// without deleting history (soft-disable, never hard-deleted).
type Principal struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CompanyID    int64     `json:"company_id"`
	Role         string    `json:"role"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ResolvedPrincipal is the immutable identity produced once per request by the
// auth middleware after re-checking the store. Handlers receive it by value
// and never re-derive identity from raw token claims.
type ResolvedPrincipal struct {
	Username  string
	CompanyID int64
	Role      string
}
