package domain

import "time"

// Company is a tenant: the ownership boundary for both principals and managed
// social accounts. Created by administrative seeding, immutable afterwards.
type Company struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	RegisteredAt time.Time `json:"registered_at"`
}

// SocialAccount is a managed social-media handle. Each account is owned by
// exactly one company; that ownership is the authorization boundary.
type SocialAccount struct {
	ID           string    `json:"id"`
	Handle       string    `json:"handle"`
	DisplayName  string    `json:"display_name"`
	CompanyID    int64     `json:"company_id"`
	RegisteredAt time.Time `json:"registered_at"`
}
