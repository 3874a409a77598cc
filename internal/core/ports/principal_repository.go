package ports

import (
	"context"

	"github.com/socialpulse/analytics-api/internal/core/domain"
)

// PrincipalRepository defines persistence for credential records.
type PrincipalRepository interface {
	// FindByUsername returns the principal regardless of its active flag;
	// callers decide how inactivity is surfaced.
	FindByUsername(ctx context.Context, username string) (*domain.Principal, error)
	Create(ctx context.Context, p *domain.Principal) (*domain.Principal, error)
	SetActive(ctx context.Context, username string, active bool) error
}

// CompanyRepository defines read access to tenant records.
type CompanyRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.Company, error)
}
