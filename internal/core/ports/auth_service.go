package ports

import (
	"context"

	"github.com/socialpulse/analytics-api/internal/core/domain"
)

// LoginResult carries a freshly issued token and its owner.
type LoginResult struct {
	Token     string
	ExpiresIn int64 // seconds until the token expires
	Principal *domain.Principal
}

// AuthService turns credentials into tokens and manages principal lifecycle.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	Register(ctx context.Context, username, password string, companyID int64, role string) (*domain.Principal, error)
	SetActive(ctx context.Context, username string, active bool) error
	// ResolveLive decodes a bearer token and re-checks the principal against
	// the store, so a disabled principal fails even with an unexpired token.
	ResolveLive(ctx context.Context, token string) (domain.ResolvedPrincipal, error)
}

// AccessService decides whether a principal's company may operate on a named
// account. HasAccess returns nil on allow, domain.ErrForbidden when the
// account belongs to another company, and domain.ErrAccountNotFound when the
// handle is unknown (fails closed).
type AccessService interface {
	HasAccess(ctx context.Context, companyID int64, handle string) error
	ListAccounts(ctx context.Context, companyID int64) ([]*domain.SocialAccount, error)
}
