package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/socialpulse/analytics-api/internal/core/domain"
	"github.com/socialpulse/analytics-api/internal/core/ports"
)

// OwnershipCache is a best-effort handle→company cache (Redis). A nil cache
// or a failing one degrades to a store lookup; it never affects the decision.
type OwnershipCache interface {
	Get(ctx context.Context, handle string) (companyID int64, ok bool, err error)
	Set(ctx context.Context, handle string, companyID int64) error
}

// AccessService decides whether a company may operate on a named account.
// The check is a single ownership equality: the principal's company must own
// the account. Role is deliberately not consulted here; operation-class
// permissions are a separate policy check at the transport layer.
type AccessService struct {
	accounts ports.AccountRepository
	cache    OwnershipCache
	log      zerolog.Logger
}

func NewAccessService(accounts ports.AccountRepository, cache OwnershipCache, log zerolog.Logger) *AccessService {
	return &AccessService{accounts: accounts, cache: cache, log: log}
}

// HasAccess returns nil when companyID owns handle, domain.ErrForbidden when
// another company owns it, and domain.ErrAccountNotFound for unknown handles.
// Unknown handles fail closed and are never cached.
func (s *AccessService) HasAccess(ctx context.Context, companyID int64, handle string) error {
	owner, err := s.ownerOf(ctx, handle)
	if err != nil {
		return err
	}
	if owner != companyID {
		return domain.ErrForbidden
	}
	return nil
}

// ListAccounts returns every account the company owns.
func (s *AccessService) ListAccounts(ctx context.Context, companyID int64) ([]*domain.SocialAccount, error) {
	accounts, err := s.accounts.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return accounts, nil
}

func (s *AccessService) ownerOf(ctx context.Context, handle string) (int64, error) {
	if s.cache != nil {
		owner, ok, err := s.cache.Get(ctx, handle)
		if err != nil {
			s.log.Warn().Err(err).Str("handle", handle).Msg("ownership cache read failed, falling back to store")
		} else if ok {
			return owner, nil
		}
	}

	acct, err := s.accounts.FindByHandle(ctx, handle)
	if err != nil {
		return 0, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, handle, acct.CompanyID); err != nil {
			s.log.Warn().Err(err).Str("handle", handle).Msg("ownership cache write failed")
		}
	}
	return acct.CompanyID, nil
}
