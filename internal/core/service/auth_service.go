package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/socialpulse/analytics-api/internal/core/domain"
	"github.com/socialpulse/analytics-api/internal/core/ports"
)

// dummyHash is compared against when the username does not exist, so an
// unknown user costs the same bcrypt work as a wrong password and the two
// cases cannot be told apart by timing.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// AuthService implements login, registration, and revocation for principals.
type AuthService struct {
	principals ports.PrincipalRepository
	companies  ports.CompanyRepository
	codec      *TokenCodec
	log        zerolog.Logger
}

func NewAuthService(
	principals ports.PrincipalRepository,
	companies ports.CompanyRepository,
	codec *TokenCodec,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{principals: principals, companies: companies, codec: codec, log: log}
}

// Login turns a (username, password) pair into a token. The password is
// verified before the active flag is consulted, so "account inactive" is only
// ever revealed to a caller holding valid credentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	p, err := s.principals.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrPrincipalNotFound) {
			_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	if !p.Active {
		return nil, domain.ErrAccountInactive
	}

	token, err := s.codec.Issue(p.Username, p.CompanyID, p.Role)
	if err != nil {
		return nil, fmt.Errorf("login: sign token: %w", err)
	}

	s.log.Info().Str("username", p.Username).Int64("company_id", p.CompanyID).Msg("login succeeded")

	return &ports.LoginResult{
		Token:     token,
		ExpiresIn: int64(s.codec.TTL().Seconds()),
		Principal: p,
	}, nil
}

// Register creates a principal under an existing company.
func (s *AuthService) Register(ctx context.Context, username, password string, companyID int64, role string) (*domain.Principal, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if !domain.ValidRole(role) {
		return nil, domain.ErrInvalidCredentials
	}

	if _, err := s.companies.FindByID(ctx, companyID); err != nil {
		if errors.Is(err, domain.ErrCompanyNotFound) {
			return nil, domain.ErrCompanyNotFound
		}
		return nil, fmt.Errorf("register: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	p := &domain.Principal{
		Username:     username,
		PasswordHash: string(hash),
		CompanyID:    companyID,
		Role:         role,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.principals.Create(ctx, p)
	if err != nil {
		return nil, err
	}
	return created, nil
}

// SetActive flips the revocation switch. Disabling a principal invalidates all
// of its outstanding tokens on the next request, since the gate re-resolves
// liveness from the store.
func (s *AuthService) SetActive(ctx context.Context, username string, active bool) error {
	if err := s.principals.SetActive(ctx, username, active); err != nil {
		return err
	}
	s.log.Info().Str("username", username).Bool("active", active).Msg("principal active flag updated")
	return nil
}

// ResolveLive decodes a bearer token and re-checks the principal against the
// credential store. Missing, disabled, or stale principals all collapse to
// ErrUnauthenticated; store failures pass through so the caller can surface
// them as an infrastructure error instead of an access denial.
func (s *AuthService) ResolveLive(ctx context.Context, token string) (domain.ResolvedPrincipal, error) {
	claims, err := s.codec.Decode(token)
	if err != nil {
		s.log.Debug().Err(err).Msg("token rejected")
		return domain.ResolvedPrincipal{}, domain.ErrUnauthenticated
	}

	p, err := s.principals.FindByUsername(ctx, claims.Username)
	if err != nil {
		if errors.Is(err, domain.ErrPrincipalNotFound) {
			return domain.ResolvedPrincipal{}, domain.ErrUnauthenticated
		}
		return domain.ResolvedPrincipal{}, fmt.Errorf("resolve principal: %w", err)
	}
	if !p.Active {
		return domain.ResolvedPrincipal{}, domain.ErrUnauthenticated
	}

	return domain.ResolvedPrincipal{
		Username:  p.Username,
		CompanyID: p.CompanyID,
		Role:      p.Role,
	}, nil
}
