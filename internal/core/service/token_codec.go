package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token decode failure kinds. The auth middleware collapses both to a 401,
// but they stay distinct here so logs can tell tampering from expiry.
var ErrInvalidToken = errors.New("invalid token")
var ErrExpiredToken = errors.New("token expired")

const defaultTokenTTL = 30 * time.Minute

// TokenClaims is the identity a token carries. Role and the active flag are
// never trusted from here alone; the request gate re-resolves the principal
// from the store on every use.
type TokenClaims struct {
	Username  string
	CompanyID int64
	Role      string
}

// TokenCodec issues and verifies HS256 bearer tokens. It is a pure function
// of its inputs, the secret, and the injected clock; it holds no per-token
// state, so outstanding tokens can only be invalidated by disabling the
// owning principal.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenCodec(secret string, ttl time.Duration) *TokenCodec {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenCodec{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// WithClock replaces the codec's clock. Intended for tests.
func (c *TokenCodec) WithClock(now func() time.Time) *TokenCodec {
	c.now = now
	return c
}

// TTL returns the configured token lifetime.
func (c *TokenCodec) TTL() time.Duration {
	return c.ttl
}

// Issue signs a token scoped to (username, company) that expires after the
// configured TTL.
func (c *TokenCodec) Issue(username string, companyID int64, role string) (string, error) {
	now := c.now()
	claims := jwt.MapClaims{
		"sub":        username,
		"company_id": companyID,
		"role":       role,
		"iat":        now.Unix(),
		"exp":        now.Add(c.ttl).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(c.secret)
}

// Decode verifies the signature and expiry and returns the embedded identity.
func (c *TokenCodec) Decode(token string) (*TokenClaims, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return c.secret, nil
	}, jwt.WithTimeFunc(c.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if !tkn.Valid {
		return nil, ErrInvalidToken
	}

	username, _ := claims["sub"].(string)
	companyID, ok := claims["company_id"].(float64)
	role, _ := claims["role"].(string)
	if username == "" || !ok {
		return nil, ErrInvalidToken
	}

	return &TokenClaims{Username: username, CompanyID: int64(companyID), Role: role}, nil
}
