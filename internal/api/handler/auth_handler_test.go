package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/socialpulse/analytics-api/internal/api/middleware"
	"github.com/socialpulse/analytics-api/internal/core/domain"
	"github.com/socialpulse/analytics-api/internal/core/ports"
)

type stubAuthService struct {
	loginFn     func(ctx context.Context, username, password string) (*ports.LoginResult, error)
	registerFn  func(ctx context.Context, username, password string, companyID int64, role string) (*domain.Principal, error)
	setActiveFn func(ctx context.Context, username string, active bool) error
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubAuthService) Register(ctx context.Context, username, password string, companyID int64, role string) (*domain.Principal, error) {
	return s.registerFn(ctx, username, password, companyID, role)
}

func (s *stubAuthService) SetActive(ctx context.Context, username string, active bool) error {
	return s.setActiveFn(ctx, username, active)
}

func (s *stubAuthService) ResolveLive(context.Context, string) (domain.ResolvedPrincipal, error) {
	return domain.ResolvedPrincipal{}, errors.New("not implemented")
}

type stubAccessService struct {
	accounts []*domain.SocialAccount
	owners   map[string]int64
}

func (s *stubAccessService) HasAccess(_ context.Context, companyID int64, handle string) error {
	owner, ok := s.owners[handle]
	if !ok {
		return domain.ErrAccountNotFound
	}
	if owner != companyID {
		return domain.ErrForbidden
	}
	return nil
}

func (s *stubAccessService) ListAccounts(_ context.Context, companyID int64) ([]*domain.SocialAccount, error) {
	var out []*domain.SocialAccount
	for _, a := range s.accounts {
		if a.CompanyID == companyID {
			out = append(out, a)
		}
	}
	return out, nil
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func jsonRequest(e *echo.Echo, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Login_Success(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, username, password string) (*ports.LoginResult, error) {
			if username != "admin_interbank" || password != "s3cret" {
				t.Fatalf("unexpected args: %s %s", username, password)
			}
			return &ports.LoginResult{
				Token:     "token123",
				ExpiresIn: 1800,
				Principal: &domain.Principal{Username: username, CompanyID: 1, Role: domain.RoleAdmin},
			}, nil
		},
	}
	h := NewAuthHandler(stub, &stubAccessService{})

	c, rec := jsonRequest(e, http.MethodPost, "/auth/login", `{"username":"admin_interbank","password":"s3cret"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["access_token"] != "token123" || resp["token_type"] != "bearer" {
		t.Fatalf("unexpected token payload: %+v", resp)
	}
	if resp["expires_in"] != float64(1800) || resp["company_id"] != float64(1) {
		t.Fatalf("unexpected metadata: %+v", resp)
	}
	if resp["username"] != "admin_interbank" {
		t.Fatalf("unexpected username: %v", resp["username"])
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (*ports.LoginResult, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(stub, &stubAccessService{})

	c, _ := jsonRequest(e, http.MethodPost, "/auth/login", `{"username":"alice","password":"bad"}`)
	err := h.Login(c)
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Login_InvalidPayload(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (*ports.LoginResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewAuthHandler(stub, &stubAccessService{})

	c, rec := jsonRequest(e, http.MethodPost, "/auth/login", "{")
	if err := h.Login(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthHandler_Login_MissingFields(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (*ports.LoginResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewAuthHandler(stub, &stubAccessService{})

	c, rec := jsonRequest(e, http.MethodPost, "/auth/login", `{"username":"alice"}`)
	if err := h.Login(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthHandler_Register_Success(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, username, password string, companyID int64, role string) (*domain.Principal, error) {
			if username != "bob" || companyID != 1 || role != domain.RoleUser {
				t.Fatalf("unexpected args: %s %d %s", username, companyID, role)
			}
			return &domain.Principal{Username: username, CompanyID: companyID, Role: role, Active: true}, nil
		},
	}
	h := NewAuthHandler(stub, &stubAccessService{})

	c, rec := jsonRequest(e, http.MethodPost, "/auth/register",
		`{"username":"bob","password":"longenough","company_id":1,"role":"user"}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Fatalf("password hash leaked in response: %s", rec.Body.String())
	}
}

func TestAuthHandler_Register_Duplicate(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		registerFn: func(context.Context, string, string, int64, string) (*domain.Principal, error) {
			return nil, domain.ErrDuplicateUsername
		},
	}
	h := NewAuthHandler(stub, &stubAccessService{})

	c, _ := jsonRequest(e, http.MethodPost, "/auth/register",
		`{"username":"bob","password":"longenough","company_id":1,"role":"user"}`)
	if err := h.Register(c); !errors.Is(err, domain.ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}
}

func TestAuthHandler_Register_BadRole(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		registerFn: func(context.Context, string, string, int64, string) (*domain.Principal, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewAuthHandler(stub, &stubAccessService{})

	c, rec := jsonRequest(e, http.MethodPost, "/auth/register",
		`{"username":"bob","password":"longenough","company_id":1,"role":"superuser"}`)
	if err := h.Register(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthHandler_SetActive(t *testing.T) {
	e := newEcho()
	var gotUsername string
	var gotActive bool
	stub := &stubAuthService{
		setActiveFn: func(_ context.Context, username string, active bool) error {
			gotUsername, gotActive = username, active
			return nil
		},
	}
	h := NewAuthHandler(stub, &stubAccessService{})

	c, rec := jsonRequest(e, http.MethodPatch, "/auth/users/carol/active", `{"active":false}`)
	c.SetParamNames("username")
	c.SetParamValues("carol")
	if err := h.SetActive(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotUsername != "carol" || gotActive != false {
		t.Fatalf("unexpected call: %s %v", gotUsername, gotActive)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	e := newEcho()
	h := NewAuthHandler(&stubAuthService{}, &stubAccessService{})

	c, rec := jsonRequest(e, http.MethodGet, "/auth/me", "")
	c.Set("principal", domain.ResolvedPrincipal{Username: "alice", CompanyID: 1, Role: domain.RoleViewer})
	if _, ok := middleware.PrincipalFrom(c); !ok {
		t.Fatalf("test setup: principal not visible through middleware accessor")
	}

	if err := h.Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp meResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Username != "alice" || resp.CompanyID != 1 || resp.Role != domain.RoleViewer {
		t.Fatalf("unexpected identity: %+v", resp)
	}
}

func TestAuthHandler_Accounts(t *testing.T) {
	e := newEcho()
	access := &stubAccessService{accounts: []*domain.SocialAccount{
		{ID: "a1", Handle: "Interbank", CompanyID: 1},
		{ID: "a3", Handle: "BCPComunica", CompanyID: 7},
	}}
	h := NewAuthHandler(&stubAuthService{}, access)

	c, rec := jsonRequest(e, http.MethodGet, "/auth/accounts", "")
	c.Set("principal", domain.ResolvedPrincipal{Username: "alice", CompanyID: 1, Role: domain.RoleViewer})

	if err := h.Accounts(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp []accountResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp) != 1 || resp[0].Handle != "Interbank" {
		t.Fatalf("unexpected accounts: %+v", resp)
	}
}
