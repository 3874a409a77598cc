package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/socialpulse/analytics-api/internal/api/metrics"
	"github.com/socialpulse/analytics-api/internal/core/domain"
	"github.com/socialpulse/analytics-api/internal/core/ports"
)

// AuthHandler serves the authentication surface: login, registration,
// revocation, and principal introspection.
type AuthHandler struct {
	authService   ports.AuthService
	accessService ports.AccessService
}

func NewAuthHandler(authService ports.AuthService, accessService ports.AccessService) *AuthHandler {
	return &AuthHandler{authService: authService, accessService: accessService}
}

// Login authenticates a principal and returns a bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		case errors.Is(err, domain.ErrAccountInactive):
			metrics.LoginsTotal.WithLabelValues("inactive").Inc()
		default:
			metrics.LoginsTotal.WithLabelValues("error").Inc()
		}
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, loginResponse{
		AccessToken: result.Token,
		TokenType:   "bearer",
		ExpiresIn:   result.ExpiresIn,
		CompanyID:   result.Principal.CompanyID,
		Username:    result.Principal.Username,
	})
}

// Register creates a new principal under an existing company.
//
// @Summary      Register a new principal
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      registerRequest  true  "Principal details"
// @Success      201   {object}  domain.Principal
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	created, err := h.authService.Register(c.Request().Context(), req.Username, req.Password, req.CompanyID, req.Role)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

// SetActive flips a principal's active flag. Disabling revokes all of the
// principal's outstanding tokens on their next use.
//
// @Summary      Enable or disable a principal
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        username  path      string            true  "Username"
// @Param        body      body      setActiveRequest  true  "Desired active state"
// @Success      200       {object}  messageResponse
// @Failure      400       {object}  errorResponse
// @Failure      403       {object}  errorResponse
// @Failure      404       {object}  errorResponse
// @Router       /auth/users/{username}/active [patch]
func (h *AuthHandler) SetActive(c echo.Context) error {
	var req setActiveRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	username := c.Param("username")
	if err := h.authService.SetActive(c.Request().Context(), username, *req.Active); err != nil {
		return err
	}

	msg := "principal enabled"
	if !*req.Active {
		msg = "principal disabled"
	}
	return c.JSON(http.StatusOK, messageResponse{Message: msg})
}

// Me returns the caller's resolved identity.
//
// @Summary      Current principal
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  meResponse
// @Failure      401  {object}  errorResponse
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	p, err := principalFrom(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, meResponse{
		Username:  p.Username,
		CompanyID: p.CompanyID,
		Role:      p.Role,
	})
}

// Accounts lists the social accounts owned by the caller's company.
//
// @Summary      My company's accounts
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   accountResponse
// @Failure      401  {object}  errorResponse
// @Router       /auth/accounts [get]
func (h *AuthHandler) Accounts(c echo.Context) error {
	p, err := principalFrom(c)
	if err != nil {
		return err
	}

	accounts, err := h.accessService.ListAccounts(c.Request().Context(), p.CompanyID)
	if err != nil {
		return err
	}

	out := make([]accountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, accountResponse{
			ID:           a.ID,
			Handle:       a.Handle,
			DisplayName:  a.DisplayName,
			CompanyID:    a.CompanyID,
			RegisteredAt: a.RegisteredAt,
		})
	}
	return c.JSON(http.StatusOK, out)
}
