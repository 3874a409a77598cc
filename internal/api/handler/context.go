package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/socialpulse/analytics-api/internal/api/middleware"
	"github.com/socialpulse/analytics-api/internal/core/domain"
)

// principalFrom extracts the principal injected by the Authenticate
// middleware. Its absence means the route was wired without the gate, which
// must fail closed.
func principalFrom(c echo.Context) (domain.ResolvedPrincipal, error) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return domain.ResolvedPrincipal{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return p, nil
}
