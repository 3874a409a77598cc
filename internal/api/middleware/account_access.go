package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/socialpulse/analytics-api/internal/api/metrics"
	"github.com/socialpulse/analytics-api/internal/core/domain"
	"github.com/socialpulse/analytics-api/internal/core/ports"
)

// AccountAccess is stage two of the request gate for routes carrying an
// :account path parameter. It runs strictly after Authenticate: the caller is
// already a live principal, so every denial here is a 403 or 404, never 401.
func AccountAccess(access ports.AccessService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, ok := PrincipalFrom(c)
			if !ok {
				// Route misconfiguration: Authenticate did not run.
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
			}

			handle := c.Param("account")
			if handle == "" {
				return echo.NewHTTPError(http.StatusBadRequest, "missing account parameter")
			}

			if err := access.HasAccess(c.Request().Context(), principal.CompanyID, handle); err != nil {
				switch {
				case errors.Is(err, domain.ErrForbidden):
					metrics.GateDenialsTotal.WithLabelValues("authorize", "forbidden").Inc()
					return echo.NewHTTPError(http.StatusForbidden, "account belongs to another company")
				case errors.Is(err, domain.ErrAccountNotFound):
					metrics.GateDenialsTotal.WithLabelValues("authorize", "unknown_account").Inc()
					return echo.NewHTTPError(http.StatusNotFound, "account not found")
				default:
					metrics.GateDenialsTotal.WithLabelValues("authorize", "store_unavailable").Inc()
					return echo.NewHTTPError(http.StatusServiceUnavailable, "authorization temporarily unavailable")
				}
			}

			return next(c)
		}
	}
}
