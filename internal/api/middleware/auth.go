package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/socialpulse/analytics-api/internal/api/metrics"
	"github.com/socialpulse/analytics-api/internal/core/domain"
	"github.com/socialpulse/analytics-api/internal/core/ports"
)

const principalContextKey = "principal"

// Authenticate is stage one of the request gate: it extracts the bearer token,
// resolves it to a live principal through the credential store, and injects
// the result into the request context. Every failure here is a 401; a store
// outage is the one exception and surfaces as 503 so an infrastructure problem
// never masquerades as a revoked credential.
func Authenticate(auth ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				metrics.GateDenialsTotal.WithLabelValues("authenticate", "missing_header").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				metrics.GateDenialsTotal.WithLabelValues("authenticate", "missing_header").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			principal, err := auth.ResolveLive(c.Request().Context(), parts[1])
			if err != nil {
				if errors.Is(err, domain.ErrUnauthenticated) {
					metrics.GateDenialsTotal.WithLabelValues("authenticate", "principal_rejected").Inc()
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
				}
				metrics.GateDenialsTotal.WithLabelValues("authenticate", "store_unavailable").Inc()
				return echo.NewHTTPError(http.StatusServiceUnavailable, "authentication temporarily unavailable")
			}

			c.Set(principalContextKey, principal)
			return next(c)
		}
	}
}

// PrincipalFrom returns the principal injected by Authenticate. ok is false
// when the middleware did not run for this route.
func PrincipalFrom(c echo.Context) (domain.ResolvedPrincipal, bool) {
	p, ok := c.Get(principalContextKey).(domain.ResolvedPrincipal)
	return p, ok
}
