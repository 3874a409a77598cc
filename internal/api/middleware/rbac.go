package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/socialpulse/analytics-api/internal/api/metrics"
	"github.com/socialpulse/analytics-api/internal/core/domain"
)

// Operation classifies what a route does to the data it touches. Roles grant
// operation classes, not individual endpoints.
type Operation string

const (
	// OpRead covers listings, histories, model info, and predictions.
	OpRead Operation = "read"
	// OpTrain covers training and deleting models.
	OpTrain Operation = "train"
	// OpIngest covers submitting scraped snapshots and posts.
	OpIngest Operation = "ingest"
	// OpManage covers principal administration.
	OpManage Operation = "manage"
)

// rolePolicy maps each role to the operation classes it may perform. Role
// never widens account access: a company's admin is still confined to the
// company's own accounts by the AccountAccess stage.
var rolePolicy = map[string]map[Operation]bool{
	domain.RoleViewer: {
		OpRead: true,
	},
	domain.RoleUser: {
		OpRead:  true,
		OpTrain: true,
	},
	domain.RoleAdmin: {
		OpRead:   true,
		OpTrain:  true,
		OpIngest: true,
		OpManage: true,
	},
}

// RequireOperation enforces the role policy for one operation class. It runs
// after Authenticate, so a missing principal is a wiring error, not a caller
// mistake.
func RequireOperation(op Operation) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, ok := PrincipalFrom(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
			}

			if !rolePolicy[principal.Role][op] {
				metrics.GateDenialsTotal.WithLabelValues("authorize", "forbidden").Inc()
				return echo.NewHTTPError(http.StatusForbidden, "role does not permit this operation")
			}

			return next(c)
		}
	}
}
