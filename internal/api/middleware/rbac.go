package middleware

import (
	"errors"
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/pingcraft/identity-system/internal/api/metrics"
	"github.com/pingcraft/identity-system/internal/core/domain"
	"github.com/pingcraft/identity-system/internal/core/ports"
)

// loginUserKey is the echo context key holding the resolved caller.
const loginUserKey = "login_user"

// RequireRole is the access gate wrapping privileged routes. Each route
// declares its minimum role once, here, instead of scattering checks
// through handlers. The gate resolves the caller's session to a live user,
// maps the stored role string, and permits or rejects; denials land in the
// audit trail. audit may be nil, in which case denials are only counted.
func RequireRole(svc ports.IdentityService, audit ports.AuditSink, required domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// Public route: no identity resolution at all.
			if required == domain.RoleNone {
				return next(c)
			}

			sessionID := SessionID(c)
			user, err := svc.CurrentUser(c.Request().Context(), sessionID)
			if err != nil {
				if errors.Is(err, domain.ErrNotAuthenticated) {
					metrics.AccessDeniedTotal.WithLabelValues("not_authenticated").Inc()
					recordDenial(audit, "", sessionID)
				}
				return err
			}

			role := domain.ParseRole(user.Role)
			if required == domain.RoleAdmin && role != domain.RoleAdmin {
				metrics.AccessDeniedTotal.WithLabelValues("forbidden").Inc()
				recordDenial(audit, user.Account, sessionID)
				return fmt.Errorf("%w: admin role required", domain.ErrForbidden)
			}

			c.Set(loginUserKey, user)
			return next(c)
		}
	}
}

func recordDenial(audit ports.AuditSink, account, sessionID string) {
	if audit == nil {
		return
	}
	audit.Enqueue(ports.AuditInput{
		Account:   account,
		Action:    domain.AuditActionDenied,
		Outcome:   domain.AuditOutcomeFailure,
		SessionID: sessionID,
	})
}

// LoginUser returns the caller resolved by RequireRole, or nil on public
// routes.
func LoginUser(c echo.Context) *domain.User {
	user, _ := c.Get(loginUserKey).(*domain.User)
	return user
}
