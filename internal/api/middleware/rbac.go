package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/civicvoice/platform/internal/core/domain"
)

// RBAC enforces role-based access control. Role comparison is
// case-insensitive via the canonical role enumeration.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		if normalized, ok := domain.NormalizeRole(r); ok {
			allowed[normalized] = struct{}{}
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, _ := c.Get("role").(string)
			role, ok := domain.NormalizeRole(raw)
			if !ok {
				return c.JSON(http.StatusForbidden, map[string]interface{}{
					"success": false,
					"message": "forbidden",
				})
			}
			if _, ok := allowed[role]; !ok {
				return c.JSON(http.StatusForbidden, map[string]interface{}{
					"success": false,
					"message": "forbidden: requires one of " + joinRoles(allowedRoles) + ", have " + role,
				})
			}
			return next(c)
		}
	}
}

func joinRoles(roles []string) string {
	out := ""
	for i, r := range roles {
		if i > 0 {
			out += ", "
		}
		out += r
	}
	return out
}
