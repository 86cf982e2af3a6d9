package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ctxPrincipal extracts the auth claims injected by the Auth middleware and
// performs a fast-fail check before any service call: a non-empty principal
// id proves the middleware ran.
func ctxPrincipal(c echo.Context) (id, role string, err error) {
	id, _ = c.Get("principal_id").(string)
	if id == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	role, _ = c.Get("role").(string)
	return id, role, nil
}
