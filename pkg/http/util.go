package http

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// ClientIP resolves the caller identity for rate limiting, honoring proxy
// headers before falling back to the socket address.
func ClientIP(c echo.Context) string {
	if xf := c.Request().Header.Get("X-Forwarded-For"); xf != "" {
		return strings.TrimSpace(strings.Split(xf, ",")[0])
	}
	if xr := c.Request().Header.Get("X-Real-Ip"); xr != "" {
		return strings.TrimSpace(xr)
	}
	return c.RealIP()
}
