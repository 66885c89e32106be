package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// The service only returns JSON, so nothing may be loaded or framed
const contentSecurityPolicy = "default-src 'none'; frame-ancestors 'none'; base-uri 'none'"

func SecurityHeaders() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			headers := c.Response().Header()
			headers.Set("X-Frame-Options", "DENY")
			headers.Set("X-Content-Type-Options", "nosniff")
			headers.Set("Referrer-Policy", "no-referrer")
			headers.Set("Content-Security-Policy", contentSecurityPolicy)
			// signed URLs are bearer capabilities
			headers.Set("Cache-Control", "no-store")

			if isSecureRequest(c) {
				headers.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}

			return next(c)
		}
	}
}

func isSecureRequest(c echo.Context) bool {
	req := c.Request()
	if req.TLS != nil {
		return true
	}

	return strings.EqualFold(req.Header.Get("X-Forwarded-Proto"), "https")
}
