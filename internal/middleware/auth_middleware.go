package middleware

import (
	"net/http"

	"github.com/damacus/iron-presign/internal/logger"
	"github.com/damacus/iron-presign/internal/services"
	"github.com/damacus/iron-presign/internal/utils"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
)

// AuthMiddleware requires an API token on every non-public route.
// Tokens are read from "Authorization: Bearer <token>" or X-API-Key.
// It is a no-op when authService has no tokens configured.
func AuthMiddleware(authService *services.AuthService) echo.MiddlewareFunc {
	if !authService.Enabled() {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}

	return echoMiddleware.KeyAuthWithConfig(echoMiddleware.KeyAuthConfig{
		// Skip for public routes
		Skipper: func(c echo.Context) bool {
			path := c.Request().URL.Path
			return path == "/health" || path == "/metrics"
		},
		KeyLookup:  "header:" + echo.HeaderAuthorization + ",header:X-API-Key",
		AuthScheme: "Bearer",
		Validator: func(key string, c echo.Context) (bool, error) {
			if !authService.Verify(key) {
				return false, nil
			}
			c.Set(utils.ContextKeyTokenID, services.TokenID(key))
			return true, nil
		},
		ErrorHandler: func(err error, c echo.Context) error {
			logger.Ctx(c.Request().Context()).Warn().
				Err(err).
				Str("path", c.Request().URL.Path).
				Msg("rejected unauthenticated request")
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		},
	})
}
