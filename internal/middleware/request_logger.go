package middleware

import (
	"github.com/damacus/iron-presign/internal/logger"
	"github.com/damacus/iron-presign/internal/utils"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
)

// RequestID assigns an X-Request-ID and stores a request-scoped logger in the request context
func RequestID() echo.MiddlewareFunc {
	return echoMiddleware.RequestIDWithConfig(echoMiddleware.RequestIDConfig{
		Generator: func() string {
			return uuid.NewString()
		},
		RequestIDHandler: func(c echo.Context, id string) {
			c.Set(utils.ContextKeyRequestID, id)
			l := logger.Get().With().Str("request_id", id).Logger()
			req := c.Request()
			c.SetRequest(req.WithContext(logger.WithLogger(req.Context(), &l)))
		},
	})
}

// RequestLogger logs one line per request
func RequestLogger() echo.MiddlewareFunc {
	return echoMiddleware.RequestLoggerWithConfig(echoMiddleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURIPath:   true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echoMiddleware.RequestLoggerValues) error {
			event := logger.Ctx(c.Request().Context()).Info()
			if v.Error != nil {
				event = logger.Ctx(c.Request().Context()).Error().Err(v.Error)
			}
			event.
				Str("method", v.Method).
				Str("path", v.URIPath).
				Str("key", c.QueryParam("key")).
				Str("ip", v.RemoteIP).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request processed")
			return nil
		},
	})
}
