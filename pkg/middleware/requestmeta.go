package middleware

import (
	"context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"inventory-system/pkg/contextkeys"
)

// RequestMeta assigns every request a uuid and captures the client IP and
// user agent so the audit trail can attribute actions without reaching back
// into the HTTP layer.
func RequestMeta() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := uuid.New().String()

			ctx := c.Request().Context()
			ctx = context.WithValue(ctx, contextkeys.RequestIDKey, requestID)
			ctx = context.WithValue(ctx, contextkeys.ClientIPKey, c.RealIP())
			ctx = context.WithValue(ctx, contextkeys.UserAgentKey, c.Request().UserAgent())
			c.SetRequest(c.Request().WithContext(ctx))

			c.Response().Header().Set("X-Request-ID", requestID)
			return next(c)
		}
	}
}
