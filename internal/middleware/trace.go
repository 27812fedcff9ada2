package middleware

import (
	"myTrekMarket/pkg/logger"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// TraceMiddleware propagates X-Request-ID, generating one when absent, and
// stores it on the request context for the logger.
func TraceMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			traceID := req.Header.Get(echo.HeaderXRequestID)
			if traceID == "" || len(traceID) > 128 {
				traceID = uuid.NewString()
			}

			c.Response().Header().Set(echo.HeaderXRequestID, traceID)
			c.SetRequest(req.WithContext(logger.WithTraceID(req.Context(), traceID)))

			return next(c)
		}
	}
}
