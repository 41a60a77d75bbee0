package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/gymcheck/checkin-api/internal/api/handler"
)

// RequestLogger writes one zerolog entry per request. Errors are rendered
// through the echo error handler first so the logged status is the one the
// client received.
func RequestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			level := zerolog.InfoLevel
			switch {
			case res.Status >= 500:
				level = zerolog.ErrorLevel
			case res.Status >= 400:
				level = zerolog.WarnLevel
			}

			evt := log.WithLevel(level).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Str("method", req.Method).
				Str("path", c.Path()).
				Str("uri", req.RequestURI).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("remote_ip", c.RealIP())
			if userID, ok := c.Get(handler.ContextUserID).(string); ok && userID != "" {
				evt = evt.Str("user_id", userID)
			}
			evt.Msg("request")

			return err
		}
	}
}
