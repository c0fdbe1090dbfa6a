package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const HeaderRequestID = "X-Request-ID"

type RequestObserver interface {
	ObserveRequest(method, route string, status int, took time.Duration)
}

// RequestLogger tags each request with an id, logs it once it completes and
// reports it to obs when obs is non-nil. Handler errors are rendered here so
// the logged status is the one the client sees.
func RequestLogger(log *zap.SugaredLogger, obs RequestObserver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		rid := c.Get(HeaderRequestID)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Locals("request_id", rid)
		c.Set(HeaderRequestID, rid)

		if err := c.Next(); err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		took := time.Since(start)
		status := c.Response().StatusCode()
		route := c.Route().Path
		fields := []interface{}{
			"request_id", rid,
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"took", took,
			"ip", c.IP(),
		}
		if id, ok := IdentityFrom(c); ok {
			fields = append(fields, "user_id", id.UserID)
		}
		switch {
		case status >= fiber.StatusInternalServerError:
			log.Errorw("request", fields...)
		case status >= fiber.StatusBadRequest:
			log.Infow("request", fields...)
		default:
			log.Debugw("request", fields...)
		}
		if obs != nil {
			obs.ObserveRequest(c.Method(), route, status, took)
		}
		return nil
	}
}
