package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/fathima-sithara/snapshoot-service/internal/utils"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func Recovery(log *zap.SugaredLogger) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				log.Errorw("panic recovered",
					"panic", fmt.Sprint(r),
					"path", c.Path(),
					"stack", string(debug.Stack()),
				)
				err = utils.JSONError(c, fiber.StatusInternalServerError, "internal server error")
			}
		}()
		return c.Next()
	}
}
