package handlers

import (
	"github.com/fathima-sithara/snapshoot-service/internal/utils"
	"github.com/gofiber/fiber/v2"
)

// ObjectSource is a media store that can hand back object bytes, such as
// storage.MemoryStore.
type ObjectSource interface {
	Object(key string) (data []byte, contentType string, ok bool)
}

// MediaObjects serves objects from src by key, for deployments where media
// is not hosted by an object store.
func MediaObjects(src ObjectSource) fiber.Handler {
	return func(c *fiber.Ctx) error {
		data, ct, ok := src.Object(c.Params("*"))
		if !ok {
			return utils.JSONError(c, fiber.StatusNotFound, "media not found")
		}
		c.Set(fiber.HeaderContentType, ct)
		c.Set(fiber.HeaderCacheControl, "private, max-age=86400")
		return c.Send(data)
	}
}
