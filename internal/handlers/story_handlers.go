package handlers

import (
	"github.com/fathima-sithara/snapshoot-service/internal/domain"
	"github.com/fathima-sithara/snapshoot-service/internal/utils"
	"github.com/gofiber/fiber/v2"
)

type createStoryRequest struct {
	Location domain.GeoPoint `json:"location"`
	Media    domain.Media    `json:"media"`
}

// GET /api/stories
func (h *Handler) ListFriendsStories(c *fiber.Ctx) error {
	stories, err := h.svc.Stories.ListFriendsStories(c.UserContext(), identity(c))
	if err != nil {
		return h.fail(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, stories)
}

// GET /api/stories/nearby?longitude=&latitude=&radius=
func (h *Handler) ListNearbyStories(c *fiber.Ctx) error {
	lon, lat, err := coordinates(c)
	if err != nil {
		return h.fail(c, err)
	}
	radius, err := queryFloat(c, "radius", false)
	if err != nil {
		return h.fail(c, err)
	}
	stories, err := h.svc.Stories.ListNearby(c.UserContext(), identity(c), lon, lat, radius)
	if err != nil {
		return h.fail(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, stories)
}

// POST /api/stories
func (h *Handler) CreateStory(c *fiber.Ctx) error {
	var req createStoryRequest
	if err := bind(c, &req); err != nil {
		return h.fail(c, err)
	}
	st, err := h.svc.Stories.Create(c.UserContext(), identity(c), req.Location, req.Media)
	if err != nil {
		return h.fail(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusCreated, st)
}

// POST /api/stories/media?longitude=&latitude=
func (h *Handler) CreateStoryMedia(c *fiber.Ctx) error {
	lon, lat, err := coordinates(c)
	if err != nil {
		return h.fail(c, err)
	}
	st, err := h.svc.Stories.CreateUpload(c.UserContext(), identity(c), domain.NewPoint(lon, lat), upload(c))
	if err != nil {
		return h.fail(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusCreated, st)
}

// GET /api/stories/:story_id
func (h *Handler) GetStory(c *fiber.Ctx) error {
	st, err := h.svc.Stories.GetByID(c.UserContext(), identity(c), c.Params("story_id"))
	if err != nil {
		return h.fail(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, st)
}

// DELETE /api/stories/:story_id
func (h *Handler) DeleteStory(c *fiber.Ctx) error {
	if err := h.svc.Stories.Delete(c.UserContext(), identity(c), c.Params("story_id")); err != nil {
		return h.fail(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, fiber.Map{"deleted": true})
}

func coordinates(c *fiber.Ctx) (lon, lat float64, err error) {
	if lon, err = queryFloat(c, "longitude", true); err != nil {
		return 0, 0, err
	}
	if lat, err = queryFloat(c, "latitude", true); err != nil {
		return 0, 0, err
	}
	return lon, lat, nil
}
