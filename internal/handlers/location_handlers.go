package handlers

import (
	"github.com/fathima-sithara/snapshoot-service/internal/domain"
	"github.com/fathima-sithara/snapshoot-service/internal/utils"
	"github.com/gofiber/fiber/v2"
)

type updateLocationRequest struct {
	Location domain.GeoPoint `json:"location"`
}

// POST /api/location/update
func (h *Handler) UpdateLocation(c *fiber.Ctx) error {
	var req updateLocationRequest
	if err := bind(c, &req); err != nil {
		return h.fail(c, err)
	}
	u, err := h.svc.Location.Update(c.UserContext(), identity(c), req.Location)
	if err != nil {
		return h.fail(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, u)
}

// GET /api/location/nearby/users?longitude=&latitude=&radius=&limit=
func (h *Handler) NearbyUsers(c *fiber.Ctx) error {
	lon, lat, err := coordinates(c)
	if err != nil {
		return h.fail(c, err)
	}
	radius, err := queryFloat(c, "radius", false)
	if err != nil {
		return h.fail(c, err)
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		return h.fail(c, err)
	}
	users, err := h.svc.Location.NearbyUsers(c.UserContext(), identity(c), lon, lat, radius, limit)
	if err != nil {
		return h.fail(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, users)
}
