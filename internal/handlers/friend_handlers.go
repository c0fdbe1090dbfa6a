package handlers

import (
	"github.com/fathima-sithara/snapshoot-service/internal/utils"
	"github.com/gofiber/fiber/v2"
)

type findUserRequest struct {
	Email  string `json:"email" validate:"omitempty,email"`
	UserID string `json:"user_id"`
}

// GET /api/friends
func (h *Handler) ListFriends(c *fiber.Ctx) error {
	friends, err := h.svc.Graph.ListFriends(c.UserContext(), identity(c))
	if err != nil {
		return h.fail(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, friends)
}

// GET /api/friends/requests
func (h *Handler) ListFriendRequests(c *fiber.Ctx) error {
	reqs, err := h.svc.Graph.ListIncomingRequests(c.UserContext(), identity(c))
	if err != nil {
		return h.fail(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, reqs)
}

// POST /api/friends/find
func (h *Handler) FindUser(c *fiber.Ctx) error {
	var req findUserRequest
	if err := bind(c, &req); err != nil {
		return h.fail(c, err)
	}
	u, err := h.svc.Graph.FindUser(c.UserContext(), req.Email, req.UserID)
	if err != nil {
		return h.fail(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, u)
}

// POST /api/friends/request/:user_id
func (h *Handler) SendFriendRequest(c *fiber.Ctx) error {
	edge, err := h.svc.Graph.SendRequest(c.UserContext(), identity(c), c.Params("user_id"))
	if err != nil {
		return h.fail(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusCreated, edge)
}

// PATCH /api/friends/accept/:request_id
func (h *Handler) AcceptFriendRequest(c *fiber.Ctx) error {
	edge, err := h.svc.Graph.AcceptRequest(c.UserContext(), identity(c), c.Params("request_id"))
	if err != nil {
		return h.fail(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, edge)
}

// DELETE /api/friends/:user_id
func (h *Handler) RemoveFriend(c *fiber.Ctx) error {
	if err := h.svc.Graph.RemoveFriend(c.UserContext(), identity(c), c.Params("user_id")); err != nil {
		return h.fail(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, fiber.Map{"removed": true})
}
