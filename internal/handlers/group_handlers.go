package handlers

import (
	"github.com/fathima-sithara/snapshoot-service/internal/utils"
	"github.com/gofiber/fiber/v2"
)

type createGroupRequest struct {
	Name    string   `json:"name" validate:"required,min=3,max=50"`
	Members []string `json:"members"`
}

type renameGroupRequest struct {
	Name string `json:"name" validate:"required,min=3,max=50"`
}

type addMembersRequest struct {
	Members []string `json:"members" validate:"required,min=1"`
}

// GET /api/groups
func (h *Handler) ListGroups(c *fiber.Ctx) error {
	groups, err := h.svc.Groups.List(c.UserContext(), identity(c))
	if err != nil {
		return h.fail(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, groups)
}

// POST /api/groups
func (h *Handler) CreateGroup(c *fiber.Ctx) error {
	var req createGroupRequest
	if err := bind(c, &req); err != nil {
		return h.fail(c, err)
	}
	g, err := h.svc.Groups.Create(c.UserContext(), identity(c), req.Name, req.Members)
	if err != nil {
		return h.fail(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusCreated, g)
}

// GET /api/groups/:group_id
func (h *Handler) GetGroup(c *fiber.Ctx) error {
	g, err := h.svc.Groups.Get(c.UserContext(), identity(c), c.Params("group_id"))
	if err != nil {
		return h.fail(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, g)
}

// PUT /api/groups/:group_id
func (h *Handler) RenameGroup(c *fiber.Ctx) error {
	var req renameGroupRequest
	if err := bind(c, &req); err != nil {
		return h.fail(c, err)
	}
	g, err := h.svc.Groups.Rename(c.UserContext(), identity(c), c.Params("group_id"), req.Name)
	if err != nil {
		return h.fail(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, g)
}

// DELETE /api/groups/:group_id
func (h *Handler) DeleteGroup(c *fiber.Ctx) error {
	if err := h.svc.Groups.Delete(c.UserContext(), identity(c), c.Params("group_id")); err != nil {
		return h.fail(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, fiber.Map{"deleted": true})
}

// POST /api/groups/:group_id/members
func (h *Handler) AddGroupMembers(c *fiber.Ctx) error {
	var req addMembersRequest
	if err := bind(c, &req); err != nil {
		return h.fail(c, err)
	}
	g, err := h.svc.Groups.AddMembers(c.UserContext(), identity(c), c.Params("group_id"), req.Members)
	if err != nil {
		return h.fail(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, g)
}

// DELETE /api/groups/:group_id/members/:user_id
func (h *Handler) RemoveGroupMember(c *fiber.Ctx) error {
	g, err := h.svc.Groups.RemoveMember(c.UserContext(), identity(c), c.Params("group_id"), c.Params("user_id"))
	if err != nil {
		return h.fail(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, g)
}
