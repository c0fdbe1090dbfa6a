package handlers

import (
	"github.com/fathima-sithara/snapshoot-service/internal/domain"
	"github.com/fathima-sithara/snapshoot-service/internal/services"
	"github.com/fathima-sithara/snapshoot-service/internal/utils"
	"github.com/gofiber/fiber/v2"
)

type createUserRequest struct {
	Username string      `json:"username" validate:"required,alpha,min=2,max=25"`
	Email    string      `json:"email" validate:"required,email"`
	Password string      `json:"password" validate:"required,min=12,max=32"`
	Bio      string      `json:"bio" validate:"max=160"`
	Avatar   string      `json:"avatar" validate:"omitempty,url"`
	Role     domain.Role `json:"role" validate:"omitempty,oneof=user admin"`
}

type updateUserRequest struct {
	Username *string      `json:"username" validate:"omitempty,alpha,min=2,max=25"`
	Email    *string      `json:"email" validate:"omitempty,email"`
	Password *string      `json:"password" validate:"omitempty,min=12,max=32"`
	Bio      *string      `json:"bio" validate:"omitempty,max=160"`
	Avatar   *string      `json:"avatar" validate:"omitempty,url"`
	Role     *domain.Role `json:"role" validate:"omitempty,oneof=user admin"`
}

func (r updateUserRequest) input() services.UpdateUserInput {
	return services.UpdateUserInput{
		Username: r.Username,
		Email:    r.Email,
		Password: r.Password,
		Bio:      r.Bio,
		Avatar:   r.Avatar,
		Role:     r.Role,
	}
}

// GET /api/users/me
func (h *Handler) Me(c *fiber.Ctx) error {
	u, err := h.svc.Users.Me(c.UserContext(), identity(c))
	if err != nil {
		return h.fail(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, u)
}

// PUT /api/users/me
func (h *Handler) UpdateMe(c *fiber.Ctx) error {
	var req updateUserRequest
	if err := bind(c, &req); err != nil {
		return h.fail(c, err)
	}
	u, err := h.svc.Users.UpdateMe(c.UserContext(), identity(c), req.input())
	if err != nil {
		return h.fail(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, u)
}

// DELETE /api/users/me
func (h *Handler) DeleteMe(c *fiber.Ctx) error {
	if err := h.svc.Users.DeleteMe(c.UserContext(), identity(c)); err != nil {
		return h.fail(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, fiber.Map{"deleted": true})
}

// GET /api/users/:id
func (h *Handler) GetUser(c *fiber.Ctx) error {
	u, err := h.svc.Users.Get(c.UserContext(), identity(c), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, u)
}

// GET /api/users
func (h *Handler) ListUsers(c *fiber.Ctx) error {
	users, err := h.svc.Users.List(c.UserContext(), identity(c))
	if err != nil {
		return h.fail(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, users)
}

// POST /api/users
func (h *Handler) CreateUser(c *fiber.Ctx) error {
	var req createUserRequest
	if err := bind(c, &req); err != nil {
		return h.fail(c, err)
	}
	u, err := h.svc.Users.Create(c.UserContext(), identity(c), services.CreateUserInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Bio:      req.Bio,
		Avatar:   req.Avatar,
		Role:     req.Role,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusCreated, u)
}

// PUT /api/users/:id
func (h *Handler) UpdateUser(c *fiber.Ctx) error {
	var req updateUserRequest
	if err := bind(c, &req); err != nil {
		return h.fail(c, err)
	}
	u, err := h.svc.Users.Update(c.UserContext(), identity(c), c.Params("id"), req.input())
	if err != nil {
		return h.fail(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, u)
}

// DELETE /api/users/:id
func (h *Handler) DeleteUser(c *fiber.Ctx) error {
	if err := h.svc.Users.Delete(c.UserContext(), identity(c), c.Params("id")); err != nil {
		return h.fail(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, fiber.Map{"deleted": true})
}
