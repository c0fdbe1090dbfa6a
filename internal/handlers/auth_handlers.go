package handlers

import (
	"github.com/fathima-sithara/snapshoot-service/internal/utils"
	"github.com/gofiber/fiber/v2"
)

type registerRequest struct {
	Username string `json:"username" validate:"required,alpha,min=2,max=25"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=32"`
}

type loginRequest struct {
	// Credential is a username or an email.
	Credential string `json:"credential" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

// POST /api/auth/register
func (h *Handler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := bind(c, &req); err != nil {
		return h.fail(c, err)
	}
	res, err := h.svc.Auth.Register(c.UserContext(), req.Username, req.Email, req.Password)
	if err != nil {
		return h.fail(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusCreated, res)
}

// POST /api/auth/login
func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := bind(c, &req); err != nil {
		return h.fail(c, err)
	}
	res, err := h.svc.Auth.Login(c.UserContext(), req.Credential, req.Password)
	if err != nil {
		return h.fail(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, res)
}
