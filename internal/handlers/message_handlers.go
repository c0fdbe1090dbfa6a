package handlers

import (
	"github.com/fathima-sithara/snapshoot-service/internal/domain"
	"github.com/fathima-sithara/snapshoot-service/internal/utils"
	"github.com/gofiber/fiber/v2"
)

type sendMessageRequest struct {
	Content string        `json:"content" validate:"max=1000"`
	Media   *domain.Media `json:"media"`
}

// GET /api/messages/:recipient_id
func (h *Handler) ListDirectMessages(c *fiber.Ctx) error {
	p, err := page(c)
	if err != nil {
		return h.fail(c, err)
	}
	msgs, err := h.svc.Messages.ListDirect(c.UserContext(), identity(c), c.Params("recipient_id"), p)
	if err != nil {
		return h.fail(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, msgs)
}

// POST /api/messages/:recipient_id
func (h *Handler) SendDirectMessage(c *fiber.Ctx) error {
	var req sendMessageRequest
	if err := bind(c, &req); err != nil {
		return h.fail(c, err)
	}
	m, err := h.svc.Messages.SendDirect(c.UserContext(), identity(c), c.Params("recipient_id"), req.Content, req.Media)
	if err != nil {
		return h.fail(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusCreated, m)
}

// POST /api/messages/:recipient_id/media?content=
// The body is the raw file; Content-Type names its media type.
func (h *Handler) SendDirectMedia(c *fiber.Ctx) error {
	if err := checkContent(c.Query("content")); err != nil {
		return h.fail(c, err)
	}
	m, err := h.svc.Messages.SendDirectUpload(c.UserContext(), identity(c), c.Params("recipient_id"), c.Query("content"), upload(c))
	if err != nil {
		return h.fail(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusCreated, m)
}

// GET /api/messages/groups/:group_id
func (h *Handler) ListGroupMessages(c *fiber.Ctx) error {
	p, err := page(c)
	if err != nil {
		return h.fail(c, err)
	}
	msgs, err := h.svc.Messages.ListGroup(c.UserContext(), identity(c), c.Params("group_id"), p)
	if err != nil {
		return h.fail(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, msgs)
}

// POST /api/messages/groups/:group_id
func (h *Handler) SendGroupMessage(c *fiber.Ctx) error {
	var req sendMessageRequest
	if err := bind(c, &req); err != nil {
		return h.fail(c, err)
	}
	m, err := h.svc.Messages.SendGroup(c.UserContext(), identity(c), c.Params("group_id"), req.Content, req.Media)
	if err != nil {
		return h.fail(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusCreated, m)
}

// POST /api/messages/groups/:group_id/media?content=
func (h *Handler) SendGroupMedia(c *fiber.Ctx) error {
	if err := checkContent(c.Query("content")); err != nil {
		return h.fail(c, err)
	}
	m, err := h.svc.Messages.SendGroupUpload(c.UserContext(), identity(c), c.Params("group_id"), c.Query("content"), upload(c))
	if err != nil {
		return h.fail(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusCreated, m)
}

// DELETE /api/messages/:message_id
func (h *Handler) DeleteMessage(c *fiber.Ctx) error {
	if err := h.svc.Messages.Delete(c.UserContext(), identity(c), c.Params("message_id")); err != nil {
		return h.fail(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, fiber.Map{"deleted": true})
}

func checkContent(content string) error {
	if len([]rune(content)) > 1000 {
		return domain.NewError(domain.ErrValidation, "content must be at most 1000 characters long")
	}
	return nil
}
