package handlers

import (
	"errors"
	"strconv"

	"github.com/fathima-sithara/snapshoot-service/internal/domain"
	"github.com/fathima-sithara/snapshoot-service/internal/middleware"
	"github.com/fathima-sithara/snapshoot-service/internal/services"
	"github.com/fathima-sithara/snapshoot-service/internal/utils"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Handler struct {
	svc *services.Set
	log *zap.SugaredLogger
}

func NewHandler(svc *services.Set, log *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, log: log}
}

var statusByKind = []struct {
	kind   error
	status int
}{
	{domain.ErrNotFound, fiber.StatusNotFound},
	{domain.ErrForbidden, fiber.StatusForbidden},
	{domain.ErrSelfReference, fiber.StatusBadRequest},
	{domain.ErrAlreadyExists, fiber.StatusConflict},
	{domain.ErrValidation, fiber.StatusBadRequest},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized},
}

// fail renders err with the status of its kind. Anything unclassified,
// storage failures included, is logged and reported as a 500 without detail.
func (h *Handler) fail(c *fiber.Ctx, err error) error {
	var inv invalidRequest
	if errors.As(err, &inv) {
		return utils.JSONValidationError(c, inv.details)
	}
	for _, m := range statusByKind {
		if errors.Is(err, m.kind) {
			return utils.JSONError(c, m.status, domain.ErrorMessage(err))
		}
	}
	h.log.Errorw("request failed", "error", err, "path", c.Path(), "request_id", c.Locals("request_id"))
	msg := "internal server error"
	if errors.Is(err, domain.ErrStorage) {
		msg = "storage failure"
	}
	return utils.JSONError(c, fiber.StatusInternalServerError, msg)
}

func identity(c *fiber.Ctx) domain.Identity {
	id, _ := middleware.IdentityFrom(c)
	return id
}

// invalidRequest carries per-field validation failures.
type invalidRequest struct {
	details []utils.ValidationError
}

func (e invalidRequest) Error() string { return "validation failed" }

// bind parses the JSON body into dst and runs its validate tags.
func bind(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return domain.NewError(domain.ErrValidation, "invalid request body")
	}
	if errs := utils.Validate(dst); errs != nil {
		return invalidRequest{details: errs}
	}
	return nil
}

func queryFloat(c *fiber.Ctx, key string, required bool) (float64, error) {
	raw := c.Query(key)
	if raw == "" {
		if required {
			return 0, domain.Errorf(domain.ErrValidation, "%s is required", key)
		}
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, domain.Errorf(domain.ErrValidation, "%s must be a number", key)
	}
	return v, nil
}

func page(c *fiber.Ctx) (domain.Page, error) {
	limit, err := queryInt(c, "limit")
	if err != nil {
		return domain.Page{}, err
	}
	offset, err := queryInt(c, "offset")
	if err != nil {
		return domain.Page{}, err
	}
	if limit < 0 || offset < 0 {
		return domain.Page{}, domain.NewError(domain.ErrValidation, "limit and offset must not be negative")
	}
	return domain.Page{Limit: limit, Offset: offset}, nil
}

func queryInt(c *fiber.Ctx, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.Errorf(domain.ErrValidation, "%s must be an integer", key)
	}
	return v, nil
}

// upload reads a raw request body as a media upload.
func upload(c *fiber.Ctx) services.Upload {
	body := c.Body()
	data := make([]byte, len(body))
	copy(data, body)
	return services.Upload{Data: data, ContentType: c.Get(fiber.HeaderContentType)}
}

func (h *Handler) Health(c *fiber.Ctx) error {
	return utils.JSONSuccess(c, fiber.StatusOK, fiber.Map{"service": "snapshoot"})
}
