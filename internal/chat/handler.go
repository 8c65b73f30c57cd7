package chat

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/wichananm65/menu-assistant/internal/user"
	"github.com/wichananm65/menu-assistant/internal/validation"
)

type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/v1/chat", h.submit)
	app.Get("/api/v1/chat", h.list)
	app.Get("/api/v1/chat/:id", h.get)
	app.Delete("/api/v1/chat", h.clear)
}

type submitRequest struct {
	Query string `json:"query" validate:"required,max=500"`
}

// submit answers 202 with the pending entry; clients poll GET /chat/:id.
func (h *Handler) submit(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	payload := new(submitRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if errs := validation.Struct(payload); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
	}

	conv, err := h.service.Submit(c.UserContext(), userID, payload.Query)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyQuery):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		case errors.Is(err, ErrClosed):
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"message": err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
	}
	return c.Status(fiber.StatusAccepted).JSON(conv)
}

func (h *Handler) list(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	convs := h.service.List(userID)
	summaries := make([]Summary, 0, len(convs))
	for _, conv := range convs {
		summaries = append(summaries, NewSummary(conv))
	}
	return c.JSON(fiber.Map{
		"chatId":        h.service.ChatID(userID),
		"conversations": summaries,
	})
}

func (h *Handler) get(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	conv, err := h.service.Get(userID, c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "conversation not found"})
	}
	return c.JSON(conv)
}

func (h *Handler) clear(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	h.service.Clear(userID)
	return c.SendStatus(fiber.StatusNoContent)
}
