package recommended

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/wichananm65/menu-assistant/internal/catalog"
	"github.com/wichananm65/menu-assistant/internal/validation"
)

type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

// RegisterPublicRoutes must run before the catalog handler so the static
// /menu/recommended path wins over /menu/:id.
func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/v1/menu/recommended", h.getRecommended)
	app.Post("/api/v1/menu/roll", h.roll)
	app.Get("/api/v1/prompts", h.getPrompts)
}

func (h *Handler) getRecommended(c *fiber.Ctx) error {
	// support pagination: ?limit=12&offset=0
	limit := 12
	offset := 0
	if l := c.Query("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 {
			limit = v
		}
	}
	if o := c.Query("offset"); o != "" {
		if v, err := strconv.Atoi(o); err == nil && v >= 0 {
			offset = v
		}
	}
	return c.JSON(catalog.NewItemViews(h.service.TopRated(limit, offset)))
}

type rollRequest struct {
	MaxCost float64  `json:"maxCost" validate:"min=0"`
	Pinned  []string `json:"pinned" validate:"max=2,dive,required"`
}

func (h *Handler) roll(c *fiber.Ctx) error {
	payload := new(rollRequest)
	if len(c.Body()) > 0 {
		if err := c.BodyParser(payload); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		}
	}
	if errs := validation.Struct(payload); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
	}

	items, err := h.service.Roll(payload.MaxCost, payload.Pinned)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrItemNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "pinned item not found"})
		case errors.Is(err, ErrTooManyPinned):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
	}
	return c.JSON(catalog.NewItemViews(items))
}

func (h *Handler) getPrompts(c *fiber.Ctx) error {
	return c.JSON(h.service.Prompts())
}
