package favorite

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/wichananm65/menu-assistant/internal/catalog"
	"github.com/wichananm65/menu-assistant/internal/user"
	"github.com/wichananm65/menu-assistant/internal/validation"
)

// Handler delegates favorite operations to the favorite service.
type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/favorites", h.getFavorites)
	app.Post("/api/v1/favorites", h.addFavorite)
	app.Delete("/api/v1/favorites", h.removeFavorite)
	app.Post("/api/v1/favorites/toggle", h.toggleFavorite)
}

type favoriteRequest struct {
	ItemID string `json:"itemId" validate:"required"`
}

func parseFavorite(c *fiber.Ctx) (*favoriteRequest, error) {
	payload := new(favoriteRequest)
	if err := c.BodyParser(payload); err != nil {
		return nil, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if errs := validation.Struct(payload); errs != nil {
		return nil, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
	}
	return payload, nil
}

func (h *Handler) addFavorite(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	payload, err := parseFavorite(c)
	if payload == nil {
		return err
	}

	fav, err := h.service.AddFavorite(userID, payload.ItemID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"itemId": payload.ItemID, "favoriteItemIds": fav})
}

func (h *Handler) removeFavorite(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	payload, err := parseFavorite(c)
	if payload == nil {
		return err
	}

	fav, err := h.service.RemoveFavorite(userID, payload.ItemID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"itemId": payload.ItemID, "favoriteItemIds": fav})
}

func (h *Handler) toggleFavorite(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	payload, err := parseFavorite(c)
	if payload == nil {
		return err
	}

	on, fav, err := h.service.Toggle(userID, payload.ItemID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"itemId": payload.ItemID, "favorite": on, "favoriteItemIds": fav})
}

func (h *Handler) getFavorites(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	favs, err := h.service.GetFavorites(userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(catalog.NewItemViews(favs))
}

func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "user not found"})
	case errors.Is(err, catalog.ErrItemNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "item not found"})
	case errors.Is(err, ErrAlreadyFavorite):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "item already in favorites"})
	case errors.Is(err, ErrNotFavorite):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "item not in favorites"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
}
