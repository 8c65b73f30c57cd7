package cart

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/wichananm65/menu-assistant/internal/catalog"
	"github.com/wichananm65/menu-assistant/internal/user"
	"github.com/wichananm65/menu-assistant/internal/validation"
)

// Handler exposes the signed-in user's cart.
type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/cart", h.getCart)
	app.Delete("/api/v1/cart", h.clearCart)
	app.Post("/api/v1/cart/items", h.addItem)
	app.Get("/api/v1/cart/items/:id", h.getItem)
	app.Delete("/api/v1/cart/items/:id", h.removeItem)
	app.Post("/api/v1/cart/combos", h.addCombo)
	app.Delete("/api/v1/cart/combos/:id", h.removeCombo)
}

type addItemRequest struct {
	ItemID      string `json:"itemId" validate:"required"`
	PartOfCombo bool   `json:"partOfCombo"`
}

type addComboRequest struct {
	ComboID string `json:"comboId" validate:"required"`
}

func (h *Handler) getCart(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	cart, err := h.service.GetCart(userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(NewView(cart))
}

// getItem answers the two questions the menu screen asks per item: how
// many are in the cart and whether the row is combo-locked.
func (h *Handler) getItem(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	cart, err := h.service.GetCart(userID)
	if err != nil {
		return respondError(c, err)
	}
	id := c.Params("id")
	return c.JSON(fiber.Map{
		"itemId":        id,
		"quantity":      cart.Quantity(id),
		"isPartOfCombo": cart.IsPartOfCombo(id),
	})
}

func (h *Handler) addItem(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	payload := new(addItemRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if errs := validation.Struct(payload); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
	}
	cart, err := h.service.AddItem(userID, payload.ItemID, payload.PartOfCombo)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(NewView(cart))
}

func (h *Handler) removeItem(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	cart, err := h.service.RemoveItem(userID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(NewView(cart))
}

func (h *Handler) addCombo(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	payload := new(addComboRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if errs := validation.Struct(payload); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
	}
	cart, err := h.service.AddCombo(userID, payload.ComboID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(NewView(cart))
}

func (h *Handler) removeCombo(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	cart, err := h.service.RemoveCombo(userID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(NewView(cart))
}

func (h *Handler) clearCart(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	if err := h.service.ClearCart(userID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, catalog.ErrItemNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "item not found"})
	case errors.Is(err, catalog.ErrComboNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "combo not found"})
	case errors.Is(err, ErrMissingID):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	case errors.Is(err, ErrInvalidUser):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
}
