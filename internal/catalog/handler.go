package catalog

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/v1/menu", h.getMenu)
	app.Get("/api/v1/menu/:id/combos", h.getItemCombos)
	app.Get("/api/v1/menu/:id", h.getItem)
	app.Get("/api/v1/combos", h.getCombos)
	app.Get("/api/v1/combos/:id", h.getCombo)
}

// ItemView adds the display strings the UI shows for missing fields.
type ItemView struct {
	MenuItem
	DisplayCost   string `json:"display_cost"`
	DisplayRating string `json:"display_rating"`
}

type ComboView struct {
	Combo
	DisplayCost string `json:"display_cost"`
	IsVeg       bool   `json:"is_veg"`
}

func NewItemView(it MenuItem) ItemView {
	return ItemView{MenuItem: it, DisplayCost: it.DisplayCost(), DisplayRating: it.DisplayRating()}
}

func NewItemViews(items []MenuItem) []ItemView {
	out := make([]ItemView, 0, len(items))
	for _, it := range items {
		out = append(out, NewItemView(it))
	}
	return out
}

func NewComboView(c Combo) ComboView {
	return ComboView{Combo: c, DisplayCost: c.DisplayCost(), IsVeg: c.IsVeg()}
}

func (h *Handler) getMenu(c *fiber.Ctx) error {
	f := Filter{
		Term:       c.Query("q"),
		VegOnly:    queryBool(c, "veg"),
		NonVegOnly: queryBool(c, "nonVeg"),
		Category:   c.Query("category"),
	}
	var err error
	if f.MinRating, err = queryFloat(c, "minRating"); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid minRating"})
	}
	if f.MaxCost, err = queryFloat(c, "maxCost"); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid maxCost"})
	}
	return c.JSON(NewItemViews(h.service.Filter(f)))
}

func (h *Handler) getItem(c *fiber.Ctx) error {
	it, err := h.service.Item(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "menu item not found"})
	}
	return c.JSON(NewItemView(it))
}

func (h *Handler) getItemCombos(c *fiber.Ctx) error {
	combos, err := h.service.CombosForItem(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "menu item not found"})
	}
	return c.JSON(comboViews(combos))
}

func (h *Handler) getCombos(c *fiber.Ctx) error {
	return c.JSON(comboViews(h.service.Combos()))
}

func (h *Handler) getCombo(c *fiber.Ctx) error {
	cb, err := h.service.Combo(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "combo not found"})
	}
	return c.JSON(NewComboView(cb))
}

func comboViews(combos []Combo) []ComboView {
	out := make([]ComboView, 0, len(combos))
	for _, cb := range combos {
		out = append(out, NewComboView(cb))
	}
	return out
}

func queryBool(c *fiber.Ctx, key string) bool {
	v, err := strconv.ParseBool(c.Query(key))
	return err == nil && v
}

func queryFloat(c *fiber.Ctx, key string) (float64, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseFloat(raw, 64)
}
