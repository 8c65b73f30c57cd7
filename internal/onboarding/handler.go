package onboarding

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/wichananm65/menu-assistant/internal/user"
)

type Handler struct {
	store Store
	log   logrus.FieldLogger
}

func NewHandler(store Store, log logrus.FieldLogger) *Handler {
	return &Handler{store: store, log: log}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/onboarding", h.getStatus)
	app.Put("/api/v1/onboarding", h.complete)
}

func (h *Handler) getStatus(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	seen, err := h.store.Seen(c.UserContext(), userID)
	if err != nil {
		// an unreadable flag shows the welcome screen again rather than failing
		h.log.WithError(err).WithField("user", userID).Warn("onboarding flag unavailable")
		seen = false
	}
	return c.JSON(fiber.Map{"hasSeenWelcome": seen})
}

func (h *Handler) complete(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	if err := h.store.MarkSeen(c.UserContext(), userID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(fiber.Map{"hasSeenWelcome": true})
}
