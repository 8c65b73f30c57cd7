package onboarding

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenStore struct{}

func (brokenStore) Seen(context.Context, int) (bool, error) { return false, errors.New("down") }
func (brokenStore) MarkSeen(context.Context, int) error     { return errors.New("down") }

func makeApp(s Store) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if v := c.Get("X-User-ID"); v != "" {
			if id, err := strconv.Atoi(v); err == nil {
				c.Locals("user", &jwt.Token{Claims: jwt.MapClaims{"user_id": id}})
			}
		}
		return c.Next()
	})
	log, _ := test.NewNullLogger()
	NewHandler(s, log).RegisterProtectedRoutes(app)
	return app
}

func call(t *testing.T, app *fiber.App, method string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(method, "/api/v1/onboarding", nil)
	req.Header.Set("X-User-ID", "2")
	res, err := app.Test(req)
	require.NoError(t, err)
	b, _ := io.ReadAll(res.Body)
	return res.StatusCode, string(b)
}

func TestOnboardingRoutes(t *testing.T) {
	app := makeApp(NewInMemoryStore())

	res, _ := app.Test(httptest.NewRequest("GET", "/api/v1/onboarding", nil))
	assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)

	status, body := call(t, app, "GET")
	assert.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `{"hasSeenWelcome":false}`, body)

	status, body = call(t, app, "PUT")
	assert.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `{"hasSeenWelcome":true}`, body)

	_, body = call(t, app, "GET")
	assert.JSONEq(t, `{"hasSeenWelcome":true}`, body)
}

func TestOnboardingRoutes_StoreDown(t *testing.T) {
	app := makeApp(brokenStore{})

	status, body := call(t, app, "GET")
	assert.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `{"hasSeenWelcome":false}`, body)

	status, _ = call(t, app, "PUT")
	assert.Equal(t, fiber.StatusInternalServerError, status)
}
