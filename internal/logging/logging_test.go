package logging

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_LevelFallback(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, New("debug", "text").Level)
	assert.Equal(t, logrus.InfoLevel, New("loud", "json").Level)
}

func TestRequestLogger_LogsEveryRequest(t *testing.T) {
	log, hook := test.NewNullLogger()
	log.Level = logrus.DebugLevel

	app := fiber.New()
	app.Use(RequestLogger(log))
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })

	res, err := app.Test(httptest.NewRequest("GET", "/ping", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "/ping", entry.Data["http.req.path"])
	assert.Equal(t, fiber.StatusOK, entry.Data["http.resp.status"])
}
