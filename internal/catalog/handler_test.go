package catalog

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeAppWithCatalogHandler(t *testing.T) *fiber.App {
	t.Helper()
	cat := New([]MenuItem{
		{ID: "A", Name: "Dosa", Cost: f64(180), VegOrNonVeg: Veg, Rating: f64(4.6)},
		{ID: "B", Name: "Wings", Cost: f64(300), VegOrNonVeg: NonVeg},
	}, []Combo{{ID: "C1", Name: "Pair", ItemIDs: []string{"A", "B"}, Cost: f64(480), DiscountedCost: f64(400)}})
	app := fiber.New()
	NewHandler(NewService(cat)).RegisterPublicRoutes(app)
	return app
}

func TestCatalogRoutes(t *testing.T) {
	app := makeAppWithCatalogHandler(t)

	res, err := app.Test(httptest.NewRequest("GET", "/api/v1/menu?veg=true", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, res.StatusCode)
	var items []ItemView
	require.NoError(t, json.NewDecoder(res.Body).Decode(&items))
	require.Len(t, items, 1)
	assert.Equal(t, "A", items[0].ID)
	assert.Equal(t, "4.6", items[0].DisplayRating)

	res, err = app.Test(httptest.NewRequest("GET", "/api/v1/menu/B", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, res.StatusCode)
	b, _ := io.ReadAll(res.Body)
	assert.Contains(t, string(b), `"display_rating":"N/A"`)

	res, err = app.Test(httptest.NewRequest("GET", "/api/v1/menu/A/combos", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, res.StatusCode)
	b, _ = io.ReadAll(res.Body)
	assert.True(t, strings.Contains(string(b), `"combo_id":"C1"`), string(b))

	res, err = app.Test(httptest.NewRequest("GET", "/api/v1/combos/C1", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, res.StatusCode)
	var combo ComboView
	require.NoError(t, json.NewDecoder(res.Body).Decode(&combo))
	assert.Equal(t, 17, combo.DiscountPercentage)
	assert.False(t, combo.IsVeg)
}

func TestCatalogRoutes_Errors(t *testing.T) {
	app := makeAppWithCatalogHandler(t)

	for path, want := range map[string]int{
		"/api/v1/menu/Z":             fiber.StatusNotFound,
		"/api/v1/menu/Z/combos":      fiber.StatusNotFound,
		"/api/v1/combos/Z":           fiber.StatusNotFound,
		"/api/v1/menu?minRating=abc": fiber.StatusBadRequest,
		"/api/v1/menu?maxCost=x":     fiber.StatusBadRequest,
	} {
		res, err := app.Test(httptest.NewRequest("GET", path, nil))
		require.NoError(t, err)
		assert.Equal(t, want, res.StatusCode, path)
	}
}
