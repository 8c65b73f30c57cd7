package order

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wichananm65/menu-assistant/internal/cart"
	"github.com/wichananm65/menu-assistant/internal/catalog"
)

// dummyWriter records what would have gone to the broker.
type dummyWriter struct {
	msgs []kafka.Message
	err  error
}

func (d *dummyWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if d.err != nil {
		return d.err
	}
	d.msgs = append(d.msgs, msgs...)
	return nil
}

// failingRepo refuses every write.
type failingRepo struct{ InMemoryRepository }

func (*failingRepo) Create(Receipt) (Receipt, error) { return Receipt{}, errors.New("disk full") }

func f64(v float64) *float64 { return &v }

func newCarts() *cart.Service {
	cat := catalog.New([]catalog.MenuItem{
		{ID: "I1", Name: "Dosa", Cost: f64(120)},
		{ID: "I2", Name: "Coffee", Cost: f64(60)},
	}, []catalog.Combo{{ID: "C1", Name: "Sunrise", ItemIDs: []string{"I1", "I2"}, Cost: f64(180), DiscountedCost: f64(150)}})
	log, _ := test.NewNullLogger()
	return cart.NewService(cart.NewInMemoryRepository(), cat, log)
}

func setupApp(svc *Service) *fiber.App {
	a := fiber.New()
	a.Use(func(c *fiber.Ctx) error {
		if v := c.Get("X-User-ID"); v != "" {
			if id, err := strconv.Atoi(v); err == nil {
				c.Locals("user", &jwt.Token{Claims: jwt.MapClaims{"user_id": id}})
			}
		}
		return c.Next()
	})
	NewHandler(svc).RegisterProtectedRoutes(a)
	return a
}

func TestCheckout_Success(t *testing.T) {
	carts := newCarts()
	w := &dummyWriter{}
	log, _ := test.NewNullLogger()
	svc := NewService(carts, NewInMemoryRepository(), NewKafkaPublisher(w), log)
	a := setupApp(svc)

	_, err := carts.AddItem(8, "I1", false)
	require.NoError(t, err)
	_, err = carts.AddItem(8, "I1", false)
	require.NoError(t, err)
	_, err = carts.AddCombo(8, "C1")
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/api/v1/checkout", nil)
	req.Header.Set("X-User-ID", "8")
	res, err := a.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, res.StatusCode)

	var rc Receipt
	require.NoError(t, json.NewDecoder(res.Body).Decode(&rc))
	assert.NotEmpty(t, rc.OrderID)
	assert.Equal(t, 3, rc.Quantity)
	assert.Equal(t, 390.0, rc.Subtotal)
	assert.Equal(t, StatusPlaced, rc.Status)
	require.Len(t, rc.Lines, 2)
	assert.Equal(t, cart.LineTypeCombo, rc.Lines[1].Type)

	require.Len(t, w.msgs, 1)
	assert.Equal(t, rc.OrderID, string(w.msgs[0].Key))

	now, err := carts.GetCart(8)
	require.NoError(t, err)
	assert.True(t, now.IsEmpty())

	req = httptest.NewRequest("GET", "/api/v1/orders", nil)
	req.Header.Set("X-User-ID", "8")
	res, err = a.Test(req, -1)
	require.NoError(t, err)
	var history []Receipt
	require.NoError(t, json.NewDecoder(res.Body).Decode(&history))
	require.Len(t, history, 1)
	assert.Equal(t, rc.OrderID, history[0].OrderID)
}

func TestCheckout_EmptyCart(t *testing.T) {
	log, _ := test.NewNullLogger()
	a := setupApp(NewService(newCarts(), NewInMemoryRepository(), nil, log))

	req := httptest.NewRequest("POST", "/api/v1/checkout", nil)
	req.Header.Set("X-User-ID", "8")
	res, err := a.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)

	res, err = a.Test(httptest.NewRequest("POST", "/api/v1/checkout", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
}

func TestCheckout_PublishFailureKeepsOrder(t *testing.T) {
	carts := newCarts()
	log, hook := test.NewNullLogger()
	repo := NewInMemoryRepository()
	svc := NewService(carts, repo, NewKafkaPublisher(&dummyWriter{err: errors.New("broker down")}), log)

	_, err := carts.AddItem(1, "I2", false)
	require.NoError(t, err)
	rc, err := svc.Checkout(context.Background(), 1)
	require.NoError(t, err)

	stored, _ := repo.ListByUser(1)
	require.Len(t, stored, 1)
	assert.Equal(t, rc.OrderID, stored[0].OrderID)
	require.NotNil(t, hook.LastEntry())
	assert.Contains(t, hook.AllEntries()[0].Message, "not published")
}

func TestCheckout_StoreFailureRestoresCart(t *testing.T) {
	carts := newCarts()
	log, _ := test.NewNullLogger()
	svc := NewService(carts, &failingRepo{}, nil, log)

	_, err := carts.AddItem(1, "I2", false)
	require.NoError(t, err)
	_, err = carts.AddCombo(1, "C1")
	require.NoError(t, err)

	_, err = svc.Checkout(context.Background(), 1)
	require.Error(t, err)

	c, _ := carts.GetCart(1)
	assert.Equal(t, 1, c.Quantity("I2"))
	assert.Equal(t, 1, c.ComboQuantity("C1"))
}

func TestPickupCode(t *testing.T) {
	carts := newCarts()
	log, _ := test.NewNullLogger()
	svc := NewService(carts, NewInMemoryRepository(), nil, log).WithPickupCoder(QRPickupCoder{BaseURL: "https://menu.example/"})
	a := setupApp(svc)

	_, err := carts.AddItem(4, "I1", false)
	require.NoError(t, err)
	rc, err := svc.Checkout(context.Background(), 4)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/api/v1/orders/"+rc.OrderID+"/qrcode", nil)
	req.Header.Set("X-User-ID", "4")
	res, err := a.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, res.StatusCode)
	assert.Equal(t, "image/png", res.Header.Get("Content-Type"))
	body, _ := io.ReadAll(res.Body)
	assert.True(t, bytes.HasPrefix(body, []byte("\x89PNG")))

	// another user's order is not visible
	req = httptest.NewRequest("GET", "/api/v1/orders/"+rc.OrderID+"/qrcode", nil)
	req.Header.Set("X-User-ID", "5")
	res, err = a.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, res.StatusCode)
}
