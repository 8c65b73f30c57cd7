package user

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type fixture struct {
	app     *fiber.App
	service *Service
	codes   *InMemoryCodeStore
	revoker *InMemoryRevoker
	hook    *test.Hook
}

// newFixture wires the handler behind the real JWT middleware and the
// revocation guard, the same way the server does.
func newFixture(t *testing.T, seed []User) *fixture {
	t.Helper()
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	codes := NewInMemoryCodeStore()
	revoker := NewInMemoryRevoker()
	service := NewService(NewInMemoryRepository(seed), codes, 0, log)
	handler := NewHandler(service, NewTokenIssuer(testSecret, 0), revoker)

	app := fiber.New()
	handler.RegisterPublicRoutes(app)
	app.Use(NewJWTMiddleware([]byte(testSecret), func(*fiber.Ctx) bool { return false }))
	app.Use(RevocationGuard(revoker, log))
	handler.RegisterProtectedRoutes(app)
	return &fixture{app: app, service: service, codes: codes, revoker: revoker, hook: hook}
}

func (f *fixture) do(t *testing.T, method, path, body, token string) (int, map[string]any) {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := f.app.Test(req)
	require.NoError(t, err)
	out := map[string]any{}
	b, _ := io.ReadAll(res.Body)
	_ = json.Unmarshal(b, &out)
	return res.StatusCode, out
}

func TestSignUpSignInProfileSignOut(t *testing.T) {
	f := newFixture(t, nil)

	status, body := f.do(t, "POST", "/api/v1/sign-up", `{"email":"a@b.co","password":"secret1","firstName":"Asha","lastName":"Rao"}`, "")
	require.Equal(t, fiber.StatusCreated, status, body)
	_, hasPassword := body["password"]
	assert.False(t, hasPassword)

	status, _ = f.do(t, "POST", "/api/v1/sign-up", `{"email":"a@b.co","password":"secret1","firstName":"A","lastName":"R"}`, "")
	assert.Equal(t, fiber.StatusConflict, status)

	status, _ = f.do(t, "POST", "/api/v1/sign-in", `{"email":"a@b.co","password":"wrong"}`, "")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, body = f.do(t, "POST", "/api/v1/sign-in", `{"email":"a@b.co","password":"secret1"}`, "")
	require.Equal(t, fiber.StatusOK, status)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	status, _ = f.do(t, "GET", "/api/v1/profile", "", "")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, body = f.do(t, "GET", "/api/v1/profile", "", token)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "a@b.co", body["email"])

	status, body = f.do(t, "PATCH", "/api/v1/profile", `{"firstName":"Asha R"}`, token)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Asha R", body["firstName"])
	assert.Equal(t, "Rao", body["lastName"])

	status, _ = f.do(t, "POST", "/api/v1/sign-out", "", token)
	require.Equal(t, fiber.StatusOK, status)

	status, body = f.do(t, "GET", "/api/v1/profile", "", token)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "token revoked", body["message"])

	// a fresh sign-in still works
	_, body = f.do(t, "POST", "/api/v1/sign-in", `{"email":"a@b.co","password":"secret1"}`, "")
	status, _ = f.do(t, "GET", "/api/v1/profile", "", body["token"].(string))
	assert.Equal(t, fiber.StatusOK, status)
}

func TestSignUp_Validation(t *testing.T) {
	f := newFixture(t, nil)

	status, body := f.do(t, "POST", "/api/v1/sign-up", `{"email":"nope","password":"x"}`, "")
	require.Equal(t, fiber.StatusBadRequest, status)
	errs, _ := body["errors"].(map[string]any)
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "password")
	assert.Contains(t, errs, "firstName")
}

func TestPhoneVerificationFlow(t *testing.T) {
	f := newFixture(t, []User{{ID: 9, FirstName: "Existing", Phone: "+66810000000"}})

	status, _ := f.do(t, "POST", "/api/v1/verify/start", `{"phone":"+66812345678"}`, "")
	require.Equal(t, fiber.StatusAccepted, status)

	code := lastLoggedCode(t, f.hook)
	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}

	status, body := f.do(t, "POST", "/api/v1/verify/complete", `{"phone":"+66812345678","code":"`+wrong+`"}`, "")
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "Invalid verification code. Please try again.", body["message"])

	// the same step can be retried with the right code
	status, body = f.do(t, "POST", "/api/v1/verify/complete", `{"phone":"+66812345678","code":"`+code+`"}`, "")
	require.Equal(t, fiber.StatusOK, status, body)
	assert.NotEmpty(t, body["token"])
	u := body["user"].(map[string]any)
	assert.Equal(t, true, u["phoneVerified"])
	assert.Equal(t, "+66812345678", u["phone"])

	// codes are single use
	status, _ = f.do(t, "POST", "/api/v1/verify/complete", `{"phone":"+66812345678","code":"`+code+`"}`, "")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	// an existing account is reused and marked verified
	f.do(t, "POST", "/api/v1/verify/start", `{"phone":"+66810000000"}`, "")
	code = lastLoggedCode(t, f.hook)
	status, body = f.do(t, "POST", "/api/v1/verify/complete", `{"phone":"+66810000000","code":"`+code+`"}`, "")
	require.Equal(t, fiber.StatusOK, status)
	u = body["user"].(map[string]any)
	assert.EqualValues(t, 9, u["userId"])
	assert.Equal(t, true, u["phoneVerified"])

	status, _ = f.do(t, "POST", "/api/v1/verify/start", `{"phone":"0812345678"}`, "")
	assert.Equal(t, fiber.StatusBadRequest, status)
	status, _ = f.do(t, "POST", "/api/v1/verify/complete", `{"phone":"+66812345678","code":"12ab"}`, "")
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func lastLoggedCode(t *testing.T, hook *test.Hook) string {
	t.Helper()
	for i := len(hook.AllEntries()) - 1; i >= 0; i-- {
		if code, ok := hook.AllEntries()[i].Data["code"].(string); ok {
			return code
		}
	}
	t.Fatal("no verification code logged")
	return ""
}

func TestGetUserIDFromCtx(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		if v := c.Get("X-User-ID"); v != "" {
			c.Locals("user", &jwt.Token{Claims: jwt.MapClaims{"user_id": v}})
		}
		id, err := GetUserIDFromCtx(c)
		if err != nil {
			return c.SendStatus(fiber.StatusUnauthorized)
		}
		return c.SendString(strconv.Itoa(id))
	})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-User-ID", "12")
	res, err := app.Test(req)
	require.NoError(t, err)
	b, _ := io.ReadAll(res.Body)
	assert.Equal(t, "12", string(b))

	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-User-ID", "abc")
	res, _ = app.Test(req)
	assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)

	res, _ = app.Test(httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
}

func TestRevocationGuard_Unavailable(t *testing.T) {
	log, hook := test.NewNullLogger()
	issuer := NewTokenIssuer(testSecret, time.Hour)
	app := fiber.New()
	app.Use(NewJWTMiddleware(issuer.Secret(), func(*fiber.Ctx) bool { return false }))
	app.Use(RevocationGuard(brokenRevoker{}, log))
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })

	token, err := issuer.Issue(User{ID: 3, Email: "x@y.z"})
	require.NoError(t, err)
	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, res.StatusCode)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
}

func TestJWTMiddleware_RejectsForeignSignature(t *testing.T) {
	app := fiber.New()
	app.Use(NewJWTMiddleware([]byte(testSecret), func(*fiber.Ctx) bool { return false }))
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })

	token, err := NewTokenIssuer("another-secret", time.Hour).Issue(User{ID: 3})
	require.NoError(t, err)
	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
}
