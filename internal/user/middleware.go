package user

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/sirupsen/logrus"
)

// NewJWTMiddleware verifies the bearer token and stores it in
// c.Locals("user"). Requests for which skip returns true pass through
// untouched.
func NewJWTMiddleware(secret []byte, skip func(c *fiber.Ctx) bool) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: secret,
		Filter:     skip,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
		},
	})
}

// RevocationGuard rejects tokens that were signed out. It must run after
// the JWT middleware.
func RevocationGuard(revoker Revoker, log logrus.FieldLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := claimsFromCtx(c)
		if !ok {
			return c.Next()
		}
		jti, _ := claims["jti"].(string)
		if jti == "" {
			return c.Next()
		}
		revoked, err := revoker.IsRevoked(c.UserContext(), jti)
		if err != nil {
			log.WithError(err).Error("revocation check failed")
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"message": "session check unavailable"})
		}
		if revoked {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "token revoked"})
		}
		return c.Next()
	}
}

func claimsFromCtx(c *fiber.Ctx) (jwt.MapClaims, bool) {
	tok, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return nil, false
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	return claims, ok
}

// GetUserIDFromCtx extracts the user_id claim from the JWT token stored
// in `c.Locals("user")`. Shared by every protected handler.
func GetUserIDFromCtx(c *fiber.Ctx) (int, error) {
	claims, ok := claimsFromCtx(c)
	if !ok {
		return 0, fiber.ErrUnauthorized
	}
	if raw, ok := claims["user_id"]; ok {
		switch v := raw.(type) {
		case float64:
			return int(v), nil
		case int:
			return v, nil
		case int64:
			return int(v), nil
		case string:
			id, err := strconv.Atoi(v)
			if err != nil {
				return 0, fiber.ErrUnauthorized
			}
			return id, nil
		default:
			return 0, fiber.ErrUnauthorized
		}
	}
	return 0, fiber.ErrUnauthorized
}

// tokenSession returns the token id and expiry used for sign-out.
func tokenSession(c *fiber.Ctx) (string, time.Time, bool) {
	claims, ok := claimsFromCtx(c)
	if !ok {
		return "", time.Time{}, false
	}
	jti, _ := claims["jti"].(string)
	var exp time.Time
	switch v := claims["exp"].(type) {
	case float64:
		exp = time.Unix(int64(v), 0)
	case int64:
		exp = time.Unix(v, 0)
	}
	return jti, exp, jti != ""
}
