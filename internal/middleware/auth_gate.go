package middleware

import (
	"strings"

	"github.com/dgrijalva/jwt-go"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// UserIDKey is the fiber Locals key holding the authenticated user's id.
const UserIDKey = "userID"

// TokenValidator checks a signed token and returns its claims.
type TokenValidator interface {
	ValidateToken(token string) (*jwt.StandardClaims, error)
}

// AuthRequired rejects requests without a valid token. The Authorization
// header may carry the raw token or "Bearer <token>". A missing header is a
// 401, a token that fails verification a 403.
func AuthRequired(validator TokenValidator, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "no token provided",
			})
		}

		tokenString := authHeader
		if scheme, token, found := strings.Cut(authHeader, " "); found && strings.EqualFold(scheme, "Bearer") {
			tokenString = strings.TrimSpace(token)
		}

		claims, err := validator.ValidateToken(tokenString)
		if err != nil {
			log.Debug().Err(err).Str("path", c.Path()).Msg("token rejected")
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"message": "Failed to authenticate token",
			})
		}

		c.Locals(UserIDKey, claims.Subject)
		return c.Next()
	}
}
