package middleware

import (
	"fmt"
	"strings"
	"time"

	"coursedesk/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

// GenerateJWT issues a token for the given identity-provider subject.
// Used by tooling and tests; the production tokens come from the identity
// provider itself.
func GenerateJWT(cfg *config.Config, subject string) (string, error) {
	claims := jwt.MapClaims{
		"sub": subject,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTKey))
}

// Authenticate decodes the bearer token and stores the verified subject in
// c.Locals("userId"). Requests without a valid token pass through without an
// identity; each handler decides whether authentication is required, so
// public and authenticated routes share one middleware.
func Authenticate(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Next()
		}
		tokenString := authHeader[len("Bearer "):]

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(cfg.JWTKey), nil
		})
		if err != nil || !token.Valid {
			return c.Next()
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return c.Next()
		}

		subject, _ := claims["sub"].(string)
		if subject == "" {
			// Some issuers put the identifier in a userId claim instead.
			subject, _ = claims["userId"].(string)
		}
		if subject != "" {
			c.Locals("userId", subject)
		}

		return c.Next()
	}
}

// AuthUserID returns the verified caller identity, or "" when the request
// carried no valid credential.
func AuthUserID(c *fiber.Ctx) string {
	userID, _ := c.Locals("userId").(string)
	return userID
}
