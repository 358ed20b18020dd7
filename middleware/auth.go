package middleware

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

// Technician identity as carried in the session cookie. There is no local
// user table; the id is the platform's person id picked at login.
type Technician struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func SecretKey() []byte {
	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		secret = "visit-report-secret"
	}
	return []byte(secret)
}

// Verify requires a valid technician session cookie and stores the
// technician in Locals for handlers downstream.
func Verify() fiber.Handler {
	return func(c *fiber.Ctx) error {
		cookie := c.Cookies("jwt")
		if cookie == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Not Logged In.",
			})
		}

		token, err := jwt.ParseWithClaims(cookie, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
			return SecretKey(), nil
		})
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
			})
		}

		claims, ok := token.Claims.(*jwt.RegisteredClaims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid token claims",
			})
		}

		c.Locals("technician", Technician{
			ID:   claims.Issuer,
			Name: claims.Subject,
		})

		return c.Next()
	}
}
