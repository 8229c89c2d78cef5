package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/gofiber/fiber/v3"
)

const tokenLocalsKey = "github_token"

// GitHubToken extracts the caller's GitHub token and stores it in Fiber locals.
// Issuing and validating user credentials belongs to the surrounding auth layer.
func GitHubToken() fiber.Handler {
	return func(c fiber.Ctx) error {
		var token string

		// Try Authorization header first
		authHeader := c.Get("Authorization")
		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && (strings.EqualFold(parts[0], "bearer") || strings.EqualFold(parts[0], "token")) {
				token = strings.TrimSpace(parts[1])
			}
		}

		if token == "" {
			token = strings.TrimSpace(c.Get("X-GitHub-Token"))
		}

		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "missing GitHub token",
			})
		}

		c.Locals(tokenLocalsKey, token)
		return c.Next()
	}
}

// GetGitHubToken returns the token stored by GitHubToken, or "".
func GetGitHubToken(c fiber.Ctx) string {
	t, _ := c.Locals(tokenLocalsKey).(string)
	return t
}

// Actor identifies the caller for audit logs without storing the raw token.
func Actor(c fiber.Ctx) string {
	t := GetGitHubToken(c)
	if t == "" {
		return "anonymous"
	}
	sum := sha256.Sum256([]byte(t))
	return "token:" + hex.EncodeToString(sum[:])[:12]
}
