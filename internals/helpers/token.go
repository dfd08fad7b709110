// helpers/token.go
package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	// nama cookie sesi staff
	AccessTokenCookie = "access_token"
	// raw JWT disimpan di Locals oleh middleware sesi
	LocRawToken = "raw_token"
)

// GetRawAccessToken mengembalikan access token dari:
// 1) Locals("raw_token") yang diset middleware
// 2) cookie "access_token"
// 3) Authorization header "Bearer <token>"
func GetRawAccessToken(c *fiber.Ctx) string {
	if v, ok := c.Locals(LocRawToken).(string); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	if v := strings.TrimSpace(c.Cookies(AccessTokenCookie)); v != "" {
		return v
	}
	authz := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if strings.HasPrefix(strings.ToLower(authz), "bearer ") {
		return strings.TrimSpace(authz[7:])
	}
	return ""
}

func SetRawAccessToken(c *fiber.Ctx, raw string) {
	if strings.TrimSpace(raw) != "" {
		c.Locals(LocRawToken, strings.TrimSpace(raw))
	}
}
