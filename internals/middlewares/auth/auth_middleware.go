// internals/middlewares/auth/auth_middleware.go
package auth

import (
	"errors"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"waterbilling_backend/internals/configs"
	"waterbilling_backend/internals/constants"
	"waterbilling_backend/internals/features/users/auth/service"
	helper "waterbilling_backend/internals/helpers"
)

const LoginPath = "/login"

// Path publik di bawah /api yang tidak butuh sesi.
var skipPaths = map[string]struct{}{
	"/api/auth/login":            {},
	"/api/auth/logout":           {},
	"/api/validate-id":           {},
	"/api/payments/notification": {},
}

// SessionMiddleware: token dari cookie/Bearer → cek blacklist → user aktif.
// Gagal: browser diarahkan ke /login, request API/XHR dapat 401 JSON.
func SessionMiddleware(auth *service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := skipPaths[strings.TrimRight(c.Path(), "/")]; ok {
			return c.Next()
		}

		raw := helper.GetRawAccessToken(c)
		user, err := auth.Authenticate(c.UserContext(), raw)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrMissingToken),
				errors.Is(err, service.ErrInvalidToken),
				errors.Is(err, service.ErrTokenRevoked),
				errors.Is(err, service.ErrUserInactive):
				return unauthenticated(c, err)
			default:
				configs.Logger.Error("session check failed", zap.Error(err))
				return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
			}
		}

		helper.SetRawAccessToken(c, raw)
		c.Locals(helper.LocUserID, user.ID.String())
		c.Locals(constants.LocUserName, user.UserName)
		c.Locals(constants.LocIsSuperuser, user.IsSuperuser)
		return c.Next()
	}
}

func unauthenticated(c *fiber.Ctx, err error) error {
	if wantsHTML(c) {
		next := url.QueryEscape(c.OriginalURL())
		return c.Redirect(LoginPath+"?next="+next, fiber.StatusFound)
	}
	msg := "Unauthorized"
	if errors.Is(err, service.ErrUserInactive) {
		msg = "Unauthorized - account is disabled"
	} else if errors.Is(err, service.ErrTokenRevoked) {
		msg = "Unauthorized - token is blacklisted"
	}
	return fiber.NewError(fiber.StatusUnauthorized, msg)
}

// wantsHTML: navigasi browser biasa (bukan fetch/XHR, Accept berisi text/html).
func wantsHTML(c *fiber.Ctx) bool {
	if strings.EqualFold(c.Get(fiber.HeaderXRequestedWith), "XMLHttpRequest") {
		return false
	}
	return strings.Contains(c.Get(fiber.HeaderAccept), fiber.MIMETextHTML)
}
