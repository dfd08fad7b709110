package controller

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"waterbilling_backend/internals/configs"
	"waterbilling_backend/internals/constants"
	authHelper "waterbilling_backend/internals/features/users/auth/helper"
	"waterbilling_backend/internals/features/users/auth/service"
	helper "waterbilling_backend/internals/helpers"
)

type AuthController struct {
	DB   *gorm.DB
	Auth *service.AuthService
}

func NewAuthController(db *gorm.DB, auth *service.AuthService) *AuthController {
	return &AuthController{DB: db, Auth: auth}
}

type loginRequest struct {
	Username string `json:"user_name" form:"user_name"`
	Password string `json:"password" form:"password"`
}

// POST /api/auth/login
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	sess, err := ac.Auth.Login(c.UserContext(), req.Username, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, authHelper.ErrUsernameRequired), errors.Is(err, authHelper.ErrPasswordRequired):
		return helper.JsonValidationError(c, err.Error(), nil)
	case errors.Is(err, service.ErrInvalidCredentials):
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid username or password")
	case errors.Is(err, service.ErrUserInactive):
		return fiber.NewError(fiber.StatusForbidden, "Account is disabled")
	default:
		return err
	}

	setSessionCookie(c, sess.Token, sess.ExpiresAt)
	configs.Logger.Info("staff login", zap.String("user_name", sess.User.UserName))

	return helper.JsonOK(c, "Login successful", fiber.Map{
		"access_token": sess.Token,
		"expires_at":   sess.ExpiresAt,
		"user": fiber.Map{
			"id":           sess.User.ID,
			"user_name":    sess.User.UserName,
			"is_superuser": sess.User.IsSuperuser,
			"role":         constants.RoleOf(sess.User.IsSuperuser),
		},
	})
}

// POST /api/auth/logout
func (ac *AuthController) Logout(c *fiber.Ctx) error {
	raw := helper.GetRawAccessToken(c)
	if err := ac.Auth.Logout(c.UserContext(), raw); err != nil {
		configs.Logger.Warn("failed to blacklist token", zap.Error(err))
	}
	clearSessionCookie(c)
	return helper.JsonOK(c, "Logout successful", nil)
}

func setSessionCookie(c *fiber.Ctx, token string, exp time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     helper.AccessTokenCookie,
		Value:    token,
		HTTPOnly: true,
		Secure:   secureCookie(c),
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
		Expires:  exp,
	})
}

func clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     helper.AccessTokenCookie,
		Value:    "",
		HTTPOnly: true,
		Secure:   secureCookie(c),
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour),
		MaxAge:   -1,
	})
}

func secureCookie(c *fiber.Ctx) bool {
	return strings.EqualFold(c.Protocol(), "https")
}
