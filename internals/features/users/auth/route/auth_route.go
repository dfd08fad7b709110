// file: internals/features/users/auth/route/auth_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	controller "waterbilling_backend/internals/features/users/auth/controller"
	"waterbilling_backend/internals/features/users/auth/service"
	rateLimiter "waterbilling_backend/internals/middlewares"
)

// Base: /api/auth (public; logout membaca cookie sendiri)
func AuthRoutes(app fiber.Router, db *gorm.DB, auth *service.AuthService) {
	authController := controller.NewAuthController(db, auth)

	baseAuth := app.Group("/api/auth")
	baseAuth.Post("/login", rateLimiter.LoginRateLimiter(), authController.Login)
	baseAuth.Post("/logout", authController.Logout)
}
