package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	authRoute "waterbilling_backend/internals/features/users/auth/route"
	"waterbilling_backend/internals/features/users/auth/service"
)

func AuthRoutes(app *fiber.App, db *gorm.DB, auth *service.AuthService) {
	authRoute.AuthRoutes(app, db, auth)
}
