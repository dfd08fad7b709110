package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	userController "waterbilling_backend/internals/features/users/user/controller"
	authMiddleware "waterbilling_backend/internals/middlewares/auth"
)

// UserRoutes: /api/users. Sesi sudah dicek di group /api.
func UserRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := userController.NewUserController(db)

	users := api.Group("/users")

	// ✅ Profil diri
	users.Get("/me", ctrl.GetMe)
	users.Patch("/me/password", ctrl.ChangePassword)

	// 🔒 Manajemen staff (superuser)
	su := authMiddleware.RequireSuperuser()
	users.Get("/", su, ctrl.GetUsers)
	users.Post("/", su, ctrl.CreateUser)
	users.Patch("/:id", su, ctrl.UpdateUser)
	users.Delete("/:id", su, ctrl.DeleteUser)
}
