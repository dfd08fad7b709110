package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"waterbilling_backend/internals/features/billing/calculator"
	"waterbilling_backend/internals/features/billing/dashboard/controller"
)

func DashboardRoutes(api fiber.Router, db *gorm.DB, calc *calculator.Calculator) {
	h := controller.NewDashboardController(db, calc)
	api.Get("/dashboard", h.Summary)
}
