package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"waterbilling_backend/internals/features/billing/lookups/controller"
)

// validate-id publik (dilewati SessionMiddleware); previous-reading butuh sesi staff.
func LookupRoutes(api fiber.Router, db *gorm.DB) {
	h := controller.NewLookupController(db)

	api.Get("/validate-id", h.ValidateID)
	api.Get("/ajax/previous-reading", h.PreviousReading)
}
