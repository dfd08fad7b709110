package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"waterbilling_backend/internals/features/billing/bills/controller"
	"waterbilling_backend/internals/features/billing/calculator"
)

// Base: /api/bills (sudah lewat SessionMiddleware)
func BillRoutes(api fiber.Router, db *gorm.DB, calc *calculator.Calculator) {
	h := controller.NewBillController(db, calc)

	g := api.Group("/bills")
	g.Get("/", h.List)
	g.Get("/history", h.History)
	g.Get("/generate", h.GenerateForm)
	g.Post("/generate", h.Generate)
	g.Get("/:id<int>", h.GetByID)
	g.Post("/:id<int>/mark-paid", h.MarkPaid)
}
