package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"waterbilling_backend/internals/features/billing/calculator"
	"waterbilling_backend/internals/features/billing/consumers/controller"
)

// Base: /api/consumers
func ConsumerRoutes(api fiber.Router, db *gorm.DB, calc *calculator.Calculator) {
	h := controller.NewConsumerController(db, calc)

	g := api.Group("/consumers")
	g.Get("/", h.List)
	g.Post("/", h.Create)
	g.Get("/:id<int>", h.GetByID)
	g.Put("/:id<int>", h.Update)
	g.Delete("/:id<int>", h.Delete)
	g.Get("/:id<int>/records", h.Records)
}
