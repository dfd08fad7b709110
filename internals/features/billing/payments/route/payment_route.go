package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"waterbilling_backend/internals/features/billing/payments/controller"
	"waterbilling_backend/internals/features/billing/payments/service"
	rateLimiter "waterbilling_backend/internals/middlewares"
)

func PaymentRoutes(api fiber.Router, db *gorm.DB, payments *service.PaymentService, gateway *service.Gateway) {
	h := controller.NewPaymentController(db, payments, gateway)

	bills := api.Group("/bills")
	bills.Get("/:id<int>/payments", h.ListByBill)
	bills.Post("/:id<int>/payments", h.Record)
	bills.Post("/:id<int>/checkout", h.Checkout)

	// webhook Midtrans: publik, dilewati SessionMiddleware
	api.Post("/payments/notification", rateLimiter.WebhookRateLimiter(), h.Notification)
}
