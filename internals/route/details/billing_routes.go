package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	billRoute "waterbilling_backend/internals/features/billing/bills/route"
	"waterbilling_backend/internals/features/billing/calculator"
	consumerRoute "waterbilling_backend/internals/features/billing/consumers/route"
	dashboardRoute "waterbilling_backend/internals/features/billing/dashboard/route"
	lookupRoute "waterbilling_backend/internals/features/billing/lookups/route"
	paymentRoute "waterbilling_backend/internals/features/billing/payments/route"
	paymentService "waterbilling_backend/internals/features/billing/payments/service"
)

// BillingRoutes: semua route di bawah /api (gating sesi dipasang di group).
func BillingRoutes(api fiber.Router, db *gorm.DB, calc *calculator.Calculator, gateway *paymentService.Gateway) {
	consumerRoute.ConsumerRoutes(api, db, calc)
	billRoute.BillRoutes(api, db, calc)
	lookupRoute.LookupRoutes(api, db)
	dashboardRoute.DashboardRoutes(api, db, calc)
	paymentRoute.PaymentRoutes(api, db, gateway.Payments, gateway)
}
