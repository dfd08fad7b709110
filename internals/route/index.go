// file: internals/route/index.go
package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"waterbilling_backend/internals/configs"
	"waterbilling_backend/internals/features/billing/calculator"
	paymentService "waterbilling_backend/internals/features/billing/payments/service"
	authService "waterbilling_backend/internals/features/users/auth/service"
	authMiddleware "waterbilling_backend/internals/middlewares/auth"
	routeDetails "waterbilling_backend/internals/route/details"
)

var startTime time.Time

type Deps struct {
	DB      *gorm.DB
	Calc    *calculator.Calculator
	Auth    *authService.AuthService
	Gateway *paymentService.Gateway
}

func SetupRoutes(app *fiber.App, d Deps) {
	startTime = time.Now()

	// ===================== BASE =====================
	BaseRoutes(app, d.DB)

	// ===================== AUTH (public) =====================
	configs.Logger.Info("Setting up AuthRoutes...")
	routeDetails.AuthRoutes(app, d.DB, d.Auth)

	// ===================== API (session) =====================
	// login, validate-id & webhook Midtrans dilewati di dalam middleware
	configs.Logger.Info("Setting up API group (session)...")
	api := app.Group("/api", authMiddleware.SessionMiddleware(d.Auth))

	configs.Logger.Info("Mounting User routes...")
	routeDetails.UserRoutes(api, d.DB)

	configs.Logger.Info("Mounting Billing routes...")
	routeDetails.BillingRoutes(api, d.DB, d.Calc, d.Gateway)
}
