package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"waterbilling_backend/internals/configs"
	"waterbilling_backend/internals/middlewares/logger"
)

// SetupMiddlewares: urutan penting, recovery paling luar.
func SetupMiddlewares(app *fiber.App) {
	app.Use(RecoveryMiddleware())
	app.Use(logger.LoggerMiddleware(5 * time.Second))
	app.Use(CorsMiddleware(configs.CORSOrigins()))
	app.Use(GlobalRateLimiter())
}
