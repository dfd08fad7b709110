package helper

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"waterbilling_backend/internals/configs"
)

// FromFiberError mengubah error (biasanya *fiber.Error) menjadi response JSON konsisten.
// Error non-fiber dianggap kegagalan storage/internal: dicatat, pesan ke client dibuat generic.
func FromFiberError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return JsonError(c, fe.Code, fe.Message)
	}
	configs.Logger.Error("request failed",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Any("request_id", c.Locals("reqid")),
		zap.Error(err),
	)
	return JsonError(c, fiber.StatusInternalServerError, "Operation failed. Please try again.")
}

// ErrorHandler dipasang di fiber.Config supaya semua error handler/middleware keluar dengan shape yang sama.
func ErrorHandler(c *fiber.Ctx, err error) error {
	return FromFiberError(c, err)
}
