// file: internals/features/billing/payments/controller/payment_controller.go
package controller

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"waterbilling_backend/internals/configs"
	dto "waterbilling_backend/internals/features/billing/payments/dto"
	"waterbilling_backend/internals/features/billing/payments/service"
	helper "waterbilling_backend/internals/helpers"
)

var validate = validator.New()

type PaymentController struct {
	DB       *gorm.DB
	Payments *service.PaymentService
	Gateway  *service.Gateway
}

func NewPaymentController(db *gorm.DB, payments *service.PaymentService, gateway *service.Gateway) *PaymentController {
	return &PaymentController{DB: db, Payments: payments, Gateway: gateway}
}

/* =========================
   Record cash (POST /api/bills/:id/payments)
========================= */

func (h *PaymentController) Record(c *fiber.Ctx) error {
	billID, err := billIDParam(c)
	if err != nil {
		return err
	}

	var req dto.RecordPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	req.AmountPaid = strings.TrimSpace(req.AmountPaid)
	if err := validate.Struct(req); err != nil {
		return helper.ValidationErrors(c, err)
	}
	amount, err := decimal.NewFromString(req.AmountPaid)
	if err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "Amount paid must be a number.")
	}

	res, err := h.Payments.RecordCash(c.UserContext(), billID, amount)
	if err != nil {
		return mapError(err)
	}

	msg := fmt.Sprintf("Payment of ₱%s recorded.", res.Payment.PaymentAmountPaid.StringFixed(2))
	if res.ReconnectionApplied {
		msg += fmt.Sprintf(" Reconnection fee of ₱%s applied.", res.Bill.BillReconnectionFee.StringFixed(2))
	}
	return helper.JsonCreated(c, msg, dto.RecordPaymentResponse{
		Payment:             dto.ToPaymentResponse(res.Payment),
		ReconnectionApplied: res.ReconnectionApplied,
		ReconnectionFee:     res.Bill.BillReconnectionFee.InexactFloat64(),
	})
}

/* =========================
   List (GET /api/bills/:id/payments)
========================= */

func (h *PaymentController) ListByBill(c *fiber.Ctx) error {
	billID, err := billIDParam(c)
	if err != nil {
		return err
	}
	rows, err := h.Payments.ListByBill(c.UserContext(), billID)
	if err != nil {
		return mapError(err)
	}
	return helper.JsonOK(c, "ok", dto.ToPaymentResponses(rows))
}

/* =========================
   Checkout (POST /api/bills/:id/checkout)
========================= */

func (h *PaymentController) Checkout(c *fiber.Ctx) error {
	billID, err := billIDParam(c)
	if err != nil {
		return err
	}
	co, err := h.Gateway.CreateCheckout(c.UserContext(), billID)
	if err != nil {
		return mapError(err)
	}
	return helper.JsonCreated(c, "Checkout created", co)
}

/* =========================
   Midtrans webhook (POST /api/payments/notification), publik
========================= */

func (h *PaymentController) Notification(c *fiber.Ctx) error {
	var n service.Notification
	if err := c.BodyParser(&n); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid payload")
	}

	res, err := h.Gateway.HandleNotification(c.UserContext(), n)
	if err != nil {
		configs.Logger.Warn("midtrans notification rejected", zap.String("order_id", n.OrderID), zap.Error(err))
		return mapError(err)
	}
	return helper.JsonOK(c, "Notification processed", fiber.Map{
		"bill_id":   res.BillID,
		"processed": res.Processed,
		"duplicate": res.Duplicate,
	})
}

func billIDParam(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusNotFound, "Bill not found")
	}
	return uint(id), nil
}

func mapError(err error) error {
	switch {
	case errors.Is(err, service.ErrBillNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Bill not found")
	case errors.Is(err, service.ErrBillAlreadyPaid):
		return fiber.NewError(fiber.StatusConflict, "Bill is already paid.")
	case errors.Is(err, service.ErrInvalidAmount):
		return fiber.NewError(fiber.StatusUnprocessableEntity, "Amount paid must be greater than zero.")
	case errors.Is(err, service.ErrNothingToPay):
		return fiber.NewError(fiber.StatusUnprocessableEntity, "Bill total is zero.")
	case errors.Is(err, service.ErrInvalidSignature):
		return fiber.NewError(fiber.StatusForbidden, "Invalid signature")
	case errors.Is(err, service.ErrInvalidOrderID):
		return fiber.NewError(fiber.StatusBadRequest, "Invalid order id")
	case errors.Is(err, service.ErrGatewayDisabled):
		return fiber.NewError(fiber.StatusServiceUnavailable, "Online payment is not configured")
	}
	return err
}
