// file: internals/features/billing/bills/controller/bill_controller.go
package controller

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	dto "waterbilling_backend/internals/features/billing/bills/dto"
	billModel "waterbilling_backend/internals/features/billing/bills/model"
	"waterbilling_backend/internals/features/billing/bills/service"
	"waterbilling_backend/internals/features/billing/calculator"
	consumerModel "waterbilling_backend/internals/features/billing/consumers/model"
	readingRepo "waterbilling_backend/internals/features/billing/readings/repository"
	helper "waterbilling_backend/internals/helpers"
)

type BillController struct {
	DB      *gorm.DB
	Calc    *calculator.Calculator
	Service *service.BillService
}

func NewBillController(db *gorm.DB, calc *calculator.Calculator) *BillController {
	return &BillController{DB: db, Calc: calc, Service: service.NewBillService(db, calc)}
}

/* =========================
   Generate (POST /api/bills/generate)
========================= */

func (h *BillController) Generate(c *fiber.Ctx) error {
	var req dto.GenerateBillRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	res, err := h.Service.Generate(c.UserContext(), service.GenerateInput{
		ConsumerName:   req.ConsumerName,
		BillingPeriod:  req.BillingPeriod,
		DueDate:        req.DueDate,
		CurrentReading: req.CurrentReading,
		MeterNumber:    req.MeterNumber,
	})
	if err != nil {
		return MapServiceError(err)
	}

	bill := res.Bill
	bill.Consumer = &res.Consumer
	msg := fmt.Sprintf("Bill generated for %s. Amount due: ₱%s", res.Consumer.ConsumerName, res.Bill.BillAmountDue.StringFixed(2))
	return helper.JsonCreated(c, msg, dto.GenerateBillResponse{
		Bill:            dto.ToBillResponse(h.Calc, bill, &res.Reading),
		PreviousReading: res.PreviousReading,
		Consumption:     res.Consumption,
		AmountDue:       res.Bill.BillAmountDue.InexactFloat64(),
	})
}

/* =========================
   Generate form data (GET /api/bills/generate)
========================= */

func (h *BillController) GenerateForm(c *fiber.Ctx) error {
	var names []string
	if err := h.DB.WithContext(c.UserContext()).
		Model(&consumerModel.ConsumerModel{}).
		Order("consumer_name ASC").
		Pluck("consumer_name", &names).Error; err != nil {
		return err
	}
	return helper.JsonOK(c, "ok", dto.GenerateFormResponse{
		Consumers:     names,
		ConsumerName:  strings.TrimSpace(c.Query("consumer_name")),
		BillingPeriod: strings.TrimSpace(c.Query("billing_period")),
	})
}

/* =========================
   Mark paid (POST /api/bills/:id/mark-paid)
========================= */

func (h *BillController) MarkPaid(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return fiber.NewError(fiber.StatusNotFound, "Bill not found")
	}

	bill, changed, err := h.Service.MarkPaid(c.UserContext(), uint(id))
	if err != nil {
		return MapServiceError(err)
	}

	name := ""
	if bill.Consumer != nil {
		name = bill.Consumer.ConsumerName
	}
	msg := fmt.Sprintf("Bill for %s marked as paid.", name)
	if !changed {
		msg = fmt.Sprintf("Bill for %s is already paid.", name)
	}
	return helper.JsonOK(c, msg, dto.ToBillResponse(h.Calc, *bill, nil))
}

/* =========================
   List unpaid (GET /api/bills)
========================= */

func (h *BillController) List(c *fiber.Ctx) error {
	ctx := c.UserContext()
	search := strings.TrimSpace(c.Query("search"))

	base := func() *gorm.DB {
		q := h.DB.WithContext(ctx).
			Model(&billModel.BillModel{}).
			Where("bills.bill_status = ?", billModel.BillUnpaid)
		if search != "" {
			q = q.Joins("JOIN consumers ON consumers.consumer_id = bills.bill_consumer_id").
				Where(`LOWER(consumers.consumer_name) LIKE ? ESCAPE '\'`, helper.LikeContains(search))
		}
		return q
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return err
	}
	pg := helper.ResolvePaging(c).ClampToLastPage(total)

	var bills []billModel.BillModel
	if err := base().
		Preload("Consumer").
		Order("bills.bill_generated_at DESC").
		Order("bills.bill_id DESC").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&bills).Error; err != nil {
		return err
	}

	resp, err := h.withReadings(c, bills)
	if err != nil {
		return err
	}
	return helper.JsonList(c, "Unpaid bills", resp, helper.BuildPagination(total, pg, len(resp)))
}

/* =========================
   History (GET /api/bills/history)
========================= */

func (h *BillController) History(c *fiber.Ctx) error {
	ctx := c.UserContext()
	base := func() *gorm.DB {
		return h.DB.WithContext(ctx).
			Model(&billModel.BillModel{}).
			Where("bill_status = ?", billModel.BillPaid)
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return err
	}
	pg := helper.ResolvePaging(c).ClampToLastPage(total)

	var bills []billModel.BillModel
	if err := base().
		Preload("Consumer").
		Order("bill_consumer_id ASC").
		Order("bill_generated_at DESC").
		Order("bill_id DESC").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&bills).Error; err != nil {
		return err
	}

	resp, err := h.withReadings(c, bills)
	if err != nil {
		return err
	}
	return helper.JsonList(c, "Paid bills", resp, helper.BuildPagination(total, pg, len(resp)))
}

/* =========================
   Detail (GET /api/bills/:id)
========================= */

func (h *BillController) GetByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return fiber.NewError(fiber.StatusNotFound, "Bill not found")
	}

	var bill billModel.BillModel
	if err := h.DB.WithContext(c.UserContext()).
		Preload("Consumer").
		First(&bill, "bill_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Bill not found")
		}
		return err
	}

	resp, err := h.withReadings(c, []billModel.BillModel{bill})
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "ok", resp[0])
}

func (h *BillController) withReadings(c *fiber.Ctx, bills []billModel.BillModel) ([]dto.BillResponse, error) {
	billIDs := make([]uint, 0, len(bills))
	for _, b := range bills {
		billIDs = append(billIDs, b.BillID)
	}
	byBill, err := readingRepo.ByBillIDs(c.UserContext(), h.DB, billIDs)
	if err != nil {
		return nil, err
	}

	// bill lama tanpa bacaan terkait: pakai bacaan terakhir consumer
	var orphanConsumers []uint
	for _, b := range bills {
		if _, ok := byBill[b.BillID]; !ok {
			orphanConsumers = append(orphanConsumers, b.BillConsumerID)
		}
	}
	latest, err := readingRepo.LatestForConsumers(c.UserContext(), h.DB, orphanConsumers)
	if err != nil {
		return nil, err
	}
	return dto.ToBillResponses(h.Calc, bills, byBill, latest), nil
}

// MapServiceError: validasi form (termasuk consumer tidak dikenal) → 422, duplikat periode → 409,
// bill tidak ada → 404, sisanya 500 lewat ErrorHandler.
func MapServiceError(err error) error {
	var ve *service.ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	switch {
	case errors.Is(err, service.ErrDuplicateBill):
		return fiber.NewError(fiber.StatusConflict, ve.Message)
	case errors.Is(err, service.ErrBillNotFound):
		return fiber.NewError(fiber.StatusNotFound, ve.Message)
	default:
		return fiber.NewError(fiber.StatusUnprocessableEntity, ve.Message)
	}
}
