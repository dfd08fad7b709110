// file: internals/features/billing/consumers/controller/consumer_controller.go
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
	billDTO "waterbilling_backend/internals/features/billing/bills/dto"
	billModel "waterbilling_backend/internals/features/billing/bills/model"
	"waterbilling_backend/internals/features/billing/calculator"
	dto "waterbilling_backend/internals/features/billing/consumers/dto"
	consumerModel "waterbilling_backend/internals/features/billing/consumers/model"
	paymentModel "waterbilling_backend/internals/features/billing/payments/model"
	readingModel "waterbilling_backend/internals/features/billing/readings/model"
	readingRepo "waterbilling_backend/internals/features/billing/readings/repository"
	helper "waterbilling_backend/internals/helpers"
)

var validate = validator.New()

type ConsumerController struct {
	DB   *gorm.DB
	Calc *calculator.Calculator
}

func NewConsumerController(db *gorm.DB, calc *calculator.Calculator) *ConsumerController {
	return &ConsumerController{DB: db, Calc: calc}
}

/* =========================
   List (GET /api/consumers)
========================= */

func (h *ConsumerController) List(c *fiber.Ctx) error {
	ctx := c.UserContext()
	search := strings.TrimSpace(c.Query("search"))

	base := func() *gorm.DB {
		q := h.DB.WithContext(ctx).Model(&consumerModel.ConsumerModel{})
		if search != "" {
			q = q.Where(`LOWER(consumer_name) LIKE ? ESCAPE '\'`, helper.LikeContains(search))
		}
		return q
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return err
	}
	pg := helper.ResolvePaging(c).ClampToLastPage(total)

	var rows []consumerModel.ConsumerModel
	if err := base().
		Order("consumer_id ASC").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&rows).Error; err != nil {
		return err
	}

	ids := make([]uint, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ConsumerID)
	}
	latest, err := readingRepo.LatestForConsumers(ctx, h.DB, ids)
	if err != nil {
		return err
	}

	resp := make([]dto.ConsumerResponse, 0, len(rows))
	for _, r := range rows {
		var lp *readingModel.MeterReadingModel
		if l, ok := latest[r.ConsumerID]; ok {
			lp = &l
		}
		resp = append(resp, dto.ToConsumerResponse(r, lp))
	}
	return helper.JsonList(c, "List consumers", resp, helper.BuildPagination(total, pg, len(resp)))
}

/* =========================
   Create (POST /api/consumers)
========================= */

func (h *ConsumerController) Create(c *fiber.Ctx) error {
	var req dto.ConsumerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := validate.Struct(req); err != nil {
		return helper.ValidationErrors(c, err)
	}

	m := req.ToModel()
	if err := h.DB.WithContext(c.UserContext()).Create(&m).Error; err != nil {
		return err
	}
	return helper.JsonCreated(c, "Consumer created successfully!", dto.ToConsumerResponse(m, nil))
}

/* =========================
   Detail (GET /api/consumers/:id)
========================= */

func (h *ConsumerController) GetByID(c *fiber.Ctx) error {
	m, err := h.find(c)
	if err != nil {
		return err
	}
	latest, err := readingRepo.FindLatestByConsumer(c.UserContext(), h.DB, m.ConsumerID)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "ok", dto.ToConsumerResponse(*m, latest))
}

/* =========================
   Update (PUT /api/consumers/:id)
========================= */

func (h *ConsumerController) Update(c *fiber.Ctx) error {
	m, err := h.find(c)
	if err != nil {
		return err
	}

	var req dto.ConsumerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := validate.Struct(req); err != nil {
		return helper.ValidationErrors(c, err, "Error updating the information.")
	}

	req.Apply(m)
	if err := h.DB.WithContext(c.UserContext()).
		Model(m).
		Select("consumer_name", "consumer_address", "consumer_contact_number", "consumer_status", "consumer_updated_at").
		Updates(m).Error; err != nil {
		return err
	}
	return helper.JsonUpdated(c, fmt.Sprintf("%s's information updated successfully.", m.ConsumerName), dto.ToConsumerResponse(*m, nil))
}

/* =========================
   Delete (DELETE /api/consumers/:id), cascade
========================= */

func (h *ConsumerController) Delete(c *fiber.Ctx) error {
	m, err := h.find(c)
	if err != nil {
		return err
	}

	// hapus eksplisit anak-anaknya; FK ON DELETE CASCADE tetap jadi jaring di DB
	err = h.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("payment_consumer_id = ?", m.ConsumerID).Delete(&paymentModel.PaymentModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("meter_reading_consumer_id = ?", m.ConsumerID).Delete(&readingModel.MeterReadingModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("bill_consumer_id = ?", m.ConsumerID).Delete(&billModel.BillModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(&consumerModel.ConsumerModel{}, "consumer_id = ?", m.ConsumerID).Error
	})
	if err != nil {
		return err
	}

	configs.Logger.Info("consumer deleted", zap.Uint("consumer_id", m.ConsumerID))
	return helper.JsonDeleted(c, fmt.Sprintf("%s has been deleted.", m.ConsumerName), fiber.Map{"consumer_id": m.ConsumerID})
}

/* =========================
   Records (GET /api/consumers/:id/records)
========================= */

func (h *ConsumerController) Records(c *fiber.Ctx) error {
	m, err := h.find(c)
	if err != nil {
		return err
	}
	ctx := c.UserContext()

	var bills []billModel.BillModel
	if err := h.DB.WithContext(ctx).
		Where("bill_consumer_id = ?", m.ConsumerID).
		Order("bill_billing_period DESC").
		Order("bill_id DESC").
		Find(&bills).Error; err != nil {
		return err
	}

	ids := make([]uint, 0, len(bills))
	for _, b := range bills {
		ids = append(ids, b.BillID)
	}
	byBill, err := readingRepo.ByBillIDs(ctx, h.DB, ids)
	if err != nil {
		return err
	}

	all := billDTO.ToBillResponses(h.Calc, bills, byBill, nil)
	out := dto.ConsumerRecordsResponse{
		Consumer:    dto.ToConsumerResponse(*m, nil),
		Bills:       all,
		Outstanding: []billDTO.BillResponse{},
		Overdue:     []billDTO.BillResponse{},
	}
	totalOutstanding := decimal.Zero
	for i, b := range bills {
		if b.BillStatus != billModel.BillUnpaid {
			continue
		}
		out.Outstanding = append(out.Outstanding, all[i])
		totalOutstanding = totalOutstanding.Add(h.Calc.Breakdown(b).TotalDue)
		if all[i].IsOverdue {
			out.Overdue = append(out.Overdue, all[i])
		}
	}
	out.TotalOutstanding = totalOutstanding.InexactFloat64()

	return helper.JsonOK(c, "ok", out)
}

func (h *ConsumerController) find(c *fiber.Ctx) (*consumerModel.ConsumerModel, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return nil, fiber.NewError(fiber.StatusNotFound, "Consumer not found")
	}
	var m consumerModel.ConsumerModel
	if err := h.DB.WithContext(c.UserContext()).First(&m, "consumer_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Consumer not found")
		}
		return nil, err
	}
	return &m, nil
}
