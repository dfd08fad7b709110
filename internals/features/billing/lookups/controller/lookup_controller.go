// file: internals/features/billing/lookups/controller/lookup_controller.go
package controller

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	billModel "waterbilling_backend/internals/features/billing/bills/model"
	consumerModel "waterbilling_backend/internals/features/billing/consumers/model"
	readingRepo "waterbilling_backend/internals/features/billing/readings/repository"
	"waterbilling_backend/internals/helpers/dbtime"
)

// Dua endpoint ini dipakai widget JS, jadi shape JSON-nya tetap (tanpa envelope standar).
type LookupController struct {
	DB *gorm.DB
}

func NewLookupController(db *gorm.DB) *LookupController {
	return &LookupController{DB: db}
}

type validateBill struct {
	BillingPeriod string  `json:"billing_period"` // "January 2006"
	AmountDue     float64 `json:"amount_due"`
	DueDate       string  `json:"due_date"`
	Status        string  `json:"status"`
}

type validateData struct {
	Name    string         `json:"name"`
	Address string         `json:"address"`
	Status  string         `json:"status"`
	Bills   []validateBill `json:"bills"`
}

// GET /api/validate-id?id= (public)
// Id tidak valid / tidak ada → HTTP 200 {success:false, error:"Consumer not found"}.
func (h *LookupController) ValidateID(c *fiber.Ctx) error {
	notFound := fiber.Map{"success": false, "error": "Consumer not found"}

	id, err := strconv.ParseUint(strings.TrimSpace(c.Query("id")), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(notFound)
	}

	var consumer consumerModel.ConsumerModel
	if err := h.DB.WithContext(c.UserContext()).
		First(&consumer, "consumer_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(notFound)
		}
		return err
	}

	var bills []billModel.BillModel
	if err := h.DB.WithContext(c.UserContext()).
		Where("bill_consumer_id = ?", consumer.ConsumerID).
		Order("bill_billing_period DESC").
		Order("bill_id DESC").
		Find(&bills).Error; err != nil {
		return err
	}

	data := validateData{
		Name:    consumer.ConsumerName,
		Address: consumer.ConsumerAddress,
		Status:  string(consumer.ConsumerStatus),
		Bills:   make([]validateBill, 0, len(bills)),
	}
	for _, b := range bills {
		data.Bills = append(data.Bills, validateBill{
			BillingPeriod: dbtime.PeriodLabel(b.PeriodTime()),
			AmountDue:     b.BillAmountDue.InexactFloat64(),
			DueDate:       dbtime.FormatDate(b.DueDateTime()),
			Status:        string(b.BillStatus),
		})
	}
	return c.JSON(fiber.Map{"success": true, "data": data})
}

// GET /api/ajax/previous-reading?consumer_name=
// Nama kosong / tidak dikenal / belum ada bacaan → 0.
func (h *LookupController) PreviousReading(c *fiber.Ctx) error {
	name := strings.TrimSpace(c.Query("consumer_name"))
	if name == "" {
		return c.JSON(fiber.Map{"previous_reading": 0.0})
	}

	last, err := readingRepo.FindLatestByConsumerName(c.UserContext(), h.DB, name)
	if err != nil {
		return err
	}
	prev := 0.0
	if last != nil {
		prev = last.MeterReadingCurrentReading
	}
	return c.JSON(fiber.Map{"previous_reading": prev})
}
