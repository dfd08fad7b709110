package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	billModel "waterbilling_backend/internals/features/billing/bills/model"
	"waterbilling_backend/internals/features/billing/calculator"
	consumerModel "waterbilling_backend/internals/features/billing/consumers/model"
	helper "waterbilling_backend/internals/helpers"
)

type DashboardController struct {
	DB   *gorm.DB
	Calc *calculator.Calculator
}

func NewDashboardController(db *gorm.DB, calc *calculator.Calculator) *DashboardController {
	return &DashboardController{DB: db, Calc: calc}
}

type SummaryResponse struct {
	Consumers        map[consumerModel.ConsumerStatus]int64 `json:"consumers"`
	TotalConsumers   int64                                  `json:"total_consumers"`
	UnpaidBills      int64                                  `json:"unpaid_bills"`
	OverdueBills     int64                                  `json:"overdue_bills"`
	TotalOutstanding float64                                `json:"total_outstanding"`
	LateFees         float64                                `json:"late_fees"`
}

/* GET /api/dashboard */
func (h *DashboardController) Summary(c *fiber.Ctx) error {
	db := h.DB.WithContext(c.UserContext())

	type statusCount struct {
		Status consumerModel.ConsumerStatus
		Total  int64
	}
	var counts []statusCount
	if err := db.Model(&consumerModel.ConsumerModel{}).
		Select("consumer_status AS status, COUNT(*) AS total").
		Group("consumer_status").
		Scan(&counts).Error; err != nil {
		return err
	}

	out := SummaryResponse{
		Consumers: map[consumerModel.ConsumerStatus]int64{
			consumerModel.ConsumerActive:       0,
			consumerModel.ConsumerSuspended:    0,
			consumerModel.ConsumerDisconnected: 0,
		},
	}
	for _, sc := range counts {
		out.Consumers[sc.Status] = sc.Total
		out.TotalConsumers += sc.Total
	}

	// total = amount_due + reconnection_fee + late fee, sama seperti halaman records
	var unpaid []billModel.BillModel
	if err := db.Select("bill_id", "bill_amount_due", "bill_reconnection_fee", "bill_due_date", "bill_status").
		Where("bill_status = ?", billModel.BillUnpaid).
		Find(&unpaid).Error; err != nil {
		return err
	}

	total, late := decimal.Zero, decimal.Zero
	for _, b := range unpaid {
		bd := h.Calc.Breakdown(b)
		if bd.Overdue {
			out.OverdueBills++
		}
		late = late.Add(bd.LateFee)
		total = total.Add(bd.TotalDue)
	}
	out.UnpaidBills = int64(len(unpaid))
	out.TotalOutstanding = total.InexactFloat64()
	out.LateFees = late.InexactFloat64()

	return helper.JsonOK(c, "ok", out)
}
