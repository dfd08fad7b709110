// File: internals/features/billing/bills/dto/bill_dto.go
package dto

import (
	"time"

	billModel "waterbilling_backend/internals/features/billing/bills/model"
	"waterbilling_backend/internals/features/billing/calculator"
	readingModel "waterbilling_backend/internals/features/billing/readings/model"
	"waterbilling_backend/internals/helpers/dbtime"
)

////////////////////////////////////////////////////////////////////////////////
// REQUEST
////////////////////////////////////////////////////////////////////////////////

// Form generate bill (form-urlencoded atau JSON). Semua string supaya pesan validasi
// ("must be a number", dst.) ditentukan service, bukan parser.
type GenerateBillRequest struct {
	ConsumerName   string `json:"consumer_name"   form:"consumer_name"`
	BillingPeriod  string `json:"billing_period"  form:"billing_period"`
	DueDate        string `json:"due_date"        form:"due_date"`
	CurrentReading string `json:"current_reading" form:"current_reading"`
	MeterNumber    string `json:"meter_number"    form:"meter_number"`
}

////////////////////////////////////////////////////////////////////////////////
// RESPONSE
////////////////////////////////////////////////////////////////////////////////

type ReadingSummary struct {
	MeterReadingID  uint    `json:"meter_reading_id"`
	MeterNumber     string  `json:"meter_number"`
	CurrentReading  float64 `json:"current_reading"`
	PreviousReading float64 `json:"previous_reading"`
	Consumption     float64 `json:"consumption"`
	ReadingDate     string  `json:"reading_date"`
}

type BillResponse struct {
	BillID          uint       `json:"bill_id"`
	ConsumerID      uint       `json:"consumer_id"`
	ConsumerName    string     `json:"consumer_name,omitempty"`
	BillingPeriod   string     `json:"billing_period"` // YYYY-MM
	AmountDue       float64    `json:"amount_due"`
	DueDate         string     `json:"due_date"`
	Status          string     `json:"status"`
	ReconnectionFee float64    `json:"reconnection_fee"`
	LateFee         float64    `json:"late_fee"`
	TotalDue        float64    `json:"total_due"`
	IsOverdue       bool       `json:"is_overdue"`
	GeneratedAt     time.Time  `json:"generated_at"`
	PaidAt          *time.Time `json:"paid_at,omitempty"`

	Reading *ReadingSummary `json:"reading,omitempty"`
}

type GenerateBillResponse struct {
	Bill            BillResponse `json:"bill"`
	PreviousReading float64      `json:"previous_reading"`
	Consumption     float64      `json:"consumption"`
	AmountDue       float64      `json:"amount_due"`
}

type GenerateFormResponse struct {
	Consumers     []string `json:"consumers"`
	ConsumerName  string   `json:"consumer_name"`
	BillingPeriod string   `json:"billing_period"`
}

////////////////////////////////////////////////////////////////////////////////
// MAPPERS
////////////////////////////////////////////////////////////////////////////////

func ToReadingSummary(r readingModel.MeterReadingModel) *ReadingSummary {
	return &ReadingSummary{
		MeterReadingID:  r.MeterReadingID,
		MeterNumber:     r.MeterReadingMeterNumber,
		CurrentReading:  r.MeterReadingCurrentReading,
		PreviousReading: r.MeterReadingPreviousReading,
		Consumption:     calculator.Consumption(r.MeterReadingCurrentReading, r.MeterReadingPreviousReading),
		ReadingDate:     dbtime.FormatDate(time.Time(r.MeterReadingDate)),
	}
}

// ToBillResponse: reading boleh nil (bill lama tanpa bacaan terkait).
func ToBillResponse(calc *calculator.Calculator, b billModel.BillModel, r *readingModel.MeterReadingModel) BillResponse {
	br := calc.Breakdown(b)
	out := BillResponse{
		BillID:          b.BillID,
		ConsumerID:      b.BillConsumerID,
		BillingPeriod:   dbtime.FormatPeriod(b.PeriodTime()),
		AmountDue:       br.AmountDue.InexactFloat64(),
		DueDate:         dbtime.FormatDate(b.DueDateTime()),
		Status:          string(b.BillStatus),
		ReconnectionFee: br.ReconnectionFee.InexactFloat64(),
		LateFee:         br.LateFee.InexactFloat64(),
		TotalDue:        br.TotalDue.InexactFloat64(),
		IsOverdue:       br.Overdue,
		GeneratedAt:     b.BillGeneratedAt,
		PaidAt:          b.BillPaidAt,
	}
	if b.Consumer != nil {
		out.ConsumerName = b.Consumer.ConsumerName
	}
	if r != nil {
		out.Reading = ToReadingSummary(*r)
	}
	return out
}

// ToBillResponses memasangkan bill dengan bacaannya (by bill id, fallback bacaan terakhir consumer).
func ToBillResponses(
	calc *calculator.Calculator,
	bills []billModel.BillModel,
	byBill map[uint]readingModel.MeterReadingModel,
	latestByConsumer map[uint]readingModel.MeterReadingModel,
) []BillResponse {
	out := make([]BillResponse, 0, len(bills))
	for _, b := range bills {
		var rp *readingModel.MeterReadingModel
		if r, ok := byBill[b.BillID]; ok {
			rp = &r
		} else if r, ok := latestByConsumer[b.BillConsumerID]; ok {
			rp = &r
		}
		out = append(out, ToBillResponse(calc, b, rp))
	}
	return out
}
