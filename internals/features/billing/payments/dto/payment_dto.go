// File: internals/features/billing/payments/dto/payment_dto.go
package dto

import (
	"time"

	paymentModel "waterbilling_backend/internals/features/billing/payments/model"
)

// amount_paid string supaya desimal tidak lewat float.
type RecordPaymentRequest struct {
	AmountPaid string `json:"amount_paid" form:"amount_paid" validate:"required"`
}

type PaymentResponse struct {
	PaymentID      uint      `json:"payment_id"`
	ConsumerID     uint      `json:"consumer_id"`
	BillID         uint      `json:"bill_id"`
	AmountPaid     float64   `json:"amount_paid"`
	PaymentDate    time.Time `json:"payment_date"`
	Method         string    `json:"method"`
	GatewayOrderID *string   `json:"gateway_order_id,omitempty"`
}

type RecordPaymentResponse struct {
	Payment             PaymentResponse `json:"payment"`
	ReconnectionApplied bool            `json:"reconnection_applied"`
	ReconnectionFee     float64         `json:"reconnection_fee"`
}

func ToPaymentResponse(m paymentModel.PaymentModel) PaymentResponse {
	return PaymentResponse{
		PaymentID:      m.PaymentID,
		ConsumerID:     m.PaymentConsumerID,
		BillID:         m.PaymentBillID,
		AmountPaid:     m.PaymentAmountPaid.InexactFloat64(),
		PaymentDate:    m.PaymentDate,
		Method:         string(m.PaymentMethod),
		GatewayOrderID: m.PaymentGatewayOrderID,
	}
}

func ToPaymentResponses(rows []paymentModel.PaymentModel) []PaymentResponse {
	out := make([]PaymentResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, ToPaymentResponse(r))
	}
	return out
}
