package model

import (
	"time"

	"github.com/shopspring/decimal"

	billModel "waterbilling_backend/internals/features/billing/bills/model"
	consumerModel "waterbilling_backend/internals/features/billing/consumers/model"
)

type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentOnline PaymentMethod = "online"
)

type PaymentModel struct {
	PaymentID uint `gorm:"column:payment_id;primaryKey" json:"payment_id"`

	PaymentConsumerID uint `gorm:"column:payment_consumer_id;not null;index" json:"payment_consumer_id"`
	PaymentBillID     uint `gorm:"column:payment_bill_id;not null;index"     json:"payment_bill_id"`

	PaymentAmountPaid decimal.Decimal `gorm:"column:payment_amount_paid;type:numeric(10,2);not null" json:"payment_amount_paid"`
	PaymentDate       time.Time       `gorm:"column:payment_date;autoCreateTime"                     json:"payment_date"`
	PaymentMethod     PaymentMethod   `gorm:"column:payment_method;type:varchar(20);not null;default:cash" json:"payment_method"`

	// order_id Midtrans, unique supaya webhook yang dikirim ulang tidak dobel
	PaymentGatewayOrderID *string `gorm:"column:payment_gateway_order_id;type:varchar(64);uniqueIndex:uq_payments_gateway_order" json:"payment_gateway_order_id,omitempty"`

	Consumer *consumerModel.ConsumerModel `gorm:"foreignKey:PaymentConsumerID;references:ConsumerID;constraint:OnDelete:CASCADE" json:"-"`
	Bill     *billModel.BillModel         `gorm:"foreignKey:PaymentBillID;references:BillID;constraint:OnDelete:CASCADE"         json:"-"`
}

func (PaymentModel) TableName() string { return "payments" }
