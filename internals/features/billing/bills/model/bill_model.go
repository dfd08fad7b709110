package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	consumerModel "waterbilling_backend/internals/features/billing/consumers/model"
)

type BillStatus string

const (
	BillUnpaid BillStatus = "Unpaid"
	BillPaid   BillStatus = "Paid"
)

// Transisi satu arah: Unpaid → Paid. Paid → Paid dianggap no-op.
func (s BillStatus) CanTransitionTo(next BillStatus) bool {
	switch s {
	case BillUnpaid:
		return next == BillUnpaid || next == BillPaid
	case BillPaid:
		return next == BillPaid
	}
	return false
}

type BillModel struct {
	BillID uint `gorm:"column:bill_id;primaryKey" json:"bill_id"`

	// UNIQUE (consumer, period) di level DB, bukan cuma cek di aplikasi
	BillConsumerID    uint           `gorm:"column:bill_consumer_id;not null;uniqueIndex:uq_bills_consumer_period,priority:1"          json:"bill_consumer_id"`
	BillBillingPeriod datatypes.Date `gorm:"column:bill_billing_period;type:date;not null;uniqueIndex:uq_bills_consumer_period,priority:2" json:"bill_billing_period"`

	BillAmountDue       decimal.Decimal `gorm:"column:bill_amount_due;type:numeric(10,2);not null"           json:"bill_amount_due"`
	BillDueDate         datatypes.Date  `gorm:"column:bill_due_date;type:date;not null"                      json:"bill_due_date"`
	BillStatus          BillStatus      `gorm:"column:bill_status;type:varchar(50);not null;default:Unpaid;index" json:"bill_status"`
	BillReconnectionFee decimal.Decimal `gorm:"column:bill_reconnection_fee;type:numeric(10,2);not null;default:0" json:"bill_reconnection_fee"`

	BillGeneratedAt time.Time  `gorm:"column:bill_generated_at;not null" json:"bill_generated_at"`
	BillPaidAt      *time.Time `gorm:"column:bill_paid_at"               json:"bill_paid_at,omitempty"`

	Consumer *consumerModel.ConsumerModel `gorm:"foreignKey:BillConsumerID;references:ConsumerID;constraint:OnDelete:CASCADE" json:"consumer,omitempty"`
}

func (BillModel) TableName() string { return "bills" }

func (b BillModel) PeriodTime() time.Time  { return time.Time(b.BillBillingPeriod) }
func (b BillModel) DueDateTime() time.Time { return time.Time(b.BillDueDate) }
