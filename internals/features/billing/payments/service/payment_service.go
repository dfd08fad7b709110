// internals/features/billing/payments/service/payment_service.go
package service

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"waterbilling_backend/internals/configs"
	billModel "waterbilling_backend/internals/features/billing/bills/model"
	billService "waterbilling_backend/internals/features/billing/bills/service"
	"waterbilling_backend/internals/features/billing/calculator"
	paymentModel "waterbilling_backend/internals/features/billing/payments/model"
)

var (
	ErrBillNotFound    = errors.New("bill not found")
	ErrBillAlreadyPaid = errors.New("bill is already paid")
	ErrInvalidAmount   = errors.New("amount paid must be greater than zero")
)

type PaymentService struct {
	DB   *gorm.DB
	Calc *calculator.Calculator
}

func NewPaymentService(db *gorm.DB, calc *calculator.Calculator) *PaymentService {
	return &PaymentService{DB: db, Calc: calc}
}

type RecordResult struct {
	Payment             paymentModel.PaymentModel
	Bill                billModel.BillModel
	ReconnectionApplied bool
}

// RecordCash mencatat pembayaran loket. Status bill tidak diubah di sini (pelunasan lewat mark-paid).
func (s *PaymentService) RecordCash(ctx context.Context, billID uint, amount decimal.Decimal) (*RecordResult, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	var res *RecordResult
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		bill, err := loadBill(tx, billID)
		if err != nil {
			return err
		}
		if bill.BillStatus == billModel.BillPaid {
			return ErrBillAlreadyPaid
		}
		res, err = s.recordTx(tx, bill, amount, paymentModel.PaymentCash, nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// recordTx: insert payment + pemicu biaya sambung ulang dalam transaksi yang sama.
func (s *PaymentService) recordTx(
	tx *gorm.DB,
	bill *billModel.BillModel,
	amount decimal.Decimal,
	method paymentModel.PaymentMethod,
	orderID *string,
) (*RecordResult, error) {
	p := paymentModel.PaymentModel{
		PaymentConsumerID:     bill.BillConsumerID,
		PaymentBillID:         bill.BillID,
		PaymentAmountPaid:     amount.Round(2),
		PaymentDate:           s.Calc.Now(),
		PaymentMethod:         method,
		PaymentGatewayOrderID: orderID,
	}
	if err := tx.Create(&p).Error; err != nil {
		return nil, err
	}

	applied := false
	if bill.Consumer != nil && calculator.ReconnectionApplies(bill.Consumer.ConsumerStatus, amount, bill.BillAmountDue) {
		fee := s.Calc.Tariff.ReconnectionFee
		if err := tx.Model(&billModel.BillModel{}).
			Where("bill_id = ?", bill.BillID).
			Update("bill_reconnection_fee", fee).Error; err != nil {
			return nil, err
		}
		bill.BillReconnectionFee = fee
		applied = true
		configs.Logger.Info("reconnection fee applied",
			zap.Uint("bill_id", bill.BillID),
			zap.Uint("consumer_id", bill.BillConsumerID),
		)
	}
	return &RecordResult{Payment: p, Bill: *bill, ReconnectionApplied: applied}, nil
}

func (s *PaymentService) ListByBill(ctx context.Context, billID uint) ([]paymentModel.PaymentModel, error) {
	if _, err := loadBill(s.DB.WithContext(ctx), billID); err != nil {
		return nil, err
	}
	var rows []paymentModel.PaymentModel
	if err := s.DB.WithContext(ctx).
		Where("payment_bill_id = ?", billID).
		Order("payment_date DESC").
		Order("payment_id DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func loadBill(tx *gorm.DB, billID uint) (*billModel.BillModel, error) {
	var bill billModel.BillModel
	if err := tx.Preload("Consumer").First(&bill, "bill_id = ?", billID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBillNotFound
		}
		return nil, err
	}
	return &bill, nil
}

func markPaid(tx *gorm.DB, bill *billModel.BillModel, now time.Time) error {
	_, err := billService.MarkPaidTx(tx, bill, now)
	return err
}
