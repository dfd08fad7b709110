// internals/features/billing/bills/service/bill_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	billModel "waterbilling_backend/internals/features/billing/bills/model"
	"waterbilling_backend/internals/features/billing/calculator"
	consumerModel "waterbilling_backend/internals/features/billing/consumers/model"
	readingModel "waterbilling_backend/internals/features/billing/readings/model"
	readingRepo "waterbilling_backend/internals/features/billing/readings/repository"
	"waterbilling_backend/internals/helpers/dbtime"
)

var (
	ErrConsumerNotFound    = errors.New("consumer not found")
	ErrBillNotFound        = errors.New("bill not found")
	ErrDuplicateBill       = errors.New("bill already exists for this period")
	ErrMissingReading      = errors.New("please input the current reading and meter number")
	ErrInvalidReading      = errors.New("current reading must be a number")
	ErrNegativeConsumption = errors.New("current reading cannot be less than previous reading")
	ErrDueBeforePeriod     = errors.New("due date cannot be earlier than the billing period")
)

// ValidationError membawa pesan untuk user + sentinel untuk mapping status code.
type ValidationError struct {
	Err     error
	Message string
}

func (e *ValidationError) Error() string { return e.Message }
func (e *ValidationError) Unwrap() error { return e.Err }

func invalid(err error, msg string) error {
	if msg == "" {
		msg = err.Error()
	}
	return &ValidationError{Err: err, Message: msg}
}

type GenerateInput struct {
	ConsumerName   string
	BillingPeriod  string // "YYYY-MM"
	DueDate        string // "YYYY-MM-DD"
	CurrentReading string
	MeterNumber    string
}

type GenerateResult struct {
	Bill            billModel.BillModel
	Reading         readingModel.MeterReadingModel
	Consumer        consumerModel.ConsumerModel
	PreviousReading float64
	Consumption     float64
}

type BillService struct {
	DB   *gorm.DB
	Calc *calculator.Calculator
}

func NewBillService(db *gorm.DB, calc *calculator.Calculator) *BillService {
	return &BillService{DB: db, Calc: calc}
}

// Generate membuat Bill + MeterReading dalam satu transaksi.
// Semua kegagalan validasi dikembalikan sebagai *ValidationError tanpa menulis apa pun.
func (s *BillService) Generate(ctx context.Context, in GenerateInput) (*GenerateResult, error) {
	var res GenerateResult

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1) consumer by nama persis
		var consumer consumerModel.ConsumerModel
		if err := tx.Where("consumer_name = ?", in.ConsumerName).
			Order("consumer_id ASC").
			Take(&consumer).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return invalid(ErrConsumerNotFound, "Consumer not found!")
			}
			return err
		}

		// 2) periode + jatuh tempo
		period, err := dbtime.ParsePeriod(in.BillingPeriod)
		if err != nil {
			return invalid(err, "")
		}
		due, err := dbtime.ParseDate(in.DueDate)
		if err != nil {
			return invalid(err, "")
		}
		if due.Before(period) {
			return invalid(ErrDueBeforePeriod, "Due date cannot be earlier than the billing period.")
		}

		// 3) duplikat periode
		var exists int64
		if err := tx.Model(&billModel.BillModel{}).
			Where("bill_consumer_id = ? AND bill_billing_period = ?", consumer.ConsumerID, datatypes.Date(period)).
			Count(&exists).Error; err != nil {
			return err
		}
		if exists > 0 {
			return duplicateErr(period, consumer.ConsumerName)
		}

		// 4) field wajib
		currentRaw := strings.TrimSpace(in.CurrentReading)
		meter := strings.TrimSpace(in.MeterNumber)
		if currentRaw == "" || meter == "" {
			return invalid(ErrMissingReading, "Please input the current reading and meter number.")
		}
		current, err := strconv.ParseFloat(currentRaw, 64)
		if err != nil || math.IsNaN(current) || math.IsInf(current, 0) {
			return invalid(ErrInvalidReading, "Current reading must be a number.")
		}

		// 5) consumption vs bacaan terakhir
		prev, err := readingRepo.PreviousValue(ctx, tx, consumer.ConsumerID)
		if err != nil {
			return err
		}
		consumption := calculator.Consumption(current, prev)
		if consumption < 0 {
			return invalid(ErrNegativeConsumption, "Current reading cannot be less than previous reading.")
		}

		now := s.Calc.Now()
		bill := billModel.BillModel{
			BillConsumerID:      consumer.ConsumerID,
			BillBillingPeriod:   datatypes.Date(period),
			BillAmountDue:       s.Calc.AmountDue(consumption),
			BillDueDate:         datatypes.Date(due),
			BillStatus:          billModel.BillUnpaid,
			BillReconnectionFee: decimal.Zero,
			BillGeneratedAt:     now,
		}
		if err := tx.Create(&bill).Error; err != nil {
			if IsUniqueViolation(err) {
				// race dengan request lain: constraint DB yang menang
				return duplicateErr(period, consumer.ConsumerName)
			}
			return err
		}

		reading := readingModel.MeterReadingModel{
			MeterReadingConsumerID:      consumer.ConsumerID,
			MeterReadingBillID:          &bill.BillID,
			MeterReadingMeterNumber:     meter,
			MeterReadingCurrentReading:  current,
			MeterReadingPreviousReading: prev,
			MeterReadingDate:            datatypes.Date(s.Calc.Today()),
		}
		if err := tx.Create(&reading).Error; err != nil {
			return err
		}

		res = GenerateResult{
			Bill:            bill,
			Reading:         reading,
			Consumer:        consumer,
			PreviousReading: prev,
			Consumption:     consumption,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func duplicateErr(period time.Time, name string) error {
	return invalid(ErrDuplicateBill, fmt.Sprintf("Bill for %s already exists for %s.", dbtime.FormatPeriod(period), name))
}

// MarkPaid idempotent: bill yang sudah Paid dikembalikan apa adanya (changed=false).
func (s *BillService) MarkPaid(ctx context.Context, billID uint) (*billModel.BillModel, bool, error) {
	var bill billModel.BillModel
	var changed bool

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Consumer").First(&bill, "bill_id = ?", billID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return invalid(ErrBillNotFound, "Bill not found")
			}
			return err
		}
		var err error
		changed, err = MarkPaidTx(tx, &bill, s.Calc.Now())
		return err
	})
	if err != nil {
		return nil, false, err
	}
	return &bill, changed, nil
}

// MarkPaidTx dipakai juga oleh service pembayaran online.
func MarkPaidTx(tx *gorm.DB, bill *billModel.BillModel, now time.Time) (bool, error) {
	if !bill.BillStatus.CanTransitionTo(billModel.BillPaid) {
		return false, fmt.Errorf("bill %d: invalid status %q", bill.BillID, bill.BillStatus)
	}
	if bill.BillStatus == billModel.BillPaid {
		return false, nil
	}
	res := tx.Model(&billModel.BillModel{}).
		Where("bill_id = ? AND bill_status = ?", bill.BillID, billModel.BillUnpaid).
		Updates(map[string]any{
			"bill_status":  billModel.BillPaid,
			"bill_paid_at": now,
		})
	if res.Error != nil {
		return false, res.Error
	}
	bill.BillStatus = billModel.BillPaid
	bill.BillPaidAt = &now
	return res.RowsAffected > 0, nil
}

// IsUniqueViolation mengenali error unique dari pgx, lib/pq maupun sqlite.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique")
}
