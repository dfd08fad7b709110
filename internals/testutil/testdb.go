// Package testutil menyiapkan database SQLite in-memory untuk test handler & service.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	database "waterbilling_backend/internals/databases"
	billModel "waterbilling_backend/internals/features/billing/bills/model"
	"waterbilling_backend/internals/features/billing/calculator"
	consumerModel "waterbilling_backend/internals/features/billing/consumers/model"
	readingModel "waterbilling_backend/internals/features/billing/readings/model"
)

// NewTestDB: satu database per test (nama unik, shared cache supaya semua koneksi pool melihat data yang sama).
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Exec("PRAGMA foreign_keys = ON").Error)
	require.NoError(t, database.AutoMigrate(db))
	return db
}

// FixedCalculator: tarif default dengan jam yang dibekukan.
func FixedCalculator(now time.Time) *calculator.Calculator {
	c := calculator.New(calculator.DefaultTariff(), time.UTC)
	c.Now = func() time.Time { return now }
	return c
}

func Date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func SeedConsumer(t *testing.T, db *gorm.DB, name string, status consumerModel.ConsumerStatus) consumerModel.ConsumerModel {
	t.Helper()
	c := consumerModel.ConsumerModel{
		ConsumerName:          name,
		ConsumerAddress:       "Purok 1, Barangay Centro",
		ConsumerContactNumber: "09171234567",
		ConsumerStatus:        status,
	}
	require.NoError(t, db.Create(&c).Error)
	return c
}

func SeedBill(t *testing.T, db *gorm.DB, consumerID uint, period, due time.Time, amount int64, status billModel.BillStatus) billModel.BillModel {
	t.Helper()
	b := billModel.BillModel{
		BillConsumerID:      consumerID,
		BillBillingPeriod:   datatypes.Date(period),
		BillAmountDue:       decimal.NewFromInt(amount),
		BillDueDate:         datatypes.Date(due),
		BillStatus:          status,
		BillReconnectionFee: decimal.Zero,
		BillGeneratedAt:     period,
	}
	require.NoError(t, db.Create(&b).Error)
	return b
}

func SeedReading(t *testing.T, db *gorm.DB, consumerID uint, current, previous float64, date time.Time) readingModel.MeterReadingModel {
	t.Helper()
	r := readingModel.MeterReadingModel{
		MeterReadingConsumerID:      consumerID,
		MeterReadingMeterNumber:     "MTR-001",
		MeterReadingCurrentReading:  current,
		MeterReadingPreviousReading: previous,
		MeterReadingDate:            datatypes.Date(date),
	}
	require.NoError(t, db.Create(&r).Error)
	return r
}
