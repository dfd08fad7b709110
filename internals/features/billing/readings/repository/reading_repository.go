// internals/features/billing/readings/repository/reading_repository.go
package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	consumerModel "waterbilling_backend/internals/features/billing/consumers/model"
	readingModel "waterbilling_backend/internals/features/billing/readings/model"
)

// Urutan "bacaan terakhir" harus deterministik: tanggal DESC lalu id DESC
// (dua bacaan di hari yang sama → yang insert belakangan menang).
const LatestOrder = "meter_reading_date DESC, meter_reading_id DESC"

// FindLatestByConsumer mengembalikan nil (tanpa error) kalau belum ada bacaan.
func FindLatestByConsumer(ctx context.Context, db *gorm.DB, consumerID uint) (*readingModel.MeterReadingModel, error) {
	var r readingModel.MeterReadingModel
	err := db.WithContext(ctx).
		Where("meter_reading_consumer_id = ?", consumerID).
		Order(LatestOrder).
		Take(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// PreviousValue = current_reading bacaan terakhir, 0 kalau tidak ada.
func PreviousValue(ctx context.Context, db *gorm.DB, consumerID uint) (float64, error) {
	last, err := FindLatestByConsumer(ctx, db, consumerID)
	if err != nil || last == nil {
		return 0, err
	}
	return last.MeterReadingCurrentReading, nil
}

// FindLatestByConsumerName: lookup by nama persis (case-sensitive).
// Consumer/bacaan tidak ada → (nil, nil).
func FindLatestByConsumerName(ctx context.Context, db *gorm.DB, name string) (*readingModel.MeterReadingModel, error) {
	var consumer consumerModel.ConsumerModel
	err := db.WithContext(ctx).
		Where("consumer_name = ?", name).
		Order("consumer_id ASC").
		Take(&consumer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return FindLatestByConsumer(ctx, db, consumer.ConsumerID)
}

// LatestForConsumers: bacaan terakhir per consumer (untuk list page, max 5 id).
func LatestForConsumers(ctx context.Context, db *gorm.DB, consumerIDs []uint) (map[uint]readingModel.MeterReadingModel, error) {
	out := make(map[uint]readingModel.MeterReadingModel, len(consumerIDs))
	if len(consumerIDs) == 0 {
		return out, nil
	}
	var rows []readingModel.MeterReadingModel
	if err := db.WithContext(ctx).
		Where("meter_reading_consumer_id IN ?", consumerIDs).
		Order(LatestOrder).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		if _, seen := out[r.MeterReadingConsumerID]; !seen {
			out[r.MeterReadingConsumerID] = r
		}
	}
	return out, nil
}

// ByBillIDs: bacaan yang dibuat bersama tagihan.
func ByBillIDs(ctx context.Context, db *gorm.DB, billIDs []uint) (map[uint]readingModel.MeterReadingModel, error) {
	out := make(map[uint]readingModel.MeterReadingModel, len(billIDs))
	if len(billIDs) == 0 {
		return out, nil
	}
	var rows []readingModel.MeterReadingModel
	if err := db.WithContext(ctx).
		Where("meter_reading_bill_id IN ?", billIDs).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		if r.MeterReadingBillID != nil {
			out[*r.MeterReadingBillID] = r
		}
	}
	return out, nil
}
