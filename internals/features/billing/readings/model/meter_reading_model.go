package model

import (
	"time"

	"gorm.io/datatypes"

	consumerModel "waterbilling_backend/internals/features/billing/consumers/model"
)

type MeterReadingModel struct {
	MeterReadingID uint `gorm:"column:meter_reading_id;primaryKey" json:"meter_reading_id"`

	MeterReadingConsumerID uint `gorm:"column:meter_reading_consumer_id;not null;index:idx_meter_readings_consumer_date,priority:1" json:"meter_reading_consumer_id"`
	// bacaan yang dibuat bareng tagihan (nullable untuk data lama/import)
	MeterReadingBillID *uint `gorm:"column:meter_reading_bill_id;uniqueIndex:uq_meter_readings_bill" json:"meter_reading_bill_id,omitempty"`

	MeterReadingMeterNumber     string         `gorm:"column:meter_reading_meter_number;type:varchar(50);not null" json:"meter_reading_meter_number"`
	MeterReadingCurrentReading  float64        `gorm:"column:meter_reading_current_reading;not null"               json:"meter_reading_current_reading"`
	MeterReadingPreviousReading float64        `gorm:"column:meter_reading_previous_reading;not null"              json:"meter_reading_previous_reading"`
	MeterReadingDate            datatypes.Date `gorm:"column:meter_reading_date;type:date;not null;index:idx_meter_readings_consumer_date,priority:2" json:"meter_reading_date"`

	MeterReadingCreatedAt time.Time `gorm:"column:meter_reading_created_at;autoCreateTime" json:"meter_reading_created_at"`

	Consumer *consumerModel.ConsumerModel `gorm:"foreignKey:MeterReadingConsumerID;references:ConsumerID;constraint:OnDelete:CASCADE" json:"-"`
}

func (MeterReadingModel) TableName() string { return "meter_readings" }
