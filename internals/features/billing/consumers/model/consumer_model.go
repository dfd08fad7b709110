package model

import (
	"time"
)

type ConsumerStatus string

const (
	ConsumerActive       ConsumerStatus = "Active"
	ConsumerSuspended    ConsumerStatus = "Suspended"
	ConsumerDisconnected ConsumerStatus = "Disconnected"
)

func (s ConsumerStatus) Valid() bool {
	switch s {
	case ConsumerActive, ConsumerSuspended, ConsumerDisconnected:
		return true
	}
	return false
}

type ConsumerModel struct {
	ConsumerID uint `gorm:"column:consumer_id;primaryKey" json:"consumer_id"`

	ConsumerName          string         `gorm:"column:consumer_name;type:varchar(255);not null;index:idx_consumers_name" json:"consumer_name"`
	ConsumerAddress       string         `gorm:"column:consumer_address;type:varchar(255);not null"                      json:"consumer_address"`
	ConsumerContactNumber string         `gorm:"column:consumer_contact_number;type:varchar(15);not null"                json:"consumer_contact_number"`
	ConsumerStatus        ConsumerStatus `gorm:"column:consumer_status;type:varchar(50);not null;default:Active"         json:"consumer_status"`

	ConsumerCreatedAt time.Time  `gorm:"column:consumer_created_at;autoCreateTime" json:"consumer_created_at"`
	ConsumerUpdatedAt *time.Time `gorm:"column:consumer_updated_at;autoUpdateTime" json:"consumer_updated_at,omitempty"`
}

func (ConsumerModel) TableName() string { return "consumers" }
