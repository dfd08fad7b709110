// File: internals/features/billing/consumers/dto/consumer_dto.go
package dto

import (
	"strings"
	"time"

	billDTO "waterbilling_backend/internals/features/billing/bills/dto"
	consumerModel "waterbilling_backend/internals/features/billing/consumers/model"
	readingModel "waterbilling_backend/internals/features/billing/readings/model"
)

// Create & update memakai field yang sama (semua wajib).
type ConsumerRequest struct {
	ConsumerName          string `json:"name"           form:"name"           validate:"required,max=255"`
	ConsumerAddress       string `json:"address"        form:"address"        validate:"required,max=255"`
	ConsumerContactNumber string `json:"contact_number" form:"contact_number" validate:"required,max=15"`
	ConsumerStatus        string `json:"status"         form:"status"         validate:"omitempty,oneof=Active Suspended Disconnected"`
}

func (r *ConsumerRequest) Normalize() {
	r.ConsumerName = strings.TrimSpace(r.ConsumerName)
	r.ConsumerAddress = strings.TrimSpace(r.ConsumerAddress)
	r.ConsumerContactNumber = strings.TrimSpace(r.ConsumerContactNumber)
	r.ConsumerStatus = strings.TrimSpace(r.ConsumerStatus)
	if r.ConsumerStatus == "" {
		r.ConsumerStatus = string(consumerModel.ConsumerActive)
	}
}

func (r ConsumerRequest) ToModel() consumerModel.ConsumerModel {
	return consumerModel.ConsumerModel{
		ConsumerName:          r.ConsumerName,
		ConsumerAddress:       r.ConsumerAddress,
		ConsumerContactNumber: r.ConsumerContactNumber,
		ConsumerStatus:        consumerModel.ConsumerStatus(r.ConsumerStatus),
	}
}

func (r ConsumerRequest) Apply(m *consumerModel.ConsumerModel) {
	m.ConsumerName = r.ConsumerName
	m.ConsumerAddress = r.ConsumerAddress
	m.ConsumerContactNumber = r.ConsumerContactNumber
	m.ConsumerStatus = consumerModel.ConsumerStatus(r.ConsumerStatus)
}

type ConsumerResponse struct {
	ConsumerID    uint       `json:"consumer_id"`
	Name          string     `json:"name"`
	Address       string     `json:"address"`
	ContactNumber string     `json:"contact_number"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`

	LatestReading *billDTO.ReadingSummary `json:"latest_reading,omitempty"`
}

func ToConsumerResponse(m consumerModel.ConsumerModel, latest *readingModel.MeterReadingModel) ConsumerResponse {
	out := ConsumerResponse{
		ConsumerID:    m.ConsumerID,
		Name:          m.ConsumerName,
		Address:       m.ConsumerAddress,
		ContactNumber: m.ConsumerContactNumber,
		Status:        string(m.ConsumerStatus),
		CreatedAt:     m.ConsumerCreatedAt,
		UpdatedAt:     m.ConsumerUpdatedAt,
	}
	if latest != nil {
		out.LatestReading = billDTO.ToReadingSummary(*latest)
	}
	return out
}

// Riwayat per consumer: semua bill + subset outstanding (Unpaid) & overdue.
type ConsumerRecordsResponse struct {
	Consumer         ConsumerResponse       `json:"consumer"`
	Bills            []billDTO.BillResponse `json:"bills"`
	Outstanding      []billDTO.BillResponse `json:"outstanding"`
	Overdue          []billDTO.BillResponse `json:"overdue"`
	TotalOutstanding float64                `json:"total_outstanding"`
}
