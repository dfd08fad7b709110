package consumers

import (
	"encoding/json"
	"os"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"waterbilling_backend/internals/configs"
	consumerModel "waterbilling_backend/internals/features/billing/consumers/model"
)

type ConsumerSeed struct {
	Name          string `json:"name"`
	Address       string `json:"address"`
	ContactNumber string `json:"contact_number"`
	Status        string `json:"status"`
}

// SeedConsumersFromJSON: data demo. Nama yang sudah ada dilewati.
func SeedConsumersFromJSON(db *gorm.DB, filePath string) error {
	configs.Logger.Info("membaca file consumer", zap.String("file", filePath))

	file, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	var seeds []ConsumerSeed
	if err := json.Unmarshal(file, &seeds); err != nil {
		return err
	}

	var existing []string
	if err := db.Model(&consumerModel.ConsumerModel{}).Pluck("consumer_name", &existing).Error; err != nil {
		return err
	}
	seen := make(map[string]bool, len(existing))
	for _, n := range existing {
		seen[n] = true
	}

	var rows []consumerModel.ConsumerModel
	for _, s := range seeds {
		if seen[s.Name] {
			continue
		}
		status := consumerModel.ConsumerStatus(s.Status)
		if !status.Valid() {
			status = consumerModel.ConsumerActive
		}
		rows = append(rows, consumerModel.ConsumerModel{
			ConsumerName:          s.Name,
			ConsumerAddress:       s.Address,
			ConsumerContactNumber: s.ContactNumber,
			ConsumerStatus:        status,
		})
		seen[s.Name] = true
	}

	if len(rows) == 0 {
		configs.Logger.Info("tidak ada consumer baru untuk diinsert")
		return nil
	}
	if err := db.Create(&rows).Error; err != nil {
		return err
	}
	configs.Logger.Info("consumer diinsert", zap.Int("count", len(rows)))
	return nil
}
