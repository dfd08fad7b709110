package seeds

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"waterbilling_backend/internals/configs"
	consumers "waterbilling_backend/internals/seeds/consumers"
	users "waterbilling_backend/internals/seeds/users/auth"
)

func RunAllSeeds(db *gorm.DB) {

	//* User
	if err := users.SeedAdminFromEnv(db); err != nil {
		configs.Logger.Error("seed admin gagal", zap.Error(err))
	}
	if err := users.SeedUsersFromJSON(db, "internals/seeds/users/auth/data_users.json"); err != nil {
		configs.Logger.Error("seed users gagal", zap.Error(err))
	}

	//* Consumer (demo)
	if configs.GetBool("SEED_DEMO_DATA") {
		if err := consumers.SeedConsumersFromJSON(db, "internals/seeds/consumers/data_consumers.json"); err != nil {
			configs.Logger.Error("seed consumers gagal", zap.Error(err))
		}
	}
}
