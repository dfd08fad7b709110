package database

import (
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"waterbilling_backend/internals/configs"
	billModel "waterbilling_backend/internals/features/billing/bills/model"
	consumerModel "waterbilling_backend/internals/features/billing/consumers/model"
	paymentModel "waterbilling_backend/internals/features/billing/payments/model"
	readingModel "waterbilling_backend/internals/features/billing/readings/model"
	authModel "waterbilling_backend/internals/features/users/auth/model"
	userModel "waterbilling_backend/internals/features/users/user/model"
)

var DB *gorm.DB

// Dialector: DB_DRIVER=pgx (default, pgx stdlib) atau postgres (lib/pq).
func Dialector(driver, dsn string) gorm.Dialector {
	cfg := postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true, // 👍 cocok untuk PgBouncer (transaction pooling)
	}
	if driver == "postgres" {
		cfg.DriverName = "postgres"
	}
	return postgres.New(cfg)
}

func ConnectDB() {
	driver := configs.GetEnv("DB_DRIVER")
	configs.Logger.Info("koneksi ke PostgreSQL", zap.String("driver", driver))

	db, err := gorm.Open(Dialector(driver, configs.DSN()), &gorm.Config{
		Logger:         configs.NewGormLogger(),
		TranslateError: true,
	})
	if err != nil {
		configs.Logger.Fatal("gagal konek DB", zap.Error(err))
	}
	DB = db
	configs.DB = db
	configs.Logger.Info("DB connected")
}

// AutoMigrate: urutan mengikuti foreign key.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&consumerModel.ConsumerModel{},
		&billModel.BillModel{},
		&readingModel.MeterReadingModel{},
		&paymentModel.PaymentModel{},
		&userModel.UserModel{},
		&authModel.TokenBlacklistModel{},
	)
}

func TunePool() {
	sqlDB, err := DB.DB()
	if err != nil {
		configs.Logger.Warn("pool tune err", zap.Error(err))
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

func WarmUpQueries() {
	// jalankan ringan supaya koneksi/pool “keisi” & siap
	go func() {
		time.Sleep(500 * time.Millisecond)
		if err := Ping(); err != nil {
			configs.Logger.Warn("warm-up ping err", zap.Error(err))
			return
		}
		var n int64
		DB.Model(&billModel.BillModel{}).Where("bill_status = ?", billModel.BillUnpaid).Count(&n)
	}()
}

func Ping() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
