package configs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/gorm/utils"

	"waterbilling_backend/internals/features/billing/calculator"
	"waterbilling_backend/internals/helpers/dbtime"
)

var (
	JWTSecret string
	Location  *time.Location = time.UTC
	DB        *gorm.DB

	v = newViper()
)

func newViper() *viper.Viper {
	vp := viper.New()
	vp.AutomaticEnv()

	vp.SetDefault("PORT", "3000")
	vp.SetDefault("DB_DRIVER", "pgx")
	vp.SetDefault("DB_SSLMODE", "require")
	vp.SetDefault("LOG_LEVEL", "info")
	vp.SetDefault("LOG_FILE", "./logs/app.log")
	vp.SetDefault("TIMEZONE", "Asia/Manila")
	vp.SetDefault("TARIFF_BASE_FEE", "100")
	vp.SetDefault("TARIFF_FREE_ALLOWANCE", 10)
	vp.SetDefault("TARIFF_UNIT_RATE", "10")
	vp.SetDefault("TARIFF_LATE_FEE", "20")
	vp.SetDefault("TARIFF_RECONNECTION_FEE", "100")
	vp.SetDefault("MIDTRANS_USE_PROD", false)
	vp.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	return vp
}

// =======================
// ENV LOADER
// =======================
func LoadEnv() error {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}

	JWTSecret = GetEnv("JWT_SECRET")
	Location = dbtime.LoadLocation(GetEnv("TIMEZONE"))
	return nil
}

// CheckEnv dipanggil setelah InitLogger supaya peringatannya tercatat.
func CheckEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") != "" {
		Logger.Info("running in Railway, menggunakan ENV dari sistem")
	}
	if JWTSecret == "" {
		Logger.Error("JWT_SECRET belum diset!")
	}
	if GetEnv("MIDTRANS_SERVER_KEY") == "" {
		Logger.Warn("MIDTRANS_SERVER_KEY belum diset, checkout online tidak aktif")
	}
	Logger.Info("timezone aplikasi", zap.String("tz", Location.String()))
}

// GetEnv membaca env lewat viper (ENV sistem > .env > default).
func GetEnv(key string, defaultValue ...string) string {
	value := strings.TrimSpace(v.GetString(key))
	if value == "" && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

func GetBool(key string) bool { return v.GetBool(key) }

// CORSOrigins: daftar origin dipisah koma.
func CORSOrigins() string {
	parts := strings.Split(GetEnv("CORS_ORIGINS"), ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ",")
}

// =======================
// TARIFF
// =======================

// LoadTariff membaca TARIFF_* dari env; nilai yang tidak valid ditolak.
func LoadTariff() (calculator.Tariff, error) {
	base, err := envDecimal("TARIFF_BASE_FEE")
	if err != nil {
		return calculator.Tariff{}, err
	}
	rate, err := envDecimal("TARIFF_UNIT_RATE")
	if err != nil {
		return calculator.Tariff{}, err
	}
	late, err := envDecimal("TARIFF_LATE_FEE")
	if err != nil {
		return calculator.Tariff{}, err
	}
	recon, err := envDecimal("TARIFF_RECONNECTION_FEE")
	if err != nil {
		return calculator.Tariff{}, err
	}
	allowance := v.GetFloat64("TARIFF_FREE_ALLOWANCE")
	if allowance < 0 {
		return calculator.Tariff{}, errors.New("TARIFF_FREE_ALLOWANCE tidak boleh negatif")
	}
	return calculator.Tariff{
		BaseFee:         base,
		FreeAllowance:   allowance,
		UnitRate:        rate,
		LateFee:         late,
		ReconnectionFee: recon,
	}, nil
}

func envDecimal(key string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(GetEnv(key))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", key, err)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%s tidak boleh negatif", key)
	}
	return d, nil
}

// NewCalculator = tariff dari env + timezone aplikasi. Fallback ke tarif default kalau env rusak.
func NewCalculator() *calculator.Calculator {
	t, err := LoadTariff()
	if err != nil {
		Logger.Warn("tariff env invalid, pakai tarif default", zap.Error(err))
		t = calculator.DefaultTariff()
	}
	return calculator.New(t, Location)
}

// =======================
// DATABASE CONNECTOR
// =======================

// DSN dipakai koneksi utama & seeder.
func DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=waterbilling",
		GetEnv("DB_USER"),
		GetEnv("DB_PASSWORD"),
		GetEnv("DB_HOST"),
		GetEnv("DB_PORT"),
		GetEnv("DB_NAME"),
		GetEnv("DB_SSLMODE"),
	)
}

func InitSeederDB() *gorm.DB {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  DSN(),
		PreferSimpleProtocol: true, // ✅ hindari cache prepared statement
	}), &gorm.Config{
		Logger:         NewGormLogger(),
		TranslateError: true,
	})
	if err != nil {
		Logger.Fatal("gagal koneksi ke database (seeder)", zap.Error(err))
	}
	Logger.Info("database (seeder) terkoneksi")
	return db
}

// =======================
// GORM LOGGER CUSTOM
// =======================
type GormLogger struct {
	SlowThreshold time.Duration
	LogLevel      gormLogger.LogLevel
}

func NewGormLogger() gormLogger.Interface {
	lvl := gormLogger.Warn
	if strings.EqualFold(GetEnv("LOG_LEVEL"), "debug") {
		lvl = gormLogger.Info
	}
	return &GormLogger{
		SlowThreshold: 200 * time.Millisecond,
		LogLevel:      lvl,
	}
}

func (l *GormLogger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	cp := *l
	cp.LogLevel = level
	return &cp
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Info {
		Logger.Sugar().Infof(msg, data...)
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Warn {
		Logger.Sugar().Warnf(msg, data...)
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Error {
		Logger.Sugar().Errorf(msg, data...)
	}
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.LogLevel <= gormLogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	sql, rows := fc()
	fields := []zap.Field{
		zap.String("file", utils.FileWithLineNum()),
		zap.Duration("elapsed", elapsed),
		zap.Int64("rows", rows),
		zap.String("sql", sql),
	}

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && l.LogLevel >= gormLogger.Error:
		Logger.Error("sql error", append(fields, zap.Error(err))...)
	case elapsed > l.SlowThreshold && l.LogLevel >= gormLogger.Warn:
		Logger.Warn("slow sql", fields...)
	case l.LogLevel >= gormLogger.Info:
		Logger.Debug("sql", fields...)
	}
}
