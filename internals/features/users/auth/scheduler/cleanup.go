package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"waterbilling_backend/internals/configs"
	authRepo "waterbilling_backend/internals/features/users/auth/repository"
)

// Jalan tiap hari jam 03:00 waktu aplikasi.
const BlacklistCleanupSpec = "0 3 * * *"

// CleanupBlacklistOnce dipisah supaya bisa dites tanpa menunggu jadwal.
func CleanupBlacklistOnce(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	n, err := authRepo.CleanupExpiredBlacklist(ctx, db, now)
	if err != nil {
		configs.Logger.Error("[CLEANUP] gagal hapus token_blacklist", zap.Error(err))
		return 0, err
	}
	configs.Logger.Info("[CLEANUP] token_blacklist dibersihkan", zap.Int64("deleted", n))
	return n, nil
}

// StartBlacklistCleanupScheduler: caller wajib memanggil Stop() saat shutdown.
func StartBlacklistCleanupScheduler(db *gorm.DB, loc *time.Location) (*cron.Cron, error) {
	if loc == nil {
		loc = time.UTC
	}
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
	)
	if _, err := c.AddFunc(BlacklistCleanupSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		_, _ = CleanupBlacklistOnce(ctx, db, time.Now())
	}); err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}
