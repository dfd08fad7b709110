// internals/features/users/auth/repository/repository.go
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	authModel "waterbilling_backend/internals/features/users/auth/model"
	userModel "waterbilling_backend/internals/features/users/user/model"
)

/* ====================== USER ====================== */

func FindUserByUsername(ctx context.Context, db *gorm.DB, username string) (*userModel.UserModel, error) {
	var user userModel.UserModel
	if err := db.WithContext(ctx).Where("user_name = ?", username).Take(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func FindUserByID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*userModel.UserModel, error) {
	var user userModel.UserModel
	if err := db.WithContext(ctx).Where("id = ?", userID).Take(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func CreateUser(ctx context.Context, db *gorm.DB, user *userModel.UserModel) error {
	return db.WithContext(ctx).Create(user).Error
}

func IsUsernameTaken(ctx context.Context, db *gorm.DB, username string) (bool, error) {
	if username == "" {
		return false, errors.New("username cannot be empty")
	}
	var n int64
	if err := db.WithContext(ctx).Model(&userModel.UserModel{}).
		Where("user_name = ?", username).
		Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

/* ====================== BLACKLIST TOKEN ====================== */

// BlacklistToken: token yang sama dua kali tidak error (logout dobel).
func BlacklistToken(ctx context.Context, db *gorm.DB, token string, expiredAt time.Time) error {
	var n int64
	if err := db.WithContext(ctx).Unscoped().Model(&authModel.TokenBlacklistModel{}).
		Where("token = ?", token).
		Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	err := db.WithContext(ctx).Create(&authModel.TokenBlacklistModel{
		Token:     token,
		ExpiredAt: expiredAt.UTC(),
	}).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil
	}
	return err
}

func IsBlacklisted(ctx context.Context, db *gorm.DB, token string) (bool, error) {
	var n int64
	if err := db.WithContext(ctx).Model(&authModel.TokenBlacklistModel{}).
		Where("token = ?", token).
		Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// CleanupExpiredBlacklist menghapus permanen baris yang sudah lewat expired_at.
// Token yang sudah expired otomatis ditolak JWT parser, jadi barisnya tidak dibutuhkan lagi.
func CleanupExpiredBlacklist(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	res := db.WithContext(ctx).Unscoped().
		Where("expired_at <= ?", now.UTC()).
		Delete(&authModel.TokenBlacklistModel{})
	return res.RowsAffected, res.Error
}
