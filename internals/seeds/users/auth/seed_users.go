package user

import (
	"context"
	"encoding/json"
	"os"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"waterbilling_backend/internals/configs"
	authHelper "waterbilling_backend/internals/features/users/auth/helper"
	authRepo "waterbilling_backend/internals/features/users/auth/repository"
	"waterbilling_backend/internals/features/users/auth/service"
	userModel "waterbilling_backend/internals/features/users/user/model"
)

type UserSeed struct {
	UserName    string `json:"user_name"`
	Password    string `json:"password"`
	IsSuperuser bool   `json:"is_superuser"`
}

// SeedAdminFromEnv membuat superuser dari ADMIN_USERNAME / ADMIN_PASSWORD kalau belum ada.
func SeedAdminFromEnv(db *gorm.DB) error {
	username := configs.GetEnv("ADMIN_USERNAME")
	password := configs.GetEnv("ADMIN_PASSWORD")
	if username == "" || password == "" {
		configs.Logger.Info("ADMIN_USERNAME/ADMIN_PASSWORD kosong, seed admin dilewati")
		return nil
	}

	created, err := service.NewAuthService(db, configs.JWTSecret).EnsureAdmin(context.Background(), username, password)
	if err != nil {
		return err
	}
	if created {
		configs.Logger.Info("admin dibuat", zap.String("user_name", username))
	} else {
		configs.Logger.Info("admin sudah ada, dilewati", zap.String("user_name", username))
	}
	return nil
}

// SeedUsersFromJSON: akun staff tambahan. User yang sudah ada dilewati.
func SeedUsersFromJSON(db *gorm.DB, filePath string) error {
	configs.Logger.Info("membaca file user", zap.String("file", filePath))

	file, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	var inputs []UserSeed
	if err := json.Unmarshal(file, &inputs); err != nil {
		return err
	}

	ctx := context.Background()
	for _, data := range inputs {
		taken, err := authRepo.IsUsernameTaken(ctx, db, data.UserName)
		if err != nil {
			return err
		}
		if taken {
			configs.Logger.Info("user sudah ada, dilewati", zap.String("user_name", data.UserName))
			continue
		}
		if err := authHelper.ValidateNewPassword(data.Password); err != nil {
			configs.Logger.Warn("password seed tidak valid", zap.String("user_name", data.UserName), zap.Error(err))
			continue
		}

		hashed, err := authHelper.HashPassword(data.Password)
		if err != nil {
			return err
		}
		u := userModel.UserModel{
			UserName:    data.UserName,
			Password:    hashed,
			IsActive:    true,
			IsSuperuser: data.IsSuperuser,
		}
		if err := authRepo.CreateUser(ctx, db, &u); err != nil {
			configs.Logger.Error("gagal insert user", zap.String("user_name", data.UserName), zap.Error(err))
			continue
		}
		configs.Logger.Info("user dibuat", zap.String("user_name", data.UserName))
	}
	return nil
}
