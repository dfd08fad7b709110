// internals/features/users/auth/service/auth_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"

	authHelper "waterbilling_backend/internals/features/users/auth/helper"
	authRepo "waterbilling_backend/internals/features/users/auth/repository"
	userModel "waterbilling_backend/internals/features/users/user/model"
)

const AccessTTL = 24 * time.Hour

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserInactive       = errors.New("account is disabled")
	ErrMissingToken       = errors.New("missing access token")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrTokenRevoked       = errors.New("token has been revoked")
	ErrMissingSecret      = errors.New("JWT_SECRET is not configured")
)

type AuthService struct {
	DB     *gorm.DB
	Secret string
	TTL    time.Duration
	Now    func() time.Time
}

func NewAuthService(db *gorm.DB, secret string) *AuthService {
	return &AuthService{DB: db, Secret: secret, TTL: AccessTTL, Now: time.Now}
}

type Session struct {
	Token     string
	ExpiresAt time.Time
	User      userModel.UserModel
}

/* ==========================
   LOGIN
========================== */

func (s *AuthService) Login(ctx context.Context, username, password string) (*Session, error) {
	if err := authHelper.ValidateLogin(username, password); err != nil {
		return nil, err
	}
	user, err := authRepo.FindUserByUsername(ctx, s.DB, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !authHelper.CheckPassword(user.Password, password) {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	token, exp, err := s.IssueToken(*user)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, ExpiresAt: exp, User: *user}, nil
}

func (s *AuthService) IssueToken(user userModel.UserModel) (string, time.Time, error) {
	if s.Secret == "" {
		return "", time.Time{}, ErrMissingSecret
	}
	now := s.Now().UTC()
	exp := now.Add(s.TTL)
	claims := jwt.MapClaims{
		"sub":          user.ID.String(),
		"user_name":    user.UserName,
		"is_superuser": user.IsSuperuser,
		"iat":          now.Unix(),
		"exp":          exp.Unix(),
		"jti":          uuid.NewString(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.Secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// ParseToken memverifikasi signature + exp, mengembalikan user id & waktu kedaluwarsa.
func (s *AuthService) ParseToken(raw string) (uuid.UUID, time.Time, error) {
	if s.Secret == "" {
		return uuid.Nil, time.Time{}, ErrMissingSecret
	}
	claims := jwt.MapClaims{}
	parser := jwt.Parser{
		ValidMethods:         []string{jwt.SigningMethodHS256.Alg()},
		SkipClaimsValidation: true,
	}
	if _, err := parser.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return []byte(s.Secret), nil
	}); err != nil {
		return uuid.Nil, time.Time{}, ErrInvalidToken
	}

	expF, ok := claims["exp"].(float64)
	if !ok {
		return uuid.Nil, time.Time{}, ErrInvalidToken
	}
	exp := time.Unix(int64(expF), 0).UTC()
	if !s.Now().UTC().Before(exp) {
		return uuid.Nil, time.Time{}, ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	id, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, time.Time{}, ErrInvalidToken
	}
	return id, exp, nil
}

// Authenticate dipakai middleware sesi: token valid, tidak di-blacklist, user masih aktif.
func (s *AuthService) Authenticate(ctx context.Context, raw string) (*userModel.UserModel, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, ErrMissingToken
	}
	userID, _, err := s.ParseToken(raw)
	if err != nil {
		return nil, err
	}
	revoked, err := authRepo.IsBlacklisted(ctx, s.DB, raw)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrTokenRevoked
	}
	user, err := authRepo.FindUserByID(ctx, s.DB, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}
	return user, nil
}

/* ==========================
   LOGOUT
========================== */

// Logout mem-blacklist token sampai exp-nya. Token rusak/kosong tetap dianggap sukses (idempotent).
func (s *AuthService) Logout(ctx context.Context, raw string) error {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	_, exp, err := s.ParseToken(raw)
	if err != nil {
		return nil
	}
	return authRepo.BlacklistToken(ctx, s.DB, raw, exp)
}

/* ==========================
   SEED
========================== */

// EnsureAdmin membuat superuser kalau username belum ada. created=false kalau sudah ada.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return false, authHelper.ErrUsernameRequired
	}
	if err := authHelper.ValidateNewPassword(password); err != nil {
		return false, err
	}
	taken, err := authRepo.IsUsernameTaken(ctx, s.DB, username)
	if err != nil || taken {
		return false, err
	}
	hash, err := authHelper.HashPassword(password)
	if err != nil {
		return false, err
	}
	user := userModel.UserModel{
		UserName:    username,
		Password:    hash,
		IsActive:    true,
		IsSuperuser: true,
	}
	if err := authRepo.CreateUser(ctx, s.DB, &user); err != nil {
		return false, err
	}
	return true, nil
}
