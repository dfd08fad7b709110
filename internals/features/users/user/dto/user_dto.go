package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"waterbilling_backend/internals/constants"
	uModel "waterbilling_backend/internals/features/users/user/model"
)

/* =======================================================
   REQUEST DTOs
   ======================================================= */

// CreateUserRequest: akun staff baru, dibuat oleh superuser.
type CreateUserRequest struct {
	UserName    string `json:"user_name" form:"user_name" validate:"required,min=3,max=50"`
	Password    string `json:"password" form:"password" validate:"required,min=8"`
	IsSuperuser bool   `json:"is_superuser" form:"is_superuser"`
}

func (r *CreateUserRequest) Normalize() {
	r.UserName = strings.TrimSpace(r.UserName)
}

// ToModel: password di-hash di controller.
func (r *CreateUserRequest) ToModel(hash string) *uModel.UserModel {
	return &uModel.UserModel{
		UserName:    r.UserName,
		Password:    hash,
		IsActive:    true,
		IsSuperuser: r.IsSuperuser,
	}
}

// UpdateUserRequest: partial (pointer supaya omit beda dengan false).
type UpdateUserRequest struct {
	IsActive    *bool `json:"is_active,omitempty"`
	IsSuperuser *bool `json:"is_superuser,omitempty"`
}

func (r *UpdateUserRequest) Apply(m *uModel.UserModel) map[string]any {
	up := map[string]any{}
	if r.IsActive != nil {
		m.IsActive = *r.IsActive
		up["is_active"] = *r.IsActive
	}
	if r.IsSuperuser != nil {
		m.IsSuperuser = *r.IsSuperuser
		up["is_superuser"] = *r.IsSuperuser
	}
	return up
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" form:"old_password" validate:"required"`
	NewPassword string `json:"new_password" form:"new_password" validate:"required,min=8"`
}

/* =======================================================
   RESPONSE DTOs
   ======================================================= */

type UserResponse struct {
	ID          uuid.UUID `json:"id"`
	UserName    string    `json:"user_name"`
	IsActive    bool      `json:"is_active"`
	IsSuperuser bool      `json:"is_superuser"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
}

func FromModel(m uModel.UserModel) UserResponse {
	return UserResponse{
		ID:          m.ID,
		UserName:    m.UserName,
		IsActive:    m.IsActive,
		IsSuperuser: m.IsSuperuser,
		Role:        constants.RoleOf(m.IsSuperuser),
		CreatedAt:   m.CreatedAt,
	}
}

func FromModels(rows []uModel.UserModel) []UserResponse {
	out := make([]UserResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, FromModel(r))
	}
	return out
}
