package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserModel = akun staff (admin / petugas loket).
type UserModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserName    string    `gorm:"size:50;not null;uniqueIndex" json:"user_name"`
	Password    string    `gorm:"not null" json:"-"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
	IsSuperuser bool      `gorm:"not null;default:false" json:"is_superuser"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName memastikan nama tabel sesuai dengan skema database
func (UserModel) TableName() string {
	return "users"
}

// BeforeCreate: id dibuat di aplikasi supaya jalan juga di DB tanpa gen_random_uuid().
func (u *UserModel) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
