package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Email    string    `gorm:"type:varchar(255);not null;index:idx_users_email_role,unique"`
	Username *string   `gorm:"type:varchar(100);uniqueIndex"`
	Mobile   *string   `gorm:"type:varchar(30);uniqueIndex"`
	Name     *string   `gorm:"type:varchar(100)"`
	Photo    *string   `gorm:"type:varchar(512)"`
	Bio      *string   `gorm:"type:text"`

	PasswordHash string `gorm:"type:varchar(255)"`
	Role         string `gorm:"type:varchar(50);not null;default:'user';index:idx_users_email_role,unique"`

	IsBanned            bool   `gorm:"not null;default:false"`
	IsVerified          bool   `gorm:"not null;default:false"`
	ForcePasswordChange bool   `gorm:"not null;default:false"`
	SetupState          string `gorm:"type:varchar(30);not null;default:'unverified'"`

	VerificationOTP       *string    `gorm:"type:varchar(10)"`
	VerificationOTPExpiry *time.Time `gorm:"type:timestamp"`

	SettingsTheme              string `gorm:"type:varchar(20);default:'system'"`
	SettingsNotifications      bool   `gorm:"default:true"`
	SettingsOnboardingComplete bool   `gorm:"default:false"`

	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

type Expert struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	UserID            uuid.UUID `gorm:"type:uuid;not null;index"`
	UnderVerification bool      `gorm:"not null;default:false;index"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
