package models

import (
	"time"

	"github.com/google/uuid"
)

type Payment struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	AppointmentID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	UserID         uuid.UUID  `gorm:"type:uuid;not null"`
	ExpertID       *uuid.UUID `gorm:"type:uuid"`
	OrganisationID *uuid.UUID `gorm:"type:uuid"`

	Amount    float64 `gorm:"not null"`
	Currency  string  `gorm:"type:varchar(10);default:'AUD'"`
	GatewayID string  `gorm:"type:varchar(255);not null;uniqueIndex"`
	Method    string  `gorm:"type:varchar(50);default:'card'"`

	Status string `gorm:"type:varchar(30);not null;default:'pending';index:idx_payments_settled_status"`

	// Split snapshot, written once at transaction time.
	ExpertAmount float64 `gorm:"not null;default:0"`
	OrgAmount    float64 `gorm:"not null;default:0"`
	AdminFee     float64 `gorm:"not null;default:0"`
	Tax          float64 `gorm:"not null;default:0"`

	Settled             bool `gorm:"not null;default:false;index:idx_payments_settled_status"`
	SettlementDate      *time.Time
	SettlementReference *string `gorm:"type:varchar(255)"`

	RefundedAmount float64 `gorm:"not null;default:0"`
	RefundReason   *string `gorm:"type:text"`
	RefundedAt     *time.Time

	CreatedAt time.Time `gorm:"index:,sort:desc"`
	UpdatedAt time.Time
}

type Appointment struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;index"`
	ExpertID uuid.UUID `gorm:"type:uuid;not null;index"`

	AppointmentDate time.Time `gorm:"not null"`
	AppointmentTime string    `gorm:"type:varchar(5);not null"`

	ServiceName     string  `gorm:"type:varchar(255);not null"`
	AppointmentType string  `gorm:"type:varchar(50);not null"`
	Duration        int     `gorm:"not null"`
	Price           float64 `gorm:"not null"`

	Status        string `gorm:"type:varchar(30);not null;default:'pending';index"`
	PaymentStatus string `gorm:"type:varchar(30);not null;default:'unpaid';index"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
