package entities

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus represents booking lifecycle status
type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusNoShow    AppointmentStatus = "no-show"
)

// AppointmentPaymentStatus tracks whether the booking has been paid
type AppointmentPaymentStatus string

const (
	AppointmentUnpaid   AppointmentPaymentStatus = "unpaid"
	AppointmentPaid     AppointmentPaymentStatus = "paid"
	AppointmentRefunded AppointmentPaymentStatus = "refunded"
)

// Appointment represents a booking between a user and an expert.
// A cancelled appointment whose payment is still "paid" is a
// refundable obligation until resolved.
type Appointment struct {
	ID       uuid.UUID `json:"id"`
	UserID   uuid.UUID `json:"userId"`
	ExpertID uuid.UUID `json:"expertId"`

	AppointmentDate time.Time `json:"appointmentDate"`
	AppointmentTime string    `json:"appointmentTime"` // "HH:MM"

	ServiceName     string  `json:"serviceName"`
	AppointmentType string  `json:"appointmentType"`
	Duration        int     `json:"duration"` // minutes
	Price           float64 `json:"price"`

	Status        AppointmentStatus        `json:"status"`
	PaymentStatus AppointmentPaymentStatus `json:"paymentStatus"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
