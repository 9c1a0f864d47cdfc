package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// PaymentStatus represents ledger entry status
type PaymentStatus string

const (
	PaymentStatusPending           PaymentStatus = "pending"
	PaymentStatusCompleted         PaymentStatus = "completed"
	PaymentStatusFailed            PaymentStatus = "failed"
	PaymentStatusRefunded          PaymentStatus = "refunded"
	PaymentStatusPartiallyRefunded PaymentStatus = "partially_refunded"
)

// PaymentBreakdown is the split snapshot persisted at transaction
// time. Historical splits may differ from the current rule, so totals
// are summed from these fields, never re-derived.
type PaymentBreakdown struct {
	ExpertAmount float64 `json:"expertAmount"`
	OrgAmount    float64 `json:"orgAmount"`
	AdminFee     float64 `json:"adminFee"`
	Tax          float64 `json:"tax"`
}

// Payment represents one completed financial transaction in the ledger
type Payment struct {
	ID             uuid.UUID   `json:"id"`
	AppointmentID  uuid.UUID   `json:"appointmentId"`
	UserID         uuid.UUID   `json:"userId"`
	ExpertID       null.String `json:"expertId,omitempty"`
	OrganisationID null.String `json:"organisationId,omitempty"`

	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	GatewayID string  `json:"gatewayId"`
	Method    string  `json:"method"`

	Status    PaymentStatus    `json:"status"`
	Breakdown PaymentBreakdown `json:"breakdown"`

	Settled             bool        `json:"settled"`
	SettlementDate      null.Time   `json:"settlementDate,omitempty"`
	SettlementReference null.String `json:"settlementReference,omitempty"`

	RefundedAmount float64     `json:"refundedAmount"`
	RefundReason   null.String `json:"refundReason,omitempty"`
	RefundedAt     null.Time   `json:"refundedAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
