package repositories

import (
	"context"
	"time"

	"mindnamo-admin.backend/internal/domain/entities"
)

// PaymentRepository defines read operations over the settlement ledger.
// The ledger is written by the booking platform; this portal only
// aggregates it.
type PaymentRepository interface {
	// ListUnsettledCompleted returns completed entries whose funds are
	// still held (settled = false).
	ListUnsettledCompleted(ctx context.Context) ([]*entities.Payment, error)

	// SumCompletedCreatedSince sums the amount of completed entries
	// created on or after the anchor.
	SumCompletedCreatedSince(ctx context.Context, since time.Time) (float64, error)
}

// AppointmentRepository defines read operations over bookings.
type AppointmentRepository interface {
	// ListRefundable returns cancelled bookings whose payment is still
	// marked paid.
	ListRefundable(ctx context.Context) ([]*entities.Appointment, error)
}
