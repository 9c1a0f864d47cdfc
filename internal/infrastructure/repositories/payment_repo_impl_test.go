package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"mindnamo-admin.backend/internal/domain/entities"
)

func seedPayment(t *testing.T, repo *PaymentRepository, status string, settled bool, amount float64, createdAt time.Time) uuid.UUID {
	t.Helper()
	id := uuid.New()
	mustExec(t, repo.db, `INSERT INTO payments(
		id, appointment_id, user_id, amount, currency, gateway_id, method, status,
		expert_amount, org_amount, admin_fee, tax, settled, refunded_amount, created_at, updated_at
	) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		id.String(), uuid.New().String(), uuid.New().String(), amount, "AUD",
		"pi_"+id.String(), "card", status,
		amount*0.5, amount*0.3, amount*0.1, amount*0.1,
		settled, 0.0, createdAt, createdAt,
	)
	return id
}

func TestPaymentRepository_ListUnsettledCompleted(t *testing.T) {
	db := newTestDB(t)
	createPaymentTable(t, db)
	repo := NewPaymentRepository(db)
	ctx := context.Background()

	held := seedPayment(t, repo, "completed", false, 100, time.Now())
	seedPayment(t, repo, "completed", true, 200, time.Now())  // already settled
	seedPayment(t, repo, "pending", false, 300, time.Now())   // not completed
	seedPayment(t, repo, "refunded", false, 400, time.Now()) // not completed

	payments, err := repo.ListUnsettledCompleted(ctx)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	require.Equal(t, held, payments[0].ID)
	require.Equal(t, 100.0, payments[0].Amount)
	require.Equal(t, 50.0, payments[0].Breakdown.ExpertAmount)
	require.False(t, payments[0].Settled)
}

func TestPaymentRepository_SumCompletedCreatedSince(t *testing.T) {
	db := newTestDB(t)
	createPaymentTable(t, db)
	repo := NewPaymentRepository(db)
	ctx := context.Background()

	anchor := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	seedPayment(t, repo, "completed", false, 100, anchor.AddDate(0, 1, 0))
	seedPayment(t, repo, "completed", true, 50, anchor.AddDate(0, 2, 0))
	seedPayment(t, repo, "completed", false, 999, anchor.AddDate(0, -1, 0)) // before anchor
	seedPayment(t, repo, "pending", false, 999, anchor.AddDate(0, 3, 0))    // not completed

	total, err := repo.SumCompletedCreatedSince(ctx, anchor)
	require.NoError(t, err)
	require.Equal(t, 150.0, total)

	// empty window sums to zero, not an error
	total, err = repo.SumCompletedCreatedSince(ctx, time.Now().AddDate(1, 0, 0))
	require.NoError(t, err)
	require.Zero(t, total)
}

func TestAppointmentRepository_ListRefundable(t *testing.T) {
	db := newTestDB(t)
	createAppointmentTable(t, db)
	repo := NewAppointmentRepository(db)
	ctx := context.Background()

	seedAppointment := func(status, paymentStatus string, price float64) uuid.UUID {
		id := uuid.New()
		mustExec(t, db, `INSERT INTO appointments(
			id, user_id, expert_id, appointment_date, appointment_time, service_name,
			appointment_type, duration, price, status, payment_status, created_at, updated_at
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
			id.String(), uuid.New().String(), uuid.New().String(), time.Now(), "10:00",
			"Consultation", "video", 60, price, status, paymentStatus, time.Now(), time.Now(),
		)
		return id
	}

	refundable := seedAppointment("cancelled", "paid", 80)
	seedAppointment("cancelled", "refunded", 80) // already resolved
	seedAppointment("cancelled", "unpaid", 80)   // nothing to refund
	seedAppointment("completed", "paid", 80)     // not cancelled

	appointments, err := repo.ListRefundable(ctx)
	require.NoError(t, err)
	require.Len(t, appointments, 1)
	require.Equal(t, refundable, appointments[0].ID)
	require.Equal(t, entities.AppointmentStatusCancelled, appointments[0].Status)
	require.Equal(t, entities.AppointmentPaid, appointments[0].PaymentStatus)
}
