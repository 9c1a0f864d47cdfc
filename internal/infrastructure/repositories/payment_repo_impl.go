package repositories

import (
	"context"
	"time"

	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"mindnamo-admin.backend/internal/domain/entities"
	"mindnamo-admin.backend/internal/infrastructure/models"
)

// PaymentRepository implements ledger read operations
type PaymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// ListUnsettledCompleted returns completed entries whose funds are still held
func (r *PaymentRepository) ListUnsettledCompleted(ctx context.Context) ([]*entities.Payment, error) {
	var paymentModels []models.Payment
	err := r.db.WithContext(ctx).
		Where("settled = ? AND status = ?", false, string(entities.PaymentStatusCompleted)).
		Find(&paymentModels).Error
	if err != nil {
		return nil, err
	}

	payments := make([]*entities.Payment, 0, len(paymentModels))
	for i := range paymentModels {
		payments = append(payments, paymentToEntity(&paymentModels[i]))
	}
	return payments, nil
}

// SumCompletedCreatedSince sums completed entry amounts created on or after the anchor
func (r *PaymentRepository) SumCompletedCreatedSince(ctx context.Context, since time.Time) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&models.Payment{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("status = ? AND created_at >= ?", string(entities.PaymentStatusCompleted), since).
		Scan(&total).Error
	return total, err
}

func paymentToEntity(m *models.Payment) *entities.Payment {
	p := &entities.Payment{
		ID:            m.ID,
		AppointmentID: m.AppointmentID,
		UserID:        m.UserID,
		Amount:        m.Amount,
		Currency:      m.Currency,
		GatewayID:     m.GatewayID,
		Method:        m.Method,
		Status:        entities.PaymentStatus(m.Status),
		Breakdown: entities.PaymentBreakdown{
			ExpertAmount: m.ExpertAmount,
			OrgAmount:    m.OrgAmount,
			AdminFee:     m.AdminFee,
			Tax:          m.Tax,
		},
		Settled:        m.Settled,
		RefundedAmount: m.RefundedAmount,
		RefundReason:   null.StringFromPtr(m.RefundReason),
		SettlementDate: null.TimeFromPtr(m.SettlementDate),
		RefundedAt:     null.TimeFromPtr(m.RefundedAt),
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
	if m.ExpertID != nil {
		p.ExpertID = null.StringFrom(m.ExpertID.String())
	}
	if m.OrganisationID != nil {
		p.OrganisationID = null.StringFrom(m.OrganisationID.String())
	}
	if m.SettlementReference != nil {
		p.SettlementReference = null.StringFrom(*m.SettlementReference)
	}
	return p
}

// AppointmentRepository implements booking read operations
type AppointmentRepository struct {
	db *gorm.DB
}

// NewAppointmentRepository creates a new appointment repository
func NewAppointmentRepository(db *gorm.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

// ListRefundable returns cancelled bookings whose payment is still paid
func (r *AppointmentRepository) ListRefundable(ctx context.Context) ([]*entities.Appointment, error) {
	var appointmentModels []models.Appointment
	err := r.db.WithContext(ctx).
		Where("status = ? AND payment_status = ?",
			string(entities.AppointmentStatusCancelled), string(entities.AppointmentPaid)).
		Find(&appointmentModels).Error
	if err != nil {
		return nil, err
	}

	appointments := make([]*entities.Appointment, 0, len(appointmentModels))
	for i := range appointmentModels {
		m := &appointmentModels[i]
		appointments = append(appointments, &entities.Appointment{
			ID:              m.ID,
			UserID:          m.UserID,
			ExpertID:        m.ExpertID,
			AppointmentDate: m.AppointmentDate,
			AppointmentTime: m.AppointmentTime,
			ServiceName:     m.ServiceName,
			AppointmentType: m.AppointmentType,
			Duration:        m.Duration,
			Price:           m.Price,
			Status:          entities.AppointmentStatus(m.Status),
			PaymentStatus:   entities.AppointmentPaymentStatus(m.PaymentStatus),
			CreatedAt:       m.CreatedAt,
			UpdatedAt:       m.UpdatedAt,
		})
	}
	return appointments, nil
}
