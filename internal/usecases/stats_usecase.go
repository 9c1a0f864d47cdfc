package usecases

import (
	"context"
	"fmt"
	"time"

	"mindnamo-admin.backend/internal/config"
	"mindnamo-admin.backend/internal/domain/entities"
	"mindnamo-admin.backend/internal/domain/repositories"
)

// StatsUsecase aggregates the settlement ledger and account counts into
// the dashboard figures. All operations are read only; the ledger is
// written elsewhere.
type StatsUsecase struct {
	paymentRepo     repositories.PaymentRepository
	appointmentRepo repositories.AppointmentRepository
	userRepo        repositories.UserRepository
	expertRepo      repositories.ExpertRepository
	settlement      config.SettlementConfig
	now             func() time.Time
}

// NewStatsUsecase creates a new stats usecase
func NewStatsUsecase(
	paymentRepo repositories.PaymentRepository,
	appointmentRepo repositories.AppointmentRepository,
	userRepo repositories.UserRepository,
	expertRepo repositories.ExpertRepository,
	settlement config.SettlementConfig,
) *StatsUsecase {
	return &StatsUsecase{
		paymentRepo:     paymentRepo,
		appointmentRepo: appointmentRepo,
		userRepo:        userRepo,
		expertRepo:      expertRepo,
		settlement:      settlement,
		now:             time.Now,
	}
}

// UnsettledBreakdown totals completed-but-held entries. The flat
// current split over the live total and the sum of each entry's
// persisted snapshot are both reported; they diverge whenever history
// carries a different ratio.
func (u *StatsUsecase) UnsettledBreakdown(ctx context.Context) (*entities.UnsettledBreakdown, error) {
	payments, err := u.paymentRepo.ListUnsettledCompleted(ctx)
	if err != nil {
		return nil, err
	}

	out := &entities.UnsettledBreakdown{}
	for _, p := range payments {
		out.Total += p.Amount
		out.Persisted.ExpertAmount += p.Breakdown.ExpertAmount
		out.Persisted.OrgAmount += p.Breakdown.OrgAmount
		out.Persisted.AdminFee += p.Breakdown.AdminFee
		out.Persisted.Tax += p.Breakdown.Tax
	}
	out.Breakdown = entities.PaymentBreakdown{
		ExpertAmount: out.Total * u.settlement.ExpertShare,
		OrgAmount:    out.Total * u.settlement.OrgShare,
		Tax:          out.Total * u.settlement.TaxShare,
		AdminFee:     out.Total * u.settlement.AdminShare,
	}
	return out, nil
}

// RefundLiability totals cancelled bookings whose payment is still
// held. The refundable amount is the gross price sum; the cancellation
// fee is reported alongside, not deducted.
func (u *StatsUsecase) RefundLiability(ctx context.Context) (*entities.RefundLiability, error) {
	appointments, err := u.appointmentRepo.ListRefundable(ctx)
	if err != nil {
		return nil, err
	}

	out := &entities.RefundLiability{PendingCount: len(appointments)}
	for _, a := range appointments {
		out.TotalRefundable += a.Price
		out.CancellationFees += a.Price * u.settlement.CancellationFeePct
	}
	return out, nil
}

// TrailingRevenue sums completed ledger entries since January 1 of the
// configured anchor year. The anchor is absolute, so the window grows
// through the year rather than sliding.
func (u *StatsUsecase) TrailingRevenue(ctx context.Context) (*entities.RevenueSummary, error) {
	now := u.now()
	anchor := time.Date(now.Year()-u.settlement.RevenueAnchorYears, time.January, 1, 0, 0, 0, 0, time.UTC)

	gross, err := u.paymentRepo.SumCompletedCreatedSince(ctx, anchor)
	if err != nil {
		return nil, err
	}

	// Growth compares against the same window shifted one anchor span
	// back.
	prevAnchor := anchor.AddDate(-u.settlement.RevenueAnchorYears, 0, 0)
	prevGross, err := u.paymentRepo.SumCompletedCreatedSince(ctx, prevAnchor)
	if err != nil {
		return nil, err
	}
	prevGross -= gross

	out := &entities.RevenueSummary{Gross: gross}
	if prevGross > 0 {
		out.Growth = (gross - prevGross) / prevGross * 100
	} else if gross > 0 {
		out.Growth = 100
	}
	return out, nil
}

// UserGrowthTrend reports the live count of end-user accounts and its
// month-over-month movement. A zero baseline with any current users
// reads as +100%.
func (u *StatsUsecase) UserGrowthTrend(ctx context.Context) (*entities.UserTrend, error) {
	count, err := u.userRepo.CountByRole(ctx, entities.UserRoleUser)
	if err != nil {
		return nil, err
	}

	// Baseline is the standing count at the start of the current month,
	// so the trend reads as growth this month.
	now := u.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	baseline, err := u.userRepo.CountByRoleCreatedBefore(ctx, entities.UserRoleUser, monthStart)
	if err != nil {
		return nil, err
	}

	out := &entities.UserTrend{Count: count}
	switch {
	case baseline > 0:
		pct := float64(count-baseline) / float64(baseline) * 100
		out.Trend = fmt.Sprintf("%+.1f%%", pct)
	case count > 0:
		out.Trend = "+100.0%"
	default:
		out.Trend = "+0.0%"
	}
	return out, nil
}

// GetDashboardStats assembles the composite overview payload.
func (u *StatsUsecase) GetDashboardStats(ctx context.Context) (*entities.DashboardStats, error) {
	out := &entities.DashboardStats{}

	users, err := u.UserGrowthTrend(ctx)
	if err != nil {
		return nil, err
	}
	out.Users = *users

	if out.Experts, err = u.userRepo.CountByRole(ctx, entities.UserRoleExpert); err != nil {
		return nil, err
	}
	if out.Organisations, err = u.userRepo.CountByRole(ctx, entities.UserRoleOrganisation); err != nil {
		return nil, err
	}
	if out.PendingExperts, err = u.expertRepo.CountPendingVerification(ctx); err != nil {
		return nil, err
	}

	unsettled, err := u.UnsettledBreakdown(ctx)
	if err != nil {
		return nil, err
	}
	out.Financial.Unsettled = *unsettled

	refunds, err := u.RefundLiability(ctx)
	if err != nil {
		return nil, err
	}
	out.Financial.Refunds = *refunds

	revenue, err := u.TrailingRevenue(ctx)
	if err != nil {
		return nil, err
	}
	out.Financial.Revenue = *revenue

	return out, nil
}
