package entities

// UnsettledBreakdown is the held-funds view on the dashboard.
//
// Breakdown applies the flat current split rule to the live total,
// which is how the dashboard has always displayed it. Persisted sums
// the snapshot fields of each ledger entry instead. The two disagree
// whenever historical entries carry a different ratio; both are
// returned so the divergence stays visible pending product
// clarification.
type UnsettledBreakdown struct {
	Total     float64          `json:"total"`
	Breakdown PaymentBreakdown `json:"breakdown"`
	Persisted PaymentBreakdown `json:"persisted"`
}

// RefundLiability totals cancelled-but-paid bookings.
type RefundLiability struct {
	TotalRefundable  float64 `json:"totalRefundable"`
	PendingCount     int     `json:"pendingCount"`
	CancellationFees float64 `json:"cancellationFees"`
}

// RevenueSummary is the trailing gross revenue window.
type RevenueSummary struct {
	Gross  float64 `json:"gross"`
	Growth float64 `json:"growth"`
}

// UserTrend is the month-anchored growth figure for the user count.
type UserTrend struct {
	Count int64  `json:"count"`
	Trend string `json:"trend"` // e.g. "+12.5%"
}

// DashboardStats is the composite financial-overview payload.
type DashboardStats struct {
	Users          UserTrend `json:"users"`
	Experts        int64     `json:"experts"`
	Organisations  int64     `json:"organisations"`
	PendingExperts int64     `json:"pendingExperts"`

	Financial struct {
		Unsettled UnsettledBreakdown `json:"unsettled"`
		Refunds   RefundLiability    `json:"refunds"`
		Revenue   RevenueSummary     `json:"revenue"`
	} `json:"financial"`
}
