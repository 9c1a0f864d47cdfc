package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"mindnamo-admin.backend/internal/interfaces/http/response"
	"mindnamo-admin.backend/internal/usecases"
)

// StatsHandler handles the dashboard aggregation endpoints
type StatsHandler struct {
	statsUsecase *usecases.StatsUsecase
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(statsUsecase *usecases.StatsUsecase) *StatsHandler {
	return &StatsHandler{
		statsUsecase: statsUsecase,
	}
}

// GetDashboard returns the composite overview payload
// GET /api/v1/stats/dashboard
func (h *StatsHandler) GetDashboard(c *gin.Context) {
	stats, err := h.statsUsecase.GetDashboardStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, stats)
}

// GetUnsettled returns the held-funds breakdown
// GET /api/v1/stats/unsettled
func (h *StatsHandler) GetUnsettled(c *gin.Context) {
	breakdown, err := h.statsUsecase.UnsettledBreakdown(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, breakdown)
}

// GetRefundLiability returns outstanding refund obligations
// GET /api/v1/stats/refunds
func (h *StatsHandler) GetRefundLiability(c *gin.Context) {
	liability, err := h.statsUsecase.RefundLiability(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, liability)
}

// GetRevenue returns the trailing revenue window
// GET /api/v1/stats/revenue
func (h *StatsHandler) GetRevenue(c *gin.Context) {
	revenue, err := h.statsUsecase.TrailingRevenue(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, revenue)
}
