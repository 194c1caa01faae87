package services

import (
	"context"
	"fmt"

	"github.com/Manishnemade12/Intelligent-Loan-Approval-System/internal/metrics"
	"github.com/Manishnemade12/Intelligent-Loan-Approval-System/internal/models"
	"github.com/Manishnemade12/Intelligent-Loan-Approval-System/internal/repository"
	"github.com/shopspring/decimal"
)

var statuses = []string{
	models.LoanStatusPending,
	models.LoanStatusManualReview,
	models.LoanStatusApproved,
	models.LoanStatusRejected,
}

// DashboardService computes read-only reporting figures
type DashboardService struct {
	statsRepo repository.StatsRepository
}

func NewDashboardService(statsRepo repository.StatsRepository) *DashboardService {
	return &DashboardService{statsRepo: statsRepo}
}

func (s *DashboardService) GetStats(ctx context.Context) (*models.DashboardStats, error) {
	counts, err := s.countByStatus(ctx)
	if err != nil {
		return nil, err
	}
	avgDays, err := s.statsRepo.AverageProcessingDays(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compute processing time: %w", err)
	}

	stats := &models.DashboardStats{
		PendingApplications:      counts[models.LoanStatusPending],
		ManualReviewApplications: counts[models.LoanStatusManualReview],
		ApprovedApplications:     counts[models.LoanStatusApproved],
		RejectedApplications:     counts[models.LoanStatusRejected],
		AvgProcessingTimeDays:    decimal.NewFromFloat(avgDays).Round(2),
		ApprovalRate:             decimal.Zero,
	}
	for _, n := range counts {
		stats.TotalApplications += n
	}
	if stats.TotalApplications > 0 {
		stats.ApprovalRate = decimal.NewFromInt(stats.ApprovedApplications * 100).
			Div(decimal.NewFromInt(stats.TotalApplications)).
			Round(2)
	}
	return stats, nil
}

// RefreshStatusGauge publishes the live per-status counts to Prometheus
func (s *DashboardService) RefreshStatusGauge(ctx context.Context) error {
	counts, err := s.countByStatus(ctx)
	if err != nil {
		return err
	}
	for _, status := range statuses {
		metrics.ApplicationsByStatus.WithLabelValues(status).Set(float64(counts[status]))
	}
	return nil
}

func (s *DashboardService) countByStatus(ctx context.Context) (map[string]int64, error) {
	rows, err := s.statsRepo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count applications: %w", err)
	}
	counts := make(map[string]int64, len(statuses))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
