package services

import (
	"context"
	"errors"
	"testing"

	"github.com/Manishnemade12/Intelligent-Loan-Approval-System/internal/metrics"
	"github.com/Manishnemade12/Intelligent-Loan-Approval-System/internal/models"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStats struct {
	counts []models.StatusCount
	avg    float64
	err    error
}

func (f *fakeStats) CountByStatus(ctx context.Context) ([]models.StatusCount, error) {
	return f.counts, f.err
}

func (f *fakeStats) AverageProcessingDays(ctx context.Context) (float64, error) {
	return f.avg, f.err
}

func TestDashboardService_GetStats(t *testing.T) {
	t.Run("mixed statuses", func(t *testing.T) {
		svc := NewDashboardService(&fakeStats{
			counts: []models.StatusCount{
				{Status: models.LoanStatusPending, Count: 4},
				{Status: models.LoanStatusManualReview, Count: 1},
				{Status: models.LoanStatusApproved, Count: 1},
				{Status: models.LoanStatusRejected, Count: 1},
			},
			avg: 2.345,
		})

		stats, err := svc.GetStats(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(7), stats.TotalApplications)
		assert.Equal(t, int64(4), stats.PendingApplications)
		assert.Equal(t, int64(1), stats.ManualReviewApplications)
		assert.Equal(t, "14.29", stats.ApprovalRate.StringFixed(2))
		assert.Equal(t, "2.35", stats.AvgProcessingTimeDays.StringFixed(2))
	})

	t.Run("empty database", func(t *testing.T) {
		stats, err := NewDashboardService(&fakeStats{}).GetStats(context.Background())
		require.NoError(t, err)
		assert.Zero(t, stats.TotalApplications)
		assert.True(t, stats.ApprovalRate.IsZero())
		assert.True(t, stats.AvgProcessingTimeDays.IsZero())
	})

	t.Run("query error", func(t *testing.T) {
		_, err := NewDashboardService(&fakeStats{err: errors.New("timeout")}).GetStats(context.Background())
		assert.ErrorContains(t, err, "timeout")
	})
}

func TestDashboardService_RefreshStatusGauge(t *testing.T) {
	svc := NewDashboardService(&fakeStats{
		counts: []models.StatusCount{{Status: models.LoanStatusApproved, Count: 3}},
	})

	require.NoError(t, svc.RefreshStatusGauge(context.Background()))
	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.ApplicationsByStatus.WithLabelValues(models.LoanStatusApproved)))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.ApplicationsByStatus.WithLabelValues(models.LoanStatusPending)))
}
