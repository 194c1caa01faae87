package repository

import (
	"context"

	"github.com/Manishnemade12/Intelligent-Loan-Approval-System/internal/models"
	"gorm.io/gorm"
)

// StatsRepository serves read-only reporting queries. Nothing it returns
// feeds back into a decision.
type StatsRepository interface {
	CountByStatus(ctx context.Context) ([]models.StatusCount, error)
	AverageProcessingDays(ctx context.Context) (float64, error)
}

type statsRepository struct {
	db *gorm.DB
}

func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) CountByStatus(ctx context.Context) ([]models.StatusCount, error) {
	var rows []models.StatusCount
	err := r.db.WithContext(ctx).
		Model(&models.LoanApplication{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	return rows, err
}

// AverageProcessingDays averages reviewed_at - submitted_at over decided
// applications, in fractional days. Zero when nothing has been decided.
func (r *statsRepository) AverageProcessingDays(ctx context.Context) (float64, error) {
	var avg float64
	err := r.db.WithContext(ctx).
		Model(&models.LoanApplication{}).
		Select("COALESCE(AVG(EXTRACT(EPOCH FROM (reviewed_at - submitted_at)) / 86400), 0)").
		Where("reviewed_at IS NOT NULL").
		Scan(&avg).Error
	return avg, err
}
