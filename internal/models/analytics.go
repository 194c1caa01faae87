package models

import (
	"github.com/shopspring/decimal"
)

// DashboardStats is a read-only aggregate over all applications. It never
// feeds back into a decision.
type DashboardStats struct {
	TotalApplications        int64           `json:"total_applications"`
	PendingApplications      int64           `json:"pending_applications"`
	ManualReviewApplications int64           `json:"manual_review_applications"`
	ApprovedApplications     int64           `json:"approved_applications"`
	RejectedApplications     int64           `json:"rejected_applications"`
	AvgProcessingTimeDays    decimal.Decimal `json:"avg_processing_time_days"`
	ApprovalRate             decimal.Decimal `json:"approval_rate"`
}

// StatusCount is one row of a GROUP BY status query
type StatusCount struct {
	Status string
	Count  int64
}
