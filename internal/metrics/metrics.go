package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuditActions counts committed audit entries by action code
	AuditActions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loan_audit_actions_total",
			Help: "Total number of committed loan application actions",
		},
		[]string{"action"},
	)

	// OperationFailures counts rejected operations by outcome
	OperationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loan_operation_failures_total",
			Help: "Total number of loan operations that failed",
		},
		[]string{"operation", "reason"},
	)

	// RiskScores records every computed overall risk score
	RiskScores = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "loan_risk_score",
			Help:    "Distribution of overall risk scores",
			Buckets: prometheus.LinearBuckets(10, 10, 10),
		},
		[]string{"recommendation"},
	)

	// ApplicationsByStatus is refreshed periodically from the database
	ApplicationsByStatus = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "loan_applications",
			Help: "Number of live loan applications per status",
		},
		[]string{"status"},
	)

	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loan_worker_jobs_completed_total",
			Help: "Total number of background jobs finished",
		},
		[]string{"job"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loan_worker_jobs_failed_total",
			Help: "Total number of background jobs that failed",
		},
		[]string{"job"},
	)
)
