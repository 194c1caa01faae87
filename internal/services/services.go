package services

import (
	"github.com/Manishnemade12/Intelligent-Loan-Approval-System/internal/config"
	"github.com/Manishnemade12/Intelligent-Loan-Approval-System/internal/jobs"
	"github.com/Manishnemade12/Intelligent-Loan-Approval-System/internal/repository"
	"github.com/Manishnemade12/Intelligent-Loan-Approval-System/internal/scoring"
)

// Services holds all service instances
type Services struct {
	Application *ApplicationService
	Decision    *DecisionService
	Audit       *AuditService
	Document    *DocumentService
	Dashboard   *DashboardService
	Export      *ExportService
	Email       *EmailService
	Job         *JobService
}

// NewServices creates all service instances
func NewServices(repos *repository.Repositories, worker *jobs.Worker, cfg *config.Config) *Services {
	auditSvc := NewAuditService(repos.Loans)
	emailSvc := NewEmailService(cfg)

	return &Services{
		Application: NewApplicationService(repos.Loans, scoring.NewEngine(), auditSvc),
		Decision:    NewDecisionService(repos.Loans, auditSvc, emailSvc, worker),
		Audit:       auditSvc,
		Document:    NewDocumentService(repos.Loans, auditSvc),
		Dashboard:   NewDashboardService(repos.Stats),
		Export:      NewExportService(repos.Loans),
		Email:       emailSvc,
		Job:         NewJobService(worker),
	}
}
