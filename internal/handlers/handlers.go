package handlers

import (
	"github.com/Manishnemade12/Intelligent-Loan-Approval-System/internal/services"
)

// Handlers holds all handler instances
type Handlers struct {
	Health      *HealthHandler
	Application *ApplicationHandler
	Decision    *DecisionHandler
	Audit       *AuditHandler
	Document    *DocumentHandler
	Dashboard   *DashboardHandler
	Job         *JobHandler
}

// NewHandlers creates all handler instances
func NewHandlers(svcs *services.Services) *Handlers {
	return &Handlers{
		Health:      NewHealthHandler(),
		Application: NewApplicationHandler(svcs.Application, svcs.Export),
		Decision:    NewDecisionHandler(svcs.Decision),
		Audit:       NewAuditHandler(svcs.Audit),
		Document:    NewDocumentHandler(svcs.Document),
		Dashboard:   NewDashboardHandler(svcs.Dashboard),
		Job:         NewJobHandler(svcs.Job),
	}
}
