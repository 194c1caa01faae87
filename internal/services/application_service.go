package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Manishnemade12/Intelligent-Loan-Approval-System/internal/metrics"
	"github.com/Manishnemade12/Intelligent-Loan-Approval-System/internal/models"
	"github.com/Manishnemade12/Intelligent-Loan-Approval-System/internal/repository"
	"github.com/Manishnemade12/Intelligent-Loan-Approval-System/internal/scoring"
	"github.com/Manishnemade12/Intelligent-Loan-Approval-System/internal/statemachine"
	"github.com/Manishnemade12/Intelligent-Loan-Approval-System/pkg/logger"
	"github.com/google/uuid"
)

// Evaluation is an application together with the outcome of its latest
// scoring pass. The recommendation is advisory and never applied to status.
type Evaluation struct {
	Application    *models.LoanApplication `json:"application"`
	RiskFactors    []models.RiskFactor     `json:"risk_factors"`
	Recommendation scoring.Recommendation  `json:"recommendation"`
}

type ApplicationService struct {
	store    repository.LoanStore
	engine   *scoring.Engine
	auditSvc *AuditService
	now      func() time.Time
}

func NewApplicationService(store repository.LoanStore, engine *scoring.Engine, auditSvc *AuditService) *ApplicationService {
	return &ApplicationService{
		store:    store,
		engine:   engine,
		auditSvc: auditSvc,
		now:      time.Now,
	}
}

// Create submits a new application in PENDING and scores it. The score and
// the five risk factors are stored; the status is left alone.
func (s *ApplicationService) Create(ctx context.Context, in models.ApplicationInput, actor string) (*Evaluation, error) {
	if err := validateApplicationInput(in); err != nil {
		return nil, failed("create", err)
	}

	now := s.now()
	app := &models.LoanApplication{
		ApplicationID: newApplicationID(now),
		Status:        models.LoanStatusPending,
		SubmittedAt:   now,
		Version:       1,
	}
	app.ApplyInput(in)

	// a brand new application has no documents yet
	result := s.engine.Evaluate(app, scoring.DocumentCounts{})
	score := result.Score
	app.RiskScore = &score

	var entry *models.AuditEntry
	err := s.store.Transaction(ctx, func(tx repository.LoanStore) error {
		if err := tx.CreateApplication(ctx, app); err != nil {
			return fmt.Errorf("failed to create application: %w", err)
		}
		if err := tx.ReplaceRiskFactors(ctx, app.ID, result.Factors); err != nil {
			return fmt.Errorf("failed to store risk factors: %w", err)
		}

		var err error
		entry, err = s.auditSvc.Append(ctx, tx, app.ID, models.AuditApplicationCreated, actor,
			fmt.Sprintf("Loan application created. Risk score: %s. Recommendation: %s", score.StringFixed(2), result.Recommendation))
		return err
	})
	if err != nil {
		return nil, failed("create", err)
	}

	committed(entry, app)
	observeScore(result)
	return &Evaluation{Application: app, RiskFactors: result.Factors, Recommendation: result.Recommendation}, nil
}

// Update replaces the applicant and financial data of a PENDING application
// and rescores it. One audit entry summarises the whole change.
func (s *ApplicationService) Update(ctx context.Context, id uint, in models.ApplicationInput, actor string) (*Evaluation, error) {
	if err := validateApplicationInput(in); err != nil {
		return nil, failed("update", err)
	}

	var (
		app    *models.LoanApplication
		result scoring.Result
		entry  *models.AuditEntry
	)
	err := s.store.Transaction(ctx, func(tx repository.LoanStore) error {
		var err error
		app, err = tx.LoadApplication(ctx, id)
		if err != nil {
			return err
		}
		if err := statemachine.NewLoanFSM(app).Amend(); err != nil {
			return err
		}

		changed := app.ChangedFields(in)
		app.ApplyInput(in)

		docs, err := documentCounts(ctx, tx, app.ID)
		if err != nil {
			return err
		}
		result = s.engine.Evaluate(app, docs)
		score := result.Score
		app.RiskScore = &score

		if err := tx.SaveApplication(ctx, app); err != nil {
			return err
		}
		if err := tx.ReplaceRiskFactors(ctx, app.ID, result.Factors); err != nil {
			return fmt.Errorf("failed to store risk factors: %w", err)
		}

		entry, err = s.auditSvc.Append(ctx, tx, app.ID, models.AuditApplicationUpdated, actor,
			fmt.Sprintf("Application details updated. Changed fields: %s. Risk score: %s", describeChanges(changed), score.StringFixed(2)))
		return err
	})
	if err != nil {
		return nil, failed("update", err)
	}

	committed(entry, app)
	observeScore(result)
	return &Evaluation{Application: app, RiskFactors: result.Factors, Recommendation: result.Recommendation}, nil
}

// Delete hides the application from every read and records who removed it.
// The rows are kept until Purge.
func (s *ApplicationService) Delete(ctx context.Context, id uint, actor string) error {
	var (
		app   *models.LoanApplication
		entry *models.AuditEntry
	)
	err := s.store.Transaction(ctx, func(tx repository.LoanStore) error {
		var err error
		app, err = tx.LoadApplication(ctx, id)
		if err != nil {
			return err
		}

		entry, err = s.auditSvc.Append(ctx, tx, app.ID, models.AuditApplicationDeleted, actor, "Application deleted")
		if err != nil {
			return err
		}
		return tx.SoftDeleteApplication(ctx, app.ID)
	})
	if err != nil {
		return failed("delete", err)
	}

	committed(entry, app)
	return nil
}

// Purge physically removes the application and everything it owns,
// including its audit trail.
func (s *ApplicationService) Purge(ctx context.Context, id uint, actor string) error {
	if err := s.store.DeleteAggregate(ctx, id); err != nil {
		return failed("purge", err)
	}
	logger.Warn("loan application purged", slog.Uint64("id", uint64(id)), slog.String("actor", actor))
	return nil
}

// Get returns one live application
func (s *ApplicationService) Get(ctx context.Context, id uint) (*models.LoanApplication, error) {
	return s.store.LoadApplication(ctx, id)
}

// GetByApplicationID looks an application up by its human readable ID
func (s *ApplicationService) GetByApplicationID(ctx context.Context, applicationID string) (*models.LoanApplication, error) {
	return s.store.FindByApplicationID(ctx, strings.ToUpper(strings.TrimSpace(applicationID)))
}

func (s *ApplicationService) List(ctx context.Context, query *repository.ApplicationQuery) ([]models.LoanApplication, int64, error) {
	return s.store.ListApplications(ctx, query)
}

// RiskFactors returns the factor set of the latest scoring pass
func (s *ApplicationService) RiskFactors(ctx context.Context, id uint) ([]models.RiskFactor, error) {
	if _, err := s.store.LoadApplication(ctx, id); err != nil {
		return nil, err
	}
	return s.store.ListRiskFactors(ctx, id)
}

// SetAdvisory stores narrative text produced outside the core. The text is
// opaque here and has no effect on status or score.
func (s *ApplicationService) SetAdvisory(ctx context.Context, id uint, explanation, suggestions, actor string) (*models.LoanApplication, error) {
	if err := requireText("explanation", explanation); err != nil {
		return nil, failed("set_advisory", err)
	}

	var (
		app   *models.LoanApplication
		entry *models.AuditEntry
	)
	err := s.store.Transaction(ctx, func(tx repository.LoanStore) error {
		var err error
		app, err = tx.LoadApplication(ctx, id)
		if err != nil {
			return err
		}

		now := s.now()
		app.AIExplanation = &explanation
		if suggestions != "" {
			app.AISuggestions = &suggestions
		}
		app.AIAnalyzedAt = &now

		if err := tx.SaveApplication(ctx, app); err != nil {
			return err
		}
		entry, err = s.auditSvc.Append(ctx, tx, app.ID, models.AuditAdvisoryUpdated, actor, "Advisory analysis updated")
		return err
	})
	if err != nil {
		return nil, failed("set_advisory", err)
	}

	committed(entry, app)
	return app, nil
}

func documentCounts(ctx context.Context, tx repository.LoanStore, applicationID uint) (scoring.DocumentCounts, error) {
	verified, err := tx.CountVerifiedDocuments(ctx, applicationID)
	if err != nil {
		return scoring.DocumentCounts{}, fmt.Errorf("failed to count verified documents: %w", err)
	}
	total, err := tx.CountTotalDocuments(ctx, applicationID)
	if err != nil {
		return scoring.DocumentCounts{}, fmt.Errorf("failed to count documents: %w", err)
	}
	return scoring.DocumentCounts{Verified: verified, Total: total}, nil
}

func observeScore(r scoring.Result) {
	metrics.RiskScores.WithLabelValues(string(r.Recommendation)).Observe(r.Score.InexactFloat64())
}

func describeChanges(fields []string) string {
	if len(fields) == 0 {
		return "none"
	}
	return strings.Join(fields, ", ")
}

// newApplicationID builds "LA-<unix millis>-<8 upper-case hex chars>"
func newApplicationID(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("LA-%d-%s", now.UnixMilli(), suffix)
}
