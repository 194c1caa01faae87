package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Manishnemade12/Intelligent-Loan-Approval-System/internal/jobs"
	"github.com/Manishnemade12/Intelligent-Loan-Approval-System/internal/models"
	"github.com/Manishnemade12/Intelligent-Loan-Approval-System/internal/repository"
	"github.com/Manishnemade12/Intelligent-Loan-Approval-System/internal/statemachine"
)

// DecisionMailer sends the applicant the outcome of a committed decision
type DecisionMailer interface {
	SendDecision(ctx context.Context, app *models.LoanApplication) error
}

// JobQueue accepts fire-and-forget background work
type JobQueue interface {
	EnqueueAsync(name string, job jobs.Job)
}

// DecisionService drives officer actions through the loan state machine.
// Each action loads the application under lock, transitions it, saves it and
// appends its audit entry in one transaction.
type DecisionService struct {
	store    repository.LoanStore
	auditSvc *AuditService
	mailer   DecisionMailer
	queue    JobQueue
	now      func() time.Time
}

func NewDecisionService(store repository.LoanStore, auditSvc *AuditService, mailer DecisionMailer, queue JobQueue) *DecisionService {
	return &DecisionService{
		store:    store,
		auditSvc: auditSvc,
		mailer:   mailer,
		queue:    queue,
		now:      time.Now,
	}
}

// Approve commits an approval from PENDING or MANUAL_REVIEW
func (s *DecisionService) Approve(ctx context.Context, id uint, actor, notes string) (*models.LoanApplication, error) {
	app, err := s.transition(ctx, "approve", id, func(tx repository.LoanStore, app *models.LoanApplication) (*models.AuditEntry, error) {
		if err := statemachine.NewLoanFSM(app).Approve(ctx, actor, notes, s.now()); err != nil {
			return nil, err
		}
		return s.auditSvc.Append(ctx, tx, app.ID, models.AuditApplicationApproved, actor,
			fmt.Sprintf("Application approved. Notes: %s", orNone(notes)))
	})
	if err != nil {
		return nil, err
	}

	s.notify(app)
	return app, nil
}

// Reject commits a rejection from PENDING or MANUAL_REVIEW. The reason is
// required and embedded in the audit entry.
func (s *DecisionService) Reject(ctx context.Context, id uint, actor, reason, notes string) (*models.LoanApplication, error) {
	if err := requireText("reason", reason); err != nil {
		return nil, failed("reject", err)
	}

	app, err := s.transition(ctx, "reject", id, func(tx repository.LoanStore, app *models.LoanApplication) (*models.AuditEntry, error) {
		if err := statemachine.NewLoanFSM(app).Reject(ctx, actor, notes, s.now()); err != nil {
			return nil, err
		}
		return s.auditSvc.Append(ctx, tx, app.ID, models.AuditApplicationRejected, actor,
			fmt.Sprintf("Application rejected. Reason: %s. Additional notes: %s", reason, orNone(notes)))
	})
	if err != nil {
		return nil, err
	}

	s.notify(app)
	return app, nil
}

// RequestManualReview routes a PENDING application to a human officer
func (s *DecisionService) RequestManualReview(ctx context.Context, id uint, actor, reason, assignee, notes string) (*models.LoanApplication, error) {
	if err := requireText("reason", reason); err != nil {
		return nil, failed("request_review", err)
	}

	return s.transition(ctx, "request_review", id, func(tx repository.LoanStore, app *models.LoanApplication) (*models.AuditEntry, error) {
		if err := statemachine.NewLoanFSM(app).RequestReview(ctx, assignee, notes); err != nil {
			return nil, err
		}
		assigned := "Unassigned"
		if app.AssignedOfficer != nil {
			assigned = *app.AssignedOfficer
		}
		return s.auditSvc.Append(ctx, tx, app.ID, models.AuditManualReviewRequested, actor,
			fmt.Sprintf("Manual review requested. Reason: %s. Assigned to: %s. Notes: %s", reason, assigned, orNone(notes)))
	})
}

// AppendNote adds an attributed note. It is legal in every status.
func (s *DecisionService) AppendNote(ctx context.Context, id uint, actor, note string) (*models.LoanApplication, error) {
	if err := requireText("note", note); err != nil {
		return nil, failed("append_note", err)
	}

	return s.transition(ctx, "append_note", id, func(tx repository.LoanStore, app *models.LoanApplication) (*models.AuditEntry, error) {
		statemachine.AppendNote(app, actor, note, s.now())
		return s.auditSvc.Append(ctx, tx, app.ID, models.AuditNotesAdded, actor, "Officer notes added: "+note)
	})
}

type mutation func(tx repository.LoanStore, app *models.LoanApplication) (*models.AuditEntry, error)

// transition runs mutate against the locked application and persists the
// result. Nothing is written when mutate fails.
func (s *DecisionService) transition(ctx context.Context, operation string, id uint, mutate mutation) (*models.LoanApplication, error) {
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

		// the audit entry is staged before the save but both commit together
		entry, err = mutate(tx, app)
		if err != nil {
			return err
		}
		return tx.SaveApplication(ctx, app)
	})
	if err != nil {
		return nil, failed(operation, err)
	}

	committed(entry, app)
	return app, nil
}

// notify queues the decision e-mail once the transaction has committed
func (s *DecisionService) notify(app *models.LoanApplication) {
	if s.mailer == nil || s.queue == nil {
		return
	}
	snapshot := app.Clone()
	s.queue.EnqueueAsync("decision_email", func(ctx context.Context) error {
		return s.mailer.SendDecision(ctx, snapshot)
	})
}

func orNone(s string) string {
	if s == "" {
		return "None"
	}
	return s
}
