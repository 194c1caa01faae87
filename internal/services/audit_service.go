package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Manishnemade12/Intelligent-Loan-Approval-System/internal/metrics"
	"github.com/Manishnemade12/Intelligent-Loan-Approval-System/internal/models"
	"github.com/Manishnemade12/Intelligent-Loan-Approval-System/internal/repository"
	"github.com/Manishnemade12/Intelligent-Loan-Approval-System/pkg/logger"
)

// AuditService is the append-only trail of actions taken against an
// application. It exposes no update or delete.
type AuditService struct {
	store repository.LoanStore
	now   func() time.Time
}

func NewAuditService(store repository.LoanStore) *AuditService {
	return &AuditService{store: store, now: time.Now}
}

// Append writes one entry through tx so that it commits together with the
// mutation it describes.
func (s *AuditService) Append(ctx context.Context, tx repository.LoanStore, applicationID uint, action, actor, notes string) (*models.AuditEntry, error) {
	if strings.TrimSpace(action) == "" || strings.TrimSpace(actor) == "" {
		return nil, fmt.Errorf("audit entry for application %d needs an action and an actor", applicationID)
	}

	entry := &models.AuditEntry{
		LoanApplicationID: applicationID,
		Action:            action,
		PerformedBy:       actor,
		Notes:             notes,
		CreatedAt:         s.now(),
	}
	if err := tx.AppendAudit(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to append audit entry: %w", err)
	}
	return entry, nil
}

// List returns the trail of one application ordered by creation time
func (s *AuditService) List(ctx context.Context, applicationID uint) ([]models.AuditEntry, error) {
	if _, err := s.store.LoadApplication(ctx, applicationID); err != nil {
		return nil, err
	}
	return s.store.ListAudit(ctx, applicationID)
}

// committed records a successful action once its transaction is durable
func committed(entry *models.AuditEntry, app *models.LoanApplication) {
	if entry == nil || app == nil {
		return
	}
	metrics.AuditActions.WithLabelValues(entry.Action).Inc()
	logger.Info("loan application action committed",
		slog.String("application_id", app.ApplicationID),
		slog.String("action", entry.Action),
		slog.String("actor", entry.PerformedBy),
		slog.String("status", app.Status),
	)
}

// failed counts an operation that did not commit
func failed(operation string, err error) error {
	if err == nil {
		return nil
	}
	metrics.OperationFailures.WithLabelValues(operation, classify(err)).Inc()
	return err
}

func classify(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrIllegalTransition):
		return "illegal_transition"
	case errors.Is(err, ErrConflict):
		return "conflict"
	}
	return "internal"
}
