package statemachine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Manishnemade12/Intelligent-Loan-Approval-System/internal/models"
	"github.com/looplab/fsm"
)

// ErrIllegalTransition is returned when the current status does not permit
// the requested action.
var ErrIllegalTransition = errors.New("illegal transition")

// Loan workflow events
const (
	EventApprove       = "approve"
	EventReject        = "reject"
	EventRequestReview = "request_review"
	EventAmend         = "amend"
)

// LoanFSM wraps a loan application with its state machine
type LoanFSM struct {
	app *models.LoanApplication
	fsm *fsm.FSM
}

// NewLoanFSM creates a new loan application state machine
func NewLoanFSM(app *models.LoanApplication) *LoanFSM {
	lfsm := &LoanFSM{
		app: app,
	}

	lfsm.fsm = fsm.NewFSM(
		app.Status,
		fsm.Events{
			// pending/manual review → approved
			{Name: EventApprove, Src: []string{models.LoanStatusPending, models.LoanStatusManualReview}, Dst: models.LoanStatusApproved},

			// pending/manual review → rejected
			{Name: EventReject, Src: []string{models.LoanStatusPending, models.LoanStatusManualReview}, Dst: models.LoanStatusRejected},

			// pending → manual review
			{Name: EventRequestReview, Src: []string{models.LoanStatusPending}, Dst: models.LoanStatusManualReview},

			// pending → pending (data edit, guard only)
			{Name: EventAmend, Src: []string{models.LoanStatusPending}, Dst: models.LoanStatusPending},
		},
		fsm.Callbacks{},
	)

	return lfsm
}

// Approve transitions the application to approved and stamps the review.
// Non-empty notes replace the officer notes.
func (l *LoanFSM) Approve(ctx context.Context, reviewer string, notes string, at time.Time) error {
	if !l.app.MayApprove() {
		return fmt.Errorf("%w: cannot approve application with status %s", ErrIllegalTransition, l.app.Status)
	}

	if err := l.fsm.Event(ctx, EventApprove); err != nil {
		return fmt.Errorf("failed to approve application: %w", err)
	}

	l.app.Status = l.fsm.Current()
	l.stampReview(reviewer, at)
	l.replaceNotes(notes)
	return nil
}

// Reject transitions the application to rejected and stamps the review.
func (l *LoanFSM) Reject(ctx context.Context, reviewer string, notes string, at time.Time) error {
	if !l.app.MayReject() {
		return fmt.Errorf("%w: cannot reject application with status %s", ErrIllegalTransition, l.app.Status)
	}

	if err := l.fsm.Event(ctx, EventReject); err != nil {
		return fmt.Errorf("failed to reject application: %w", err)
	}

	l.app.Status = l.fsm.Current()
	l.stampReview(reviewer, at)
	l.replaceNotes(notes)
	return nil
}

// RequestReview moves the application into manual review. The review stamp
// is left untouched since no decision has been made yet.
func (l *LoanFSM) RequestReview(ctx context.Context, assignee string, notes string) error {
	if !l.app.MayRequestReview() {
		return fmt.Errorf("%w: cannot request manual review for application with status %s", ErrIllegalTransition, l.app.Status)
	}

	if err := l.fsm.Event(ctx, EventRequestReview); err != nil {
		return fmt.Errorf("failed to request manual review: %w", err)
	}

	l.app.Status = l.fsm.Current()
	if assignee = strings.TrimSpace(assignee); assignee != "" {
		l.app.AssignedOfficer = &assignee
	}
	l.replaceNotes(notes)
	return nil
}

// Amend checks that applicant data may still be edited. Status is unchanged.
func (l *LoanFSM) Amend() error {
	if !l.app.MayAmend() || !l.fsm.Can(EventAmend) {
		return fmt.Errorf("%w: cannot update application with status %s", ErrIllegalTransition, l.app.Status)
	}
	return nil
}

// Current returns the current state
func (l *LoanFSM) Current() string {
	return l.fsm.Current()
}

// Can checks if a transition is possible
func (l *LoanFSM) Can(event string) bool {
	return l.fsm.Can(event)
}

func (l *LoanFSM) stampReview(reviewer string, at time.Time) {
	l.app.ReviewedAt = &at
	l.app.ReviewedBy = &reviewer
}

func (l *LoanFSM) replaceNotes(notes string) {
	if notes = strings.TrimSpace(notes); notes != "" {
		l.app.OfficerNotes = &notes
	}
}

// AppendNote adds a timestamped, attributed line to the officer notes.
// It is legal from every status and never overwrites earlier notes.
func AppendNote(app *models.LoanApplication, actor, note string, at time.Time) {
	line := fmt.Sprintf("[%s by %s]: %s", at.UTC().Format(time.RFC3339), actor, note)

	if app.OfficerNotes == nil || *app.OfficerNotes == "" {
		app.OfficerNotes = &line
		return
	}

	combined := *app.OfficerNotes + "\n" + line
	app.OfficerNotes = &combined
}
