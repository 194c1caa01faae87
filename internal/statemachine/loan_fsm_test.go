package statemachine

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Manishnemade12/Intelligent-Loan-Approval-System/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var reviewTime = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func appWithStatus(status string) *models.LoanApplication {
	return &models.LoanApplication{ApplicationID: "LA-1-ABCDEF12", Status: status}
}

func TestLoanFSM_Approve(t *testing.T) {
	tests := []struct {
		from    string
		wantErr bool
	}{
		{models.LoanStatusPending, false},
		{models.LoanStatusManualReview, false},
		{models.LoanStatusApproved, true},
		{models.LoanStatusRejected, true},
	}

	for _, tt := range tests {
		t.Run(tt.from, func(t *testing.T) {
			app := appWithStatus(tt.from)
			err := NewLoanFSM(app).Approve(context.Background(), "officer@bank.test", "looks fine", reviewTime)

			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrIllegalTransition))
				assert.Equal(t, tt.from, app.Status)
				assert.Nil(t, app.ReviewedAt)
				assert.Nil(t, app.ReviewedBy)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, models.LoanStatusApproved, app.Status)
			require.NotNil(t, app.ReviewedAt)
			assert.True(t, app.ReviewedAt.Equal(reviewTime))
			assert.Equal(t, "officer@bank.test", *app.ReviewedBy)
			assert.Equal(t, "looks fine", *app.OfficerNotes)
		})
	}
}

func TestLoanFSM_Reject(t *testing.T) {
	app := appWithStatus(models.LoanStatusManualReview)
	previous := "earlier note"
	app.OfficerNotes = &previous

	require.NoError(t, NewLoanFSM(app).Reject(context.Background(), "officer@bank.test", "", reviewTime))
	assert.Equal(t, models.LoanStatusRejected, app.Status)
	assert.Equal(t, "officer@bank.test", *app.ReviewedBy)
	assert.Equal(t, "earlier note", *app.OfficerNotes, "blank notes keep the existing ones")

	err := NewLoanFSM(app).Reject(context.Background(), "other@bank.test", "", reviewTime.Add(time.Hour))
	assert.True(t, errors.Is(err, ErrIllegalTransition))
	assert.Equal(t, "officer@bank.test", *app.ReviewedBy)
}

func TestLoanFSM_ApproveFromRejectedFails(t *testing.T) {
	app := appWithStatus(models.LoanStatusRejected)

	err := NewLoanFSM(app).Approve(context.Background(), "officer@bank.test", "", reviewTime)

	assert.ErrorIs(t, err, ErrIllegalTransition)
	assert.Equal(t, models.LoanStatusRejected, app.Status)
}

func TestLoanFSM_RequestReview(t *testing.T) {
	t.Run("from pending", func(t *testing.T) {
		app := appWithStatus(models.LoanStatusPending)

		require.NoError(t, NewLoanFSM(app).RequestReview(context.Background(), "senior@bank.test", "needs a second look"))
		assert.Equal(t, models.LoanStatusManualReview, app.Status)
		require.NotNil(t, app.AssignedOfficer)
		assert.Equal(t, "senior@bank.test", *app.AssignedOfficer)
		assert.Nil(t, app.ReviewedAt)
		assert.Nil(t, app.ReviewedBy)
	})

	t.Run("without assignee", func(t *testing.T) {
		app := appWithStatus(models.LoanStatusPending)

		require.NoError(t, NewLoanFSM(app).RequestReview(context.Background(), "  ", ""))
		assert.Nil(t, app.AssignedOfficer)
		assert.Nil(t, app.OfficerNotes)
	})

	for _, from := range []string{models.LoanStatusManualReview, models.LoanStatusApproved, models.LoanStatusRejected} {
		t.Run("from "+from, func(t *testing.T) {
			app := appWithStatus(from)
			err := NewLoanFSM(app).RequestReview(context.Background(), "", "")
			assert.ErrorIs(t, err, ErrIllegalTransition)
			assert.Equal(t, from, app.Status)
		})
	}
}

func TestLoanFSM_Amend(t *testing.T) {
	assert.NoError(t, NewLoanFSM(appWithStatus(models.LoanStatusPending)).Amend())

	for _, from := range []string{models.LoanStatusManualReview, models.LoanStatusApproved, models.LoanStatusRejected} {
		err := NewLoanFSM(appWithStatus(from)).Amend()
		assert.ErrorIs(t, err, ErrIllegalTransition, from)
	}
}

func TestLoanFSM_Can(t *testing.T) {
	lfsm := NewLoanFSM(appWithStatus(models.LoanStatusPending))

	assert.True(t, lfsm.Can(EventApprove))
	assert.True(t, lfsm.Can(EventReject))
	assert.True(t, lfsm.Can(EventRequestReview))
	assert.Equal(t, models.LoanStatusPending, lfsm.Current())

	terminal := NewLoanFSM(appWithStatus(models.LoanStatusApproved))
	assert.False(t, terminal.Can(EventApprove))
	assert.False(t, terminal.Can(EventReject))
	assert.False(t, terminal.Can(EventRequestReview))
}

func TestAppendNote(t *testing.T) {
	statuses := []string{
		models.LoanStatusPending,
		models.LoanStatusManualReview,
		models.LoanStatusApproved,
		models.LoanStatusRejected,
	}

	for _, status := range statuses {
		t.Run(status, func(t *testing.T) {
			app := appWithStatus(status)

			AppendNote(app, "officer@bank.test", "called the employer", reviewTime)
			require.NotNil(t, app.OfficerNotes)
			assert.Equal(t, "[2026-03-14T09:30:00Z by officer@bank.test]: called the employer", *app.OfficerNotes)

			AppendNote(app, "admin@bank.test", "income confirmed", reviewTime.Add(time.Minute))
			lines := strings.Split(*app.OfficerNotes, "\n")
			require.Len(t, lines, 2)
			assert.Equal(t, "[2026-03-14T09:31:00Z by admin@bank.test]: income confirmed", lines[1])
			assert.Equal(t, status, app.Status)
		})
	}
}
