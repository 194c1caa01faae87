package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Manishnemade12/Intelligent-Loan-Approval-System/internal/config"
	"github.com/Manishnemade12/Intelligent-Loan-Approval-System/internal/models"
	"github.com/Manishnemade12/Intelligent-Loan-Approval-System/pkg/logger"
	"github.com/resend/resend-go/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmails struct {
	resend.EmailsSvc
	sent []*resend.SendEmailRequest
	err  error
}

func (f *fakeEmails) Send(params *resend.SendEmailRequest) (*resend.SendEmailResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, params)
	return &resend.SendEmailResponse{Id: "msg_1"}, nil
}

func enabledEmailConfig() *config.Config {
	return &config.Config{
		EnableEmailNotifications: true,
		ResendAPIKey:             "test_key",
		FromEmail:                "loans@bank.test",
		AppURL:                   "https://loans.bank.test",
	}
}

func decidedApplication(status string) *models.LoanApplication {
	reviewed := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	return &models.LoanApplication{
		ApplicationID: "LA-1773480600000-ABCDEF12",
		ApplicantName: "Asha Verma",
		Email:         "asha@example.com",
		LoanType:      models.LoanTypePersonal,
		LoanAmount:    decimal.NewFromInt(50000),
		LoanTerm:      24,
		Status:        status,
		ReviewedAt:    &reviewed,
	}
}

func TestEmailService_checkEmailPreconditions(t *testing.T) {
	logger.Setup("test")
	app := &models.LoanApplication{Email: "test@example.com", ApplicantName: "Test User"}

	// Email notifications disabled
	service := NewEmailService(&config.Config{EnableEmailNotifications: false})
	ok, err := service.checkEmailPreconditions(app, "test operation")
	assert.False(t, ok, "Should return false when notifications are disabled")
	assert.Nil(t, err, "Should not return error when notifications are disabled")

	// Email configured and valid
	service = NewEmailService(enabledEmailConfig())
	ok, err = service.checkEmailPreconditions(app, "test operation")
	assert.True(t, ok, "Should return true when properly configured")
	assert.Nil(t, err, "Should not return error when properly configured")

	// Missing key
	cfg := enabledEmailConfig()
	cfg.ResendAPIKey = ""
	service = NewEmailService(cfg)
	ok, err = service.checkEmailPreconditions(app, "test operation")
	assert.False(t, ok, "Should return false when config is missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RESEND_API_KEY is not set")

	// Empty recipient
	service = NewEmailService(enabledEmailConfig())
	ok, err = service.checkEmailPreconditions(&models.LoanApplication{ApplicantName: "No Mail"}, "test operation")
	assert.False(t, ok, "Should return false when email is empty")
	require.Error(t, err)
	assert.Equal(t, "email address is empty", err.Error())
}

func TestEmailService_SendDecision(t *testing.T) {
	logger.Setup("test")

	t.Run("approved", func(t *testing.T) {
		fake := &fakeEmails{}
		service := NewEmailService(enabledEmailConfig())
		service.emails = fake

		require.NoError(t, service.SendDecision(context.Background(), decidedApplication(models.LoanStatusApproved)))
		require.Len(t, fake.sent, 1)
		assert.Equal(t, []string{"asha@example.com"}, fake.sent[0].To)
		assert.Equal(t, "loans@bank.test", fake.sent[0].From)
		assert.Equal(t, "Your loan application was approved", fake.sent[0].Subject)
		assert.Contains(t, fake.sent[0].Html, "LA-1773480600000-ABCDEF12")
		assert.Contains(t, fake.sent[0].Html, "50000.00")
		assert.Contains(t, fake.sent[0].Html, "14 Mar 2026 09:30")
	})

	t.Run("rejected", func(t *testing.T) {
		fake := &fakeEmails{}
		service := NewEmailService(enabledEmailConfig())
		service.emails = fake

		require.NoError(t, service.SendDecision(context.Background(), decidedApplication(models.LoanStatusRejected)))
		require.Len(t, fake.sent, 1)
		assert.Equal(t, "Update on your loan application", fake.sent[0].Subject)
		assert.Contains(t, fake.sent[0].Html, "Asha Verma")
	})

	t.Run("undecided status sends nothing", func(t *testing.T) {
		fake := &fakeEmails{}
		service := NewEmailService(enabledEmailConfig())
		service.emails = fake

		require.NoError(t, service.SendDecision(context.Background(), decidedApplication(models.LoanStatusManualReview)))
		assert.Empty(t, fake.sent)
	})

	t.Run("disabled sends nothing", func(t *testing.T) {
		fake := &fakeEmails{}
		service := NewEmailService(&config.Config{})
		service.emails = fake

		require.NoError(t, service.SendDecision(context.Background(), decidedApplication(models.LoanStatusApproved)))
		assert.Empty(t, fake.sent)
	})

	t.Run("provider error is returned", func(t *testing.T) {
		fake := &fakeEmails{err: errors.New("rate limited")}
		service := NewEmailService(enabledEmailConfig())
		service.emails = fake

		err := service.SendDecision(context.Background(), decidedApplication(models.LoanStatusRejected))
		assert.EqualError(t, err, "rate limited")
	})
}
