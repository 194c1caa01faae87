package services

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"strings"

	"github.com/Manishnemade12/Intelligent-Loan-Approval-System/internal/config"
	"github.com/Manishnemade12/Intelligent-Loan-Approval-System/internal/models"
	"github.com/Manishnemade12/Intelligent-Loan-Approval-System/pkg/logger"
	"github.com/resend/resend-go/v2"
)

//go:embed templates/email/*.html
var emailTemplates embed.FS

// EmailService sends applicant notifications through Resend
type EmailService struct {
	config *config.Config
	emails resend.EmailsSvc
}

func NewEmailService(cfg *config.Config) *EmailService {
	client := resend.NewClient(cfg.ResendAPIKey)
	return &EmailService{
		config: cfg,
		emails: client.Emails,
	}
}

// checkEmailPreconditions reports whether a message should be sent at all.
// Disabled notifications are not an error; missing configuration is.
func (s *EmailService) checkEmailPreconditions(app *models.LoanApplication, operation string) (bool, error) {
	if !s.config.EnableEmailNotifications {
		logger.Debug("email notifications disabled", slog.String("operation", operation))
		return false, nil
	}
	if s.config.ResendAPIKey == "" {
		return false, errors.New("RESEND_API_KEY is not set")
	}
	if s.config.FromEmail == "" {
		return false, errors.New("FROM_EMAIL is not set")
	}
	if app == nil || strings.TrimSpace(app.Email) == "" {
		return false, errors.New("email address is empty")
	}
	return true, nil
}

// SendDecision tells the applicant that their application was approved or
// rejected. Other statuses are ignored.
func (s *EmailService) SendDecision(ctx context.Context, app *models.LoanApplication) error {
	var tmpl, subject string
	switch app.Status {
	case models.LoanStatusApproved:
		tmpl, subject = "application_approved.html", "Your loan application was approved"
	case models.LoanStatusRejected:
		tmpl, subject = "application_rejected.html", "Update on your loan application"
	default:
		return nil
	}

	ok, err := s.checkEmailPreconditions(app, "decision")
	if !ok {
		return err
	}

	reviewedAt := ""
	if app.ReviewedAt != nil {
		reviewedAt = app.ReviewedAt.Format("02 Jan 2006 15:04")
	}

	data := struct {
		Name          string
		ApplicationID string
		LoanType      string
		LoanAmount    string
		LoanTerm      int
		ReviewedAt    string
		AppURL        string
	}{
		Name:          app.ApplicantName,
		ApplicationID: app.ApplicationID,
		LoanType:      app.LoanType,
		LoanAmount:    app.LoanAmount.StringFixed(2),
		LoanTerm:      app.LoanTerm,
		ReviewedAt:    reviewedAt,
		AppURL:        s.config.AppURL,
	}

	body, err := s.renderTemplate(tmpl, data)
	if err != nil {
		return err
	}

	return s.send(app.Email, subject, body)
}

func (s *EmailService) send(to, subject, body string) error {
	params := &resend.SendEmailRequest{
		From:    s.config.FromEmail,
		To:      []string{to},
		Subject: subject,
		Html:    body,
	}
	if _, err := s.emails.Send(params); err != nil {
		logger.Error("failed to send email", slog.String("to", to), slog.String("error", err.Error()))
		return err
	}

	logger.Info("email sent", slog.String("to", to), slog.String("subject", subject))
	return nil
}

func (s *EmailService) renderTemplate(name string, data interface{}) (string, error) {
	tmpl, err := template.ParseFS(emailTemplates, "templates/email/"+name)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}

	return buf.String(), nil
}
