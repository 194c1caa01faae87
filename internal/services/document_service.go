package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Manishnemade12/Intelligent-Loan-Approval-System/internal/models"
	"github.com/Manishnemade12/Intelligent-Loan-Approval-System/internal/repository"
)

// DocumentInput is the metadata of an uploaded supporting document
type DocumentInput struct {
	FileName     string `json:"file_name"`
	FileSize     int64  `json:"file_size"`
	DocumentType string `json:"document_type"`
}

// DocumentService records supporting document metadata. Registering or
// verifying a document does not rescore the application; the counts are
// picked up by the next Update.
type DocumentService struct {
	store    repository.LoanStore
	auditSvc *AuditService
	now      func() time.Time
}

func NewDocumentService(store repository.LoanStore, auditSvc *AuditService) *DocumentService {
	return &DocumentService{store: store, auditSvc: auditSvc, now: time.Now}
}

// Register attaches a new unverified document to an application
func (s *DocumentService) Register(ctx context.Context, applicationID uint, in DocumentInput, actor string) (*models.LoanDocument, error) {
	in.DocumentType = strings.ToUpper(strings.TrimSpace(in.DocumentType))
	fields := map[string]string{}
	if strings.TrimSpace(in.FileName) == "" {
		fields["file_name"] = "is required"
	}
	if in.FileSize < 0 {
		fields["file_size"] = "cannot be negative"
	}
	if !models.IsValidDocumentType(in.DocumentType) {
		fields["document_type"] = "must be one of SALARY_SLIP BANK_STATEMENT ID_PROOF ADDRESS_PROOF OTHER"
	}
	if len(fields) > 0 {
		return nil, failed("register_document", &ValidationError{Fields: fields})
	}

	var (
		app   *models.LoanApplication
		doc   *models.LoanDocument
		entry *models.AuditEntry
	)
	err := s.store.Transaction(ctx, func(tx repository.LoanStore) error {
		var err error
		app, err = tx.LoadApplication(ctx, applicationID)
		if err != nil {
			return err
		}

		doc = &models.LoanDocument{
			LoanApplicationID: app.ID,
			FileName:          strings.TrimSpace(in.FileName),
			FileSize:          in.FileSize,
			DocumentType:      in.DocumentType,
			UploadedBy:        actor,
		}
		if err := tx.CreateDocument(ctx, doc); err != nil {
			return fmt.Errorf("failed to create document: %w", err)
		}

		entry, err = s.auditSvc.Append(ctx, tx, app.ID, models.AuditDocumentAdded, actor,
			fmt.Sprintf("Document added: %s (%s)", doc.FileName, doc.DocumentType))
		return err
	})
	if err != nil {
		return nil, failed("register_document", err)
	}

	committed(entry, app)
	return doc, nil
}

// Verify marks a document as verified or clears the flag again
func (s *DocumentService) Verify(ctx context.Context, documentID uint, verified bool, actor string) (*models.LoanDocument, error) {
	var (
		app   *models.LoanApplication
		doc   *models.LoanDocument
		entry *models.AuditEntry
	)
	err := s.store.Transaction(ctx, func(tx repository.LoanStore) error {
		var err error
		doc, err = tx.FindDocument(ctx, documentID)
		if err != nil {
			return err
		}
		// the owning application must still be live
		app, err = tx.LoadApplication(ctx, doc.LoanApplicationID)
		if err != nil {
			return err
		}

		doc.Verified = verified
		if verified {
			now := s.now()
			doc.VerifiedAt = &now
			doc.VerifiedBy = &actor
		} else {
			doc.VerifiedAt = nil
			doc.VerifiedBy = nil
		}
		if err := tx.SaveDocument(ctx, doc); err != nil {
			return fmt.Errorf("failed to save document: %w", err)
		}

		outcome := "verified"
		if !verified {
			outcome = "marked unverified"
		}
		entry, err = s.auditSvc.Append(ctx, tx, app.ID, models.AuditDocumentVerified, actor,
			fmt.Sprintf("Document %s %s", doc.FileName, outcome))
		return err
	})
	if err != nil {
		return nil, failed("verify_document", err)
	}

	committed(entry, app)
	return doc, nil
}

// List returns the documents of a live application
func (s *DocumentService) List(ctx context.Context, applicationID uint) ([]models.LoanDocument, error) {
	if _, err := s.store.LoadApplication(ctx, applicationID); err != nil {
		return nil, err
	}
	return s.store.ListDocuments(ctx, applicationID)
}
