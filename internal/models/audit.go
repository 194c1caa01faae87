package models

import (
	"time"
)

// AuditEntry is an immutable record of one action taken against one
// application. Entries are only ever inserted.
type AuditEntry struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	LoanApplicationID uint      `gorm:"not null;index" json:"loan_application_id"`
	Action            string    `gorm:"size:50;not null" json:"action"`
	PerformedBy       string    `gorm:"size:255;not null" json:"performed_by"`
	Notes             string    `gorm:"type:text" json:"notes"`
	CreatedAt         time.Time `gorm:"not null;index" json:"created_at"`
}

// TableName specifies the table name for AuditEntry
func (AuditEntry) TableName() string {
	return "audit_entries"
}

// Audit action codes
const (
	AuditApplicationCreated    = "APPLICATION_CREATED"
	AuditApplicationUpdated    = "APPLICATION_UPDATED"
	AuditApplicationDeleted    = "APPLICATION_DELETED"
	AuditApplicationApproved   = "APPLICATION_APPROVED"
	AuditApplicationRejected   = "APPLICATION_REJECTED"
	AuditManualReviewRequested = "MANUAL_REVIEW_REQUESTED"
	AuditNotesAdded            = "NOTES_ADDED"
	AuditDocumentAdded         = "DOCUMENT_ADDED"
	AuditDocumentVerified      = "DOCUMENT_VERIFIED"
	AuditAdvisoryUpdated       = "ADVISORY_UPDATED"
)
