package models

import (
	"time"
)

// LoanDocument is the metadata of a supporting document. The binary itself
// lives with the file storage collaborator.
type LoanDocument struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	LoanApplicationID uint       `gorm:"not null;index" json:"loan_application_id"`
	FileName          string     `gorm:"not null" json:"file_name"`
	FileSize          int64      `gorm:"not null" json:"file_size"`
	DocumentType      string     `gorm:"size:20;not null;index" json:"document_type"`
	Verified          bool       `gorm:"not null;default:false" json:"verified"`
	VerifiedBy        *string    `json:"verified_by"`
	VerifiedAt        *time.Time `json:"verified_at"`
	UploadedBy        string     `gorm:"not null" json:"uploaded_by"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// TableName specifies the table name for LoanDocument
func (LoanDocument) TableName() string {
	return "loan_documents"
}

// Document type constants
const (
	DocumentSalarySlip    = "SALARY_SLIP"
	DocumentBankStatement = "BANK_STATEMENT"
	DocumentIDProof       = "ID_PROOF"
	DocumentAddressProof  = "ADDRESS_PROOF"
	DocumentOther         = "OTHER"
)

// IsValidDocumentType reports whether t is a known document type
func IsValidDocumentType(t string) bool {
	switch t {
	case DocumentSalarySlip, DocumentBankStatement, DocumentIDProof, DocumentAddressProof, DocumentOther:
		return true
	}
	return false
}
