package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LoanApplication is the aggregate root of the decision core. Risk factors,
// audit entries and documents are stored keyed by its ID.
type LoanApplication struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	ApplicationID string `gorm:"size:40;not null;uniqueIndex" json:"application_id"`

	// Applicant
	ApplicantName string `gorm:"not null" json:"applicant_name"`
	Email         string `gorm:"not null;index" json:"email"`
	Phone         string `gorm:"not null" json:"phone"`

	// Loan
	LoanType   string          `gorm:"size:20;not null" json:"loan_type"`
	LoanAmount decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"loan_amount"`
	LoanTerm   int             `gorm:"not null" json:"loan_term"` // months
	Purpose    string          `gorm:"type:text;not null" json:"purpose"`

	// Financial profile
	AnnualIncome       decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"annual_income"`
	MonthlyExpenses    decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"monthly_expenses"`
	CreditScore        int             `gorm:"not null" json:"credit_score"`
	ExistingDebts      decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"existing_debts"`
	EmploymentType     string          `gorm:"size:20;not null" json:"employment_type"`
	EmploymentDuration int             `gorm:"not null" json:"employment_duration"` // years
	EmployerName       *string         `json:"employer_name"`

	// Derived metrics
	DTIRatio  *decimal.Decimal `gorm:"type:decimal(7,2)" json:"dti_ratio"`
	LTIRatio  *decimal.Decimal `gorm:"type:decimal(7,2)" json:"lti_ratio"`
	RiskScore *decimal.Decimal `gorm:"type:decimal(5,2)" json:"risk_score"`

	// Workflow
	Status          string     `gorm:"size:20;not null;index" json:"status"`
	SubmittedAt     time.Time  `gorm:"not null;index" json:"submitted_at"`
	ReviewedAt      *time.Time `json:"reviewed_at"`
	ReviewedBy      *string    `json:"reviewed_by"`
	AssignedOfficer *string    `json:"assigned_officer"`
	OfficerNotes    *string    `gorm:"type:text" json:"officer_notes"`

	// Advisory narrative, opaque to the core
	AIExplanation *string    `gorm:"type:text" json:"ai_explanation"`
	AISuggestions *string    `gorm:"type:text" json:"ai_suggestions"`
	AIAnalyzedAt  *time.Time `json:"ai_analyzed_at"`

	// Version is bumped on every save and checked by the store.
	Version   int            `gorm:"not null;default:1" json:"version"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for LoanApplication
func (LoanApplication) TableName() string {
	return "loan_applications"
}

// Loan status constants
const (
	LoanStatusPending      = "PENDING"
	LoanStatusManualReview = "MANUAL_REVIEW"
	LoanStatusApproved     = "APPROVED"
	LoanStatusRejected     = "REJECTED"
)

// Loan type constants
const (
	LoanTypePersonal  = "PERSONAL"
	LoanTypeHome      = "HOME"
	LoanTypeAuto      = "AUTO"
	LoanTypeBusiness  = "BUSINESS"
	LoanTypeEducation = "EDUCATION"
)

// Employment type constants
const (
	EmploymentSalaried     = "SALARIED"
	EmploymentSelfEmployed = "SELF_EMPLOYED"
	EmploymentBusiness     = "BUSINESS"
	EmploymentRetired      = "RETIRED"
)

// IsTerminal returns true once a decision has been committed
func (a *LoanApplication) IsTerminal() bool {
	return a.Status == LoanStatusApproved || a.Status == LoanStatusRejected
}

// MayApprove returns true if the application can be approved
func (a *LoanApplication) MayApprove() bool {
	return a.Status == LoanStatusPending || a.Status == LoanStatusManualReview
}

// MayReject returns true if the application can be rejected
func (a *LoanApplication) MayReject() bool {
	return a.Status == LoanStatusPending || a.Status == LoanStatusManualReview
}

// MayRequestReview returns true if the application can be sent to manual review
func (a *LoanApplication) MayRequestReview() bool {
	return a.Status == LoanStatusPending
}

// MayAmend returns true while applicant data may still change
func (a *LoanApplication) MayAmend() bool {
	return a.Status == LoanStatusPending
}

// IsValidStatus reports whether s is one of the workflow states
func IsValidStatus(s string) bool {
	switch s {
	case LoanStatusPending, LoanStatusManualReview, LoanStatusApproved, LoanStatusRejected:
		return true
	}
	return false
}

// Clone returns a deep copy so that staged mutations never leak into a
// caller's snapshot.
func (a *LoanApplication) Clone() *LoanApplication {
	c := *a
	c.EmployerName = cloneString(a.EmployerName)
	c.ReviewedBy = cloneString(a.ReviewedBy)
	c.AssignedOfficer = cloneString(a.AssignedOfficer)
	c.OfficerNotes = cloneString(a.OfficerNotes)
	c.AIExplanation = cloneString(a.AIExplanation)
	c.AISuggestions = cloneString(a.AISuggestions)
	c.DTIRatio = cloneDecimal(a.DTIRatio)
	c.LTIRatio = cloneDecimal(a.LTIRatio)
	c.RiskScore = cloneDecimal(a.RiskScore)
	c.ReviewedAt = cloneTime(a.ReviewedAt)
	c.AIAnalyzedAt = cloneTime(a.AIAnalyzedAt)
	return &c
}

// ApplyInput replaces every mutable applicant and financial field.
func (a *LoanApplication) ApplyInput(in ApplicationInput) {
	a.ApplicantName = in.ApplicantName
	a.Email = in.Email
	a.Phone = in.Phone
	a.LoanType = in.LoanType
	a.LoanAmount = in.LoanAmount
	a.LoanTerm = in.LoanTerm
	a.Purpose = in.Purpose
	a.AnnualIncome = in.AnnualIncome
	a.MonthlyExpenses = in.MonthlyExpenses
	a.CreditScore = in.CreditScore
	a.ExistingDebts = in.ExistingDebts
	a.EmploymentType = in.EmploymentType
	a.EmploymentDuration = in.EmploymentDuration
	a.EmployerName = cloneString(in.EmployerName)
}

// ApplicationInput carries the submitted applicant and financial data.
type ApplicationInput struct {
	ApplicantName      string          `json:"applicant_name" validate:"required,min=3,max=100"`
	Email              string          `json:"email" validate:"required,email"`
	Phone              string          `json:"phone" validate:"required,numeric,len=10"`
	LoanType           string          `json:"loan_type" validate:"required,oneof=PERSONAL HOME AUTO BUSINESS EDUCATION"`
	LoanAmount         decimal.Decimal `json:"loan_amount"`
	LoanTerm           int             `json:"loan_term" validate:"min=12"`
	Purpose            string          `json:"purpose" validate:"required,min=10,max=500"`
	AnnualIncome       decimal.Decimal `json:"annual_income"`
	MonthlyExpenses    decimal.Decimal `json:"monthly_expenses"`
	CreditScore        int             `json:"credit_score" validate:"min=300,max=850"`
	ExistingDebts      decimal.Decimal `json:"existing_debts"`
	EmploymentType     string          `json:"employment_type" validate:"required,oneof=SALARIED SELF_EMPLOYED BUSINESS RETIRED"`
	EmploymentDuration int             `json:"employment_duration" validate:"min=0"`
	EmployerName       *string         `json:"employer_name"`
}

// ChangedFields lists the input fields that differ from the application.
func (a *LoanApplication) ChangedFields(in ApplicationInput) []string {
	var changed []string
	add := func(name string, differs bool) {
		if differs {
			changed = append(changed, name)
		}
	}
	add("applicant_name", a.ApplicantName != in.ApplicantName)
	add("email", a.Email != in.Email)
	add("phone", a.Phone != in.Phone)
	add("loan_type", a.LoanType != in.LoanType)
	add("loan_amount", !a.LoanAmount.Equal(in.LoanAmount))
	add("loan_term", a.LoanTerm != in.LoanTerm)
	add("purpose", a.Purpose != in.Purpose)
	add("annual_income", !a.AnnualIncome.Equal(in.AnnualIncome))
	add("monthly_expenses", !a.MonthlyExpenses.Equal(in.MonthlyExpenses))
	add("credit_score", a.CreditScore != in.CreditScore)
	add("existing_debts", !a.ExistingDebts.Equal(in.ExistingDebts))
	add("employment_type", a.EmploymentType != in.EmploymentType)
	add("employment_duration", a.EmploymentDuration != in.EmploymentDuration)
	add("employer_name", stringValue(a.EmployerName) != stringValue(in.EmployerName))
	return changed
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneDecimal(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	v := *d
	return &v
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
