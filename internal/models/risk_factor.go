package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RiskFactor is one weighted dimension of a scoring pass. The full set of
// five is replaced on every pass.
type RiskFactor struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	LoanApplicationID uint            `gorm:"not null;index" json:"loan_application_id"`
	FactorName        string          `gorm:"size:60;not null" json:"factor_name"`
	Description       string          `gorm:"size:255" json:"description"`
	Value             decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"value"`
	Weight            decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"weight"`
	Score             decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"score"`
	Status            string          `gorm:"size:10;not null" json:"status"`
	CreatedAt         time.Time       `json:"created_at"`
}

// TableName specifies the table name for RiskFactor
func (RiskFactor) TableName() string {
	return "risk_factors"
}

// Risk factor status tiers
const (
	FactorStatusGood     = "GOOD"
	FactorStatusWarning  = "WARNING"
	FactorStatusCritical = "CRITICAL"
)
