// Package scoring computes the five weighted risk factors of a loan
// application and combines them into an overall score and an advisory
// recommendation. Every function here is pure apart from the DTI and LTI
// write-back onto the application.
package scoring

import (
	"github.com/Manishnemade12/Intelligent-Loan-Approval-System/internal/models"
	"github.com/shopspring/decimal"
)

// Factor names
const (
	FactorCreditScore          = "Credit Score"
	FactorDebtToIncome         = "Debt-to-Income Ratio"
	FactorEmploymentStability  = "Employment Stability"
	FactorLoanToIncome         = "Loan-to-Income Ratio"
	FactorDocumentVerification = "Document Verification"
)

// Weights as percentages; they sum to 100.
var (
	WeightCreditScore          = decimal.NewFromInt(30)
	WeightDebtToIncome         = decimal.NewFromInt(25)
	WeightEmploymentStability  = decimal.NewFromInt(20)
	WeightLoanToIncome         = decimal.NewFromInt(15)
	WeightDocumentVerification = decimal.NewFromInt(10)
)

var (
	zero    = decimal.Zero
	two     = decimal.NewFromInt(2)
	twelve  = decimal.NewFromInt(12)
	hundred = decimal.NewFromInt(100)

	// ratioCeiling is the forced ratio when income is zero.
	ratioCeiling = decimal.NewFromInt(100)
)

const places = 2

// CreditScoreFactor maps 300..850 linearly onto 0..100.
// GOOD >= 720, CRITICAL < 650.
func CreditScoreFactor(app *models.LoanApplication) models.RiskFactor {
	cs := app.CreditScore
	raw := decimal.NewFromInt(int64(cs - 300)).Mul(hundred)
	score := clamp(raw.DivRound(decimal.NewFromInt(550), places))

	status := models.FactorStatusWarning
	switch {
	case cs >= 720:
		status = models.FactorStatusGood
	case cs < 650:
		status = models.FactorStatusCritical
	}

	return models.RiskFactor{
		FactorName:  FactorCreditScore,
		Description: "Applicant's credit score - higher is better",
		Value:       decimal.NewFromInt(int64(cs)).Round(places),
		Weight:      WeightCreditScore.Round(places),
		Score:       score,
		Status:      status,
	}
}

// DebtToIncomeFactor computes the DTI percentage from existing debt plus
// the new installment, writes it to app.DTIRatio and scores 100 - 2*DTI.
// GOOD <= 30, CRITICAL > 43.
func DebtToIncomeFactor(app *models.LoanApplication) models.RiskFactor {
	dti := DebtToIncomeRatio(app)
	app.DTIRatio = &dti

	score := clamp(hundred.Sub(dti.Mul(two)).Round(places))

	status := models.FactorStatusWarning
	switch {
	case dti.LessThanOrEqual(decimal.NewFromInt(30)):
		status = models.FactorStatusGood
	case dti.GreaterThan(decimal.NewFromInt(43)):
		status = models.FactorStatusCritical
	}

	return models.RiskFactor{
		FactorName:  FactorDebtToIncome,
		Description: "Percentage of income needed to cover existing debts",
		Value:       dti,
		Weight:      WeightDebtToIncome.Round(places),
		Score:       score,
		Status:      status,
	}
}

// DebtToIncomeRatio returns the monthly debt obligations as a percentage of
// monthly income. Zero income yields the ceiling ratio.
func DebtToIncomeRatio(app *models.LoanApplication) decimal.Decimal {
	monthlyIncome := app.AnnualIncome.DivRound(twelve, places)
	if !monthlyIncome.IsPositive() {
		return ratioCeiling.Round(places)
	}

	monthlyDebt := app.ExistingDebts.DivRound(twelve, places)
	total := monthlyDebt.Add(Installment(app))

	return total.DivRound(monthlyIncome, places).Mul(hundred).Round(places)
}

// Installment is the new loan's monthly amount. A non-positive term is
// treated as a single installment.
func Installment(app *models.LoanApplication) decimal.Decimal {
	if app.LoanTerm <= 0 {
		return app.LoanAmount.Round(places)
	}
	return app.LoanAmount.DivRound(decimal.NewFromInt(int64(app.LoanTerm)), places)
}

// EmploymentFactor scores 20 points per year, capped at 100.
// GOOD >= 3 years, CRITICAL < 1 year.
func EmploymentFactor(app *models.LoanApplication) models.RiskFactor {
	years := app.EmploymentDuration
	score := clamp(decimal.NewFromInt(int64(years) * 20).Round(places))

	status := models.FactorStatusWarning
	switch {
	case years >= 3:
		status = models.FactorStatusGood
	case years < 1:
		status = models.FactorStatusCritical
	}

	return models.RiskFactor{
		FactorName:  FactorEmploymentStability,
		Description: "Years at current employment - longer is better",
		Value:       decimal.NewFromInt(int64(years)).Round(places),
		Weight:      WeightEmploymentStability.Round(places),
		Score:       score,
		Status:      status,
	}
}

// LoanToIncomeFactor computes loan/annual income, writes it to
// app.LTIRatio and scores 100 - 25*LTI. GOOD <= 3x, CRITICAL > 5x.
func LoanToIncomeFactor(app *models.LoanApplication) models.RiskFactor {
	lti := LoanToIncomeRatio(app)
	app.LTIRatio = &lti

	score := clamp(hundred.Sub(lti.Mul(decimal.NewFromInt(25))).Round(places))

	status := models.FactorStatusWarning
	switch {
	case lti.LessThanOrEqual(decimal.NewFromInt(3)):
		status = models.FactorStatusGood
	case lti.GreaterThan(decimal.NewFromInt(5)):
		status = models.FactorStatusCritical
	}

	return models.RiskFactor{
		FactorName:  FactorLoanToIncome,
		Description: "Loan amount relative to annual income - lower is better",
		Value:       lti,
		Weight:      WeightLoanToIncome.Round(places),
		Score:       score,
		Status:      status,
	}
}

// LoanToIncomeRatio returns loan amount over annual income. Zero income
// yields the ceiling ratio.
func LoanToIncomeRatio(app *models.LoanApplication) decimal.Decimal {
	if !app.AnnualIncome.IsPositive() {
		return ratioCeiling.Round(places)
	}
	return app.LoanAmount.DivRound(app.AnnualIncome, places)
}

// DocumentVerificationFactor scores the verified share of documents.
// GOOD when at least one exists and all are verified, CRITICAL when fewer
// than half are verified.
func DocumentVerificationFactor(verified, total int64) models.RiskFactor {
	score := zero.Round(places)
	if total > 0 {
		score = clamp(decimal.NewFromInt(verified).
			DivRound(decimal.NewFromInt(total), places).
			Mul(hundred).Round(places))
	}

	status := models.FactorStatusWarning
	switch {
	case total > 0 && verified == total:
		status = models.FactorStatusGood
	case verified*2 < total:
		status = models.FactorStatusCritical
	}

	return models.RiskFactor{
		FactorName:  FactorDocumentVerification,
		Description: "Percentage of documents verified",
		Value:       score,
		Weight:      WeightDocumentVerification.Round(places),
		Score:       score,
		Status:      status,
	}
}

func clamp(d decimal.Decimal) decimal.Decimal {
	if d.LessThan(zero) {
		return zero.Round(places)
	}
	if d.GreaterThan(hundred) {
		return hundred.Round(places)
	}
	return d
}
