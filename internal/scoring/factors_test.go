package scoring

import (
	"testing"

	"github.com/Manishnemade12/Intelligent-Loan-Approval-System/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sampleApplication() *models.LoanApplication {
	return &models.LoanApplication{
		LoanAmount:         dec("50000"),
		LoanTerm:           24,
		AnnualIncome:       dec("600000"),
		MonthlyExpenses:    dec("20000"),
		CreditScore:        750,
		ExistingDebts:      dec("100000"),
		EmploymentDuration: 5,
	}
}

func TestCreditScoreFactor(t *testing.T) {
	tests := []struct {
		name   string
		score  int
		want   string
		status string
	}{
		{"Floor", 300, "0.00", models.FactorStatusCritical},
		{"Ceiling", 850, "100.00", models.FactorStatusGood},
		{"Good boundary", 720, "76.36", models.FactorStatusGood},
		{"Just below good", 719, "76.18", models.FactorStatusWarning},
		{"Warning boundary", 650, "63.64", models.FactorStatusWarning},
		{"Critical", 649, "63.45", models.FactorStatusCritical},
		{"Sample", 750, "81.82", models.FactorStatusGood},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := sampleApplication()
			app.CreditScore = tt.score

			f := CreditScoreFactor(app)
			assert.Equal(t, tt.want, f.Score.StringFixed(2))
			assert.Equal(t, tt.status, f.Status)
			assert.Equal(t, "30.00", f.Weight.StringFixed(2))
			assert.Equal(t, FactorCreditScore, f.FactorName)
		})
	}
}

func TestDebtToIncomeFactor(t *testing.T) {
	tests := []struct {
		name     string
		income   string
		debts    string
		amount   string
		term     int
		wantDTI  string
		wantScor string
		status   string
	}{
		{"Sample", "600000", "100000", "50000", 24, "21.00", "58.00", models.FactorStatusGood},
		{"Good boundary", "120000", "0", "3000", 1, "30.00", "40.00", models.FactorStatusGood},
		{"Warning upper boundary", "120000", "0", "4300", 1, "43.00", "14.00", models.FactorStatusWarning},
		{"Critical", "120000", "0", "4400", 1, "44.00", "12.00", models.FactorStatusCritical},
		{"Zero income forces ceiling", "0", "1000", "5000", 12, "100.00", "0.00", models.FactorStatusCritical},
		{"Non-positive term is one installment", "120000", "0", "1000", 0, "10.00", "80.00", models.FactorStatusGood},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := sampleApplication()
			app.AnnualIncome = dec(tt.income)
			app.ExistingDebts = dec(tt.debts)
			app.LoanAmount = dec(tt.amount)
			app.LoanTerm = tt.term

			f := DebtToIncomeFactor(app)
			assert.Equal(t, tt.wantDTI, f.Value.StringFixed(2))
			assert.Equal(t, tt.wantScor, f.Score.StringFixed(2))
			assert.Equal(t, tt.status, f.Status)

			require.NotNil(t, app.DTIRatio)
			assert.True(t, app.DTIRatio.Equal(f.Value))
		})
	}
}

func TestEmploymentFactor(t *testing.T) {
	tests := []struct {
		years  int
		want   string
		status string
	}{
		{0, "0.00", models.FactorStatusCritical},
		{1, "20.00", models.FactorStatusWarning},
		{2, "40.00", models.FactorStatusWarning},
		{3, "60.00", models.FactorStatusGood},
		{5, "100.00", models.FactorStatusGood},
		{12, "100.00", models.FactorStatusGood},
	}

	for _, tt := range tests {
		app := sampleApplication()
		app.EmploymentDuration = tt.years

		f := EmploymentFactor(app)
		assert.Equal(t, tt.want, f.Score.StringFixed(2), "years=%d", tt.years)
		assert.Equal(t, tt.status, f.Status, "years=%d", tt.years)
	}
}

func TestLoanToIncomeFactor(t *testing.T) {
	tests := []struct {
		name    string
		income  string
		amount  string
		wantLTI string
		want    string
		status  string
	}{
		{"Sample", "600000", "50000", "0.08", "98.00", models.FactorStatusGood},
		{"Good boundary", "100000", "300000", "3.00", "25.00", models.FactorStatusGood},
		{"Warning boundary", "100000", "500000", "5.00", "0.00", models.FactorStatusWarning},
		{"Critical", "100000", "510000", "5.10", "0.00", models.FactorStatusCritical},
		{"Zero income forces ceiling", "0", "1000", "100.00", "0.00", models.FactorStatusCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := sampleApplication()
			app.AnnualIncome = dec(tt.income)
			app.LoanAmount = dec(tt.amount)

			f := LoanToIncomeFactor(app)
			assert.Equal(t, tt.wantLTI, f.Value.StringFixed(2))
			assert.Equal(t, tt.want, f.Score.StringFixed(2))
			assert.Equal(t, tt.status, f.Status)

			require.NotNil(t, app.LTIRatio)
			assert.Equal(t, tt.wantLTI, app.LTIRatio.StringFixed(2))
		})
	}
}

func TestDocumentVerificationFactor(t *testing.T) {
	tests := []struct {
		name     string
		verified int64
		total    int64
		want     string
		status   string
	}{
		{"No documents", 0, 0, "0.00", models.FactorStatusWarning},
		{"All verified", 2, 2, "100.00", models.FactorStatusGood},
		{"Half verified", 1, 2, "50.00", models.FactorStatusWarning},
		{"Two of three", 2, 3, "67.00", models.FactorStatusWarning},
		{"One of three", 1, 3, "33.00", models.FactorStatusCritical},
		{"None verified", 0, 4, "0.00", models.FactorStatusCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := DocumentVerificationFactor(tt.verified, tt.total)
			assert.Equal(t, tt.want, f.Score.StringFixed(2))
			assert.Equal(t, tt.status, f.Status)
			assert.Equal(t, "10.00", f.Weight.StringFixed(2))
		})
	}
}

func TestCreditScoreFactor_Monotonic(t *testing.T) {
	app := sampleApplication()
	prev := decimal.NewFromInt(-1)
	for cs := 300; cs <= 850; cs++ {
		app.CreditScore = cs
		f := CreditScoreFactor(app)
		assert.True(t, f.Score.GreaterThanOrEqual(prev), "credit score %d decreased the factor", cs)
		prev = f.Score
	}
}

func TestDebtToIncomeFactor_MonotonicInDebt(t *testing.T) {
	app := sampleApplication()
	prev := decimal.NewFromInt(101)
	for debt := int64(0); debt <= 1_000_000; debt += 5_000 {
		app.ExistingDebts = decimal.NewFromInt(debt)
		f := DebtToIncomeFactor(app)
		assert.True(t, f.Score.LessThanOrEqual(prev), "debt %d increased the factor", debt)
		prev = f.Score
	}
}
