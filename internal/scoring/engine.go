package scoring

import (
	"github.com/Manishnemade12/Intelligent-Loan-Approval-System/internal/models"
	"github.com/shopspring/decimal"
)

// Recommendation is the advisory outcome of a scoring pass. It is never
// committed to an application's status by this package.
type Recommendation string

const (
	RecommendApprove      Recommendation = "APPROVE"
	RecommendManualReview Recommendation = "MANUAL_REVIEW"
	RecommendReject       Recommendation = "REJECT"
)

// Decision thresholds on the overall score
var (
	ApproveThreshold = decimal.NewFromInt(30)
	RejectThreshold  = decimal.NewFromInt(60)
)

// DocumentCounts is the externally supplied document verification tally.
type DocumentCounts struct {
	Verified int64
	Total    int64
}

// Result is the outcome of one full scoring pass.
type Result struct {
	Factors        []models.RiskFactor
	Score          decimal.Decimal
	Recommendation Recommendation
}

// Engine walks all five calculators on every call.
type Engine struct{}

// NewEngine creates a scoring engine
func NewEngine() *Engine {
	return &Engine{}
}

// Evaluate recomputes every factor for app. DTIRatio and LTIRatio are
// written back onto app; nothing else is touched.
func (e *Engine) Evaluate(app *models.LoanApplication, docs DocumentCounts) Result {
	factors := []models.RiskFactor{
		CreditScoreFactor(app),
		DebtToIncomeFactor(app),
		EmploymentFactor(app),
		LoanToIncomeFactor(app),
		DocumentVerificationFactor(docs.Verified, docs.Total),
	}

	score := WeightedScore(factors)
	return Result{
		Factors:        factors,
		Score:          score,
		Recommendation: Recommend(score),
	}
}

// WeightedScore is round2(sum(score * weight) / 100).
func WeightedScore(factors []models.RiskFactor) decimal.Decimal {
	sum := decimal.Zero
	for _, f := range factors {
		sum = sum.Add(f.Score.Mul(f.Weight))
	}
	return sum.DivRound(hundred, places)
}

// Recommend maps an overall score to an advisory decision:
// <= 30 approve, >= 60 reject, otherwise manual review.
func Recommend(score decimal.Decimal) Recommendation {
	switch {
	case score.LessThanOrEqual(ApproveThreshold):
		return RecommendApprove
	case score.GreaterThanOrEqual(RejectThreshold):
		return RecommendReject
	default:
		return RecommendManualReview
	}
}
