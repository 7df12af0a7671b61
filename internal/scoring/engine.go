package scoring

import (
	"github.com/shopspring/decimal"

	"credit-risk-workers/internal/models"
)

const (
	DefaultScorePrecision       int32 = 4
	DefaultCreditScorePrecision int32 = 2
)

// Engine runs the full scoring pipeline: validate, compute, classify, combine
// and round. Bands come from the unrounded scores; precision only affects the
// reported values, so a score just past a band edge may be reported as the
// edge itself.
type Engine struct {
	scorePrecision       int32
	creditScorePrecision int32
}

func NewEngine(scorePrecision, creditScorePrecision int32) *Engine {
	if scorePrecision <= 0 {
		scorePrecision = DefaultScorePrecision
	}
	if creditScorePrecision <= 0 {
		creditScorePrecision = DefaultCreditScorePrecision
	}
	return &Engine{scorePrecision: scorePrecision, creditScorePrecision: creditScorePrecision}
}

var defaultEngine = NewEngine(DefaultScorePrecision, DefaultCreditScorePrecision)

// EvaluateCompany scores f with the default precision.
func EvaluateCompany(f models.CompanyFinancials) (models.CompanyPrediction, error) {
	return defaultEngine.EvaluateCompany(f)
}

// EvaluateIndividual scores f with the default precision.
func EvaluateIndividual(f models.IndividualFactors) (models.IndividualPrediction, error) {
	return defaultEngine.EvaluateIndividual(f)
}

func (e *Engine) EvaluateCompany(f models.CompanyFinancials) (models.CompanyPrediction, error) {
	if err := ValidateCompany(f); err != nil {
		return models.CompanyPrediction{}, err
	}

	z, err := AltmanZScore(f)
	if err != nil {
		return models.CompanyPrediction{}, err
	}
	t, err := TafflerTScore(f)
	if err != nil {
		return models.CompanyPrediction{}, err
	}
	// bands use the raw scores; only the reported values are rounded
	altmanLevel, err := ClassifyAltman(z)
	if err != nil {
		return models.CompanyPrediction{}, err
	}
	tafflerLevel, err := ClassifyTaffler(t)
	if err != nil {
		return models.CompanyPrediction{}, err
	}
	combined, err := Combine(altmanLevel, tafflerLevel)
	if err != nil {
		return models.CompanyPrediction{}, err
	}

	return models.CompanyPrediction{
		AltmanZScore:           Round(z, e.scorePrecision),
		AltmanRiskLevel:        altmanLevel,
		AltmanRecommendation:   Recommendation(ModelAltman, altmanLevel),
		TafflerZScore:          Round(t, e.scorePrecision),
		TafflerRiskLevel:       tafflerLevel,
		TafflerRecommendation:  Recommendation(ModelTaffler, tafflerLevel),
		CombinedRiskLevel:      combined,
		CombinedRecommendation: CombinedRecommendation(combined),
	}, nil
}

func (e *Engine) EvaluateIndividual(f models.IndividualFactors) (models.IndividualPrediction, error) {
	score, err := CreditScore(f)
	if err != nil {
		return models.IndividualPrediction{}, err
	}
	level, err := ClassifyCreditScore(score)
	if err != nil {
		return models.IndividualPrediction{}, err
	}
	return models.IndividualPrediction{
		CreditScore:    Round(score, e.creditScorePrecision),
		RiskLevel:      level,
		Recommendation: Recommendation(ModelCreditScore, level),
	}, nil
}

// Round rounds half away from zero using decimal arithmetic, so 1.17575
// becomes 1.1758 rather than suffering binary representation drift.
func Round(v float64, places int32) float64 {
	r, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return r
}
