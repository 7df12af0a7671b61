package scoring

import (
	"fmt"
	"math"
	"sort"

	apperrors "credit-risk-workers/internal/common/errors"
	"credit-risk-workers/internal/models"
)

// Model identifies which band table a raw score is classified against.
type Model string

const (
	ModelAltman      Model = "altman"
	ModelTaffler     Model = "taffler"
	ModelCreditScore Model = "credit_score"
)

// Band thresholds. All bands are half-open exactly as written next to each
// classifier.
const (
	AltmanLowBelow     = -0.5
	AltmanHighFrom     = 0.0
	TafflerLowAbove    = 0.3
	TafflerMediumAbove = 0.2
	CreditLowAbove     = 700.0
	CreditMediumAbove  = 500.0
)

// ClassifyAltman: Z < -0.5 low, -0.5 <= Z < 0 medium, Z >= 0 high.
func ClassifyAltman(z float64) (models.RiskLevel, error) {
	if err := rejectNaN(ModelAltman, z); err != nil {
		return "", err
	}
	switch {
	case z < AltmanLowBelow:
		return models.RiskLow, nil
	case z < AltmanHighFrom:
		return models.RiskMedium, nil
	default:
		return models.RiskHigh, nil
	}
}

// ClassifyTaffler: T > 0.3 low, 0.2 < T <= 0.3 medium, T <= 0.2 high.
func ClassifyTaffler(t float64) (models.RiskLevel, error) {
	if err := rejectNaN(ModelTaffler, t); err != nil {
		return "", err
	}
	switch {
	case t > TafflerLowAbove:
		return models.RiskLow, nil
	case t > TafflerMediumAbove:
		return models.RiskMedium, nil
	default:
		return models.RiskHigh, nil
	}
}

// ClassifyCreditScore: s > 700 low, 500 < s <= 700 medium, s <= 500 high.
func ClassifyCreditScore(s float64) (models.RiskLevel, error) {
	if err := rejectNaN(ModelCreditScore, s); err != nil {
		return "", err
	}
	switch {
	case s > CreditLowAbove:
		return models.RiskLow, nil
	case s > CreditMediumAbove:
		return models.RiskMedium, nil
	default:
		return models.RiskHigh, nil
	}
}

// Classify dispatches on model identity.
func Classify(m Model, score float64) (models.RiskLevel, error) {
	switch m {
	case ModelAltman:
		return ClassifyAltman(score)
	case ModelTaffler:
		return ClassifyTaffler(score)
	case ModelCreditScore:
		return ClassifyCreditScore(score)
	default:
		return "", apperrors.NewFieldError("model", fmt.Sprintf("unknown model %q", m))
	}
}

func rejectNaN(m Model, v float64) error {
	if math.IsNaN(v) {
		return apperrors.NewFieldError(string(m), "score is not a number")
	}
	return nil
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
