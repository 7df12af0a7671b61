package scoring

import (
	apperrors "credit-risk-workers/internal/common/errors"
	"credit-risk-workers/internal/models"
)

const (
	MinCreditScore = 300.0
	MaxCreditScore = 850.0

	MinAge = 18
	MaxAge = 100
)

// Score weights. Each factor is normalised to [0,1] before weighting.
const (
	weightCapacity   = 250.0
	weightDeficit    = 100.0
	weightHistory    = 150.0
	weightCollateral = 60.0
	weightTenure     = 60.0
	weightAge        = 30.0
	weightBurden     = 50.0

	tenureSaturationYears = 10.0
)

// CreditScore maps individual factors onto [300, 850]:
//
//	surplus   = income - expenses
//	capacity  = clamp(12*surplus/credit_amount, 0, 1)
//	deficit   = clamp(-surplus/income, 0, 1)
//	burden    = clamp(credit_amount/(12*income), 0, 2) / 2
//	tenure    = min(employment_years, 10) / 10
//	ageFactor = 1 for 25..60, 0.5 for 21..24 and 61..70, 0 otherwise
//	score     = 300 + 250*capacity - 100*deficit + 150*history + 60*collateral
//	            + 60*tenure + 30*ageFactor - 50*burden
//
// The score never decreases as history or surplus grow and never increases as
// the credit amount grows.
func CreditScore(f models.IndividualFactors) (float64, error) {
	if err := ValidateIndividual(f); err != nil {
		return 0, err
	}

	model := string(ModelCreditScore)
	surplus := f.MonthlyIncome - f.MonthlyExpenses

	capacityRaw, err := ratio(model, "capacity", 12*surplus, f.CreditAmount)
	if err != nil {
		return 0, err
	}
	deficitRaw, err := ratio(model, "deficit", -surplus, f.MonthlyIncome)
	if err != nil {
		return 0, err
	}
	burdenRaw, err := ratio(model, "burden", f.CreditAmount, 12*f.MonthlyIncome)
	if err != nil {
		return 0, err
	}

	capacity := clamp(capacityRaw, 0, 1)
	deficit := clamp(deficitRaw, 0, 1)
	burden := clamp(burdenRaw, 0, 2) / 2
	tenure := clamp(f.EmploymentYears, 0, tenureSaturationYears) / tenureSaturationYears

	collateral := 0.0
	if f.HasCollateral {
		collateral = 1
	}

	score := MinCreditScore +
		weightCapacity*capacity -
		weightDeficit*deficit +
		weightHistory*f.CreditHistoryScore +
		weightCollateral*collateral +
		weightTenure*tenure +
		weightAge*ageFactor(f.Age) -
		weightBurden*burden

	return clamp(score, MinCreditScore, MaxCreditScore), nil
}

// ageFactor scores very young and older borrowers more conservatively.
func ageFactor(age int) float64 {
	switch {
	case age >= 25 && age <= 60:
		return 1
	case age >= 21 && age <= 70:
		return 0.5
	default:
		return 0
	}
}

// ValidateIndividual checks the documented input domain and reports every
// offending field at once.
func ValidateIndividual(f models.IndividualFactors) error {
	if err := requireFinite(map[string]float64{
		"monthly_income":       f.MonthlyIncome,
		"monthly_expenses":     f.MonthlyExpenses,
		"credit_amount":        f.CreditAmount,
		"credit_history_score": f.CreditHistoryScore,
		"employment_years":     f.EmploymentYears,
	}); err != nil {
		return err
	}

	var v []apperrors.FieldViolation
	positive := []struct {
		name  string
		value float64
	}{
		{"monthly_income", f.MonthlyIncome},
		{"monthly_expenses", f.MonthlyExpenses},
		{"credit_amount", f.CreditAmount},
	}
	for _, p := range positive {
		if p.value <= 0 {
			v = append(v, apperrors.FieldViolation{Field: p.name, Message: "must be greater than 0"})
		}
	}
	if f.CreditHistoryScore < 0 || f.CreditHistoryScore > 1 {
		v = append(v, apperrors.FieldViolation{Field: "credit_history_score", Message: "must be between 0 and 1"})
	}
	if f.EmploymentYears < 0 {
		v = append(v, apperrors.FieldViolation{Field: "employment_years", Message: "must not be negative"})
	}
	if f.Age < MinAge || f.Age > MaxAge {
		v = append(v, apperrors.FieldViolation{Field: "age", Message: "must be between 18 and 100"})
	}

	if len(v) > 0 {
		return apperrors.NewValidationError("input validation failed", v...)
	}
	return nil
}
