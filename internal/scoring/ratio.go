package scoring

import (
	"math"

	apperrors "credit-risk-workers/internal/common/errors"
)

// ratio divides num by den, refusing a zero denominator and non-finite results.
func ratio(model, name string, num, den float64) (float64, error) {
	if den == 0 {
		return 0, apperrors.NewArithmeticError(model, name+" has a zero denominator")
	}
	r := num / den
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0, apperrors.NewArithmeticError(model, name+" is not finite")
	}
	return r, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// requireFinite rejects NaN and infinite inputs as a validation failure.
func requireFinite(fields map[string]float64) error {
	var violations []apperrors.FieldViolation
	for _, name := range sortedKeys(fields) {
		if !finite(fields[name]) {
			violations = append(violations, apperrors.FieldViolation{Field: name, Message: "must be a finite number"})
		}
	}
	if len(violations) > 0 {
		return apperrors.NewValidationError("input validation failed", violations...)
	}
	return nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
