package scoring

import (
	"fmt"

	apperrors "credit-risk-workers/internal/common/errors"
	"credit-risk-workers/internal/models"
)

// Combine returns the more severe of two bands under low < medium < high.
// It is commutative and idempotent.
func Combine(a, b models.RiskLevel) (models.RiskLevel, error) {
	for _, lvl := range []models.RiskLevel{a, b} {
		if !lvl.Valid() {
			return "", apperrors.NewFieldError("risk_level", fmt.Sprintf("unknown risk level %q", lvl))
		}
	}
	if b.Severity() > a.Severity() {
		return b, nil
	}
	return a, nil
}
