package scoring

import (
	apperrors "credit-risk-workers/internal/common/errors"
	"credit-risk-workers/internal/models"
)

// ValidateCompany requires total_assets, liabilities, current_liabilities and
// short_term_liabilities to be positive. Sales profit may be negative; the other
// figures may be zero but not negative.
func ValidateCompany(f models.CompanyFinancials) error {
	if err := requireFinite(companyFields(f)); err != nil {
		return err
	}

	var v []apperrors.FieldViolation
	for _, p := range []struct {
		name  string
		value float64
	}{
		{"total_assets", f.TotalAssets},
		{"liabilities", f.Liabilities},
		{"current_liabilities", f.CurrentLiabilities},
		{"short_term_liabilities", f.ShortTermLiabilities},
	} {
		if p.value <= 0 {
			v = append(v, apperrors.FieldViolation{Field: p.name, Message: "must be greater than 0"})
		}
	}
	for _, p := range []struct {
		name  string
		value float64
	}{
		{"current_assets", f.CurrentAssets},
		{"debt_capital", f.DebtCapital},
		{"long_term_liabilities", f.LongTermLiabilities},
		{"sales", f.Sales},
	} {
		if p.value < 0 {
			v = append(v, apperrors.FieldViolation{Field: p.name, Message: "must not be negative"})
		}
	}

	if len(v) > 0 {
		return apperrors.NewValidationError("input validation failed", v...)
	}
	return nil
}

func companyFields(f models.CompanyFinancials) map[string]float64 {
	return map[string]float64{
		"current_assets":         f.CurrentAssets,
		"current_liabilities":    f.CurrentLiabilities,
		"debt_capital":           f.DebtCapital,
		"liabilities":            f.Liabilities,
		"sales_profit":           f.SalesProfit,
		"short_term_liabilities": f.ShortTermLiabilities,
		"long_term_liabilities":  f.LongTermLiabilities,
		"total_assets":           f.TotalAssets,
		"sales":                  f.Sales,
	}
}
