package scoring

import (
	apperrors "credit-risk-workers/internal/common/errors"
	"credit-risk-workers/internal/models"
)

var tafflerWeights = [4]float64{0.53, 0.13, 0.18, 0.16}

// TafflerTScore computes T = 0.53*X1 + 0.13*X2 + 0.18*X3 + 0.16*X4 where
//
//	X1 = sales_profit / short_term_liabilities
//	X2 = current_assets / liabilities
//	X3 = long_term_liabilities / total_assets
//	X4 = sales / total_assets
func TafflerTScore(f models.CompanyFinancials) (float64, error) {
	if err := requireFinite(map[string]float64{
		"sales_profit":           f.SalesProfit,
		"short_term_liabilities": f.ShortTermLiabilities,
		"current_assets":         f.CurrentAssets,
		"liabilities":            f.Liabilities,
		"long_term_liabilities":  f.LongTermLiabilities,
		"total_assets":           f.TotalAssets,
		"sales":                  f.Sales,
	}); err != nil {
		return 0, err
	}

	model := string(ModelTaffler)
	terms := []struct {
		name     string
		num, den float64
	}{
		{"x1", f.SalesProfit, f.ShortTermLiabilities},
		{"x2", f.CurrentAssets, f.Liabilities},
		{"x3", f.LongTermLiabilities, f.TotalAssets},
		{"x4", f.Sales, f.TotalAssets},
	}

	var t float64
	for i, term := range terms {
		x, err := ratio(model, term.name, term.num, term.den)
		if err != nil {
			return 0, err
		}
		t += float64(tafflerWeights[i] * x) // no FMA, see AltmanZScore
	}
	if !finite(t) {
		return 0, arithmeticOverflow(ModelTaffler)
	}
	return t, nil
}

func arithmeticOverflow(m Model) error {
	return apperrors.NewArithmeticError(string(m), "score overflowed")
}
