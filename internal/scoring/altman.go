package scoring

import "credit-risk-workers/internal/models"

const (
	altmanIntercept    = -0.3877
	altmanCurrentCoef  = -1.0736
	altmanLeverageCoef = 0.0579
)

// AltmanZScore computes
//
//	Z = -0.3877 - 1.0736*(current_assets/current_liabilities) + 0.0579*(debt_capital/liabilities)
//
// Higher Z means higher risk in this variant.
func AltmanZScore(f models.CompanyFinancials) (float64, error) {
	if err := requireFinite(map[string]float64{
		"current_assets":      f.CurrentAssets,
		"current_liabilities": f.CurrentLiabilities,
		"debt_capital":        f.DebtCapital,
		"liabilities":         f.Liabilities,
	}); err != nil {
		return 0, err
	}

	currentRatio, err := ratio(string(ModelAltman), "current_ratio", f.CurrentAssets, f.CurrentLiabilities)
	if err != nil {
		return 0, err
	}
	leverageRatio, err := ratio(string(ModelAltman), "leverage_ratio", f.DebtCapital, f.Liabilities)
	if err != nil {
		return 0, err
	}

	// explicit conversions keep each product rounded on its own, so no fused
	// multiply-add changes the last digit across platforms
	z := altmanIntercept + float64(altmanCurrentCoef*currentRatio) + float64(altmanLeverageCoef*leverageRatio)
	if !finite(z) {
		return 0, arithmeticOverflow(ModelAltman)
	}
	return z, nil
}
