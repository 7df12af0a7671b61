package scoring

import "credit-risk-workers/internal/models"

var altmanRecommendations = map[models.RiskLevel]string{
	models.RiskLow:    "Low bankruptcy risk. The company is in the safe zone.",
	models.RiskMedium: "Moderate bankruptcy risk. The company is in the grey zone and needs additional monitoring.",
	models.RiskHigh:   "High bankruptcy risk. The company is in the distress zone and urgent measures are required.",
}

var tafflerRecommendations = map[models.RiskLevel]string{
	models.RiskLow:    "Low bankruptcy risk. The company's financial position is stable.",
	models.RiskMedium: "Moderate bankruptcy risk. Financial indicators need close monitoring.",
	models.RiskHigh:   "High bankruptcy risk. The company's financial position is critical.",
}

var combinedRecommendations = map[models.RiskLevel]string{
	models.RiskLow: "Both models indicate low bankruptcy risk. The company is financially stable.",
	models.RiskMedium: "The models indicate a moderate level of risk. Monitor financial indicators regularly " +
		"and take steps to improve the financial position.",
	models.RiskHigh: "The models indicate a high risk of bankruptcy. Urgent measures are needed " +
		"to stabilise the company's financial position.",
}

var creditRecommendations = map[models.RiskLevel]string{
	models.RiskLow: "Low credit risk. The borrower has good solvency and credit history. " +
		"The loan can be approved on favourable terms.",
	models.RiskMedium: "Medium credit risk. The borrower's solvency is acceptable. " +
		"Additional checks are advised, possibly with a higher rate or a collateral requirement.",
	models.RiskHigh: "High credit risk. The borrower has low solvency or a poor credit history. " +
		"Decline the loan or require substantial collateral and a higher rate.",
}

// Recommendation returns the fixed advice text for a model and band.
func Recommendation(m Model, level models.RiskLevel) string {
	switch m {
	case ModelAltman:
		return altmanRecommendations[level]
	case ModelTaffler:
		return tafflerRecommendations[level]
	case ModelCreditScore:
		return creditRecommendations[level]
	default:
		return ""
	}
}

// CombinedRecommendation is chosen by the combined band alone, independently
// of the per-model texts.
func CombinedRecommendation(level models.RiskLevel) string {
	return combinedRecommendations[level]
}
