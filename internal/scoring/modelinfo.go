package scoring

// ModelInfo describes one scoring model for API consumers.
type ModelInfo struct {
	Name           string            `json:"name"`
	Kind           string            `json:"kind"`
	Description    string            `json:"description"`
	Formula        string            `json:"formula"`
	RequiredFields []string          `json:"required_fields"`
	OptionalFields []string          `json:"optional_fields,omitempty"`
	Bands          map[string]string `json:"bands"`
}

// Models lists the models in the order they are applied.
func Models() []ModelInfo {
	return []ModelInfo{
		{
			Name:        string(ModelAltman),
			Kind:        "company",
			Description: "Altman-style two-factor Z-score built from liquidity and leverage ratios",
			Formula:     "Z = -0.3877 - 1.0736*(current_assets/current_liabilities) + 0.0579*(debt_capital/liabilities)",
			RequiredFields: []string{
				"current_assets", "current_liabilities", "debt_capital", "liabilities",
			},
			Bands: map[string]string{
				"low":    "Z < -0.5",
				"medium": "-0.5 <= Z < 0",
				"high":   "Z >= 0",
			},
		},
		{
			Name:        string(ModelTaffler),
			Kind:        "company",
			Description: "Taffler-style four-factor T-score over profitability, liquidity and asset turnover",
			Formula: "T = 0.53*(sales_profit/short_term_liabilities) + 0.13*(current_assets/liabilities) + " +
				"0.18*(long_term_liabilities/total_assets) + 0.16*(sales/total_assets)",
			RequiredFields: []string{
				"sales_profit", "short_term_liabilities", "current_assets", "liabilities",
				"long_term_liabilities", "total_assets", "sales",
			},
			Bands: map[string]string{
				"low":    "T > 0.3",
				"medium": "0.2 < T <= 0.3",
				"high":   "T <= 0.2",
			},
		},
		{
			Name:        string(ModelCreditScore),
			Kind:        "individual",
			Description: "Bounded 300-850 credit score from debt-service capacity, history, collateral, tenure and age",
			Formula: "300 + 250*capacity - 100*deficit + 150*history + 60*collateral + " +
				"60*tenure + 30*age_factor - 50*burden, clamped to [300, 850]",
			RequiredFields: []string{
				"monthly_income", "monthly_expenses", "credit_amount", "credit_history_score", "age",
			},
			OptionalFields: []string{"has_collateral", "employment_years"},
			Bands: map[string]string{
				"low":    "score > 700",
				"medium": "500 < score <= 700",
				"high":   "score <= 500",
			},
		},
	}
}
