// internal/models/assessment.go
package models

import "time"

type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Severity orders levels low < medium < high. Unknown levels return 0.
func (r RiskLevel) Severity() int {
	switch r {
	case RiskLow:
		return 1
	case RiskMedium:
		return 2
	case RiskHigh:
		return 3
	default:
		return 0
	}
}

func (r RiskLevel) Valid() bool {
	return r.Severity() > 0
}

// BorrowerKind selects which assessment table an operation targets.
type BorrowerKind string

const (
	KindCompany    BorrowerKind = "company"
	KindIndividual BorrowerKind = "individual"
)

func (k BorrowerKind) Valid() bool {
	return k == KindCompany || k == KindIndividual
}

// CompanyFinancials are the raw figures submitted for a company.
type CompanyFinancials struct {
	CurrentAssets        float64 `json:"current_assets"`
	CurrentLiabilities   float64 `json:"current_liabilities"`
	DebtCapital          float64 `json:"debt_capital"`
	Liabilities          float64 `json:"liabilities"`
	SalesProfit          float64 `json:"sales_profit"`
	ShortTermLiabilities float64 `json:"short_term_liabilities"`
	LongTermLiabilities  float64 `json:"long_term_liabilities"`
	TotalAssets          float64 `json:"total_assets"`
	Sales                float64 `json:"sales"`
}

// CompanyPrediction holds the derived values for one company submission.
type CompanyPrediction struct {
	AltmanZScore           float64   `json:"altman_z_score"`
	AltmanRiskLevel        RiskLevel `json:"altman_risk_level"`
	AltmanRecommendation   string    `json:"altman_recommendation"`
	TafflerZScore          float64   `json:"taffler_z_score"`
	TafflerRiskLevel       RiskLevel `json:"taffler_risk_level"`
	TafflerRecommendation  string    `json:"taffler_recommendation"`
	CombinedRiskLevel      RiskLevel `json:"combined_risk_level"`
	CombinedRecommendation string    `json:"combined_recommendation"`
}

type CompanyAssessment struct {
	ID             int64     `json:"id"`
	CompanyName    string    `json:"company_name"`
	AssessmentDate Date      `json:"assessment_date"`
	CreatedAt      time.Time `json:"created_at"`
	CompanyFinancials
	CompanyPrediction
}

// CompanySummary is the listing row shape.
type CompanySummary struct {
	ID                int64     `json:"id"`
	CompanyName       string    `json:"company_name"`
	AssessmentDate    Date      `json:"assessment_date"`
	AltmanZScore      float64   `json:"altman_z_score"`
	TafflerZScore     float64   `json:"taffler_z_score"`
	CombinedRiskLevel RiskLevel `json:"combined_risk_level"`
	TotalAssets       float64   `json:"total_assets"`
	Liabilities       float64   `json:"liabilities"`
	Sales             float64   `json:"sales"`
}

func (a *CompanyAssessment) Summary() CompanySummary {
	return CompanySummary{
		ID:                a.ID,
		CompanyName:       a.CompanyName,
		AssessmentDate:    a.AssessmentDate,
		AltmanZScore:      a.AltmanZScore,
		TafflerZScore:     a.TafflerZScore,
		CombinedRiskLevel: a.CombinedRiskLevel,
		TotalAssets:       a.TotalAssets,
		Liabilities:       a.Liabilities,
		Sales:             a.Sales,
	}
}

// IndividualFactors are the raw personal and financial inputs for a borrower.
type IndividualFactors struct {
	MonthlyIncome      float64 `json:"monthly_income"`
	MonthlyExpenses    float64 `json:"monthly_expenses"`
	CreditAmount       float64 `json:"credit_amount"`
	CreditHistoryScore float64 `json:"credit_history_score"`
	HasCollateral      Flag    `json:"has_collateral"`
	EmploymentYears    float64 `json:"employment_years"`
	Age                int     `json:"age"`
}

type IndividualPrediction struct {
	CreditScore    float64   `json:"credit_score"`
	RiskLevel      RiskLevel `json:"risk_level"`
	Recommendation string    `json:"recommendation"`
}

type IndividualAssessment struct {
	ID             int64     `json:"id"`
	FullName       string    `json:"full_name"`
	AssessmentDate Date      `json:"assessment_date"`
	CreatedAt      time.Time `json:"created_at"`
	IndividualFactors
	IndividualPrediction
}

type IndividualSummary struct {
	ID             int64     `json:"id"`
	FullName       string    `json:"full_name"`
	AssessmentDate Date      `json:"assessment_date"`
	CreditScore    float64   `json:"credit_score"`
	RiskLevel      RiskLevel `json:"risk_level"`
	MonthlyIncome  float64   `json:"monthly_income"`
	CreditAmount   float64   `json:"credit_amount"`
	Age            int       `json:"age"`
}

func (a *IndividualAssessment) Summary() IndividualSummary {
	return IndividualSummary{
		ID:             a.ID,
		FullName:       a.FullName,
		AssessmentDate: a.AssessmentDate,
		CreditScore:    a.CreditScore,
		RiskLevel:      a.RiskLevel,
		MonthlyIncome:  a.MonthlyIncome,
		CreditAmount:   a.CreditAmount,
		Age:            a.Age,
	}
}
