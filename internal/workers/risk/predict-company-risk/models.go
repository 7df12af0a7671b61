// internal/workers/risk/predict-company-risk/models.go
package predictcompanyrisk

import "credit-risk-workers/internal/models"

// Input mirrors the company submission form; absent figures count as zero.
type Input struct {
	CompanyName    string      `json:"company_name"`
	AssessmentDate models.Date `json:"assessment_date"`
	models.CompanyFinancials
}

type Output struct {
	AssessmentID   int64       `json:"assessment_id"`
	CompanyName    string      `json:"company_name"`
	AssessmentDate models.Date `json:"assessment_date"`
	models.CompanyPrediction
}
