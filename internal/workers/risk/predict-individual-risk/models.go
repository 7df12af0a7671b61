// internal/workers/risk/predict-individual-risk/models.go
package predictindividualrisk

import "credit-risk-workers/internal/models"

type Input struct {
	FullName       string      `json:"full_name"`
	AssessmentDate models.Date `json:"assessment_date"`
	models.IndividualFactors
}

type Output struct {
	AssessmentID   int64       `json:"assessment_id"`
	FullName       string      `json:"full_name"`
	AssessmentDate models.Date `json:"assessment_date"`
	models.IndividualPrediction
}
