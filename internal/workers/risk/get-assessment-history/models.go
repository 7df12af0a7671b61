// internal/workers/risk/get-assessment-history/models.go
package getassessmenthistory

import "credit-risk-workers/internal/models"

type Input struct {
	Kind models.BorrowerKind `json:"kind"`
	Name string              `json:"name"`
}

// Output history elements are full assessment records, oldest first.
type Output struct {
	Kind             models.BorrowerKind `json:"kind"`
	Name             string              `json:"name"`
	TotalAssessments int                 `json:"total_assessments"`
	History          interface{}         `json:"history"`
}
