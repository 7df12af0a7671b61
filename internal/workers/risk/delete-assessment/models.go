// internal/workers/risk/delete-assessment/models.go
package deleteassessment

import "credit-risk-workers/internal/models"

type Input struct {
	Kind         models.BorrowerKind `json:"kind"`
	AssessmentID int64               `json:"assessment_id"`
}

type Output struct {
	Deleted      bool                `json:"deleted"`
	Kind         models.BorrowerKind `json:"kind"`
	AssessmentID int64               `json:"assessment_id"`
}
