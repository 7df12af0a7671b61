// internal/workers/risk/list-assessments/models.go
package listassessments

import (
	"credit-risk-workers/internal/models"
	"credit-risk-workers/internal/query"
)

// Input dates stay strings so malformed values surface as INVALID_DATE.
type Input struct {
	Kind      models.BorrowerKind `json:"kind"`
	Name      string              `json:"name"`
	StartDate string              `json:"start_date"`
	EndDate   string              `json:"end_date"`
	Sort      string              `json:"sort"`
	Order     string              `json:"order"`
}

type Output struct {
	Kind             models.BorrowerKind    `json:"kind"`
	Total            int                    `json:"total"`
	Assessments      interface{}            `json:"assessments"`
	RiskDistribution query.RiskDistribution `json:"risk_distribution"`
}
