// internal/service/types.go
package service

import (
	"context"

	"credit-risk-workers/internal/models"
)

// CompanyRequest is one company submission. A zero AssessmentDate means today.
type CompanyRequest struct {
	CompanyName    string      `json:"company_name"`
	AssessmentDate models.Date `json:"assessment_date"`
	models.CompanyFinancials
}

type IndividualRequest struct {
	FullName       string      `json:"full_name"`
	AssessmentDate models.Date `json:"assessment_date"`
	models.IndividualFactors
}

// CompanyResult is the prediction returned to callers together with the
// identity of the stored record.
type CompanyResult struct {
	ID             int64       `json:"id"`
	CompanyName    string      `json:"company_name"`
	AssessmentDate models.Date `json:"assessment_date"`
	models.CompanyPrediction
}

type IndividualResult struct {
	ID             int64       `json:"id"`
	FullName       string      `json:"full_name"`
	AssessmentDate models.Date `json:"assessment_date"`
	models.IndividualPrediction
}

// SearchIndex mirrors assessments for name suggestions.
type SearchIndex interface {
	IndexCompany(ctx context.Context, a *models.CompanyAssessment) error
	IndexIndividual(ctx context.Context, a *models.IndividualAssessment) error
	Remove(ctx context.Context, kind models.BorrowerKind, id int64) error
	Suggest(ctx context.Context, prefix string, kind models.BorrowerKind, size int) ([]string, error)
}

// Notifier delivers high-risk alerts.
type Notifier interface {
	Notify(ctx context.Context, alert models.RiskAlert) (models.RiskAlert, error)
}

// Recorder receives domain metrics.
type Recorder interface {
	AssessmentCreated(kind, riskLevel string)
	AssessmentDeleted(kind string)
	ScoreObserved(model string, value float64)
}

type nopRecorder struct{}

func (nopRecorder) AssessmentCreated(string, string) {}
func (nopRecorder) AssessmentDeleted(string)         {}
func (nopRecorder) ScoreObserved(string, float64)    {}
