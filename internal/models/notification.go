// internal/models/notification.go
package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RiskAlert is published when an assessment lands in the high band.
type RiskAlert struct {
	ID             string             `json:"id"`
	Kind           BorrowerKind       `json:"kind"`
	AssessmentID   int64              `json:"assessmentId"`
	Name           string             `json:"name"`
	RiskLevel      RiskLevel          `json:"riskLevel"`
	Scores         map[string]float64 `json:"scores"`
	Recommendation string             `json:"recommendation"`
	AssessmentDate Date               `json:"assessmentDate"`
	Channel        string             `json:"channel,omitempty"` // "sns", "ses"
	Status         string             `json:"status,omitempty"`  // "sent", "failed", "disabled"
	CreatedAt      time.Time          `json:"createdAt"`
}

func NewCompanyAlert(a *CompanyAssessment) RiskAlert {
	return RiskAlert{
		ID:           uuid.NewString(),
		Kind:         KindCompany,
		AssessmentID: a.ID,
		Name:         a.CompanyName,
		RiskLevel:    a.CombinedRiskLevel,
		Scores: map[string]float64{
			"altman_z_score":  a.AltmanZScore,
			"taffler_z_score": a.TafflerZScore,
		},
		Recommendation: a.CombinedRecommendation,
		AssessmentDate: a.AssessmentDate,
		CreatedAt:      time.Now().UTC(),
	}
}

func NewIndividualAlert(a *IndividualAssessment) RiskAlert {
	return RiskAlert{
		ID:             uuid.NewString(),
		Kind:           KindIndividual,
		AssessmentID:   a.ID,
		Name:           a.FullName,
		RiskLevel:      a.RiskLevel,
		Scores:         map[string]float64{"credit_score": a.CreditScore},
		Recommendation: a.Recommendation,
		AssessmentDate: a.AssessmentDate,
		CreatedAt:      time.Now().UTC(),
	}
}

// Subject is the short line used for email subjects and SNS messages.
func (a RiskAlert) Subject() string {
	return fmt.Sprintf("High credit risk: %s %s (#%d)", a.Kind, a.Name, a.AssessmentID)
}

// RiskAlertTemplate renders an alert body per channel.
type RiskAlertTemplate struct {
	Subject  string `json:"subject"`
	Body     string `json:"body"`
	HTMLBody string `json:"htmlBody,omitempty"`
}
