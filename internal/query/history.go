package query

import (
	"context"
	"strings"

	apperrors "credit-risk-workers/internal/common/errors"
	"credit-risk-workers/internal/models"
	"credit-risk-workers/internal/store"
)

type CompanyHistory struct {
	CompanyName      string                     `json:"company_name"`
	TotalAssessments int                        `json:"total_assessments"`
	History          []models.CompanyAssessment `json:"history"`
}

type IndividualHistory struct {
	FullName         string                        `json:"full_name"`
	TotalAssessments int                           `json:"total_assessments"`
	History          []models.IndividualAssessment `json:"history"`
}

// HistoryAggregator returns every assessment of one exactly-named entity,
// oldest first. A single assessment yields a one-element history.
type HistoryAggregator struct {
	repo store.Repository
}

func NewHistoryAggregator(repo store.Repository) *HistoryAggregator {
	return &HistoryAggregator{repo: repo}
}

func (h *HistoryAggregator) Company(ctx context.Context, name string) (*CompanyHistory, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperrors.NewFieldError("company_name", "must not be empty")
	}
	records, err := h.repo.CompanyHistory(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, apperrors.NewNotFoundError("company", name)
	}
	return &CompanyHistory{CompanyName: name, TotalAssessments: len(records), History: records}, nil
}

func (h *HistoryAggregator) Individual(ctx context.Context, name string) (*IndividualHistory, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperrors.NewFieldError("full_name", "must not be empty")
	}
	records, err := h.repo.IndividualHistory(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, apperrors.NewNotFoundError("individual", name)
	}
	return &IndividualHistory{FullName: name, TotalAssessments: len(records), History: records}, nil
}
