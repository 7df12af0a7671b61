// Package query answers listing, statistics and history questions over the
// assessment repository.
package query

import (
	"context"

	apperrors "credit-risk-workers/internal/common/errors"
	"credit-risk-workers/internal/models"
	"credit-risk-workers/internal/store"
)

// Query is a listing request. An empty Sort keeps the repository order
// (newest first).
type Query struct {
	Filter models.Filter
	Sort   models.SortKey
	Order  models.Direction
}

type RiskDistribution struct {
	Low    int `json:"low"`
	Medium int `json:"medium"`
	High   int `json:"high"`
}

func (d *RiskDistribution) add(level models.RiskLevel) {
	switch level {
	case models.RiskLow:
		d.Low++
	case models.RiskMedium:
		d.Medium++
	case models.RiskHigh:
		d.High++
	}
}

type Statistics[T any] struct {
	Total            int              `json:"total"`
	Assessments      []T              `json:"assessments"`
	RiskDistribution RiskDistribution `json:"risk_distribution"`
}

type StatisticsEngine struct {
	repo store.Repository
}

func NewStatisticsEngine(repo store.Repository) *StatisticsEngine {
	return &StatisticsEngine{repo: repo}
}

func (e *StatisticsEngine) Companies(ctx context.Context, q Query) (*Statistics[models.CompanySummary], error) {
	if err := validateQuery(q, CompanyComparators); err != nil {
		return nil, err
	}

	records, err := e.repo.ListCompanies(ctx, q.Filter)
	if err != nil {
		return nil, err
	}

	stats := &Statistics[models.CompanySummary]{
		Total:       len(records),
		Assessments: make([]models.CompanySummary, 0, len(records)),
	}
	for i := range records {
		stats.Assessments = append(stats.Assessments, records[i].Summary())
		stats.RiskDistribution.add(records[i].CombinedRiskLevel)
	}

	if q.Sort != "" {
		if stats.Assessments, err = SortCompanies(stats.Assessments, q.Sort, q.Order); err != nil {
			return nil, err
		}
	}
	return stats, nil
}

func (e *StatisticsEngine) Individuals(ctx context.Context, q Query) (*Statistics[models.IndividualSummary], error) {
	if err := validateQuery(q, IndividualComparators); err != nil {
		return nil, err
	}

	records, err := e.repo.ListIndividuals(ctx, q.Filter)
	if err != nil {
		return nil, err
	}

	stats := &Statistics[models.IndividualSummary]{
		Total:       len(records),
		Assessments: make([]models.IndividualSummary, 0, len(records)),
	}
	for i := range records {
		stats.Assessments = append(stats.Assessments, records[i].Summary())
		stats.RiskDistribution.add(records[i].RiskLevel)
	}

	if q.Sort != "" {
		if stats.Assessments, err = SortIndividuals(stats.Assessments, q.Sort, q.Order); err != nil {
			return nil, err
		}
	}
	return stats, nil
}

func validateQuery[T any](q Query, cmps Comparators[T]) error {
	f := q.Filter
	if !f.StartDate.IsZero() && !f.EndDate.IsZero() && f.StartDate.After(f.EndDate) {
		return apperrors.NewInvalidDateError("start_date", "start_date must not be after end_date")
	}
	if q.Sort != "" {
		if _, ok := cmps[q.Sort]; !ok {
			return apperrors.NewInvalidSortKeyError(string(q.Sort))
		}
	}
	return nil
}
