// Package store persists assessments. Records are immutable once inserted:
// there is no update, only insert and delete by id.
package store

import (
	"context"

	"credit-risk-workers/internal/models"
)

// Repository is the sole owner of persisted assessments.
//
// Insert assigns a fresh id and CreatedAt, writes them back into the record and
// returns the id. Delete reports ASSESSMENT_NOT_FOUND for unknown ids.
// Listings honour the filter and are ordered by assessment_date DESC, id DESC;
// histories match the exact name and are ordered by assessment_date ASC, id ASC.
type Repository interface {
	InsertCompany(ctx context.Context, a *models.CompanyAssessment) (int64, error)
	InsertIndividual(ctx context.Context, a *models.IndividualAssessment) (int64, error)

	Delete(ctx context.Context, kind models.BorrowerKind, id int64) error

	ListCompanies(ctx context.Context, f models.Filter) ([]models.CompanyAssessment, error)
	ListIndividuals(ctx context.Context, f models.Filter) ([]models.IndividualAssessment, error)

	CompanyHistory(ctx context.Context, name string) ([]models.CompanyAssessment, error)
	IndividualHistory(ctx context.Context, name string) ([]models.IndividualAssessment, error)

	Ping(ctx context.Context) error
}
