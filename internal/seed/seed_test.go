// internal/seed/seed_test.go
package seed

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "credit-risk-workers/internal/common/errors"
	"credit-risk-workers/internal/common/logger"
	"credit-risk-workers/internal/models"
	"credit-risk-workers/internal/scoring"
	"credit-risk-workers/internal/service"
	"credit-risk-workers/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeeder_Run(t *testing.T) {
	log := logger.NewTestLogger(t)
	repo := store.NewMemoryRepository()
	svc := service.NewAssessmentService(repo, scoring.NewEngine(4, 2), service.Deps{}, log)
	end := models.NewDate(2024, time.June, 30)

	sum, err := New(svc, Options{Months: 6, Seed: 42, End: end}, log).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, len(DemoCompanies)*6, sum.Companies+sum.Skipped)
	assert.Equal(t, len(DemoIndividuals)*6, sum.Individuals)

	companies, err := repo.ListCompanies(context.Background(), models.Filter{})
	require.NoError(t, err)
	assert.Len(t, companies, sum.Companies)

	start := end.AddDays(-180 - 3)
	for _, c := range companies {
		assert.False(t, c.AssessmentDate.After(end), c.AssessmentDate.String())
		assert.False(t, c.AssessmentDate.Before(start), c.AssessmentDate.String())

		// stored values are whatever the engine computes for the stored inputs
		again, err := scoring.NewEngine(4, 2).EvaluateCompany(c.CompanyFinancials)
		require.NoError(t, err)
		assert.Equal(t, again, c.CompanyPrediction)
	}

	people, err := repo.ListIndividuals(context.Background(), models.Filter{})
	require.NoError(t, err)
	for _, p := range people {
		assert.GreaterOrEqual(t, p.CreditScore, 300.0)
		assert.LessOrEqual(t, p.CreditScore, 850.0)
	}
}

func TestSeeder_Deterministic(t *testing.T) {
	run := func() []models.CompanyAssessment {
		log := logger.NewNoOpLogger()
		repo := store.NewMemoryRepository()
		svc := service.NewAssessmentService(repo, nil, service.Deps{}, log)
		_, err := New(svc, Options{Months: 2, Seed: 7, End: models.NewDate(2024, time.March, 1)}, log).Run(context.Background())
		require.NoError(t, err)
		out, err := repo.ListCompanies(context.Background(), models.Filter{})
		require.NoError(t, err)
		for i := range out {
			out[i].CreatedAt = time.Time{}
		}
		return out
	}
	assert.Equal(t, run(), run())
}

type failingPredictor struct{}

func (failingPredictor) PredictCompany(context.Context, service.CompanyRequest) (*service.CompanyResult, error) {
	return nil, apperrors.NewStorageError("insert company assessment", errors.New("connection refused"))
}

func (failingPredictor) PredictIndividual(context.Context, service.IndividualRequest) (*service.IndividualResult, error) {
	return nil, apperrors.NewFieldError("age", "out of range")
}

func TestSeeder_StorageFailureAborts(t *testing.T) {
	_, err := New(failingPredictor{}, Options{Seed: 1}, logger.NewNoOpLogger()).Run(context.Background())
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeStorageUnavailable))
}
