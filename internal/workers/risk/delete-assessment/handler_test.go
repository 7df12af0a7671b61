// internal/workers/risk/delete-assessment/handler_test.go
package deleteassessment

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "credit-risk-workers/internal/common/errors"
	"credit-risk-workers/internal/common/logger"
	"credit-risk-workers/internal/common/observability"
	"credit-risk-workers/internal/common/validation"
	"credit-risk-workers/internal/models"
	"credit-risk-workers/internal/query"
	"credit-risk-workers/internal/scoring"
	"credit-risk-workers/internal/service"
	"credit-risk-workers/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testLogger struct {
	t *testing.T
}

func (tl *testLogger) Debug(msg string, fields map[string]interface{}) {
	tl.t.Logf("DEBUG: %s %v", msg, fields)
}

func (tl *testLogger) Info(msg string, fields map[string]interface{}) {
	tl.t.Logf("INFO: %s %v", msg, fields)
}

func (tl *testLogger) Warn(msg string, fields map[string]interface{}) {
	tl.t.Logf("WARN: %s %v", msg, fields)
}

func (tl *testLogger) Error(msg string, fields map[string]interface{}) {
	tl.t.Logf("ERROR: %s %v", msg, fields)
}

func (tl *testLogger) WithFields(fields map[string]interface{}) logger.Logger { return tl }
func (tl *testLogger) WithError(err error) logger.Logger                      { return tl }
func (tl *testLogger) With(fields map[string]interface{}) logger.Logger       { return tl }

type errDeleter struct{ err error }

func (d errDeleter) Delete(context.Context, models.BorrowerKind, int64) error { return d.err }

func newTestHandler(t *testing.T) (*Handler, *service.AssessmentService, int64) {
	log := &testLogger{t: t}
	svc := service.NewAssessmentService(store.NewMemoryRepository(), scoring.NewEngine(4, 2), service.Deps{}, log)

	res, err := svc.PredictCompany(context.Background(), service.CompanyRequest{
		CompanyName:    "Acme Corp",
		AssessmentDate: models.NewDate(2024, time.January, 15),
		CompanyFinancials: models.CompanyFinancials{
			CurrentAssets: 700000, CurrentLiabilities: 200000, DebtCapital: 500000,
			Liabilities: 800000, SalesProfit: 300000, ShortTermLiabilities: 200000,
			LongTermLiabilities: 300000, TotalAssets: 2000000, Sales: 3000000,
		},
	})
	require.NoError(t, err)

	return NewHandler(LoadConfig(), svc, validation.MustNewValidator(), observability.NewNoop(), log), svc, res.ID
}

func TestHandler_Execute_Deletes(t *testing.T) {
	handler, svc, id := newTestHandler(t)

	out, err := handler.Execute(context.Background(), &Input{Kind: models.KindCompany, AssessmentID: id})
	require.NoError(t, err)
	assert.True(t, out.Deleted)

	stats, err := svc.ListCompanyAssessments(context.Background(), query.Query{})
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Total)
}

func TestHandler_Execute_NotFoundLeavesCount(t *testing.T) {
	handler, svc, id := newTestHandler(t)

	_, err := handler.Execute(context.Background(), &Input{Kind: models.KindCompany, AssessmentID: id + 100})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	// same id, other table
	_, err = handler.Execute(context.Background(), &Input{Kind: models.KindIndividual, AssessmentID: id})
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	stats, err := svc.ListCompanyAssessments(context.Background(), query.Query{})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Total)
}

func TestHandler_Decode(t *testing.T) {
	handler, _, _ := newTestHandler(t)

	input, err := handler.Decode(`{"kind":"individual","assessment_id":7}`)
	require.NoError(t, err)
	assert.Equal(t, models.KindIndividual, input.Kind)
	assert.Equal(t, int64(7), input.AssessmentID)

	for _, vars := range []string{
		`{"kind":"company","assessment_id":0}`,
		`{"kind":"company","assessment_id":"7"}`,
		`{"kind":"trust","assessment_id":7}`,
		`{"kind":"company"}`,
	} {
		_, err := handler.Decode(vars)
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeValidationFailed), vars)
	}
}

func TestHandler_Execute_StorageFailureRetries(t *testing.T) {
	log := &testLogger{t: t}
	handler := NewHandler(LoadConfig(), errDeleter{err: apperrors.NewStorageError("delete assessment", errors.New("timeout"))},
		validation.MustNewValidator(), observability.NewNoop(), log)

	_, err := handler.Execute(context.Background(), &Input{Kind: models.KindCompany, AssessmentID: 1})
	d := apperrors.Decide(err, 1)
	assert.False(t, d.Throw)
	assert.Equal(t, 0, d.Retries)
}
