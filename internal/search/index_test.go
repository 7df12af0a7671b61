package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	apperrors "credit-risk-workers/internal/common/errors"
	"credit-risk-workers/internal/common/logger"
	"credit-risk-workers/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Method string
	Path   string
	Body   string
}

type fakeES struct {
	mu       sync.Mutex
	requests []recordedRequest
	status   int
	body     string
}

func (f *fakeES) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{Method: r.Method, Path: r.URL.Path, Body: string(raw)})
	status, body := f.status, f.body
	f.mu.Unlock()

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	if body == "" {
		body = `{"result":"created"}`
	}
	_, _ = io.WriteString(w, body)
}

func (f *fakeES) last() recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func newTestIndex(t *testing.T, fake *fakeES) *Index {
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return NewIndex(client, "risk-assessments", logger.NewNoOpLogger())
}

func TestIndexCompany(t *testing.T) {
	fake := &fakeES{}
	idx := newTestIndex(t, fake)

	err := idx.IndexCompany(context.Background(), &models.CompanyAssessment{
		ID:             7,
		CompanyName:    "Nordwind GmbH",
		AssessmentDate: models.NewDate(2024, 5, 2),
		CompanyPrediction: models.CompanyPrediction{
			AltmanZScore:      -1.2,
			TafflerZScore:     0.5,
			CombinedRiskLevel: models.RiskLow,
		},
	})
	require.NoError(t, err)

	req := fake.last()
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "/risk-assessments/_doc/company-7", req.Path)

	var doc Document
	require.NoError(t, json.Unmarshal([]byte(req.Body), &doc))
	assert.Equal(t, "Nordwind GmbH", doc.Name)
	assert.Equal(t, "2024-05-02", doc.AssessmentDate)
	assert.Equal(t, 0.5, doc.Scores["taffler_z_score"])
}

func TestIndexIndividual_ServerError(t *testing.T) {
	fake := &fakeES{status: http.StatusBadRequest, body: `{"error":"mapper_parsing_exception"}`}
	idx := newTestIndex(t, fake)

	err := idx.IndexIndividual(context.Background(), &models.IndividualAssessment{ID: 3, FullName: "Jan Kowalski"})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeSearchIndexFailed))
}

func TestRemove_MissingDocumentIsNotAnError(t *testing.T) {
	fake := &fakeES{status: http.StatusNotFound, body: `{"result":"not_found"}`}
	idx := newTestIndex(t, fake)

	require.NoError(t, idx.Remove(context.Background(), models.KindIndividual, 11))
	req := fake.last()
	assert.Equal(t, http.MethodDelete, req.Method)
	assert.Equal(t, "/risk-assessments/_doc/individual-11", req.Path)
}

func TestSuggest(t *testing.T) {
	fake := &fakeES{body: `{"hits":{"hits":[]},"aggregations":{"names":{"buckets":[{"key":"Acme Corp","doc_count":3},{"key":"Acme Holdings","doc_count":1}]}}}`}
	idx := newTestIndex(t, fake)

	names, err := idx.Suggest(context.Background(), "acm", models.KindCompany, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Acme Corp", "Acme Holdings"}, names)

	req := fake.last()
	assert.True(t, strings.HasSuffix(req.Path, "/_search"))
	assert.Contains(t, req.Body, `"match_phrase_prefix":{"name":"acm"}`)
	assert.Contains(t, req.Body, `"term":{"kind":"company"}`)
	assert.Contains(t, req.Body, `"size":10`)
}

func TestEnsureIndex_CreatesWhenMissing(t *testing.T) {
	fake := &fakeES{status: http.StatusNotFound, body: `{}`}
	idx := newTestIndex(t, fake)

	// The fake answers 404 to every request, so creation reports a failure
	// after the existence check.
	err := idx.EnsureIndex(context.Background())
	require.Error(t, err)

	fake.mu.Lock()
	defer fake.mu.Unlock()
	require.Len(t, fake.requests, 2)
	assert.Equal(t, http.MethodHead, fake.requests[0].Method)
	assert.Equal(t, http.MethodPut, fake.requests[1].Method)
	assert.Contains(t, fake.requests[1].Body, `"assessment_date"`)
}
