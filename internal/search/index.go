// internal/search/index.go
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	apperrors "credit-risk-workers/internal/common/errors"
	"credit-risk-workers/internal/common/logger"
	"credit-risk-workers/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

const DefaultSuggestSize = 10

const indexMapping = `{
  "mappings": {
    "properties": {
      "kind":            {"type": "keyword"},
      "assessment_id":   {"type": "long"},
      "name":            {"type": "text", "fields": {"keyword": {"type": "keyword"}}},
      "assessment_date": {"type": "date", "format": "yyyy-MM-dd"},
      "risk_level":      {"type": "keyword"},
      "scores":          {"type": "object"}
    }
  }
}`

// Document is the searchable mirror of one assessment.
type Document struct {
	Kind           models.BorrowerKind `json:"kind"`
	AssessmentID   int64               `json:"assessment_id"`
	Name           string              `json:"name"`
	AssessmentDate string              `json:"assessment_date"`
	RiskLevel      models.RiskLevel    `json:"risk_level"`
	Scores         map[string]float64  `json:"scores"`
}

// Index mirrors assessments into Elasticsearch for name suggestions. The
// relational store stays the source of truth.
type Index struct {
	client *elasticsearch.Client
	name   string
	logger logger.Logger
}

func NewIndex(client *elasticsearch.Client, name string, log logger.Logger) *Index {
	return &Index{
		client: client,
		name:   name,
		logger: log.WithFields(map[string]interface{}{"component": "search-index", "index": name}),
	}
}

// EnsureIndex creates the index with its mapping when missing.
func (x *Index) EnsureIndex(ctx context.Context) error {
	res, err := x.client.Indices.Exists([]string{x.name}, x.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return apperrors.NewSearchIndexFailedError("exists", err)
	}
	res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}

	res, err = x.client.Indices.Create(x.name,
		x.client.Indices.Create.WithContext(ctx),
		x.client.Indices.Create.WithBody(strings.NewReader(indexMapping)),
	)
	if err != nil {
		return apperrors.NewSearchIndexFailedError("create", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return apperrors.NewSearchIndexFailedError("create", fmt.Errorf("%s", res.Status()))
	}
	x.logger.Info("search index created", nil)
	return nil
}

func (x *Index) IndexCompany(ctx context.Context, a *models.CompanyAssessment) error {
	return x.put(ctx, Document{
		Kind:           models.KindCompany,
		AssessmentID:   a.ID,
		Name:           a.CompanyName,
		AssessmentDate: a.AssessmentDate.String(),
		RiskLevel:      a.CombinedRiskLevel,
		Scores: map[string]float64{
			"altman_z_score":  a.AltmanZScore,
			"taffler_z_score": a.TafflerZScore,
		},
	})
}

func (x *Index) IndexIndividual(ctx context.Context, a *models.IndividualAssessment) error {
	return x.put(ctx, Document{
		Kind:           models.KindIndividual,
		AssessmentID:   a.ID,
		Name:           a.FullName,
		AssessmentDate: a.AssessmentDate.String(),
		RiskLevel:      a.RiskLevel,
		Scores:         map[string]float64{"credit_score": a.CreditScore},
	})
}

func (x *Index) put(ctx context.Context, doc Document) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return apperrors.NewSearchIndexFailedError("marshal", err)
	}

	req := esapi.IndexRequest{
		Index:      x.name,
		DocumentID: documentID(doc.Kind, doc.AssessmentID),
		Body:       bytes.NewReader(body),
	}
	res, err := req.Do(ctx, x.client)
	if err != nil {
		return apperrors.NewSearchIndexFailedError("index", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return apperrors.NewSearchIndexFailedError("index", fmt.Errorf("%s", res.Status()))
	}
	return nil
}

// Remove deletes the mirror of an assessment. A missing document is not an error.
func (x *Index) Remove(ctx context.Context, kind models.BorrowerKind, id int64) error {
	req := esapi.DeleteRequest{
		Index:      x.name,
		DocumentID: documentID(kind, id),
	}
	res, err := req.Do(ctx, x.client)
	if err != nil {
		return apperrors.NewSearchIndexFailedError("delete", err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return apperrors.NewSearchIndexFailedError("delete", fmt.Errorf("%s", res.Status()))
	}
	return nil
}

// Suggest returns distinct names starting with prefix, optionally restricted
// to one borrower kind.
func (x *Index) Suggest(ctx context.Context, prefix string, kind models.BorrowerKind, size int) ([]string, error) {
	if size <= 0 {
		size = DefaultSuggestSize
	}

	must := []interface{}{
		map[string]interface{}{
			"match_phrase_prefix": map[string]interface{}{"name": prefix},
		},
	}
	filter := []interface{}{}
	if kind != "" {
		filter = append(filter, map[string]interface{}{
			"term": map[string]interface{}{"kind": string(kind)},
		})
	}
	query := map[string]interface{}{
		"size":  0,
		"query": map[string]interface{}{"bool": map[string]interface{}{"must": must, "filter": filter}},
		"aggs": map[string]interface{}{
			"names": map[string]interface{}{
				"terms": map[string]interface{}{"field": "name.keyword", "size": size},
			},
		},
	}
	body, _ := json.Marshal(query)

	res, err := x.client.Search(
		x.client.Search.WithContext(ctx),
		x.client.Search.WithIndex(x.name),
		x.client.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, apperrors.NewSearchIndexFailedError("search", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		raw, _ := io.ReadAll(res.Body)
		return nil, apperrors.NewSearchIndexFailedError("search", fmt.Errorf("%s: %s", res.Status(), raw))
	}

	var parsed struct {
		Aggregations struct {
			Names struct {
				Buckets []struct {
					Key string `json:"key"`
				} `json:"buckets"`
			} `json:"names"`
		} `json:"aggregations"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, apperrors.NewSearchIndexFailedError("decode", err)
	}

	names := make([]string, 0, len(parsed.Aggregations.Names.Buckets))
	for _, b := range parsed.Aggregations.Names.Buckets {
		names = append(names, b.Key)
	}
	return names, nil
}

func documentID(kind models.BorrowerKind, id int64) string {
	return string(kind) + "-" + strconv.FormatInt(id, 10)
}
