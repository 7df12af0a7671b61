// internal/service/assessment.go
package service

import (
	"context"
	"strings"
	"unicode/utf8"

	apperrors "credit-risk-workers/internal/common/errors"
	"credit-risk-workers/internal/common/logger"
	"credit-risk-workers/internal/common/observability"
	"credit-risk-workers/internal/models"
	"credit-risk-workers/internal/query"
	"credit-risk-workers/internal/scoring"
	"credit-risk-workers/internal/store"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const maxNameLength = 255

// Deps are the optional collaborators of the service. Nil members are skipped.
type Deps struct {
	Search        SearchIndex
	Notifier      Notifier
	Recorder      Recorder
	Observability *observability.Observability
}

// AssessmentService is the single entry point used by the job workers, the
// REST API and the seeder. Scoring and persistence failures are returned;
// search indexing and alerting are best effort and only logged.
type AssessmentService struct {
	repo    store.Repository
	engine  *scoring.Engine
	stats   *query.StatisticsEngine
	history *query.HistoryAggregator
	deps    Deps
	logger  logger.Logger
	today   func() models.Date
}

func NewAssessmentService(repo store.Repository, engine *scoring.Engine, deps Deps, log logger.Logger) *AssessmentService {
	if engine == nil {
		engine = scoring.NewEngine(0, 0)
	}
	if deps.Recorder == nil {
		deps.Recorder = nopRecorder{}
	}
	return &AssessmentService{
		repo:    repo,
		engine:  engine,
		stats:   query.NewStatisticsEngine(repo),
		history: query.NewHistoryAggregator(repo),
		deps:    deps,
		logger:  log.WithFields(map[string]interface{}{"component": "assessment-service"}),
		today:   models.Today,
	}
}

func (s *AssessmentService) PredictCompany(ctx context.Context, req CompanyRequest) (res *CompanyResult, err error) {
	ctx, span := s.deps.Observability.StartSpan(ctx, "PredictCompany", attribute.String("kind", string(models.KindCompany)))
	defer func() { s.finish(ctx, span, "PredictCompany", err) }()

	name, err := normalizeName("company_name", req.CompanyName)
	if err != nil {
		return nil, err
	}

	prediction, err := s.engine.EvaluateCompany(req.CompanyFinancials)
	if err != nil {
		return nil, err
	}

	record := &models.CompanyAssessment{
		CompanyName:       name,
		AssessmentDate:    s.dateOrToday(req.AssessmentDate),
		CompanyFinancials: req.CompanyFinancials,
		CompanyPrediction: prediction,
	}
	if _, err := s.repo.InsertCompany(ctx, record); err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int64("assessment.id", record.ID), attribute.String("risk_level", string(prediction.CombinedRiskLevel)))

	s.deps.Recorder.AssessmentCreated(string(models.KindCompany), string(prediction.CombinedRiskLevel))
	s.deps.Recorder.ScoreObserved(string(scoring.ModelAltman), prediction.AltmanZScore)
	s.deps.Recorder.ScoreObserved(string(scoring.ModelTaffler), prediction.TafflerZScore)

	if s.deps.Search != nil {
		if err := s.deps.Search.IndexCompany(ctx, record); err != nil {
			s.logger.Warn("search indexing failed", map[string]interface{}{"assessmentId": record.ID, "error": err})
		}
	}
	if prediction.CombinedRiskLevel == models.RiskHigh {
		s.alert(ctx, models.NewCompanyAlert(record))
	}

	s.logger.Info("company assessed", map[string]interface{}{
		"assessmentId": record.ID,
		"riskLevel":    prediction.CombinedRiskLevel,
	})

	return &CompanyResult{
		ID:                record.ID,
		CompanyName:       record.CompanyName,
		AssessmentDate:    record.AssessmentDate,
		CompanyPrediction: record.CompanyPrediction,
	}, nil
}

func (s *AssessmentService) PredictIndividual(ctx context.Context, req IndividualRequest) (res *IndividualResult, err error) {
	ctx, span := s.deps.Observability.StartSpan(ctx, "PredictIndividual", attribute.String("kind", string(models.KindIndividual)))
	defer func() { s.finish(ctx, span, "PredictIndividual", err) }()

	name, err := normalizeName("full_name", req.FullName)
	if err != nil {
		return nil, err
	}

	prediction, err := s.engine.EvaluateIndividual(req.IndividualFactors)
	if err != nil {
		return nil, err
	}

	record := &models.IndividualAssessment{
		FullName:             name,
		AssessmentDate:       s.dateOrToday(req.AssessmentDate),
		IndividualFactors:    req.IndividualFactors,
		IndividualPrediction: prediction,
	}
	if _, err := s.repo.InsertIndividual(ctx, record); err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int64("assessment.id", record.ID), attribute.String("risk_level", string(prediction.RiskLevel)))

	s.deps.Recorder.AssessmentCreated(string(models.KindIndividual), string(prediction.RiskLevel))
	s.deps.Recorder.ScoreObserved(string(scoring.ModelCreditScore), prediction.CreditScore)

	if s.deps.Search != nil {
		if err := s.deps.Search.IndexIndividual(ctx, record); err != nil {
			s.logger.Warn("search indexing failed", map[string]interface{}{"assessmentId": record.ID, "error": err})
		}
	}
	if prediction.RiskLevel == models.RiskHigh {
		s.alert(ctx, models.NewIndividualAlert(record))
	}

	s.logger.Info("individual assessed", map[string]interface{}{
		"assessmentId": record.ID,
		"riskLevel":    prediction.RiskLevel,
	})

	return &IndividualResult{
		ID:                   record.ID,
		FullName:             record.FullName,
		AssessmentDate:       record.AssessmentDate,
		IndividualPrediction: record.IndividualPrediction,
	}, nil
}

func (s *AssessmentService) ListCompanyAssessments(ctx context.Context, q query.Query) (res *query.Statistics[models.CompanySummary], err error) {
	ctx, span := s.deps.Observability.StartSpan(ctx, "ListCompanyAssessments", attribute.String("sort", string(q.Sort)))
	defer func() { s.finish(ctx, span, "ListCompanyAssessments", err) }()

	return s.stats.Companies(ctx, q)
}

func (s *AssessmentService) ListIndividualAssessments(ctx context.Context, q query.Query) (res *query.Statistics[models.IndividualSummary], err error) {
	ctx, span := s.deps.Observability.StartSpan(ctx, "ListIndividualAssessments", attribute.String("sort", string(q.Sort)))
	defer func() { s.finish(ctx, span, "ListIndividualAssessments", err) }()

	return s.stats.Individuals(ctx, q)
}

func (s *AssessmentService) CompanyHistory(ctx context.Context, companyName string) (res *query.CompanyHistory, err error) {
	ctx, span := s.deps.Observability.StartSpan(ctx, "CompanyHistory")
	defer func() { s.finish(ctx, span, "CompanyHistory", err) }()

	return s.history.Company(ctx, strings.TrimSpace(companyName))
}

func (s *AssessmentService) IndividualHistory(ctx context.Context, fullName string) (res *query.IndividualHistory, err error) {
	ctx, span := s.deps.Observability.StartSpan(ctx, "IndividualHistory")
	defer func() { s.finish(ctx, span, "IndividualHistory", err) }()

	return s.history.Individual(ctx, strings.TrimSpace(fullName))
}

func (s *AssessmentService) DeleteCompanyAssessment(ctx context.Context, id int64) error {
	return s.delete(ctx, "DeleteCompanyAssessment", models.KindCompany, id)
}

func (s *AssessmentService) DeleteIndividualAssessment(ctx context.Context, id int64) error {
	return s.delete(ctx, "DeleteIndividualAssessment", models.KindIndividual, id)
}

// Delete dispatches on kind; the job worker receives the kind as a variable.
func (s *AssessmentService) Delete(ctx context.Context, kind models.BorrowerKind, id int64) error {
	switch kind {
	case models.KindCompany:
		return s.DeleteCompanyAssessment(ctx, id)
	case models.KindIndividual:
		return s.DeleteIndividualAssessment(ctx, id)
	default:
		return apperrors.NewFieldError("kind", "must be company or individual")
	}
}

func (s *AssessmentService) delete(ctx context.Context, op string, kind models.BorrowerKind, id int64) (err error) {
	ctx, span := s.deps.Observability.StartSpan(ctx, op, attribute.Int64("assessment.id", id))
	defer func() { s.finish(ctx, span, op, err) }()

	if id <= 0 {
		return apperrors.NewFieldError("id", "must be a positive integer")
	}
	if err := s.repo.Delete(ctx, kind, id); err != nil {
		return err
	}
	s.deps.Recorder.AssessmentDeleted(string(kind))

	if s.deps.Search != nil {
		if err := s.deps.Search.Remove(ctx, kind, id); err != nil {
			s.logger.Warn("search removal failed", map[string]interface{}{"assessmentId": id, "kind": kind, "error": err})
		}
	}
	s.logger.Info("assessment deleted", map[string]interface{}{"assessmentId": id, "kind": kind})
	return nil
}

// ModelInfo describes the scoring models and their required inputs.
func (s *AssessmentService) ModelInfo() []scoring.ModelInfo {
	return scoring.Models()
}

// SuggestNames returns assessed names starting with prefix. It needs the
// search index; without it the call fails with SEARCH_DISABLED.
func (s *AssessmentService) SuggestNames(ctx context.Context, prefix string, kind models.BorrowerKind, size int) (res []string, err error) {
	ctx, span := s.deps.Observability.StartSpan(ctx, "SuggestNames")
	defer func() { s.finish(ctx, span, "SuggestNames", err) }()

	if s.deps.Search == nil {
		return nil, apperrors.NewSearchDisabledError()
	}
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return nil, apperrors.NewFieldError("q", "must not be empty")
	}
	if kind != "" && !kind.Valid() {
		return nil, apperrors.NewFieldError("kind", "must be company or individual")
	}
	return s.deps.Search.Suggest(ctx, prefix, kind, size)
}

// Ping reports whether the repository is reachable.
func (s *AssessmentService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

func (s *AssessmentService) alert(ctx context.Context, alert models.RiskAlert) {
	if s.deps.Notifier == nil {
		return
	}
	sent, err := s.deps.Notifier.Notify(ctx, alert)
	if err != nil {
		s.logger.Warn("risk alert not delivered", map[string]interface{}{
			"alertId":      alert.ID,
			"assessmentId": alert.AssessmentID,
			"error":        err,
		})
		return
	}
	s.logger.Debug("risk alert processed", map[string]interface{}{"alertId": sent.ID, "status": sent.Status})
}

func (s *AssessmentService) finish(ctx context.Context, span trace.Span, op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = string(apperrors.AsStandard(err).Code)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.deps.Observability.RecordOperation(ctx, op, outcome)
	span.End()
}

func (s *AssessmentService) dateOrToday(d models.Date) models.Date {
	if d.IsZero() {
		return s.today()
	}
	return d
}

func normalizeName(field, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperrors.NewFieldError(field, "must not be empty")
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return "", apperrors.NewFieldError(field, "must be at most 255 characters")
	}
	return name, nil
}
