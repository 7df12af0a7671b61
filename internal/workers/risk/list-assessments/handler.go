// internal/workers/risk/list-assessments/handler.go
package listassessments

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	apperrors "credit-risk-workers/internal/common/errors"
	"credit-risk-workers/internal/common/logger"
	"credit-risk-workers/internal/common/metrics"
	"credit-risk-workers/internal/common/observability"
	"credit-risk-workers/internal/common/validation"
	"credit-risk-workers/internal/models"
	"credit-risk-workers/internal/query"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "list-assessments"
)

type Lister interface {
	ListCompanyAssessments(ctx context.Context, q query.Query) (*query.Statistics[models.CompanySummary], error)
	ListIndividualAssessments(ctx context.Context, q query.Query) (*query.Statistics[models.IndividualSummary], error)
}

type Handler struct {
	config    *Config
	lister    Lister
	validator *validation.Validator
	errors    *apperrors.ErrorHandler
	obs       *observability.Observability
	logger    logger.Logger
}

func NewHandler(config *Config, lister Lister, validator *validation.Validator, obs *observability.Observability, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		lister:    lister,
		validator: validator,
		errors:    apperrors.NewErrorHandler(l),
		obs:       obs,
		logger:    l,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})
	timer := metrics.StartJob(TaskType)

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	input, err := h.Decode(job.Variables)
	if err != nil {
		h.failJob(ctx, client, job, timer, err)
		return
	}

	output, err := h.Execute(ctx, input)
	if err != nil {
		h.failJob(ctx, client, job, timer, err)
		return
	}

	cmd, err := client.NewCompleteJobCommand().JobKey(job.Key).VariablesFromObject(output)
	if err != nil {
		h.failJob(ctx, client, job, timer, err)
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}

	timer.Done("")
	h.obs.RecordJobProcessed(ctx, TaskType, "completed")
	h.logger.Info("job completed", map[string]interface{}{
		"jobKey": job.Key,
		"kind":   output.Kind,
		"total":  output.Total,
	})
}

func (h *Handler) Decode(variables string) (*Input, error) {
	if err := h.validator.Validate(validation.SchemaListAssessments, []byte(variables)); err != nil {
		return nil, err
	}
	var input Input
	if err := json.Unmarshal([]byte(variables), &input); err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("parse input: %v", err))
	}
	return &input, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	q, err := BuildQuery(input)
	if err != nil {
		return nil, err
	}

	switch input.Kind {
	case models.KindCompany:
		stats, err := h.lister.ListCompanyAssessments(ctx, q)
		if err != nil {
			return nil, err
		}
		return &Output{Kind: input.Kind, Total: stats.Total, Assessments: stats.Assessments, RiskDistribution: stats.RiskDistribution}, nil
	case models.KindIndividual:
		stats, err := h.lister.ListIndividualAssessments(ctx, q)
		if err != nil {
			return nil, err
		}
		return &Output{Kind: input.Kind, Total: stats.Total, Assessments: stats.Assessments, RiskDistribution: stats.RiskDistribution}, nil
	default:
		return nil, apperrors.NewFieldError("kind", fmt.Sprintf("unknown borrower kind %q", input.Kind))
	}
}

// BuildQuery turns loosely typed job variables into a listing query.
func BuildQuery(input *Input) (query.Query, error) {
	q := query.Query{
		Filter: models.Filter{Name: strings.TrimSpace(input.Name)},
		Sort:   models.ParseSortKey(input.Sort),
	}

	var err error
	if q.Filter.StartDate, err = parseOptionalDate("start_date", input.StartDate); err != nil {
		return q, err
	}
	if q.Filter.EndDate, err = parseOptionalDate("end_date", input.EndDate); err != nil {
		return q, err
	}

	order, ok := models.ParseDirection(input.Order)
	if !ok {
		return q, apperrors.NewFieldError("order", fmt.Sprintf("unknown direction %q", input.Order))
	}
	q.Order = order
	return q, nil
}

func parseOptionalDate(field, value string) (models.Date, error) {
	if strings.TrimSpace(value) == "" {
		return models.Date{}, nil
	}
	d, err := models.ParseDate(value)
	if err != nil {
		return models.Date{}, apperrors.NewInvalidDateError(field, err.Error())
	}
	return d, nil
}

func (h *Handler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, timer *metrics.JobTimer, err error) {
	decision := h.errors.HandleJobError(ctx, client, job, err)
	timer.Done(decision.Error.Code)
	h.obs.RecordJobProcessed(ctx, TaskType, "failed")
}
