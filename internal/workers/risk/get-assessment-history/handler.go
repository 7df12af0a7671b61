// internal/workers/risk/get-assessment-history/handler.go
package getassessmenthistory

import (
	"context"
	"encoding/json"
	"fmt"

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
	TaskType = "get-assessment-history"
)

type HistoryReader interface {
	CompanyHistory(ctx context.Context, companyName string) (*query.CompanyHistory, error)
	IndividualHistory(ctx context.Context, fullName string) (*query.IndividualHistory, error)
}

type Handler struct {
	config    *Config
	reader    HistoryReader
	validator *validation.Validator
	errors    *apperrors.ErrorHandler
	obs       *observability.Observability
	logger    logger.Logger
}

func NewHandler(config *Config, reader HistoryReader, validator *validation.Validator, obs *observability.Observability, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		reader:    reader,
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
		"total":  output.TotalAssessments,
	})
}

func (h *Handler) Decode(variables string) (*Input, error) {
	if err := h.validator.Validate(validation.SchemaAssessmentHistory, []byte(variables)); err != nil {
		return nil, err
	}
	var input Input
	if err := json.Unmarshal([]byte(variables), &input); err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("parse input: %v", err))
	}
	return &input, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	switch input.Kind {
	case models.KindCompany:
		hist, err := h.reader.CompanyHistory(ctx, input.Name)
		if err != nil {
			return nil, err
		}
		return &Output{Kind: input.Kind, Name: hist.CompanyName, TotalAssessments: hist.TotalAssessments, History: hist.History}, nil
	case models.KindIndividual:
		hist, err := h.reader.IndividualHistory(ctx, input.Name)
		if err != nil {
			return nil, err
		}
		return &Output{Kind: input.Kind, Name: hist.FullName, TotalAssessments: hist.TotalAssessments, History: hist.History}, nil
	default:
		return nil, apperrors.NewFieldError("kind", fmt.Sprintf("unknown borrower kind %q", input.Kind))
	}
}

func (h *Handler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, timer *metrics.JobTimer, err error) {
	decision := h.errors.HandleJobError(ctx, client, job, err)
	timer.Done(decision.Error.Code)
	h.obs.RecordJobProcessed(ctx, TaskType, "failed")
}
