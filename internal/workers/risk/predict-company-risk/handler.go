// internal/workers/risk/predict-company-risk/handler.go
package predictcompanyrisk

import (
	"context"
	"encoding/json"
	"fmt"

	apperrors "credit-risk-workers/internal/common/errors"
	"credit-risk-workers/internal/common/logger"
	"credit-risk-workers/internal/common/metrics"
	"credit-risk-workers/internal/common/observability"
	"credit-risk-workers/internal/common/validation"
	"credit-risk-workers/internal/service"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "predict-company-risk"
)

type Predictor interface {
	PredictCompany(ctx context.Context, req service.CompanyRequest) (*service.CompanyResult, error)
}

type Handler struct {
	config    *Config
	predictor Predictor
	validator *validation.Validator
	errors    *apperrors.ErrorHandler
	obs       *observability.Observability
	logger    logger.Logger
}

func NewHandler(config *Config, predictor Predictor, validator *validation.Validator, obs *observability.Observability, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		predictor: predictor,
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

	input, err := h.decode(job.Variables)
	if err != nil {
		h.failJob(ctx, client, job, timer, err)
		return
	}

	output, err := h.execute(ctx, input)
	if err != nil {
		h.failJob(ctx, client, job, timer, err)
		return
	}

	h.completeJob(ctx, client, job, timer, output)
}

func (h *Handler) decode(variables string) (*Input, error) {
	if err := h.validator.Validate(validation.SchemaCompanyPrediction, []byte(variables)); err != nil {
		return nil, err
	}
	var input Input
	if err := json.Unmarshal([]byte(variables), &input); err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("parse input: %v", err))
	}
	return &input, nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	res, err := h.predictor.PredictCompany(ctx, service.CompanyRequest{
		CompanyName:       input.CompanyName,
		AssessmentDate:    input.AssessmentDate,
		CompanyFinancials: input.CompanyFinancials,
	})
	if err != nil {
		return nil, err
	}

	return &Output{
		AssessmentID:      res.ID,
		CompanyName:       res.CompanyName,
		AssessmentDate:    res.AssessmentDate,
		CompanyPrediction: res.CompanyPrediction,
	}, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, timer *metrics.JobTimer, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		h.failJob(ctx, client, job, timer, err)
		return
	}
	if _, err = cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}

	timer.Done("")
	h.obs.RecordJobProcessed(ctx, TaskType, "completed")
	h.logger.Info("job completed", map[string]interface{}{
		"jobKey":       job.Key,
		"assessmentId": output.AssessmentID,
		"riskLevel":    output.CombinedRiskLevel,
	})
}

func (h *Handler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, timer *metrics.JobTimer, err error) {
	decision := h.errors.HandleJobError(ctx, client, job, err)
	timer.Done(decision.Error.Code)
	h.obs.RecordJobProcessed(ctx, TaskType, "failed")
}

// Execute runs the job logic without a broker.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

// Decode validates and parses raw job variables.
func (h *Handler) Decode(variables string) (*Input, error) {
	return h.decode(variables)
}
