// internal/workers/risk/predict-individual-risk/handler.go
package predictindividualrisk

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
	TaskType = "predict-individual-risk"
)

type Predictor interface {
	PredictIndividual(ctx context.Context, req service.IndividualRequest) (*service.IndividualResult, error)
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
		"jobKey":       job.Key,
		"assessmentId": output.AssessmentID,
		"creditScore":  output.CreditScore,
		"riskLevel":    output.RiskLevel,
	})
}

// Decode validates raw job variables against the individual request schema.
func (h *Handler) Decode(variables string) (*Input, error) {
	if err := h.validator.Validate(validation.SchemaIndividualPrediction, []byte(variables)); err != nil {
		return nil, err
	}
	var input Input
	if err := json.Unmarshal([]byte(variables), &input); err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("parse input: %v", err))
	}
	return &input, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	res, err := h.predictor.PredictIndividual(ctx, service.IndividualRequest{
		FullName:          input.FullName,
		AssessmentDate:    input.AssessmentDate,
		IndividualFactors: input.IndividualFactors,
	})
	if err != nil {
		return nil, err
	}
	return &Output{
		AssessmentID:         res.ID,
		FullName:             res.FullName,
		AssessmentDate:       res.AssessmentDate,
		IndividualPrediction: res.IndividualPrediction,
	}, nil
}

func (h *Handler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, timer *metrics.JobTimer, err error) {
	decision := h.errors.HandleJobError(ctx, client, job, err)
	timer.Done(decision.Error.Code)
	h.obs.RecordJobProcessed(ctx, TaskType, "failed")
}
