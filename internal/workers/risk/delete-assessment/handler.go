// internal/workers/risk/delete-assessment/handler.go
package deleteassessment

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

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "delete-assessment"
)

type Deleter interface {
	Delete(ctx context.Context, kind models.BorrowerKind, id int64) error
}

type Handler struct {
	config    *Config
	deleter   Deleter
	validator *validation.Validator
	errors    *apperrors.ErrorHandler
	obs       *observability.Observability
	logger    logger.Logger
}

func NewHandler(config *Config, deleter Deleter, validator *validation.Validator, obs *observability.Observability, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		deleter:   deleter,
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
		"kind":         output.Kind,
		"assessmentId": output.AssessmentID,
	})
}

func (h *Handler) Decode(variables string) (*Input, error) {
	if err := h.validator.Validate(validation.SchemaDeleteAssessment, []byte(variables)); err != nil {
		return nil, err
	}
	var input Input
	if err := json.Unmarshal([]byte(variables), &input); err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("parse input: %v", err))
	}
	return &input, nil
}

// Execute removes one record. A missing id is ASSESSMENT_NOT_FOUND and
// nothing else is touched.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if err := h.deleter.Delete(ctx, input.Kind, input.AssessmentID); err != nil {
		return nil, err
	}
	return &Output{Deleted: true, Kind: input.Kind, AssessmentID: input.AssessmentID}, nil
}

func (h *Handler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, timer *metrics.JobTimer, err error) {
	decision := h.errors.HandleJobError(ctx, client, job, err)
	timer.Done(decision.Error.Code)
	h.obs.RecordJobProcessed(ctx, TaskType, "failed")
}
