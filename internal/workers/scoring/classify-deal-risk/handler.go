// internal/workers/scoring/classify-deal-risk/handler.go
package classifydealrisk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"crm-insight-workers/internal/common/logger"
	"crm-insight-workers/internal/common/validation"
	"crm-insight-workers/internal/insight"
	"crm-insight-workers/internal/store"
)

const (
	TaskType = "classify-deal-risk"
)

var (
	ErrDealNotFound   = errors.New("DEAL_NOT_FOUND")
	ErrInvalidPayload = errors.New("PAYLOAD_VALIDATION_FAILED")
)

type Handler struct {
	config *Config
	store  store.Store
	logger logger.Logger
	now    func() time.Time
}

func NewHandler(config *Config, s store.Store, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		store:  s,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	raw := []byte(job.Variables)
	result, err := validation.ValidateRawPayload(raw, inputSchema)
	if err != nil {
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("validate input: %v", err), 0)
		return
	}
	if !result.Valid {
		h.failJob(client, job, "PAYLOAD_VALIDATION_FAILED",
			strings.Join(result.GetErrorMessages(), "; "), 0)
		return
	}

	var input Input
	if err := json.Unmarshal(raw, &input); err != nil {
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err), 0)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		errorCode := "QUERY_EXECUTION_FAILED"
		retries := int32(3)
		if errors.Is(err, ErrDealNotFound) {
			errorCode = "DEAL_NOT_FOUND"
			retries = 0
		}
		h.failJob(client, job, errorCode, err.Error(), retries)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	deal, err := h.store.GetDeal(ctx, input.DealID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrDealNotFound, input.DealID)
		}
		return nil, err
	}

	now := h.now()
	risk := insight.ClassifyRisk(deal, now)

	overdue := deal.TargetCloseDate != nil && deal.TargetCloseDate.Before(now) && deal.IsOpen()

	return &Output{
		DealID:         deal.ID,
		RiskLevel:      string(risk),
		InactivityDays: deal.InactivityDays(now),
		MissingNext:    deal.NextStep == "",
		TargetOverdue:  overdue,
	}, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string, retries int32) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
		"retries":      retries,
	})

	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(errorCode).
		ErrorMessage(errorMessage).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

// ValidatePayload is exposed for tests exercising the schema gate.
func ValidatePayload(raw []byte) (*validation.ValidationResult, error) {
	return validation.ValidateRawPayload(raw, inputSchema)
}
