// internal/workers/pipeline/compute-deal-attention/handler.go
package computedealattention

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"crm-insight-workers/internal/common/logger"
	"crm-insight-workers/internal/insight"
	"crm-insight-workers/internal/store"
)

const (
	TaskType = "compute-deal-attention"
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

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err), 0)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, "QUERY_EXECUTION_FAILED", err.Error(), 3)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	deals, err := h.store.GetDeals(ctx)
	if err != nil {
		return nil, err
	}

	now := h.now()
	entries := insight.ComputeDealAttention(deals, now)

	totalOpen := 0
	for _, d := range deals {
		if d.IsOpen() {
			totalOpen++
		}
	}

	items := make([]AttentionItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, AttentionItem{
			DealID:         e.Deal.ID,
			Title:          e.Deal.Title,
			Company:        e.Deal.Company,
			Priority:       string(e.Priority),
			Risk:           string(e.Risk),
			Score:          e.Score,
			InactivityDays: e.InactivityDays,
			SLADays:        e.SLADays,
			Reasons:        e.Reasons,
		})
	}
	if input != nil && input.Limit > 0 && len(items) > input.Limit {
		items = items[:input.Limit]
	}

	return &Output{
		Items:       items,
		Count:       len(items),
		TotalOpen:   totalOpen,
		GeneratedAt: now.Format(time.RFC3339),
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
