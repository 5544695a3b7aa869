// internal/workers/scoring/score-contact/handler.go
package scorecontact

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"

	"crm-insight-workers/internal/common/logger"
	"crm-insight-workers/internal/insight"
	"crm-insight-workers/internal/store"
)

const (
	TaskType = "score-contact"
)

var (
	ErrContactNotFound = errors.New("CONTACT_NOT_FOUND")
)

type Handler struct {
	config *Config
	store  store.Store
	cache  *redis.Client
	logger logger.Logger
	now    func() time.Time
}

// NewHandler creates a score-contact handler. cache may be nil; caching is then skipped.
func NewHandler(config *Config, s store.Store, cache *redis.Client, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		store:  s,
		cache:  cache,
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
		errorCode := "QUERY_EXECUTION_FAILED"
		retries := int32(3)
		if errors.Is(err, ErrContactNotFound) {
			errorCode = "CONTACT_NOT_FOUND"
			retries = 0
		}
		h.failJob(client, job, errorCode, err.Error(), retries)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil || input.ContactID == "" {
		return nil, fmt.Errorf("contactId is required")
	}

	if !input.ForceRefresh {
		if cached := h.readCache(ctx, input.ContactID); cached != nil {
			cached.FromCache = true
			return cached, nil
		}
	}

	contact, err := h.store.GetContact(ctx, input.ContactID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrContactNotFound, input.ContactID)
		}
		return nil, err
	}

	deals, err := h.store.GetContactDeals(ctx, input.ContactID)
	if err != nil {
		return nil, err
	}

	result := insight.ScoreContact(contact, deals, h.now())

	openDeals := 0
	for _, d := range deals {
		if d.IsOpen() {
			openDeals++
		}
	}

	output := &Output{
		ContactID: contact.ID,
		Score:     result.Score,
		Priority:  string(result.Priority),
		Factors:   result.Factors,
		Reasoning: result.Reasoning,
		DealCount: openDeals,
	}

	h.writeCache(ctx, output)
	return output, nil
}

func cacheKey(contactID string) string {
	return fmt.Sprintf("insight:score:contact:%s", contactID)
}

// readCache returns the cached output, or nil on miss or any cache error.
func (h *Handler) readCache(ctx context.Context, contactID string) *Output {
	if h.cache == nil {
		return nil
	}
	raw, err := h.cache.Get(ctx, cacheKey(contactID)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			h.logger.Warn("score cache read failed", map[string]interface{}{
				"contactId": contactID,
				"error":     err.Error(),
			})
		}
		return nil
	}
	var out Output
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil
	}
	return &out
}

// writeCache stores the output; cache failures never fail the job.
func (h *Handler) writeCache(ctx context.Context, output *Output) {
	if h.cache == nil {
		return
	}
	raw, err := json.Marshal(output)
	if err != nil {
		return
	}
	if err := h.cache.Set(ctx, cacheKey(output.ContactID), raw, h.config.CacheTTL).Err(); err != nil {
		h.logger.Warn("score cache write failed", map[string]interface{}{
			"contactId": output.ContactID,
			"error":     err.Error(),
		})
	}
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
