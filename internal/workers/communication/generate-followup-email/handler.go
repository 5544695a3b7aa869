package generatefollowupemail

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
	"crm-insight-workers/internal/insight"
	"crm-insight-workers/internal/store"
)

const (
	TaskType = "generate-followup-email"
)

var (
	ErrDealNotFound         = errors.New("DEAL_NOT_FOUND")
	ErrTemplateRenderFailed = errors.New("TEMPLATE_RENDER_FAILED")
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
		errorCode := "TEMPLATE_RENDER_FAILED"
		retries := int32(0)
		if errors.Is(err, ErrDealNotFound) {
			errorCode = "DEAL_NOT_FOUND"
		}
		h.failJob(client, job, errorCode, err.Error(), retries)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil || input.DealID == "" {
		return nil, fmt.Errorf("dealId is required")
	}

	deal, err := h.store.GetDeal(ctx, input.DealID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrDealNotFound, input.DealID)
		}
		return nil, err
	}

	now := h.now()
	result := insight.ScoreDeal(deal, now)
	risk := insight.ClassifyRisk(deal, now)

	emailCtx := emailContext{
		ContactName:    "",
		Company:        deal.Company,
		DealTitle:      deal.Title,
		Amount:         deal.Amount,
		Stage:          string(deal.Stage),
		NextStep:       deal.NextStep,
		Score:          result.Score,
		Priority:       string(result.Priority),
		RiskLevel:      string(risk),
		InactivityDays: deal.InactivityDays(now),
		SenderName:     h.senderName(input),
	}

	var to string
	if deal.ContactID != "" {
		contact, err := h.store.GetContact(ctx, deal.ContactID)
		if err == nil {
			emailCtx.ContactName = contact.Name
			to = contact.Email
		} else if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
	}
	if emailCtx.ContactName == "" {
		emailCtx.ContactName = "equipo de " + firstNonEmpty(deal.Company, deal.Title)
	}

	subject, body, err := render(emailCtx, risk == "Alto")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplateRenderFailed, err)
	}

	return &Output{
		DealID:      deal.ID,
		To:          to,
		Subject:     subject,
		Body:        body,
		Tone:        toneFor(emailCtx.Priority),
		Priority:    emailCtx.Priority,
		RiskLevel:   emailCtx.RiskLevel,
		GeneratedAt: now.Format(time.RFC3339),
	}, nil
}

func (h *Handler) senderName(input *Input) string {
	if input.SenderName != "" {
		return input.SenderName
	}
	return h.config.SenderName
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func toneFor(priority string) string {
	switch priority {
	case "Hot":
		return "directo"
	case "Warm":
		return "cordial"
	}
	return "reactivación"
}

func render(emailCtx emailContext, urgent bool) (string, string, error) {
	subjectTmpl, ok := subjectTemplates[emailCtx.Priority]
	if !ok {
		return "", "", fmt.Errorf("no subject template for priority %q", emailCtx.Priority)
	}
	bodyTmpl, ok := bodyTemplates[emailCtx.Priority]
	if !ok {
		return "", "", fmt.Errorf("no body template for priority %q", emailCtx.Priority)
	}

	var subject, body strings.Builder
	if err := subjectTmpl.Execute(&subject, emailCtx); err != nil {
		return "", "", err
	}
	if err := bodyTmpl.Execute(&body, bodyContext{emailContext: emailCtx, Urgent: urgent}); err != nil {
		return "", "", err
	}

	return subject.String(), body.String(), nil
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
