// internal/workers/notification/dispatch-alert-channel/handler_test.go
package dispatchalertchannel

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crm-insight-workers/internal/common/logger"
	"crm-insight-workers/internal/insight"
	"crm-insight-workers/internal/models"
)

type fakePublisher struct {
	lastInput *sns.PublishInput
	err       error
}

func (f *fakePublisher) Publish(_ context.Context, input *sns.PublishInput) (*sns.PublishOutput, error) {
	f.lastInput = input
	if f.err != nil {
		return nil, f.err
	}
	return &sns.PublishOutput{MessageId: aws.String("msg-123")}, nil
}

func sampleAlerts() []insight.DealAlert {
	return []insight.DealAlert{
		{
			DealID:            "deal-1",
			Title:             "Ampliación Norte",
			Company:           "Distribuidora Norte",
			Severity:          insight.SeverityCritical,
			Type:              insight.AlertOverdueTargetDate,
			Priority:          models.PriorityCold,
			Risk:              models.RiskAlto,
			Score:             41,
			InactivityDays:    12,
			Message:           "Fecha objetivo vencida: Ampliación Norte",
			RecommendedAction: "Reagendar la fecha objetivo y contactar al cliente hoy",
		},
	}
}

func newTestHandler(t *testing.T, pub Publisher, enabled bool) *Handler {
	cfg := &Config{Timeout: 5 * time.Second, TopicARN: "arn:aws:sns:us-east-1:123:alerts", Enabled: enabled}
	return NewHandler(cfg, pub, logger.NewTestLogger(t))
}

func TestHandler_Execute_PublishesAlerts(t *testing.T) {
	pub := &fakePublisher{}
	h := newTestHandler(t, pub, true)

	output, err := h.Execute(context.Background(), &Input{Alerts: sampleAlerts()})
	require.NoError(t, err)

	assert.Equal(t, "msg-123", output.MessageID)
	assert.Equal(t, 1, output.AlertCount)
	assert.False(t, output.Skipped)
	assert.Equal(t, "🚨 1 alerta(s) en el pipeline", output.Text)

	require.NotNil(t, pub.lastInput)
	assert.Equal(t, "arn:aws:sns:us-east-1:123:alerts", *pub.lastInput.TopicArn)

	var payload insight.ChannelPayload
	require.NoError(t, json.Unmarshal([]byte(*pub.lastInput.Message), &payload))
	require.Len(t, payload.Attachments, 1)
	assert.Contains(t, payload.Attachments[0].Body, "Acción recomendada:")
}

func TestHandler_Execute_EmptyAlertsSendFixedMessage(t *testing.T) {
	pub := &fakePublisher{}
	h := newTestHandler(t, pub, true)

	output, err := h.Execute(context.Background(), &Input{})
	require.NoError(t, err)

	assert.Equal(t, insight.NoAlertsMessage, output.Text)
	assert.Zero(t, output.AlertCount)

	var payload insight.ChannelPayload
	require.NoError(t, json.Unmarshal([]byte(*pub.lastInput.Message), &payload))
	assert.Empty(t, payload.Attachments)
}

func TestHandler_Execute_DisabledSkipsPublish(t *testing.T) {
	pub := &fakePublisher{}
	h := newTestHandler(t, pub, false)

	output, err := h.Execute(context.Background(), &Input{Alerts: sampleAlerts()})
	require.NoError(t, err)
	assert.True(t, output.Skipped)
	assert.Nil(t, pub.lastInput)
}

func TestHandler_Execute_PublishError(t *testing.T) {
	pub := &fakePublisher{err: assert.AnError}
	h := newTestHandler(t, pub, true)

	_, err := h.Execute(context.Background(), &Input{Alerts: sampleAlerts()})
	assert.ErrorIs(t, err, ErrNotificationSendFailed)
}
