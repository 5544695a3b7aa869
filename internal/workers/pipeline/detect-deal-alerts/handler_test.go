// internal/workers/pipeline/detect-deal-alerts/handler_test.go
package detectdealalerts

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crm-insight-workers/internal/common/logger"
	"crm-insight-workers/internal/insight"
	"crm-insight-workers/internal/models"
	"crm-insight-workers/internal/store"
)

var testNow = time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

func newTestHandler(t *testing.T, s store.Store) *Handler {
	h := NewHandler(&Config{Timeout: 5 * time.Second}, s, logger.NewTestLogger(t))
	h.now = func() time.Time { return testNow }
	return h
}

func TestHandler_Execute_DemoPipeline(t *testing.T) {
	h := newTestHandler(t, store.NewDemoStore(testNow))

	output, err := h.Execute(context.Background(), &Input{})
	require.NoError(t, err)

	// Only the neglected deal has an overdue date or a missing next step.
	require.Equal(t, 1, output.Count)
	assert.True(t, output.HasCritical)

	alert := output.Alerts[0]
	assert.Equal(t, "deal-demo-2", alert.DealID)
	assert.Equal(t, insight.SeverityCritical, alert.Severity)
	assert.Equal(t, insight.AlertOverdueTargetDate, alert.Type)
	assert.Contains(t, alert.Message, "Fecha objetivo vencida")
}

func TestHandler_Execute_WarningsSortAfterCritical(t *testing.T) {
	s := store.NewDemoStore(testNow)
	// A strong deal that simply lacks a next step: warning severity.
	ahead := testNow.AddDate(0, 0, 10)
	recent := testNow.AddDate(0, 0, -1)
	s.PutDeal(models.Deal{
		ID: "deal-warn", Title: "Upgrade enterprise", Company: "Gamma SA",
		Amount: 90000, Stage: models.StageNegociacion, Probability: 80,
		TargetCloseDate: &ahead, Status: models.DealStatusOpen,
		LastActivity: &recent, StageEnteredAt: &recent,
		CreatedAt: testNow.AddDate(0, 0, -10), UpdatedAt: testNow,
	})

	h := newTestHandler(t, s)
	output, err := h.Execute(context.Background(), &Input{})
	require.NoError(t, err)

	require.Equal(t, 2, output.Count)
	assert.Equal(t, insight.SeverityCritical, output.Alerts[0].Severity)
	assert.Equal(t, "deal-warn", output.Alerts[1].DealID)
	assert.Equal(t, insight.SeverityWarning, output.Alerts[1].Severity)
	assert.Equal(t, insight.AlertMissingNextStep, output.Alerts[1].Type)
}

func TestHandler_Execute_NoAlerts(t *testing.T) {
	h := newTestHandler(t, store.NewMemoryStore())

	output, err := h.Execute(context.Background(), &Input{})
	require.NoError(t, err)
	assert.Zero(t, output.Count)
	assert.False(t, output.HasCritical)
	assert.Empty(t, output.Alerts)
}
