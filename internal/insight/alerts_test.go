// internal/insight/alerts_test.go
package insight

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crm-insight-workers/internal/models"
)

func TestDetectDealAlerts_OverdueIsCritical(t *testing.T) {
	deal := openDeal()
	deal.NextStep = ""
	deal.TargetCloseDate = daysAgo(5)
	deal.LastActivity = daysAgo(20)

	alerts := DetectDealAlerts(ComputeDealAttention([]models.Deal{deal}, testNow))

	require.Len(t, alerts, 1)
	assert.Equal(t, SeverityCritical, alerts[0].Severity)
	assert.Equal(t, AlertOverdueTargetDate, alerts[0].Type)
	assert.Equal(t, actionOverdue, alerts[0].RecommendedAction)
}

func TestDetectDealAlerts_MissingNextStepIsWarning(t *testing.T) {
	deal := openDeal()
	deal.NextStep = ""
	deal.TargetCloseDate = timePtr(testNow.AddDate(0, 0, 10))
	deal.LastActivity = daysAgo(1)

	alerts := DetectDealAlerts(ComputeDealAttention([]models.Deal{deal}, testNow))

	require.Len(t, alerts, 1)
	assert.Equal(t, SeverityWarning, alerts[0].Severity)
	assert.Equal(t, AlertMissingNextStep, alerts[0].Type)
	assert.Equal(t, actionNextStep, alerts[0].RecommendedAction)
}

func TestDetectDealAlerts_InactivityActionBeatsNextStep(t *testing.T) {
	deal := openDeal()
	deal.NextStep = ""
	deal.TargetCloseDate = timePtr(testNow.AddDate(0, 0, 10))
	deal.LastActivity = daysAgo(9)

	alerts := DetectDealAlerts(ComputeDealAttention([]models.Deal{deal}, testNow))

	require.Len(t, alerts, 1)
	assert.Equal(t, SeverityWarning, alerts[0].Severity)
	assert.Contains(t, alerts[0].RecommendedAction, "9 día(s) sin actividad")
}

func TestDetectDealAlerts_IgnoresInactivityOnlyEntries(t *testing.T) {
	// Inactivity past SLA alone flags attention but not an alert.
	deal := openDeal()
	deal.TargetCloseDate = timePtr(testNow.AddDate(0, 0, 10))
	deal.LastActivity = daysAgo(20)

	entries := ComputeDealAttention([]models.Deal{deal}, testNow)
	require.NotEmpty(t, entries)
	assert.Empty(t, DetectDealAlerts(entries))
}

func TestDetectDealAlerts_SortCriticalFirstThenScore(t *testing.T) {
	warnHigh := openDeal()
	warnHigh.ID = "warn-high"
	warnHigh.Probability = 90
	warnHigh.Amount = 85000
	warnHigh.Stage = models.StageCierre
	warnHigh.StageEnteredAt = daysAgo(1)
	warnHigh.NextStep = ""
	warnHigh.TargetCloseDate = timePtr(testNow.AddDate(0, 0, 10))

	critLow := openDeal()
	critLow.ID = "crit-low"
	critLow.Probability = 10
	critLow.Amount = 1000
	critLow.TargetCloseDate = daysAgo(3)

	alerts := DetectDealAlerts(ComputeDealAttention([]models.Deal{warnHigh, critLow}, testNow))

	require.Len(t, alerts, 2)
	assert.Equal(t, "crit-low", alerts[0].DealID)
	assert.Equal(t, SeverityCritical, alerts[0].Severity)
	assert.Equal(t, "warn-high", alerts[1].DealID)
}

func TestBuildAlertsChannelPayload_Empty(t *testing.T) {
	payload := BuildAlertsChannelPayload(nil)
	assert.Equal(t, NoAlertsMessage, payload.Text)
	assert.Empty(t, payload.Attachments)

	payload = BuildAlertsChannelPayload([]DealAlert{})
	assert.Equal(t, NoAlertsMessage, payload.Text)
	assert.Empty(t, payload.Attachments)
}

func TestBuildAlertsChannelPayload_Attachments(t *testing.T) {
	alerts := []DealAlert{
		{
			DealID:            "deal-1",
			Title:             "Licencias anuales",
			Company:           "Acme SA",
			Severity:          SeverityCritical,
			Type:              AlertOverdueTargetDate,
			Priority:          models.PriorityHot,
			Risk:              models.RiskAlto,
			Message:           "Fecha objetivo vencida: Licencias anuales",
			RecommendedAction: actionOverdue,
		},
		{
			DealID:            "deal-2",
			Title:             "Renovación",
			Severity:          SeverityWarning,
			Type:              AlertMissingNextStep,
			Priority:          models.PriorityWarm,
			Risk:              models.RiskMedio,
			Message:           "Sin próximo paso: Renovación",
			RecommendedAction: actionNextStep,
		},
	}

	payload := BuildAlertsChannelPayload(alerts)

	assert.Contains(t, payload.Text, "2 alerta(s)")
	require.Len(t, payload.Attachments, 2)
	assert.Equal(t, "Fecha objetivo vencida: Licencias anuales", payload.Attachments[0].Title)
	assert.Contains(t, payload.Attachments[0].Body, "Acme SA")
	assert.Contains(t, payload.Attachments[0].Body, "Hot")
	assert.Contains(t, payload.Attachments[0].Body, actionOverdue)
	assert.Contains(t, payload.Attachments[1].Body, "Empresa: -")
}
