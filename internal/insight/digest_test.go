// internal/insight/digest_test.go
package insight

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"crm-insight-workers/internal/models"
)

func TestGenerateDailyDigest_FixedLines(t *testing.T) {
	digest := GenerateDailyDigest(nil, nil, nil, testNow)

	assert.Contains(t, digest, DigestLineHotDeals+" 0")
	assert.Contains(t, digest, DigestLineHighRisk+" 0")
	assert.Contains(t, digest, DigestLineOverdueTasks+" 0")
	assert.Contains(t, digest, "2026-08-29")
}

func TestGenerateDailyDigest_Counts(t *testing.T) {
	hot := openDeal()
	hot.ID = "hot"
	hot.Title = "Contrato Cierre"
	hot.Amount = 85000
	hot.Probability = 90
	hot.Stage = models.StageCierre
	hot.StageEnteredAt = daysAgo(1)
	hot.LastActivity = timePtr(testNow)
	hot.TargetCloseDate = timePtr(testNow.AddDate(0, 0, 7))

	risky := openDeal()
	risky.ID = "risky"
	risky.Title = "Negocio estancado"
	risky.Amount = 3000
	risky.NextStep = ""
	risky.LastActivity = daysAgo(20)
	risky.TargetCloseDate = daysAgo(10)

	won := openDeal()
	won.ID = "won"
	won.Status = models.DealStatusWon
	won.CloseReason = "Firmado"
	won.Amount = 500000 // closed deals never count as the largest open deal

	tasks := []models.Task{
		{ID: "t1", Title: "Llamar", State: models.TaskStatePending, DueAt: daysAgo(2)},
		{ID: "t2", Title: "Enviar propuesta", State: models.TaskStateCompleted, DueAt: daysAgo(5)},
		{ID: "t3", Title: "Demo", State: models.TaskStateOverdue},
	}

	deals := []models.Deal{hot, risky, won}
	alerts := DetectDealAlerts(ComputeDealAttention(deals, testNow))
	digest := GenerateDailyDigest(deals, tasks, alerts, testNow)

	assert.Contains(t, digest, DigestLineHotDeals+" 1")
	assert.Contains(t, digest, DigestLineHighRisk+" 1")
	assert.Contains(t, digest, DigestLineOverdueTasks+" 2")
	assert.Contains(t, digest, "Mayor deal abierto: Contrato Cierre ($85000)")
	assert.Contains(t, digest, "Alertas destacadas:")
	assert.Contains(t, digest, "Fecha objetivo vencida: Negocio estancado")
}

func TestGenerateDailyDigest_AlertLinesCappedAtThree(t *testing.T) {
	alerts := []DealAlert{
		{Message: "a1"}, {Message: "a2"}, {Message: "a3"}, {Message: "a4"},
	}
	digest := GenerateDailyDigest(nil, nil, alerts, testNow)

	assert.Equal(t, 3, strings.Count(digest, "\n- "))
	assert.NotContains(t, digest, "a4")
}

func TestGenerateDailyDigest_Deterministic(t *testing.T) {
	deals := []models.Deal{openDeal()}
	tasks := []models.Task{{ID: "t1", State: models.TaskStatePending, DueAt: daysAgo(1)}}

	first := GenerateDailyDigest(deals, tasks, nil, testNow)
	second := GenerateDailyDigest(deals, tasks, nil, testNow)
	assert.Equal(t, first, second)
}
