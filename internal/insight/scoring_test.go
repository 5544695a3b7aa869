// internal/insight/scoring_test.go
package insight

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"crm-insight-workers/internal/models"
)

var testNow = time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

func timePtr(t time.Time) *time.Time { return &t }

func daysAgo(days int) *time.Time {
	t := testNow.AddDate(0, 0, -days)
	return &t
}

func openDeal() models.Deal {
	return models.Deal{
		ID:             "deal-1",
		Title:          "Licencias anuales",
		Company:        "Acme SA",
		Amount:         20000,
		Stage:          models.StagePropuesta,
		Probability:    50,
		NextStep:       "Enviar propuesta",
		Status:         models.DealStatusOpen,
		LastActivity:   daysAgo(1),
		StageEnteredAt: daysAgo(2),
		CreatedAt:      testNow.AddDate(0, 0, -30),
		UpdatedAt:      testNow,
	}
}

func TestScoreDeal_HotScenario(t *testing.T) {
	deal := models.Deal{
		ID:             "deal-hot",
		Title:          "Contrato Cierre",
		Amount:         85000,
		Stage:          models.StageCierre,
		Probability:    90,
		NextStep:       "Firmar contrato",
		Status:         models.DealStatusOpen,
		LastActivity:   timePtr(testNow),
		StageEnteredAt: timePtr(testNow),
		CreatedAt:      testNow.AddDate(0, 0, -10),
	}

	result := ScoreDeal(&deal, testNow)

	// 90*0.35 + 78.33*0.25 + 100*0.25 + 100*0.10 + 100*0.05 = 91.08
	assert.Equal(t, 91, result.Score)
	assert.Equal(t, models.PriorityHot, result.Priority)
	assert.Equal(t, models.RiskBajo, ClassifyRisk(&deal, testNow))
	assert.GreaterOrEqual(t, result.Score, 75)
	assert.NotEmpty(t, result.Reasoning)
}

func TestScoreDeal_BoundsAndPriorityBuckets(t *testing.T) {
	deals := []models.Deal{
		{Status: models.DealStatusOpen, CreatedAt: testNow.AddDate(0, 0, -200)},
		{Amount: 1e9, Probability: 100, Stage: models.StageCierre,
			LastActivity: timePtr(testNow), StageEnteredAt: timePtr(testNow), CreatedAt: testNow},
		openDeal(),
	}

	for i := range deals {
		result := ScoreDeal(&deals[i], testNow)
		assert.GreaterOrEqual(t, result.Score, 0)
		assert.LessOrEqual(t, result.Score, 100)
		assert.Equal(t, PriorityForScore(result.Score), result.Priority)
	}
}

func TestPriorityForScore_Exhaustive(t *testing.T) {
	for score := 0; score <= 100; score++ {
		p := PriorityForScore(score)
		switch {
		case score >= 75:
			assert.Equal(t, models.PriorityHot, p, "score=%d", score)
		case score >= 45:
			assert.Equal(t, models.PriorityWarm, p, "score=%d", score)
		default:
			assert.Equal(t, models.PriorityCold, p, "score=%d", score)
		}
	}
}

func TestCalculateDealFactors_LastActivityReportedNotWeighted(t *testing.T) {
	deal := openDeal()
	deal.LastActivity = daysAgo(10)

	factors := CalculateDealFactors(&deal, testNow)
	assert.Equal(t, 50.0, factors.LastActivity)

	// Shifting only the lastActivity factor must not change the score.
	shifted := factors
	shifted.LastActivity = 0
	assert.Equal(t, CalculateWeightedScore(factors), CalculateWeightedScore(shifted))
}

func TestCalculateDealFactors_MissingDataDegrades(t *testing.T) {
	deal := models.Deal{
		Status:    models.DealStatusOpen,
		Stage:     models.Stage("desconocida"),
		CreatedAt: testNow.AddDate(0, 0, -60),
	}

	factors := CalculateDealFactors(&deal, testNow)
	assert.Equal(t, 0.0, factors.Probability)
	assert.Equal(t, 0.0, factors.Amount)
	assert.Equal(t, 0.0, factors.Activity)
	assert.Equal(t, 20.0, factors.Stage) // unknown stage falls back to ordinal 1
}

func TestCalculateContactFactors_Aggregation(t *testing.T) {
	contact := models.Contact{
		ID:           "contact-1",
		Name:         "Laura Méndez",
		LastActivity: daysAgo(1),
		CreatedAt:    testNow.AddDate(0, 0, -90),
	}
	deals := []models.Deal{
		{
			Probability: 60, Amount: 10000, Stage: models.StagePropuesta,
			Status:    models.DealStatusOpen,
			CreatedAt: testNow.AddDate(0, 0, -40), StageEnteredAt: daysAgo(5),
		},
		{
			Probability: 80, Amount: 15000, Stage: models.StageNegociacion,
			Status:    models.DealStatusOpen,
			CreatedAt: testNow.AddDate(0, 0, -10), StageEnteredAt: daysAgo(1),
		},
	}

	factors := CalculateContactFactors(&contact, deals, testNow)

	assert.Equal(t, 70.0, factors.Probability) // mean of 60 and 80
	assert.Equal(t, 50.0, factors.Amount)      // normalized from 25000 summed
	assert.Equal(t, 80.0, factors.Stage)       // max ordinal reached
	assert.Equal(t, 70.0, factors.TimeInStage) // oldest deal, 5 days into Propuesta
	assert.Equal(t, 90.0, factors.Activity)    // contact active yesterday
}

func TestCalculateContactFactors_NoDeals(t *testing.T) {
	contact := models.Contact{ID: "contact-2", Name: "Sin Negocios", CreatedAt: testNow}

	factors := CalculateContactFactors(&contact, nil, testNow)
	assert.Equal(t, 0.0, factors.Probability)
	assert.Equal(t, 0.0, factors.Amount)
	assert.Equal(t, 0.0, factors.Stage)
	assert.Equal(t, 0.0, factors.TimeInStage)

	result := ScoreContact(&contact, nil, testNow)
	assert.Equal(t, models.PriorityCold, result.Priority)
}

func TestScoreDeal_Deterministic(t *testing.T) {
	deal := openDeal()
	first := ScoreDeal(&deal, testNow)
	second := ScoreDeal(&deal, testNow)
	assert.Equal(t, first, second)
}
