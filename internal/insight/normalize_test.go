// internal/insight/normalize_test.go
package insight

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"crm-insight-workers/internal/models"
)

func TestNormalizeAmount(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		expected float64
	}{
		{"zero", 0, 0},
		{"negative treated as zero", -500, 0},
		{"small deal midpoint", 2500, 10},
		{"first band boundary", 5000, 20},
		{"second band midpoint", 15000, 35},
		{"second band boundary", 25000, 50},
		{"third band midpoint", 50000, 62.5},
		{"third band boundary", 75000, 75},
		{"large deal", 112500, 87.5},
		{"cap reached", 150000, 100},
		{"beyond cap stays at 100", 400000, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, NormalizeAmount(tt.amount), 0.001)
		})
	}
}

func TestNormalizeAmount_Monotonic(t *testing.T) {
	prev := NormalizeAmount(0)
	for amount := float64(500); amount <= 200000; amount += 500 {
		score := NormalizeAmount(amount)
		assert.GreaterOrEqual(t, score, prev, "amount %.0f", amount)
		assert.LessOrEqual(t, score, 100.0)
		prev = score
	}
}

func TestActivityScore(t *testing.T) {
	tests := []struct {
		days     int
		expected float64
	}{
		{0, 100},
		{1, 90},
		{2, 80},
		{3, 80},
		{4, 60},
		{7, 60},
		{8, 40},
		{14, 40},
		{15, 20},
		{30, 20},
		{31, 0},
		{90, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ActivityScore(tt.days), "days=%d", tt.days)
	}
}

func TestStageScore(t *testing.T) {
	assert.Equal(t, 20.0, StageScore(models.StageProspeccion))
	assert.Equal(t, 40.0, StageScore(models.StageCalificacion))
	assert.Equal(t, 60.0, StageScore(models.StagePropuesta))
	assert.Equal(t, 80.0, StageScore(models.StageNegociacion))
	assert.Equal(t, 100.0, StageScore(models.StageCierre))
	// unknown stage defaults to the first ordinal
	assert.Equal(t, 20.0, StageScore(models.Stage("Discovery")))
}

func TestTimeInStageScore(t *testing.T) {
	tests := []struct {
		name     string
		days     int
		stage    models.Stage
		expected float64
	}{
		{"fresh in first stage", 5, models.StageProspeccion, 100},
		{"first third boundary", 10, models.StageProspeccion, 100},
		{"second third", 15, models.StageProspeccion, 70},
		{"within budget", 25, models.StageProspeccion, 40},
		{"one day over budget", 31, models.StageProspeccion, 35},
		{"decayed to zero", 39, models.StageProspeccion, 0},
		{"closing stage fresh", 2, models.StageCierre, 100},
		{"closing stage mid", 4, models.StageCierre, 70},
		{"closing stage at budget", 7, models.StageCierre, 40},
		{"closing stage overrun", 10, models.StageCierre, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, TimeInStageScore(tt.days, tt.stage), 0.001)
		})
	}
}

func TestLastActivityScore(t *testing.T) {
	assert.Equal(t, 100.0, LastActivityScore(0))
	assert.Equal(t, 75.0, LastActivityScore(5))
	assert.Equal(t, 0.0, LastActivityScore(20))
	assert.Equal(t, 0.0, LastActivityScore(45))
}
