// internal/insight/scoring.go

// Package insight implements the deterministic lead/deal scoring and
// pipeline-insight engine. Every function is pure: outputs depend only on
// the entities passed in and the caller-supplied reference time.
package insight

import (
	"fmt"
	"math"
	"time"

	"crm-insight-workers/internal/models"
)

// Weighted-sum coefficients for the final score. The lastActivity factor is
// reported in Factors but intentionally carries no weight; it duplicates the
// activity signal and is kept for parity with the dashboard tooltips.
const (
	weightProbability = 0.35
	weightAmount      = 0.25
	weightActivity    = 0.25
	weightStage       = 0.10
	weightTimeInStage = 0.05
)

// Priority thresholds. Hot >= 75, Warm >= 45, else Cold.
const (
	HotThreshold  = 75
	WarmThreshold = 45
)

// Factors holds the six 0-100 sub-scores feeding the weighted sum.
type Factors struct {
	Probability  float64 `json:"probability"`
	Amount       float64 `json:"amount"`
	Activity     float64 `json:"activity"`
	Stage        float64 `json:"stage"`
	TimeInStage  float64 `json:"timeInStage"`
	LastActivity float64 `json:"lastActivity"`
}

// ScoreResult is the full output of the scoring engine for one entity.
type ScoreResult struct {
	Score     int             `json:"score"`
	Priority  models.Priority `json:"priority"`
	Factors   Factors         `json:"factors"`
	Reasoning []string        `json:"reasoning"`
}

// CalculateDealFactors computes the sub-scores for a single deal.
func CalculateDealFactors(deal *models.Deal, now time.Time) Factors {
	inactivity := deal.InactivityDays(now)
	return Factors{
		Probability:  clamp01(deal.Probability),
		Amount:       NormalizeAmount(deal.Amount),
		Activity:     ActivityScore(inactivity),
		Stage:        StageScore(deal.Stage),
		TimeInStage:  TimeInStageScore(deal.DaysInStage(now), deal.Stage),
		LastActivity: LastActivityScore(inactivity),
	}
}

// CalculateContactFactors aggregates a contact's sub-scores across its
// associated deals: mean probability, normalized summed amounts, the highest
// stage reached, and time-in-stage of the oldest deal. A contact with no
// deals degrades to zero on all deal-derived factors.
func CalculateContactFactors(contact *models.Contact, deals []models.Deal, now time.Time) Factors {
	inactivity := contact.InactivityDays(now)
	f := Factors{
		Activity:     ActivityScore(inactivity),
		LastActivity: LastActivityScore(inactivity),
	}
	if len(deals) == 0 {
		return f
	}

	var probSum, amountSum float64
	maxStage := deals[0].Stage
	oldest := &deals[0]
	for i := range deals {
		d := &deals[i]
		probSum += clamp01(d.Probability)
		amountSum += d.Amount
		if d.Stage.Ordinal() > maxStage.Ordinal() {
			maxStage = d.Stage
		}
		if d.CreatedAt.Before(oldest.CreatedAt) {
			oldest = d
		}
	}

	f.Probability = probSum / float64(len(deals))
	f.Amount = NormalizeAmount(amountSum)
	f.Stage = StageScore(maxStage)
	f.TimeInStage = TimeInStageScore(oldest.DaysInStage(now), oldest.Stage)
	return f
}

// CalculateWeightedScore collapses the factors into the final 0-100 score.
func CalculateWeightedScore(f Factors) int {
	raw := f.Probability*weightProbability +
		f.Amount*weightAmount +
		f.Activity*weightActivity +
		f.Stage*weightStage +
		f.TimeInStage*weightTimeInStage

	score := int(math.Round(raw))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// PriorityForScore maps a score onto its priority bucket.
func PriorityForScore(score int) models.Priority {
	switch {
	case score >= HotThreshold:
		return models.PriorityHot
	case score >= WarmThreshold:
		return models.PriorityWarm
	default:
		return models.PriorityCold
	}
}

// buildReasoning assembles the human-readable explanation list. Purely
// informational; nothing downstream branches on these strings.
func buildReasoning(f Factors, score int) []string {
	reasons := []string{}
	if f.Probability > 70 {
		reasons = append(reasons, fmt.Sprintf("Probabilidad de cierre alta (%.0f%%)", f.Probability))
	}
	if f.Amount > 60 {
		reasons = append(reasons, "Monto significativo para el pipeline")
	}
	if f.Activity > 80 {
		reasons = append(reasons, "Actividad muy reciente")
	}
	if f.Stage > 60 {
		reasons = append(reasons, "Etapa avanzada del pipeline")
	}
	if score < 30 {
		reasons = append(reasons, "Score bajo: requiere reactivación")
	}
	if score > 80 {
		reasons = append(reasons, "Score alto: priorizar seguimiento")
	}
	return reasons
}

// ScoreDeal runs the full scoring pipeline for one deal.
func ScoreDeal(deal *models.Deal, now time.Time) ScoreResult {
	factors := CalculateDealFactors(deal, now)
	score := CalculateWeightedScore(factors)
	return ScoreResult{
		Score:     score,
		Priority:  PriorityForScore(score),
		Factors:   factors,
		Reasoning: buildReasoning(factors, score),
	}
}

// ScoreContact runs the full scoring pipeline for one contact and its deals.
func ScoreContact(contact *models.Contact, deals []models.Deal, now time.Time) ScoreResult {
	factors := CalculateContactFactors(contact, deals, now)
	score := CalculateWeightedScore(factors)
	return ScoreResult{
		Score:     score,
		Priority:  PriorityForScore(score),
		Factors:   factors,
		Reasoning: buildReasoning(factors, score),
	}
}
