// internal/insight/normalize.go
package insight

import "crm-insight-workers/internal/models"

// Per-stage maximum duration budget in days, indexed by 1-based stage ordinal.
var stageBudgetDays = map[int]int{
	1: 30,
	2: 21,
	3: 14,
	4: 7,
	5: 7,
}

// NormalizeAmount maps a monetary amount onto a 0-100 scale using a
// piecewise-linear curve. Monotonically non-decreasing, capped at 100.
func NormalizeAmount(amount float64) float64 {
	switch {
	case amount <= 0:
		return 0
	case amount < 5000:
		return amount / 5000 * 20
	case amount < 25000:
		return 20 + (amount-5000)/20000*30
	case amount < 75000:
		return 50 + (amount-25000)/50000*25
	default:
		score := 75 + (amount-75000)/75000*25
		if score > 100 {
			return 100
		}
		return score
	}
}

// ActivityScore maps days since last activity onto a 0-100 step scale.
func ActivityScore(daysSinceActivity int) float64 {
	switch {
	case daysSinceActivity <= 0:
		return 100
	case daysSinceActivity == 1:
		return 90
	case daysSinceActivity <= 3:
		return 80
	case daysSinceActivity <= 7:
		return 60
	case daysSinceActivity <= 14:
		return 40
	case daysSinceActivity <= 30:
		return 20
	default:
		return 0
	}
}

// StageScore scales the stage's 1-based ordinal to 0-100.
func StageScore(stage models.Stage) float64 {
	return float64(stage.Ordinal()) / float64(len(models.PipelineStages)) * 100
}

// TimeInStageScore scores how long a deal has sat in its current stage
// against that stage's duration budget. Deals past budget decay by 5 points
// per extra day, floored at 0.
func TimeInStageScore(daysInStage int, stage models.Stage) float64 {
	budget, ok := stageBudgetDays[stage.Ordinal()]
	if !ok {
		budget = stageBudgetDays[1]
	}

	elapsed := float64(daysInStage)
	b := float64(budget)
	switch {
	case elapsed <= b/3:
		return 100
	case elapsed <= 2*b/3:
		return 70
	case elapsed <= b:
		return 40
	default:
		score := 40 - 5*(elapsed-b)
		if score < 0 {
			return 0
		}
		return score
	}
}

// LastActivityScore decays linearly with inactivity, 5 points per day.
func LastActivityScore(daysSinceActivity int) float64 {
	score := 100 - 5*float64(daysSinceActivity)
	if score < 0 {
		return 0
	}
	return score
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
