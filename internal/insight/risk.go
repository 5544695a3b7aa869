// internal/insight/risk.go
package insight

import (
	"time"

	"crm-insight-workers/internal/models"
)

// Risk score thresholds.
const (
	riskAltoThreshold  = 7
	riskMedioThreshold = 3
)

// ClassifyRisk evaluates the independent risk rules for one deal and maps
// the accumulated score onto Bajo/Medio/Alto.
//
// The tiered inactivity rule and the flat ">7 days" rule both fire in the
// 7-13 day band. That double count matches the production rule set and is
// kept on purpose; see DESIGN.md.
func ClassifyRisk(deal *models.Deal, now time.Time) models.RiskLevel {
	risk := 0
	inactivity := deal.InactivityDays(now)

	switch {
	case inactivity >= 14:
		risk += 3
	case inactivity >= 7:
		risk += 2
	case inactivity >= 3:
		risk++
	}

	if deal.TargetCloseDate != nil && deal.TargetCloseDate.Before(now) {
		risk += 3
	}
	if deal.NextStep == "" {
		risk += 2
	}
	if deal.Probability < 30 {
		risk++
	}
	if inactivity > 7 {
		risk++
	}

	switch {
	case risk >= riskAltoThreshold:
		return models.RiskAlto
	case risk >= riskMedioThreshold:
		return models.RiskMedio
	default:
		return models.RiskBajo
	}
}
