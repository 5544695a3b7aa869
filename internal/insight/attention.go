// internal/insight/attention.go
package insight

import (
	"fmt"
	"sort"
	"time"

	"crm-insight-workers/internal/models"
)

// Inactivity SLA in days, keyed by resolved priority. Hot deals get the
// tightest window.
var slaDaysByPriority = map[models.Priority]int{
	models.PriorityHot:  3,
	models.PriorityWarm: 7,
	models.PriorityCold: 14,
}

// Attention reason strings surfaced to the dashboard and alert channels.
const (
	ReasonMissingNextStep  = "Sin próximo paso definido"
	ReasonMissingCloseDate = "Sin fecha objetivo"
	ReasonHighRisk         = "Marcado como riesgo alto"
)

// AttentionEntry is one open deal flagged for follow-up.
type AttentionEntry struct {
	Deal           models.Deal      `json:"deal"`
	Priority       models.Priority  `json:"priority"`
	Risk           models.RiskLevel `json:"risk"`
	Score          int              `json:"score"`
	InactivityDays int              `json:"inactivityDays"`
	SLADays        int              `json:"slaDays"`
	Reasons        []string         `json:"reasons"`
}

// SLAForPriority returns the max allowed inactivity days for a priority.
func SLAForPriority(p models.Priority) int {
	if days, ok := slaDaysByPriority[p]; ok {
		return days
	}
	return slaDaysByPriority[models.PriorityCold]
}

// ComputeDealAttention scans open deals and returns the ones with at least
// one outstanding issue, sorted by score descending. Priority and risk are
// recomputed through the engine rather than read from the cached fields.
func ComputeDealAttention(deals []models.Deal, now time.Time) []AttentionEntry {
	entries := []AttentionEntry{}

	for i := range deals {
		deal := &deals[i]
		if !deal.IsOpen() {
			continue
		}

		result := ScoreDeal(deal, now)
		risk := ClassifyRisk(deal, now)
		inactivity := deal.InactivityDays(now)
		sla := SLAForPriority(result.Priority)

		reasons := []string{}
		if deal.NextStep == "" {
			reasons = append(reasons, ReasonMissingNextStep)
		}
		if deal.TargetCloseDate == nil {
			reasons = append(reasons, ReasonMissingCloseDate)
		} else if deal.TargetCloseDate.Before(now) {
			reasons = append(reasons, fmt.Sprintf("Fecha objetivo vencida hace %d día(s)", daysOverdue(*deal.TargetCloseDate, now)))
		}
		if inactivity > sla {
			reasons = append(reasons, fmt.Sprintf("Sin actividad %d día(s) (SLA %d días)", inactivity, sla))
		}
		// Alto risk is implied whenever any of the above fired; only surface
		// it when nothing else explains the flag (e.g. low probability plus
		// borderline inactivity).
		if risk == models.RiskAlto && len(reasons) == 0 {
			reasons = append(reasons, ReasonHighRisk)
		}

		if len(reasons) == 0 {
			continue
		}

		entries = append(entries, AttentionEntry{
			Deal:           *deal,
			Priority:       result.Priority,
			Risk:           risk,
			Score:          result.Score,
			InactivityDays: inactivity,
			SLADays:        sla,
			Reasons:        reasons,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	return entries
}

// daysOverdue returns whole days past the target date, never less than 1.
func daysOverdue(target, now time.Time) int {
	days := int(now.Sub(target).Hours() / 24)
	if days < 1 {
		return 1
	}
	return days
}

// HasReason reports whether the entry carries the exact reason string or,
// for parameterized reasons, one sharing the given prefix.
func (e *AttentionEntry) HasReason(prefix string) bool {
	for _, r := range e.Reasons {
		if len(r) >= len(prefix) && r[:len(prefix)] == prefix {
			return true
		}
	}
	return false
}
