// internal/insight/digest.go
package insight

import (
	"fmt"
	"strings"
	"time"

	"crm-insight-workers/internal/models"
)

// Fixed digest line prefixes. Downstream parsers and the dashboard tests
// match on these literals.
const (
	DigestLineHotDeals     = "Deals Hot abiertos:"
	DigestLineHighRisk     = "Deals en riesgo alto:"
	DigestLineOverdueTasks = "Tareas vencidas:"
)

const digestMaxAlertLines = 3

// GenerateDailyDigest renders the fixed-format daily summary over the
// current deal, task and alert snapshots. Pure and deterministic given its
// inputs and the reference time.
func GenerateDailyDigest(deals []models.Deal, tasks []models.Task, alerts []DealAlert, now time.Time) string {
	var hotOpen, highRiskOpen int
	var biggest *models.Deal
	for i := range deals {
		deal := &deals[i]
		if !deal.IsOpen() {
			continue
		}
		if ScoreDeal(deal, now).Priority == models.PriorityHot {
			hotOpen++
		}
		if ClassifyRisk(deal, now) == models.RiskAlto {
			highRiskOpen++
		}
		if biggest == nil || deal.Amount > biggest.Amount {
			biggest = deal
		}
	}

	overdueTasks := 0
	for i := range tasks {
		if tasks[i].IsOverdue(now) {
			overdueTasks++
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Resumen diario del pipeline — %s\n", now.Format("2006-01-02"))
	fmt.Fprintf(&b, "%s %d\n", DigestLineHotDeals, hotOpen)
	fmt.Fprintf(&b, "%s %d\n", DigestLineHighRisk, highRiskOpen)
	fmt.Fprintf(&b, "%s %d\n", DigestLineOverdueTasks, overdueTasks)

	if len(alerts) > 0 {
		b.WriteString("Alertas destacadas:\n")
		for i, alert := range alerts {
			if i == digestMaxAlertLines {
				break
			}
			fmt.Fprintf(&b, "- %s\n", alert.Message)
		}
	}

	if biggest != nil {
		fmt.Fprintf(&b, "Mayor deal abierto: %s ($%.0f)\n", biggest.Title, biggest.Amount)
	}

	return b.String()
}
