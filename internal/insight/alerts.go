// internal/insight/alerts.go
package insight

import (
	"fmt"
	"sort"
	"strings"

	"crm-insight-workers/internal/models"
)

// AlertSeverity orders alerts for dispatch. Critical beats warning.
type AlertSeverity string

const (
	SeverityCritical AlertSeverity = "critical"
	SeverityWarning  AlertSeverity = "warning"
)

// AlertType identifies which signal raised the alert.
type AlertType string

const (
	AlertOverdueTargetDate AlertType = "overdue_target_date"
	AlertMissingNextStep   AlertType = "missing_next_step"
)

// Recommended actions, chosen by descending urgency.
const (
	actionOverdue      = "Reagendar la fecha objetivo y contactar al cliente hoy"
	actionInactivity   = "Retomar contacto: %d día(s) sin actividad"
	actionNextStep     = "Definir el próximo paso con el cliente"
	actionGenericCheck = "Revisar el estado del negocio"
)

const overdueReasonPrefix = "Fecha objetivo vencida"

// DealAlert is an attention entry narrowed down to an actionable signal.
type DealAlert struct {
	DealID            string           `json:"dealId"`
	Title             string           `json:"title"`
	Company           string           `json:"company,omitempty"`
	Severity          AlertSeverity    `json:"severity"`
	Type              AlertType        `json:"type"`
	Priority          models.Priority  `json:"priority"`
	Risk              models.RiskLevel `json:"risk"`
	Score             int              `json:"score"`
	InactivityDays    int              `json:"inactivityDays"`
	Message           string           `json:"message"`
	RecommendedAction string           `json:"recommendedAction"`
}

// DetectDealAlerts narrows an attention list to deals with a missing next
// step or an overdue target date. Overdue dates are critical, the rest are
// warnings. Sorted critical first, then score descending.
func DetectDealAlerts(entries []AttentionEntry) []DealAlert {
	alerts := []DealAlert{}

	for i := range entries {
		entry := &entries[i]
		overdue := entry.HasReason(overdueReasonPrefix)
		missingStep := entry.HasReason(ReasonMissingNextStep)
		if !overdue && !missingStep {
			continue
		}

		alert := DealAlert{
			DealID:         entry.Deal.ID,
			Title:          entry.Deal.Title,
			Company:        entry.Deal.Company,
			Priority:       entry.Priority,
			Risk:           entry.Risk,
			Score:          entry.Score,
			InactivityDays: entry.InactivityDays,
		}

		if overdue {
			alert.Severity = SeverityCritical
			alert.Type = AlertOverdueTargetDate
			alert.Message = fmt.Sprintf("Fecha objetivo vencida: %s", entry.Deal.Title)
		} else {
			alert.Severity = SeverityWarning
			alert.Type = AlertMissingNextStep
			alert.Message = fmt.Sprintf("Sin próximo paso: %s", entry.Deal.Title)
		}

		alert.RecommendedAction = recommendAction(entry, overdue, missingStep)
		alerts = append(alerts, alert)
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		if alerts[i].Severity != alerts[j].Severity {
			return alerts[i].Severity == SeverityCritical
		}
		return alerts[i].Score > alerts[j].Score
	})
	return alerts
}

// recommendAction picks one action string: overdue date beats high
// inactivity beats missing next step beats the generic fallback.
func recommendAction(entry *AttentionEntry, overdue, missingStep bool) string {
	switch {
	case overdue:
		return actionOverdue
	case entry.InactivityDays >= 7:
		return fmt.Sprintf(actionInactivity, entry.InactivityDays)
	case missingStep:
		return actionNextStep
	default:
		return actionGenericCheck
	}
}

// ChannelAttachment is one formatted alert block in a channel payload.
type ChannelAttachment struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// ChannelPayload is the channel-ready rendering of an alert list.
type ChannelPayload struct {
	Text        string              `json:"text"`
	Attachments []ChannelAttachment `json:"attachments,omitempty"`
}

// NoAlertsMessage is the fixed text published when the pipeline is clean.
const NoAlertsMessage = "✅ Pipeline sin alertas: todos los deals al día."

// BuildAlertsChannelPayload renders alerts into a channel payload. An empty
// alert list yields the fixed positive message with no attachments.
func BuildAlertsChannelPayload(alerts []DealAlert) ChannelPayload {
	if len(alerts) == 0 {
		return ChannelPayload{Text: NoAlertsMessage}
	}

	payload := ChannelPayload{
		Text:        fmt.Sprintf("🚨 %d alerta(s) en el pipeline", len(alerts)),
		Attachments: make([]ChannelAttachment, 0, len(alerts)),
	}
	for _, alert := range alerts {
		body := fmt.Sprintf("Empresa: %s | Prioridad: %s | Riesgo: %s",
			orDash(alert.Company), alert.Priority, alert.Risk)
		body += "\nAcción recomendada: " + alert.RecommendedAction
		payload.Attachments = append(payload.Attachments, ChannelAttachment{
			Title: alert.Message,
			Body:  body,
		})
	}
	return payload
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
