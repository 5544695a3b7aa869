// internal/workers/pipeline/detect-deal-alerts/models.go
package detectdealalerts

import "crm-insight-workers/internal/insight"

type Input struct{}

type Output struct {
	Alerts      []insight.DealAlert `json:"alerts"`
	Count       int                 `json:"count"`
	HasCritical bool                `json:"hasCritical"`
	GeneratedAt string              `json:"generatedAt"`
}
