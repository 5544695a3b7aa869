// internal/workers/scoring/score-deal/models.go
package scoredeal

import (
	"crm-insight-workers/internal/insight"
	"crm-insight-workers/internal/models"
)

// Input carries either a dealId resolved through the store, or an inline
// deal snapshot scored as-is (not cached, not persisted).
type Input struct {
	DealID       string       `json:"dealId,omitempty"`
	Deal         *models.Deal `json:"deal,omitempty"`
	ForceRefresh bool         `json:"forceRefresh,omitempty"`
}

type Output struct {
	DealID    string          `json:"dealId"`
	Score     int             `json:"score"`
	Priority  string          `json:"priority"`
	RiskLevel string          `json:"riskLevel"`
	Factors   insight.Factors `json:"factors"`
	Reasoning []string        `json:"reasoning"`
	FromCache bool            `json:"fromCache"`
}
