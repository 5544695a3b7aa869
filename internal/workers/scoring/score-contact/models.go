// internal/workers/scoring/score-contact/models.go
package scorecontact

import "crm-insight-workers/internal/insight"

type Input struct {
	ContactID    string `json:"contactId"`
	ForceRefresh bool   `json:"forceRefresh,omitempty"`
}

type Output struct {
	ContactID string          `json:"contactId"`
	Score     int             `json:"score"`
	Priority  string          `json:"priority"`
	Factors   insight.Factors `json:"factors"`
	Reasoning []string        `json:"reasoning"`
	DealCount int             `json:"dealCount"`
	FromCache bool            `json:"fromCache"`
}
