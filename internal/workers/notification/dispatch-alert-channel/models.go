// internal/workers/notification/dispatch-alert-channel/models.go
package dispatchalertchannel

import "crm-insight-workers/internal/insight"

type Input struct {
	Alerts []insight.DealAlert `json:"alerts"`
}

type Output struct {
	MessageID  string `json:"messageId,omitempty"`
	AlertCount int    `json:"alertCount"`
	Skipped    bool   `json:"skipped"`
	Text       string `json:"text"`
}
