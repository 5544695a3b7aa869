// internal/workers/notification/send-daily-digest/models.go
package senddailydigest

type Input struct {
	// Recipients overrides the configured recipient list when present.
	Recipients []string `json:"recipients,omitempty"`
}

type Output struct {
	DigestID   string `json:"digestId"`
	Subject    string `json:"subject"`
	Body       string `json:"body"`
	Recipients int    `json:"recipients"`
	Sent       bool   `json:"sent"`
}
