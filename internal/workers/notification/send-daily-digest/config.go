// internal/workers/notification/send-daily-digest/config.go
package senddailydigest

import "time"

type Config struct {
	Timeout    time.Duration
	FromEmail  string
	Recipients []string
	Enabled    bool
}

func LoadConfig(fromEmail string, recipients []string, enabled bool) *Config {
	return &Config{
		Timeout:    30 * time.Second,
		FromEmail:  fromEmail,
		Recipients: recipients,
		Enabled:    enabled,
	}
}
