// internal/workers/pipeline/detect-deal-alerts/config.go
package detectdealalerts

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
	}
}
