// internal/workers/scoring/classify-deal-risk/config.go
package classifydealrisk

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
	}
}
