// internal/workers/pipeline/compute-deal-attention/config.go
package computedealattention

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
	}
}
