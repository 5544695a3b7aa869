// internal/workers/notification/dispatch-alert-channel/config.go
package dispatchalertchannel

import "time"

type Config struct {
	Timeout  time.Duration
	TopicARN string
	Enabled  bool
}

func LoadConfig(topicARN string, enabled bool) *Config {
	return &Config{
		Timeout:  30 * time.Second,
		TopicARN: topicARN,
		Enabled:  enabled,
	}
}
