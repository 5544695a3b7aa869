// internal/workers/communication/generate-followup-email/config.go
package generatefollowupemail

import "time"

type Config struct {
	Timeout    time.Duration
	SenderName string
}

func LoadConfig() *Config {
	return &Config{
		Timeout:    10 * time.Second,
		SenderName: "Equipo de Ventas",
	}
}
