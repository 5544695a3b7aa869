// internal/workers/data-access/search-crm-entities/config.go
package searchcrmentities

import "time"

type Config struct {
	Timeout       time.Duration
	DealsIndex    string
	ContactsIndex string
}

func LoadConfig() *Config {
	return &Config{
		Timeout:       30 * time.Second,
		DealsIndex:    "crm-deals",
		ContactsIndex: "crm-contacts",
	}
}
