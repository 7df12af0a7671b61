// internal/workers/risk/get-assessment-history/config.go
package getassessmenthistory

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 15 * time.Second,
	}
}
