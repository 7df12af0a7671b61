// internal/workers/risk/predict-individual-risk/config.go
package predictindividualrisk

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
	}
}
