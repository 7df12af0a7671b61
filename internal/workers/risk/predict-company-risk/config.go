// internal/workers/risk/predict-company-risk/config.go
package predictcompanyrisk

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
	}
}
