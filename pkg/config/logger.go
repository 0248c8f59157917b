package config

import "go.uber.org/zap"

// NewLogger builds the process logger: development output for Dev configs,
// JSON production output otherwise.
func NewLogger(c Config) (*zap.Logger, error) {
	if c.Dev() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
