package logger

import (
	"go.uber.org/zap"
)

// New builds the process logger. Development mode gets the console
// encoder; anything else uses the JSON production config.
func New(env string) (*zap.Logger, error) {
	if env == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
