package logger_fx

import (
	"os"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Provide(provideLogger)

func provideLogger() *zap.Logger {
	if os.Getenv("APP_ENV") == "development" {
		logger, _ := zap.NewDevelopment()
		return logger
	}
	logger, _ := zap.NewProduction()
	return logger
}
