package logger

import (
	"go-medidiagnose/internal/config"
	"go-medidiagnose/internal/database"

	"go.uber.org/zap"
)

// NewLogger builds the zap logger and attaches the async DB sink so every
// entry lands both on the console and in the logs collection.
func NewLogger(cfg *config.Config, mongodb *database.MongoDB) (*zap.Logger, error) {
	var zapConfig zap.Config
	if cfg.Environment == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	zapConfig.EncoderConfig.FunctionKey = "func"

	baseLogger, err := zapConfig.Build()
	if err != nil {
		return nil, err
	}

	dbWriter := NewDBLogWriter(mongodb, cfg)

	finalCore := NewDBCore(baseLogger.Core(), dbWriter)

	return zap.New(finalCore, zap.AddCaller()), nil
}
