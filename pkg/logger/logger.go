package logger

import (
	"github.com/gomantics/repotracker/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func New(c *config.Config) *zap.Logger {
	var cfg zap.Config

	if c.IsDev() {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
	}

	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}

	return logger
}
