package app

import (
	"github.com/guttosm/pack-advice/config"
	"github.com/guttosm/pack-advice/internal/logger"
)

// InitializeLogger initializes the JSON logger from the logging configuration.
func InitializeLogger(cfg config.LoggingConfig) {
	level := cfg.Level
	if level == "" {
		level = "info"
	}
	logger.Init(level, cfg.Pretty)
}
