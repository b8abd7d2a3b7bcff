package util

import (
	"os"

	"github.com/mpapenbr/lapsim-go/log"
	"github.com/mpapenbr/lapsim-go/pkg/config"
)

func parseLogLevel(l string, defaultVal log.Level) log.Level {
	level, err := log.ParseLevel(l)
	if err != nil {
		return defaultVal
	}
	return level
}

// SetupLogger installs the default logger according to the resolved CLI
// config (level, format, filter rules).
func SetupLogger() {
	var logger *log.Logger
	switch config.LogFormat {
	case "json":
		logger = log.New(
			os.Stderr,
			parseLogLevel(config.LogLevel, log.InfoLevel),
			log.WithCaller(true),
			log.AddCallerSkip(1))
	default:
		logger = log.DevLogger(
			os.Stderr,
			parseLogLevel(config.LogLevel, log.InfoLevel),
			log.WithCaller(false))
	}

	if config.LogFilter != "" {
		logger = logger.WithFilter(config.LogFilter)
	}

	log.ResetDefault(logger)
}
