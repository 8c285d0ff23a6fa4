package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Logger is the process-wide logger set by InitLogger
var Logger *logrus.Logger

// InitLogger builds the process logger. An empty level falls back to
// LOG_LEVEL, then to debug in development and info otherwise. Production
// always logs JSON; development logs text unless LOG_FORMAT=json.
func InitLogger(logLevel string, isDevelopment bool) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(newFormatter(isDevelopment && !strings.EqualFold(os.Getenv("LOG_FORMAT"), "json")))

	// stdout carries simulation reports
	log.SetOutput(os.Stderr)

	requested := resolveLevel(logLevel, isDevelopment)
	level, err := logrus.ParseLevel(strings.ToLower(requested))
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	if err != nil {
		log.WithField("invalid_level", requested).Warn("Invalid LOG_LEVEL, using INFO")
	}

	Logger = log
	return log
}

func resolveLevel(logLevel string, isDevelopment bool) string {
	switch {
	case logLevel != "":
		return logLevel
	case os.Getenv("LOG_LEVEL") != "":
		return os.Getenv("LOG_LEVEL")
	case isDevelopment:
		return "debug"
	default:
		return "info"
	}
}

func newFormatter(text bool) logrus.Formatter {
	if text {
		return &logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "15:04:05.000",
		}
	}
	return &logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
	}
}

// GetLogger returns the process logger, creating a production one on first use
func GetLogger() *logrus.Logger {
	if Logger == nil {
		return InitLogger("info", false)
	}
	return Logger
}

func WithService(serviceName string) *logrus.Entry {
	return GetLogger().WithField("service", serviceName)
}
