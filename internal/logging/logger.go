// Package logging configures the diagnostic logger.
package logging

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// SetupParams selects where and how diagnostics are written.
type SetupParams struct {
	// Output receives log lines when FileName is empty.
	Output     io.Writer
	FileName   string
	Level      string
	FormatJSON bool
}

// Setup builds a logger from params. Lines go to a rotated file when FileName is set.
func Setup(params SetupParams) *logrus.Logger {
	logger := logrus.New()
	if params.FormatJSON {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: params.FileName == ""})
	}
	logger.SetLevel(GetLevel(params.Level))

	if params.FileName == "" {
		if params.Output != nil {
			logger.SetOutput(params.Output)
		}
		return logger
	}
	if !strings.HasSuffix(params.FileName, ".log") {
		params.FileName += ".log"
	}
	logger.SetOutput(&lumberjack.Logger{
		Filename: params.FileName,
		MaxSize:  10, // megabytes
		MaxAge:   90, // days
		Compress: true,
	})
	return logger
}

// GetLevel maps a level name to a logrus level. Unknown names fall back to warn.
func GetLevel(level string) logrus.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return logrus.TraceLevel
	case "debug":
		return logrus.DebugLevel
	case "info":
		return logrus.InfoLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.WarnLevel
	}
}

// ValidLevel reports whether GetLevel knows level by name.
func ValidLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "error":
		return true
	}
	return false
}
