// Package logging configures the process-wide logrus logger.
package logging

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// Setup configures the standard logrus logger from a level name and a format (text or json).
// Unknown levels fall back to info.
func Setup(level, format string, out io.Writer) {
	logger := logrus.StandardLogger()
	if out != nil {
		logger.SetOutput(out)
	}

	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)

	if strings.EqualFold(format, "json") {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}

// LogError logs err with a message at error level.
func LogError(msg string, err error) {
	logrus.WithError(err).Error(msg)
}

// LogWarn logs err with a message at warning level.
func LogWarn(msg string, err error) {
	logrus.WithError(err).Warn(msg)
}

// SanitizeForLog removes newlines and carriage returns to prevent log injection.
func SanitizeForLog(s string) string {
	return strings.NewReplacer("\n", "", "\r", "").Replace(s)
}
