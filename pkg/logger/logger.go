// Package logger holds the process-wide logrus logger.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var logg = newLogger(os.Stdout, "info", "text")

// Setup replaces the shared logger. Format "json" selects the JSON
// formatter; anything else uses text.
func Setup(level, format string) *logrus.Logger {
	logg = newLogger(os.Stdout, level, format)
	return logg
}

// SetOutput redirects the shared logger, mostly for tests.
func SetOutput(w io.Writer) {
	logg.SetOutput(w)
}

func GetLogger() *logrus.Logger {
	return logg
}

func newLogger(w io.Writer, level, format string) *logrus.Logger {
	l := logrus.New()
	if strings.EqualFold(format, "json") {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)
	l.SetOutput(w)
	return l
}

// LogError writes err with the module/function it came from.
func LogError(moduleName string, funcName string, context string, data any, err error) {
	fields := logrus.Fields{
		"module":   moduleName,
		"funcName": funcName,
		"context":  context,
	}
	if data != nil {
		fields["data"] = data
	}
	logg.WithFields(fields).Error(err.Error())
}
