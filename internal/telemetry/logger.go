// Package telemetry constructs the process-wide structured logger and
// hands out component-scoped entries (cmd/main.go creates them for
// main, dispatcher, notifier, and transport).
package telemetry

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New builds the root logger. level is parsed with logrus.ParseLevel;
// an unrecognized level falls back to Info rather than erroring, since
// a typo in a config file should degrade logging, not crash startup.
func New(level string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)
	log.SetFormatter(&logrus.JSONFormatter{})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)

	return log
}

// Component returns a logger entry tagged with its subsystem name, so
// every line it emits can be filtered by component in aggregation.
func Component(log *logrus.Logger, name string) *logrus.Entry {
	return log.WithField("component", name)
}
