// Package logging holds the process-wide logger.
package logging

import (
	"github.com/sirupsen/logrus"

	"github.com/tinytelemetry/slowlog/internal/model"
)

// Logger can be replaced in tests.
var Logger = logrus.New()

func init() {
	Logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
}

// SetLogLevel sets the level by name. Unknown names leave the level
// unchanged and return false.
func SetLogLevel(name string) bool {
	level, ok := NormalizeLevel(name)
	if ok {
		Logger.SetLevel(level)
	}
	return ok
}

// Diagnostics logs each parse diagnostic of r as a warning tagged with the
// report source and run ID.
func Diagnostics(r *model.Report) {
	entry := Logger.WithFields(logrus.Fields{"source": r.Source, "report_id": r.ID})
	for _, d := range r.Diagnostics {
		entry.Warn(d)
	}
}
