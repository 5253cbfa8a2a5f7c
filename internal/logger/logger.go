// Package logger builds the process-wide logging context. The logger is
// constructed once at startup and handed to each component; no package
// keeps ambient logging state.
package logger

import (
	"os"

	"github.com/hashicorp/go-hclog"
)

// New creates the root logger. Components derive their own via Named.
func New(level string) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:   "strata",
		Level:  hclog.LevelFromString(level),
		Output: os.Stderr,
		Color:  hclog.AutoColor,
	})
}
