// ABOUTME: Structured logger construction shared by commands and servers
// ABOUTME: Wraps charmbracelet/log with level parsing and a component prefix
package logging

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// New creates a logger writing to w at the named level.
// Unknown level names fall back to info.
func New(w io.Writer, level string) *log.Logger {
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		lvl = log.InfoLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		Prefix:          "review",
		ReportTimestamp: true,
	})
}

// Discard returns a logger that drops everything, for tests and quiet paths
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}
