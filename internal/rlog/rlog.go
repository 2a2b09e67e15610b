// Package rlog wires github.com/charmbracelet/log into the daemon and
// CLI. The teacher module lists charmbracelet/log as a direct
// dependency but never imports it anywhere — every console message
// there goes through a cgo-backed colour-escape writer instead. This
// package gives the dependency an actual job: structured, levelled
// logging for the daemon's listener, client and DNS-SD events, no cgo
// involved.
package rlog

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// New builds a logger writing to w at the given level. Pass nil for w
// to log to stderr, matching New's most common caller (the daemon, once
// its config is loaded).
func New(w io.Writer, level log.Level) *log.Logger {
	if w == nil {
		w = os.Stderr
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.000",
	})
	logger.SetLevel(level)

	return logger
}

// ParseLevel maps a config string to a charmbracelet/log.Level,
// defaulting to Info on an unrecognised value.
func ParseLevel(s string) log.Level {
	lvl, err := log.ParseLevel(s)
	if err != nil {
		return log.InfoLevel
	}

	return lvl
}
