// Package cli implements the docgen command-line interface.
//
// docgen serves the document endpoints over HTTP and renders documents
// straight to disk. Every command accepts --config for a TOML file and
// --verbose for debug logging; DOCGEN_* environment variables override the
// file.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/goliatone/go-docrender/document"
)

// newLogger creates a logger writing to w at level.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
		Prefix:          "docgen",
	})
}

// docLogger adapts a charm logger to document.Logger.
type docLogger struct {
	l *log.Logger
}

var _ document.Logger = docLogger{}

func (d docLogger) Debugf(format string, args ...any) { d.l.Debugf(format, args...) }
func (d docLogger) Infof(format string, args ...any)  { d.l.Infof(format, args...) }
func (d docLogger) Errorf(format string, args ...any) { d.l.Errorf(format, args...) }
