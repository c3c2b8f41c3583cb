package document

import (
	"context"
	"errors"
)

// ContentTypePDF is the media type of rendered documents.
const ContentTypePDF = "application/pdf"

// RenderRequest is handed to an Engine for a single render.
type RenderRequest struct {
	ID         string
	Definition Definition
	Fonts      *FontSet
}

// Engine turns a document definition into binary output.
type Engine interface {
	Render(ctx context.Context, req RenderRequest) ([]byte, error)
}

// EngineFunc adapts a function to an Engine.
type EngineFunc func(ctx context.Context, req RenderRequest) ([]byte, error)

func (f EngineFunc) Render(ctx context.Context, req RenderRequest) ([]byte, error) {
	if f == nil {
		return nil, errors.New("engine func is nil")
	}
	return f(ctx, req)
}

// RenderResult is the outcome of a single render. It is not retained.
type RenderResult struct {
	Buffer      []byte
	FileName    string
	ContentType string
}

// Logger provides logging hooks.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Errorf(format string, args ...any)
}

// NopLogger is a no-op logger.
type NopLogger struct{}

func (NopLogger) Debugf(string, ...any) {}
func (NopLogger) Infof(string, ...any)  {}
func (NopLogger) Errorf(string, ...any) {}
