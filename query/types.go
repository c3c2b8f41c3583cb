package query

import (
	"github.com/goliatone/go-docrender/document"
)

// PreviewDefinition requests the definition a strategy would render.
type PreviewDefinition struct {
	Request document.GenerateRequest
}

func (PreviewDefinition) Type() string { return "document:definition" }

// ListKinds requests the registered document kinds.
type ListKinds struct{}

func (ListKinds) Type() string { return "document:kinds" }
