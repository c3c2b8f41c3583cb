package query

import (
	"context"

	"github.com/goliatone/go-docrender/document"
	"github.com/goliatone/go-errors"
)

// PreviewDefinitionHandler builds a definition without rendering it.
type PreviewDefinitionHandler struct {
	Service document.Service
}

func NewPreviewDefinitionHandler(svc document.Service) *PreviewDefinitionHandler {
	return &PreviewDefinitionHandler{Service: svc}
}

func (h *PreviewDefinitionHandler) Query(ctx context.Context, msg PreviewDefinition) (document.Preview, error) {
	if h == nil || h.Service == nil {
		return document.Preview{}, errors.New("document service is required", errors.CategoryInternal).
			WithTextCode("SERVICE_REQUIRED")
	}
	return h.Service.Preview(ctx, msg.Request)
}

// ListKindsHandler returns the registered document kinds.
type ListKindsHandler struct {
	Service document.Service
}

func NewListKindsHandler(svc document.Service) *ListKindsHandler {
	return &ListKindsHandler{Service: svc}
}

func (h *ListKindsHandler) Query(_ context.Context, _ ListKinds) ([]document.Kind, error) {
	if h == nil || h.Service == nil {
		return nil, errors.New("document service is required", errors.CategoryInternal).
			WithTextCode("SERVICE_REQUIRED")
	}
	return h.Service.Kinds(), nil
}
