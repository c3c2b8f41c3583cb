package command

import (
	"context"

	gcmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-docrender/document"
	"github.com/goliatone/go-errors"
)

// GenerateDocumentHandler renders documents through the service.
type GenerateDocumentHandler struct {
	Service document.Service
}

func NewGenerateDocumentHandler(svc document.Service) *GenerateDocumentHandler {
	return &GenerateDocumentHandler{Service: svc}
}

func (h *GenerateDocumentHandler) Execute(ctx context.Context, msg GenerateDocument) error {
	if h == nil || h.Service == nil {
		return errors.New("document service is required", errors.CategoryInternal).
			WithTextCode("SERVICE_REQUIRED")
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	result, err := h.Service.Generate(ctx, msg.Request)
	if err != nil {
		return err
	}
	storeResult(ctx, msg.Result, result)
	return nil
}

// GenerateProductionOrderHandler renders production order sheets.
type GenerateProductionOrderHandler struct {
	Service document.Service
}

func NewGenerateProductionOrderHandler(svc document.Service) *GenerateProductionOrderHandler {
	return &GenerateProductionOrderHandler{Service: svc}
}

func (h *GenerateProductionOrderHandler) Execute(ctx context.Context, msg GenerateProductionOrder) error {
	if h == nil || h.Service == nil {
		return errors.New("document service is required", errors.CategoryInternal).
			WithTextCode("SERVICE_REQUIRED")
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	result, err := h.Service.GenerateProductionOrder(ctx, msg.Data, msg.Options)
	if err != nil {
		return err
	}
	storeResult(ctx, msg.Result, result)
	return nil
}

func storeResult(ctx context.Context, dst *document.RenderResult, result document.RenderResult) {
	if dst != nil {
		*dst = result
	}
	if res := gcmd.ResultFromContext[document.RenderResult](ctx); res != nil {
		res.Store(result)
	}
}
