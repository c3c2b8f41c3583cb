package command

import (
	"strings"

	"github.com/goliatone/go-docrender/document"
	"github.com/goliatone/go-errors"
)

// GenerateDocument renders a document of any registered kind.
type GenerateDocument struct {
	Request document.GenerateRequest
	Result  *document.RenderResult
}

func (GenerateDocument) Type() string { return "document:generate" }

func (msg GenerateDocument) Validate() error {
	if msg.Request.Order != nil {
		if err := msg.Request.Order.Validate(); err != nil {
			return errors.Wrap(err, errors.CategoryValidation, "invalid production order").
				WithTextCode("ORDER_INVALID")
		}
	}
	return nil
}

// GenerateProductionOrder renders a production order sheet.
type GenerateProductionOrder struct {
	Data    document.ProductionOrderData
	Options document.DocumentOptions
	Result  *document.RenderResult
}

func (GenerateProductionOrder) Type() string { return "document:production-order" }

func (msg GenerateProductionOrder) Validate() error {
	if strings.TrimSpace(msg.Data.OrderNumber) == "" {
		return errors.New("order number is required", errors.CategoryValidation).
			WithTextCode("ORDER_NUMBER_REQUIRED")
	}
	if err := msg.Data.Validate(); err != nil {
		return errors.Wrap(err, errors.CategoryValidation, "invalid production order").
			WithTextCode("ORDER_INVALID")
	}
	return nil
}
