package document

import (
	"context"
)

// SimpleStrategy renders a generic report from a list of content blocks.
type SimpleStrategy struct {
	options DocumentOptions
	content []Node
	clock   Clock
}

// NewSimpleStrategy creates a simple report strategy. An empty content list
// selects the built-in sample report.
func NewSimpleStrategy(opts DocumentOptions, content []Node, clock Clock) *SimpleStrategy {
	return &SimpleStrategy{options: opts, content: content, clock: clock}
}

// Definition builds the document tree.
func (s *SimpleStrategy) Definition(ctx context.Context) (Definition, error) {
	if err := ctx.Err(); err != nil {
		return Definition{}, err
	}

	resolved, err := ResolveOptions(s.options, Portrait)
	if err != nil {
		return Definition{}, err
	}

	def := resolved.baseDefinition()
	if len(s.content) > 0 {
		def.Content = s.content
		return def, nil
	}

	generatedAt := s.clock.now().In(resolved.Location)
	def.Content = []Node{
		TextNode("Reporte PDF", "header"),
		TextNode("Este es un ejemplo de generación de PDF con go-docrender.", ""),
		{
			Kind:     NodeText,
			Text:     "Características:",
			Style:    "subheader",
			StyleDef: StyleDef{Margin: Margin{0, 15, 0, 5}},
		},
		ListNode(
			"Fácil de usar",
			"Personalizable",
			"Soporte para estilos",
			"Tablas y listas",
		),
		{
			Kind: NodeText,
			Text: "Fecha de generación: " + FormatTimestamp(generatedAt, resolved.Locale),
			StyleDef: StyleDef{
				FontSize:  10,
				Alignment: AlignRight,
				Margin:    Margin{0, 15, 0, 0},
			},
		},
	}
	return def, nil
}

// FileName returns reporte-<YYYY-MM-DD>.pdf for the current UTC date.
func (s *SimpleStrategy) FileName() string {
	return "reporte-" + fileDate(s.clock.now()) + ".pdf"
}
