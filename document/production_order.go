package document

import (
	"context"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// SizeQuantity is one row of the size breakdown.
type SizeQuantity struct {
	Size     string `json:"size"`
	Quantity int    `json:"quantity"`
}

func (s SizeQuantity) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Size, validation.Required),
		validation.Field(&s.Quantity, validation.Min(0)),
	)
}

// ProductionOrderData is the business input of a production order.
//
// TotalQuantity is taken as supplied; it is not checked against the sum of
// Sizes. ImagePath is accepted but not rendered yet.
type ProductionOrderData struct {
	OrderNumber   string         `json:"orderNumber"`
	StartDate     string         `json:"startDate"`
	DeliveryDate  string         `json:"deliveryDate"`
	Client        string         `json:"client"`
	Company       string         `json:"company"`
	Sizes         []SizeQuantity `json:"sizes"`
	TotalQuantity int            `json:"totalQuantity"`
	ImagePath     string         `json:"imagePath,omitempty"`
}

func (d ProductionOrderData) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.OrderNumber, validation.Required),
		validation.Field(&d.Sizes),
		validation.Field(&d.TotalQuantity, validation.Min(0)),
	)
}

const (
	productionOrderTitle  = "ORDEN DE PRODUCCIÓN"
	productionOrderFooter = "WorkWear Industries"
	imagePlaceholderText  = "[Espacio reservado para imagen]"
)

// ProductionOrderStrategy lays out a production order.
type ProductionOrderStrategy struct {
	data    ProductionOrderData
	options DocumentOptions
	clock   Clock
}

// NewProductionOrderStrategy creates a production order strategy. Pages are
// landscape A4 unless opts says otherwise.
func NewProductionOrderStrategy(data ProductionOrderData, opts DocumentOptions, clock Clock) *ProductionOrderStrategy {
	return &ProductionOrderStrategy{data: data, options: opts, clock: clock}
}

// Definition builds the document tree.
func (s *ProductionOrderStrategy) Definition(ctx context.Context) (Definition, error) {
	if err := ctx.Err(); err != nil {
		return Definition{}, err
	}
	if err := s.data.Validate(); err != nil {
		return Definition{}, NewError(KindValidation, "invalid production order", err)
	}

	resolved, err := ResolveOptions(s.options, Landscape)
	if err != nil {
		return Definition{}, err
	}

	def := resolved.baseDefinition()
	def.Styles = productionOrderStyles(s.options.Styles)
	def.Content = []Node{
		{
			Kind:     NodeText,
			Text:     productionOrderTitle,
			Style:    "mainHeader",
			StyleDef: StyleDef{Margin: Margin{0, 0, 0, 5}},
		},
		{
			Kind:     NodeText,
			Text:     "OP: " + s.data.OrderNumber,
			Style:    "orderNumber",
			StyleDef: StyleDef{Margin: Margin{0, 0, 0, 20}},
		},
		s.detailsTable(),
		{
			Kind: NodeColumns,
			Columns: []Column{
				{Width: "30%", Stack: []Node{
					{
						Kind:     NodeText,
						Text:     "CANTIDADES POR TALLA",
						Style:    "tableHeader",
						StyleDef: StyleDef{Margin: Margin{0, 0, 0, 10}},
					},
					s.sizesTable(),
				}},
				{Width: "70%", Stack: []Node{
					{
						Kind:  NodeText,
						Text:  imagePlaceholderText,
						Style: "imagePlaceholder",
						StyleDef: StyleDef{
							Alignment: AlignCenter,
							Margin:    Margin{20, 50, 0, 50},
						},
					},
				}},
			},
			StyleDef: StyleDef{Margin: Margin{0, 0, 0, 20}},
		},
		{
			Kind:  NodeText,
			Text:  productionOrderFooter,
			Style: "footer",
			StyleDef: StyleDef{
				Alignment: AlignCenter,
				Margin:    Margin{0, 30, 0, 0},
			},
		},
		{
			Kind:     NodeText,
			Text:     strconv.Itoa(s.clock.now().In(resolved.Location).Year()),
			Style:    "footerYear",
			StyleDef: StyleDef{Alignment: AlignCenter},
		},
	}
	return def, nil
}

// FileName returns orden-produccion-<orderNumber>.pdf. The order number is
// used verbatim.
func (s *ProductionOrderStrategy) FileName() string {
	return "orden-produccion-" + s.data.OrderNumber + ".pdf"
}

func (s *ProductionOrderStrategy) detailsTable() Node {
	return Node{
		Kind: NodeTable,
		Table: &Table{
			Body: [][]Node{
				{
					TextNode("Fecha de Inicio:", "label"),
					TextNode(s.data.StartDate, "value"),
					TextNode("Fecha de Entrega:", "label"),
					TextNode(s.data.DeliveryDate, "value"),
				},
				{
					TextNode("Cliente:", "label"),
					TextNode(s.data.Client, "value"),
					TextNode("Empresa:", "label"),
					TextNode(s.data.Company, "value"),
				},
			},
			Widths: []Width{WidthAuto, WidthStar, WidthAuto, WidthStar},
			Layout: TableLayout{NoBorders: true},
		},
		StyleDef: StyleDef{Margin: Margin{0, 0, 0, 20}},
	}
}

func (s *ProductionOrderStrategy) sizesTable() Node {
	body := make([][]Node, 0, len(s.data.Sizes)+2)
	body = append(body, []Node{
		TextNode("Talla", "tableHeaderCell"),
		TextNode("Cantidad", "tableHeaderCell"),
	})
	for _, size := range s.data.Sizes {
		body = append(body, []Node{
			TextNode(size.Size, "tableCell"),
			TextNode(strconv.Itoa(size.Quantity), "tableCell"),
		})
	}
	body = append(body, []Node{
		TextNode("TOTAL", "tableTotalLabel"),
		TextNode(strconv.Itoa(s.data.TotalQuantity), "tableTotalValue"),
	})

	return Node{
		Kind: NodeTable,
		Table: &Table{
			Body:       body,
			Widths:     []Width{WidthStar, WidthStar},
			HeaderRows: 1,
			Layout: TableLayout{
				HLineWidth: &LineRule{Default: 0.5, At: map[int]float64{0: 1, 1: 1}},
				VLineWidth: &LineRule{Default: 1},
				HLineColor: "#000000",
				VLineColor: "#000000",
				FillColor:  "#ffffff",
			},
		},
	}
}

func productionOrderStyles(custom map[string]StyleDef) map[string]StyleDef {
	styles := ResolveStyles(custom)
	named := map[string]StyleDef{
		"mainHeader": {
			FontSize:  20,
			Bold:      Bool(true),
			Alignment: AlignCenter,
			Margin:    Margin{0, 0, 0, 5},
		},
		"orderNumber": {
			FontSize:  16,
			Bold:      Bool(true),
			Alignment: AlignCenter,
			Margin:    Margin{0, 0, 0, 20},
		},
		"label": {
			FontSize: 11,
			Bold:     Bool(true),
			Margin:   Margin{0, 2, 0, 2},
		},
		"value": {
			FontSize: 11,
			Margin:   Margin{0, 2, 0, 2},
		},
		"tableHeader": {
			FontSize:  12,
			Bold:      Bool(true),
			Alignment: AlignCenter,
		},
		"tableHeaderCell": {
			FontSize:  10,
			Bold:      Bool(true),
			Alignment: AlignCenter,
			FillColor: "#f0f0f0",
		},
		"tableCell": {
			FontSize:  10,
			Alignment: AlignCenter,
		},
		"tableTotalLabel": {
			FontSize:  10,
			Bold:      Bool(true),
			Alignment: AlignCenter,
			FillColor: "#e0e0e0",
		},
		"tableTotalValue": {
			FontSize:  10,
			Bold:      Bool(true),
			Alignment: AlignCenter,
			FillColor: "#e0e0e0",
		},
		"footer": {
			FontSize: 12,
			Bold:     Bool(true),
			Margin:   Margin{0, 30, 0, 5},
		},
		"footerYear": {
			FontSize:  11,
			Alignment: AlignCenter,
			Margin:    Margin{0, 0, 0, 0},
		},
		"imagePlaceholder": {
			FontSize:  14,
			Italics:   Bool(true),
			Color:     "#888888",
			Alignment: AlignCenter,
		},
	}
	for name, style := range named {
		styles[name] = style
	}
	return styles
}
