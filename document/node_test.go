package document

import (
	"encoding/json"
	"testing"
)

func TestNode_UnmarshalContent(t *testing.T) {
	payload := `[
		"plain line",
		{"text": "Title", "style": "header"},
		{"text": "Right", "alignment": "right", "fontSize": 9, "margin": [0, 5]},
		{"ul": ["a", "b"]},
		{"columns": [
			{"width": "30%", "stack": ["left"]},
			{"width": "*", "stack": [{"text": "right", "bold": true}]}
		]},
		{"table": {"headerRows": 1, "widths": ["auto", 80, "*"], "body": [["h1", "h2", "h3"], ["1", "2", "3"]]}, "layout": "noBorders"},
		{"stack": ["x", "y"]}
	]`

	var content []Node
	if err := json.Unmarshal([]byte(payload), &content); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(content) != 7 {
		t.Fatalf("expected 7 nodes, got %d", len(content))
	}

	if content[0].Kind != NodeText || content[0].Text != "plain line" {
		t.Fatalf("unexpected bare string node: %+v", content[0])
	}
	if content[1].Style != "header" {
		t.Fatalf("expected named style, got %+v", content[1])
	}
	inline := content[2]
	if inline.Alignment != AlignRight || inline.FontSize != 9 || len(inline.Margin) != 2 {
		t.Fatalf("unexpected inline style: %+v", inline.StyleDef)
	}
	if content[3].Kind != NodeList || len(content[3].Items) != 2 || content[3].Items[1].Text != "b" {
		t.Fatalf("unexpected list: %+v", content[3])
	}

	columns := content[4]
	if columns.Kind != NodeColumns || len(columns.Columns) != 2 {
		t.Fatalf("unexpected columns: %+v", columns)
	}
	if pct, ok := columns.Columns[0].Width.Percent(); !ok || pct != 30 {
		t.Fatalf("expected 30%% column, got %v", columns.Columns[0].Width)
	}
	if !columns.Columns[1].Stack[0].IsBold() {
		t.Fatalf("expected bold nested text")
	}

	table := content[5]
	if table.Kind != NodeTable || table.Table == nil {
		t.Fatalf("expected table node, got %+v", table)
	}
	if !table.Table.Layout.NoBorders {
		t.Fatalf("expected noBorders preset")
	}
	if table.Table.HeaderRows != 1 || len(table.Table.Body) != 2 {
		t.Fatalf("unexpected table shape: %+v", table.Table)
	}
	if pts, ok := table.Table.Widths[1].Points(); !ok || pts != 80 {
		t.Fatalf("expected numeric width 80, got %v", table.Table.Widths[1])
	}
	if table.Table.Widths[0] != WidthAuto || table.Table.Widths[2] != WidthStar {
		t.Fatalf("unexpected widths %v", table.Table.Widths)
	}

	if content[6].Kind != NodeStack || len(content[6].Stack) != 2 {
		t.Fatalf("unexpected stack: %+v", content[6])
	}
}

func TestNode_UnmarshalLayoutObject(t *testing.T) {
	payload := `{"table": {"body": [["a"]]}, "layout": {"hLineWidth": {"default": 0.5, "at": {"0": 2}}, "fillColor": "#eeeeee"}}`

	var node Node
	if err := json.Unmarshal([]byte(payload), &node); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	layout := node.Table.Layout
	if layout.HLine(0) != 2 || layout.HLine(1) != 0.5 {
		t.Fatalf("unexpected line rule: %v %v", layout.HLine(0), layout.HLine(1))
	}
	if layout.VLine(0) != 1 {
		t.Fatalf("expected default vertical rule")
	}
	if layout.FillColor != "#eeeeee" {
		t.Fatalf("unexpected fill %s", layout.FillColor)
	}
}

func TestWidth_Parse(t *testing.T) {
	if _, ok := WidthAuto.Percent(); ok {
		t.Fatalf("auto is not a percentage")
	}
	if _, ok := WidthStar.Points(); ok {
		t.Fatalf("star is not a fixed width")
	}
	if pct, ok := Width(" 12.5% ").Percent(); !ok || pct != 12.5 {
		t.Fatalf("unexpected percentage %v", pct)
	}
}

func TestWidth_RejectsNonFiniteAndNegative(t *testing.T) {
	for _, w := range []Width{"NaN", "Inf", "-Inf", "-5", "NaN%", "-10%", "wide"} {
		if w.Valid() {
			t.Fatalf("expected %q to be invalid", w)
		}
	}
	for _, w := range []Width{"", WidthAuto, WidthStar, "0", "80", "30%"} {
		if !w.Valid() {
			t.Fatalf("expected %q to be valid", w)
		}
	}

	var table Table
	err := json.Unmarshal([]byte(`{"body": [["a", "b"]], "widths": ["NaN", "*"]}`), &table)
	if KindFromError(err) != KindValidation {
		t.Fatalf("expected validation error decoding NaN width, got %v", err)
	}
	if err := json.Unmarshal([]byte(`{"body": [["a"]], "widths": [-20]}`), &table); err == nil {
		t.Fatalf("expected negative width to be rejected")
	}
}

func TestValidateWidths(t *testing.T) {
	content := []Node{
		TextNode("x", ""),
		{Kind: NodeColumns, Columns: []Column{
			{Width: "30%", Stack: []Node{{Kind: NodeTable, Table: &Table{Widths: []Width{"Inf"}}}}},
		}},
	}
	if KindFromError(ValidateWidths(content)) != KindValidation {
		t.Fatalf("expected nested invalid width to be reported")
	}

	content[1].Columns[0].Stack[0].Table.Widths[0] = WidthAuto
	if err := ValidateWidths(content); err != nil {
		t.Fatalf("expected valid widths, got %v", err)
	}
}

func TestNode_Walk(t *testing.T) {
	def, err := NewProductionOrderStrategy(sampleOrder(), DocumentOptions{}, nil).Definition(t.Context())
	if err != nil {
		t.Fatalf("definition: %v", err)
	}

	texts := 0
	for _, node := range def.Content {
		node.Walk(func(n Node) bool {
			if n.Kind == NodeText {
				texts++
			}
			return true
		})
	}
	// 4 top-level texts, 8 detail cells, heading, 8 size cells, placeholder.
	if texts != 22 {
		t.Fatalf("expected 22 text nodes, got %d", texts)
	}

	skipped := 0
	def.Content[3].Walk(func(n Node) bool {
		skipped++
		return false
	})
	if skipped != 1 {
		t.Fatalf("expected children skipped, visited %d", skipped)
	}
}
