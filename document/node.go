package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// NodeKind tags the variant held by a Node.
type NodeKind string

const (
	NodeText    NodeKind = "text"
	NodeList    NodeKind = "list"
	NodeTable   NodeKind = "table"
	NodeColumns NodeKind = "columns"
	NodeStack   NodeKind = "stack"
)

// Node is a content block of a document tree. Kind selects which of the
// variant fields is meaningful; the embedded StyleDef holds inline overrides.
type Node struct {
	Kind    NodeKind `json:"kind"`
	Text    string   `json:"text,omitempty"`
	Items   []Node   `json:"ul,omitempty"`
	Table   *Table   `json:"table,omitempty"`
	Columns []Column `json:"columns,omitempty"`
	Stack   []Node   `json:"stack,omitempty"`
	Style   string   `json:"style,omitempty"`
	StyleDef
}

// Width is a column width specifier: "auto", "*", a percentage such as
// "30%", or a fixed number of points.
type Width string

const (
	WidthAuto Width = "auto"
	WidthStar Width = "*"
)

// Percent returns the percentage for "NN%" widths. Negative and non-finite
// values are not widths.
func (w Width) Percent() (float64, bool) {
	value := strings.TrimSpace(string(w))
	if !strings.HasSuffix(value, "%") {
		return 0, false
	}
	return parseWidthNumber(strings.TrimSuffix(value, "%"))
}

// Points returns the fixed width for numeric widths.
func (w Width) Points() (float64, bool) {
	return parseWidthNumber(strings.TrimSpace(string(w)))
}

// Valid reports whether w is empty, auto, star, a percentage or points.
func (w Width) Valid() bool {
	switch strings.TrimSpace(string(w)) {
	case "", string(WidthAuto), string(WidthStar):
		return true
	}
	if _, ok := w.Percent(); ok {
		return true
	}
	_, ok := w.Points()
	return ok
}

func parseWidthNumber(value string) (float64, bool) {
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) || parsed < 0 {
		return 0, false
	}
	return parsed, true
}

// UnmarshalJSON accepts both strings and numbers.
func (w *Width) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	var value Width
	if len(data) > 0 && data[0] == '"' {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		value = Width(text)
	} else {
		var number json.Number
		if err := json.Unmarshal(data, &number); err != nil {
			return err
		}
		value = Width(number.String())
	}
	if !value.Valid() {
		return NewError(KindValidation, fmt.Sprintf("invalid width %q", string(value)), nil)
	}
	*w = value
	return nil
}

// LineRule assigns a border weight per line index. At overrides Default.
type LineRule struct {
	Default float64         `json:"default"`
	At      map[int]float64 `json:"at,omitempty"`
}

// Width returns the weight for line i.
func (r LineRule) Width(i int) float64 {
	if value, ok := r.At[i]; ok {
		return value
	}
	return r.Default
}

// TableLayout holds border and fill rules for a table.
// Nil rules draw every line at 1pt.
type TableLayout struct {
	NoBorders  bool      `json:"noBorders,omitempty"`
	HLineWidth *LineRule `json:"hLineWidth,omitempty"`
	VLineWidth *LineRule `json:"vLineWidth,omitempty"`
	HLineColor string    `json:"hLineColor,omitempty"`
	VLineColor string    `json:"vLineColor,omitempty"`
	FillColor  string    `json:"fillColor,omitempty"`
}

// HLine returns the weight of horizontal line i (0 is the top border).
func (l TableLayout) HLine(i int) float64 {
	if l.NoBorders {
		return 0
	}
	if l.HLineWidth == nil {
		return 1
	}
	return l.HLineWidth.Width(i)
}

// VLine returns the weight of vertical line i (0 is the left border).
func (l TableLayout) VLine(i int) float64 {
	if l.NoBorders {
		return 0
	}
	if l.VLineWidth == nil {
		return 1
	}
	return l.VLineWidth.Width(i)
}

// Table is a grid of cells.
type Table struct {
	Body       [][]Node    `json:"body"`
	Widths     []Width     `json:"widths,omitempty"`
	HeaderRows int         `json:"headerRows,omitempty"`
	Layout     TableLayout `json:"layout,omitempty"`
}

// Column is one slot of a column group.
type Column struct {
	Width Width  `json:"width,omitempty"`
	Stack []Node `json:"stack"`
}

// TextNode builds a text node with an optional named style.
func TextNode(text, style string) Node {
	return Node{Kind: NodeText, Text: text, Style: style}
}

// ListNode builds an unordered list of plain text items.
func ListNode(items ...string) Node {
	nodes := make([]Node, 0, len(items))
	for _, item := range items {
		nodes = append(nodes, TextNode(item, ""))
	}
	return Node{Kind: NodeList, Items: nodes}
}

// Walk visits n and all its descendants depth first.
// Returning false from fn skips the children of the visited node.
func (n Node) Walk(fn func(Node) bool) {
	if !fn(n) {
		return
	}
	for _, item := range n.Items {
		item.Walk(fn)
	}
	if n.Table != nil {
		for _, row := range n.Table.Body {
			for _, cell := range row {
				cell.Walk(fn)
			}
		}
	}
	for _, col := range n.Columns {
		for _, child := range col.Stack {
			child.Walk(fn)
		}
	}
	for _, child := range n.Stack {
		child.Walk(fn)
	}
}

// FindTables returns all tables in the given content, in document order.
func FindTables(content []Node) []*Table {
	var tables []*Table
	for _, node := range content {
		node.Walk(func(n Node) bool {
			if n.Kind == NodeTable && n.Table != nil {
				tables = append(tables, n.Table)
			}
			return true
		})
	}
	return tables
}

type nodeJSON struct {
	Kind    NodeKind        `json:"kind"`
	Text    *string         `json:"text"`
	Items   []Node          `json:"ul"`
	Table   *Table          `json:"table"`
	Columns []Column        `json:"columns"`
	Stack   []Node          `json:"stack"`
	Style   string          `json:"style"`
	Layout  json.RawMessage `json:"layout"`
	StyleDef
}

// UnmarshalJSON decodes pdfmake-style content: bare strings become text
// nodes and the variant is inferred from the keys present when kind is
// omitted.
func (n *Node) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		*n = Node{Kind: NodeText, Text: text}
		return nil
	}

	var raw nodeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	node := Node{
		Kind:     raw.Kind,
		Items:    raw.Items,
		Table:    raw.Table,
		Columns:  raw.Columns,
		Stack:    raw.Stack,
		Style:    raw.Style,
		StyleDef: raw.StyleDef,
	}
	if raw.Text != nil {
		node.Text = *raw.Text
	}
	if node.Table != nil && len(raw.Layout) > 0 {
		if err := decodeNodeLayout(raw.Layout, &node.Table.Layout); err != nil {
			return err
		}
	}
	if node.Kind == "" {
		switch {
		case raw.Table != nil:
			node.Kind = NodeTable
		case raw.Items != nil:
			node.Kind = NodeList
		case raw.Columns != nil:
			node.Kind = NodeColumns
		case raw.Stack != nil:
			node.Kind = NodeStack
		default:
			node.Kind = NodeText
		}
	}
	*n = node
	return nil
}

// decodeNodeLayout accepts the "noBorders" preset or a layout object set
// next to the table rather than inside it.
func decodeNodeLayout(data json.RawMessage, layout *TableLayout) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var preset string
		if err := json.Unmarshal(data, &preset); err != nil {
			return err
		}
		if preset == "noBorders" {
			layout.NoBorders = true
		}
		return nil
	}
	return json.Unmarshal(data, layout)
}

// Info is embedded document metadata.
type Info struct {
	Title   string `json:"title,omitempty"`
	Author  string `json:"author,omitempty"`
	Creator string `json:"creator,omitempty"`
}

// Definition is the declarative document consumed by rendering engines.
type Definition struct {
	PageOrientation Orientation         `json:"pageOrientation"`
	PageSize        string              `json:"pageSize"`
	PageMargins     Margin              `json:"pageMargins,omitempty"`
	Info            Info                `json:"info,omitempty"`
	Styles          map[string]StyleDef `json:"styles"`
	DefaultStyle    StyleDef            `json:"defaultStyle"`
	Content         []Node              `json:"content"`
}

// ValidateWidths reports the first table or column width in content that is
// not a valid Width.
func ValidateWidths(content []Node) error {
	var bad *Width
	for _, node := range content {
		node.Walk(func(n Node) bool {
			if bad != nil {
				return false
			}
			if n.Table != nil {
				for i := range n.Table.Widths {
					if !n.Table.Widths[i].Valid() {
						bad = &n.Table.Widths[i]
						return false
					}
				}
			}
			for i := range n.Columns {
				if !n.Columns[i].Width.Valid() {
					bad = &n.Columns[i].Width
					return false
				}
			}
			return true
		})
	}
	if bad != nil {
		return NewError(KindValidation, fmt.Sprintf("invalid width %q", string(*bad)), nil)
	}
	return nil
}
