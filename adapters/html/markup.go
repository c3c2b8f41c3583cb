package dochtml

import (
	"html"
	"strconv"
	"strings"

	"github.com/goliatone/go-docrender/document"
)

// writeNodes writes the document tree as HTML markup.
func writeNodes(b *strings.Builder, nodes []document.Node) {
	for _, node := range nodes {
		writeNode(b, node)
	}
}

func writeNode(b *strings.Builder, n document.Node) {
	switch n.Kind {
	case document.NodeList:
		openTag(b, "ul", "list", n)
		for _, item := range n.Items {
			b.WriteString("<li>")
			writeNode(b, item)
			b.WriteString("</li>")
		}
		b.WriteString("</ul>\n")
	case document.NodeTable:
		writeTable(b, n)
	case document.NodeColumns:
		openTag(b, "div", "columns", n)
		for _, col := range n.Columns {
			b.WriteString(`<div class="column" style="`)
			b.WriteString(columnFlex(col.Width))
			b.WriteString(`">`)
			writeNodes(b, col.Stack)
			b.WriteString("</div>")
		}
		b.WriteString("</div>\n")
	case document.NodeStack:
		openTag(b, "div", "stack", n)
		writeNodes(b, n.Stack)
		b.WriteString("</div>\n")
	default:
		openTag(b, "div", "text", n)
		b.WriteString(html.EscapeString(n.Text))
		b.WriteString("</div>\n")
	}
}

// openTag writes an opening tag carrying the node's kind class, its named
// style class and its inline style.
func openTag(b *strings.Builder, tag, kind string, n document.Node) {
	b.WriteString("<" + tag + ` class="` + kind)
	if n.Style != "" {
		b.WriteString(" " + className(n.Style))
	}
	b.WriteString(`"`)
	if css := styleCSS(n.StyleDef); css != "" {
		b.WriteString(` style="` + html.EscapeString(css) + `"`)
	}
	b.WriteString(">")
}

func writeTable(b *strings.Builder, n document.Node) {
	t := n.Table
	if t == nil {
		return
	}
	cols := 0
	for _, row := range t.Body {
		cols = max(cols, len(row))
	}
	headerRows := min(max(t.HeaderRows, 0), len(t.Body))

	openTag(b, "table", "table", n)
	if len(t.Widths) > 0 {
		b.WriteString("<colgroup>")
		for _, width := range t.Widths {
			if css := columnWidth(width); css != "" {
				b.WriteString(`<col style="width: ` + css + `">`)
				continue
			}
			b.WriteString("<col>")
		}
		b.WriteString("</colgroup>")
	}

	for r, row := range t.Body {
		if r == 0 && headerRows > 0 {
			b.WriteString("<thead>")
		}
		if r == headerRows {
			b.WriteString("<tbody>")
		}
		b.WriteString("<tr>")
		for c := 0; c < cols; c++ {
			cell := document.TextNode("", "")
			if c < len(row) {
				cell = row[c]
			}
			b.WriteString(`<td style="` + html.EscapeString(cellBorders(t, r, c, cols)) + `">`)
			writeNode(b, cell)
			b.WriteString("</td>")
		}
		b.WriteString("</tr>")
		if r == headerRows-1 {
			b.WriteString("</thead>")
		}
	}
	if headerRows < len(t.Body) {
		b.WriteString("</tbody>")
	}
	b.WriteString("</table>\n")
}

// cellBorders expresses the table line rules for one cell. Each cell owns
// its top and left lines; the last row and column also own the closing
// lines.
func cellBorders(t *document.Table, r, c, cols int) string {
	layout := t.Layout
	decls := []string{
		"border-top: " + border(layout.HLine(r), layout.HLineColor),
		"border-left: " + border(layout.VLine(c), layout.VLineColor),
	}
	if r == len(t.Body)-1 {
		decls = append(decls, "border-bottom: "+border(layout.HLine(r+1), layout.HLineColor))
	}
	if c == cols-1 {
		decls = append(decls, "border-right: "+border(layout.VLine(c+1), layout.VLineColor))
	}
	if fill := cssColor(layout.FillColor); fill != "" {
		decls = append(decls, "background-color: "+fill)
	}
	return strings.Join(decls, "; ")
}

func border(width float64, color string) string {
	if width <= 0 {
		return "none"
	}
	if color = cssColor(color); color == "" {
		color = "#000000"
	}
	return points(width) + " solid " + color
}

// columnWidth maps a table width to CSS. Star columns share the space left
// by the others and get no explicit width.
func columnWidth(width document.Width) string {
	if pct, ok := width.Percent(); ok {
		return formatPercent(pct)
	}
	if pts, ok := width.Points(); ok {
		return points(pts)
	}
	if width == document.WidthAuto {
		return "auto"
	}
	return ""
}

func columnFlex(width document.Width) string {
	if pct, ok := width.Percent(); ok {
		return "flex: 0 0 " + formatPercent(pct)
	}
	if pts, ok := width.Points(); ok {
		return "flex: 0 0 " + points(pts)
	}
	return "flex: 1 1 0"
}

func formatPercent(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64) + "%"
}
