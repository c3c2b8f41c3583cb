package docpdf

import (
	"bytes"
	"context"
	"strings"

	"github.com/goliatone/go-docrender/document"
	"github.com/jung-kurt/gofpdf"
)

const (
	defaultLineHeight = 1.2
	coreFontFamily    = "Helvetica"
	listIndent        = 12.0
	listBullet        = "•"
	cellPaddingX      = 4.0
	cellPaddingY      = 2.0
	minColumnWidth    = 20.0
)

// NativeEngine lays out document definitions directly with gofpdf. It needs
// no external binaries.
type NativeEngine struct {
	// FontFamily selects the family from the font set. Empty uses
	// document.DefaultFontFamily, then the first registered family. Without
	// a usable family the engine falls back to the Helvetica core font.
	FontFamily string
	// LineHeight is a multiple of the font size. Zero means 1.2.
	LineHeight float64
}

// Render implements document.Engine.
func (e NativeEngine) Render(ctx context.Context, req document.RenderRequest) ([]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	def := req.Definition

	size, err := lookupPageSize(def.PageSize)
	if err != nil {
		return nil, err
	}
	if err := document.ValidateWidths(def.Content); err != nil {
		return nil, err
	}
	orientation := "P"
	if def.PageOrientation == document.Landscape {
		orientation = "L"
	}

	pdf := gofpdf.New(orientation, "pt", size.name, "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCellMargin(0)
	setInfo(pdf, def.Info)

	family, utf8 := e.registerFonts(pdf, req.Fonts)
	if pdf.Err() {
		return nil, document.NewError(document.KindRenderFailed, "native pdf font registration failed", pdf.Error())
	}

	margins := def.PageMargins
	if !margins.Valid() {
		margins = document.DefaultPageMargins()
	}
	left, top, right, bottom := margins.Box()
	pdf.SetMargins(left, top, right)
	pdf.AddPage()
	pageW, pageH := pdf.GetPageSize()

	lineHeight := e.LineHeight
	if lineHeight <= 0 {
		lineHeight = defaultLineHeight
	}

	l := &layout{
		pdf:        pdf,
		family:     family,
		utf8:       utf8,
		translate:  func(s string) string { return s },
		styles:     def.Styles,
		lineHeight: lineHeight,
		top:        top,
		bottom:     pageH - bottom,
		y:          top,
		breaks:     true,
	}
	if !utf8 {
		l.translate = pdf.UnicodeTranslatorFromDescriptor("")
	}

	base := document.StyleDef{FontSize: document.DefaultFontSize}.Merge(def.DefaultStyle)
	for _, node := range def.Content {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		l.node(node, base, left, pageW-left-right)
		if pdf.Err() {
			break
		}
	}
	if pdf.Err() {
		return nil, document.NewError(document.KindRenderFailed, "native pdf layout failed", pdf.Error())
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, document.NewError(document.KindRenderFailed, "native pdf output failed", err)
	}
	return buf.Bytes(), nil
}

func (e NativeEngine) registerFonts(pdf *gofpdf.Fpdf, fonts *document.FontSet) (string, bool) {
	name := strings.TrimSpace(e.FontFamily)
	if name == "" {
		name = document.DefaultFontFamily
	}
	family, ok := fonts.Family(name)
	if !ok {
		if names := fonts.Families(); len(names) > 0 {
			name = names[0]
			family, ok = fonts.Family(name)
		}
	}
	if !ok {
		return coreFontFamily, false
	}

	variants := []struct {
		style string
		file  string
	}{
		{style: "", file: family.Normal},
		{style: "B", file: family.Bold},
		{style: "I", file: family.Italics},
		{style: "BI", file: family.BoldItalics},
	}
	// gofpdf rewrites the font tables in place while subsetting, so every
	// document gets its own copy of the shared bytes.
	for _, variant := range variants {
		data, _ := fonts.File(variant.file)
		pdf.AddUTF8FontFromBytes(name, variant.style, bytes.Clone(data))
	}
	return name, true
}

func setInfo(pdf *gofpdf.Fpdf, info document.Info) {
	if info.Title != "" {
		pdf.SetTitle(info.Title, true)
	}
	if info.Author != "" {
		pdf.SetAuthor(info.Author, true)
	}
	if info.Creator != "" {
		pdf.SetCreator(info.Creator, true)
	}
}

// layout is a single-pass flow layout over a gofpdf document. In measuring
// mode nothing is drawn and only the cursor advances.
type layout struct {
	pdf        *gofpdf.Fpdf
	family     string
	utf8       bool
	translate  func(string) string
	styles     map[string]document.StyleDef
	lineHeight float64
	top        float64
	bottom     float64

	y         float64
	breaks    bool
	measuring bool
}

// cascade resolves the style of n under parent: inherited attributes, then
// the named style, then inline overrides. Margins and fills do not inherit.
func (l *layout) cascade(parent document.StyleDef, n document.Node) document.StyleDef {
	style := parent
	style.Margin = nil
	style.FillColor = ""
	if n.Style != "" {
		if named, ok := l.styles[n.Style]; ok {
			style = style.Merge(named)
		}
	}
	return style.Merge(n.StyleDef)
}

func (l *layout) node(n document.Node, parent document.StyleDef, x, w float64) {
	style := l.cascade(parent, n)
	ml, mt, mr, mb := style.Margin.Box()
	x += ml
	w -= ml + mr
	if w < 1 {
		w = 1
	}
	l.y += mt

	switch n.Kind {
	case document.NodeList:
		l.list(n, style, x, w)
	case document.NodeTable:
		l.table(n.Table, style, x, w)
	case document.NodeColumns:
		l.columns(n.Columns, style, x, w)
	case document.NodeStack:
		for _, child := range n.Stack {
			l.node(child, style, x, w)
		}
	default:
		l.text(n.Text, style, x, w)
	}

	l.y += mb
}

func (l *layout) text(text string, style document.StyleDef, x, w float64) {
	l.useFont(style)
	lineH := l.lineHeightFor(style)
	lines := l.splitText(text, w)
	align := alignString(style.Alignment)
	fill := false
	if !l.measuring {
		l.useTextColor(style.Color)
		fill = l.useFill(style.FillColor)
	}

	for _, line := range lines {
		l.ensure(lineH)
		if !l.measuring {
			l.pdf.SetXY(x, l.y)
			l.pdf.CellFormat(w, lineH, line, "", 0, align, fill, 0, "")
		}
		l.y += lineH
	}
}

func (l *layout) list(n document.Node, style document.StyleDef, x, w float64) {
	for _, item := range n.Items {
		itemStyle := l.cascade(style, item)
		l.useFont(itemStyle)
		lineH := l.lineHeightFor(itemStyle)
		_, mt, _, _ := itemStyle.Margin.Box()
		l.ensure(mt + lineH)

		if !l.measuring {
			l.useTextColor(itemStyle.Color)
			l.pdf.SetXY(x, l.y+mt)
			l.pdf.CellFormat(listIndent, lineH, l.translate(listBullet), "", 0, "L", false, 0, "")
		}
		l.node(item, style, x+listIndent, w-listIndent)
	}
}

func (l *layout) table(t *document.Table, style document.StyleDef, x, w float64) {
	if t == nil || len(t.Body) == 0 {
		return
	}
	widths := l.tableWidths(t, style, w)
	headerRows := t.HeaderRows
	if headerRows < 0 {
		headerRows = 0
	}
	if headerRows > len(t.Body) {
		headerRows = len(t.Body)
	}

	for r := range t.Body {
		h := l.rowHeight(t, r, style, widths)
		if l.needsBreak(h) {
			l.hline(t, r, x, l.y, widths)
			l.newPage()
			if r >= headerRows {
				for hr := 0; hr < headerRows; hr++ {
					l.row(t, hr, style, x, widths, l.rowHeight(t, hr, style, widths))
				}
			}
		}
		l.row(t, r, style, x, widths, h)
	}
	if !l.measuring {
		l.hline(t, len(t.Body), x, l.y, widths)
	}
}

func (l *layout) row(t *document.Table, r int, style document.StyleDef, x float64, widths []float64, h float64) {
	y := l.y
	if l.measuring {
		l.y = y + h
		return
	}

	cx := x
	for c, cw := range widths {
		cell := cellAt(t, r, c)
		fill := l.cascade(style, cell).FillColor
		if fill == "" {
			fill = t.Layout.FillColor
		}
		if l.useFill(fill) {
			l.pdf.Rect(cx, y, cw, h, "F")
		}
		cx += cw
	}

	cx = x
	for c, cw := range widths {
		cell := cellAt(t, r, c)
		l.y = y + cellPaddingY
		l.fixed(func() {
			l.node(cell, style, cx+cellPaddingX, cw-2*cellPaddingX)
		})
		cx += cw
	}

	l.hline(t, r, x, y, widths)
	l.vlines(t, x, y, h, widths)
	l.y = y + h
}

func (l *layout) rowHeight(t *document.Table, r int, style document.StyleDef, widths []float64) float64 {
	height := 0.0
	for c, cw := range widths {
		h := l.measure(cellAt(t, r, c), style, cw-2*cellPaddingX) + 2*cellPaddingY
		if h > height {
			height = h
		}
	}
	return height
}

func (l *layout) hline(t *document.Table, i int, x, y float64, widths []float64) {
	weight := t.Layout.HLine(i)
	if weight <= 0 || l.measuring {
		return
	}
	l.useDraw(t.Layout.HLineColor)
	l.pdf.SetLineWidth(weight)
	l.pdf.Line(x, y, x+sum(widths), y)
}

func (l *layout) vlines(t *document.Table, x, y, h float64, widths []float64) {
	cx := x
	for j := 0; j <= len(widths); j++ {
		if weight := t.Layout.VLine(j); weight > 0 {
			l.useDraw(t.Layout.VLineColor)
			l.pdf.SetLineWidth(weight)
			l.pdf.Line(cx, y, cx, y+h)
		}
		if j < len(widths) {
			cx += widths[j]
		}
	}
}

func (l *layout) tableWidths(t *document.Table, style document.StyleDef, w float64) []float64 {
	cols := 0
	for _, row := range t.Body {
		if len(row) > cols {
			cols = len(row)
		}
	}
	if len(t.Widths) > cols {
		cols = len(t.Widths)
	}

	widths := make([]float64, cols)
	var stars []int
	used := 0.0
	for c := 0; c < cols; c++ {
		width := document.WidthStar
		if c < len(t.Widths) {
			width = t.Widths[c]
		}
		if pct, ok := width.Percent(); ok {
			widths[c] = w * pct / 100
		} else if pts, ok := width.Points(); ok {
			widths[c] = pts
		} else if width == document.WidthAuto {
			widths[c] = l.autoWidth(t, c, style)
		} else {
			stars = append(stars, c)
			continue
		}
		used += widths[c]
	}

	if used > w && used > 0 {
		scale := w / used
		for c := range widths {
			widths[c] *= scale
		}
		used = w
	}
	if len(stars) > 0 {
		share := (w - used) / float64(len(stars))
		if share < minColumnWidth {
			share = minColumnWidth
		}
		for _, c := range stars {
			widths[c] = share
		}
	}
	return widths
}

func (l *layout) autoWidth(t *document.Table, c int, style document.StyleDef) float64 {
	width := minColumnWidth
	for r := range t.Body {
		if w := l.naturalWidth(cellAt(t, r, c), style) + 2*cellPaddingX; w > width {
			width = w
		}
	}
	return width
}

// naturalWidth is the unwrapped width of text content. Nested blocks report
// zero and take the minimum column width.
func (l *layout) naturalWidth(n document.Node, parent document.StyleDef) float64 {
	if n.Kind != document.NodeText && n.Kind != "" {
		return 0
	}
	style := l.cascade(parent, n)
	l.useFont(style)
	ml, _, mr, _ := style.Margin.Box()
	width := 0.0
	for _, line := range strings.Split(n.Text, "\n") {
		if w := l.pdf.GetStringWidth(l.prepare(line)); w > width {
			width = w
		}
	}
	return width + ml + mr
}

// columns lays out a column group side by side. Column groups do not split
// across pages.
func (l *layout) columns(cols []document.Column, style document.StyleDef, x, w float64) {
	if len(cols) == 0 {
		return
	}
	widths := columnWidths(cols, w)
	stacks := make([]document.Node, len(cols))
	height := 0.0
	for i, col := range cols {
		stacks[i] = document.Node{Kind: document.NodeStack, Stack: col.Stack}
		if h := l.measure(stacks[i], style, widths[i]); h > height {
			height = h
		}
	}
	if l.measuring {
		l.y += height
		return
	}
	if l.needsBreak(height) {
		l.newPage()
	}

	y := l.y
	cx := x
	for i, stack := range stacks {
		l.y = y
		l.fixed(func() {
			l.node(stack, style, cx, widths[i])
		})
		cx += widths[i]
	}
	l.y = y + height
}

func columnWidths(cols []document.Column, w float64) []float64 {
	widths := make([]float64, len(cols))
	var flexible []int
	used := 0.0
	for i, col := range cols {
		if pct, ok := col.Width.Percent(); ok {
			widths[i] = w * pct / 100
		} else if pts, ok := col.Width.Points(); ok {
			widths[i] = pts
		} else {
			flexible = append(flexible, i)
			continue
		}
		used += widths[i]
	}
	if len(flexible) > 0 {
		share := (w - used) / float64(len(flexible))
		if share < minColumnWidth {
			share = minColumnWidth
		}
		for _, i := range flexible {
			widths[i] = share
		}
	}
	return widths
}

func cellAt(t *document.Table, r, c int) document.Node {
	row := t.Body[r]
	if c < len(row) {
		return row[c]
	}
	return document.TextNode("", "")
}

func (l *layout) measure(n document.Node, parent document.StyleDef, w float64) float64 {
	y, measuring := l.y, l.measuring
	l.y, l.measuring = 0, true
	l.node(n, parent, 0, w)
	h := l.y
	l.y, l.measuring = y, measuring
	return h
}

// fixed runs fn with page breaks disabled.
func (l *layout) fixed(fn func()) {
	breaks := l.breaks
	l.breaks = false
	fn()
	l.breaks = breaks
}

func (l *layout) needsBreak(h float64) bool {
	return l.breaks && !l.measuring && l.y+h > l.bottom && l.y > l.top
}

func (l *layout) ensure(h float64) {
	if l.needsBreak(h) {
		l.newPage()
	}
}

func (l *layout) newPage() {
	l.pdf.AddPage()
	l.y = l.top
}

func (l *layout) useFont(style document.StyleDef) {
	variant := ""
	if style.IsBold() {
		variant += "B"
	}
	if style.IsItalic() {
		variant += "I"
	}
	l.pdf.SetFont(l.family, variant, fontSize(style))
}

func (l *layout) lineHeightFor(style document.StyleDef) float64 {
	return fontSize(style) * l.lineHeight
}

// splitText wraps text to w using the current font. Empty text still takes
// one line.
func (l *layout) splitText(text string, w float64) []string {
	text = l.prepare(text)
	var lines []string
	if l.utf8 {
		lines = l.pdf.SplitText(text, w)
	} else {
		for _, line := range l.pdf.SplitLines([]byte(text), w) {
			lines = append(lines, string(line))
		}
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	return lines
}

// prepare maps text into the encoding of the current font. UTF-8 fonts
// only carry glyph metrics for the basic multilingual plane.
func (l *layout) prepare(text string) string {
	if !l.utf8 {
		return l.translate(text)
	}
	return strings.Map(func(r rune) rune {
		if r > 0xFFFF {
			return '?'
		}
		return r
	}, text)
}

func (l *layout) useTextColor(value string) {
	r, g, b, ok := parseColor(value)
	if !ok {
		r, g, b = 0, 0, 0
	}
	l.pdf.SetTextColor(r, g, b)
}

func (l *layout) useDraw(value string) {
	r, g, b, ok := parseColor(value)
	if !ok {
		r, g, b = 0, 0, 0
	}
	l.pdf.SetDrawColor(r, g, b)
}

func (l *layout) useFill(value string) bool {
	r, g, b, ok := parseColor(value)
	if !ok {
		return false
	}
	l.pdf.SetFillColor(r, g, b)
	return true
}

func fontSize(style document.StyleDef) float64 {
	if style.FontSize > 0 {
		return style.FontSize
	}
	return document.DefaultFontSize
}

func alignString(align document.Alignment) string {
	switch align {
	case document.AlignCenter:
		return "C"
	case document.AlignRight:
		return "R"
	default:
		return "L"
	}
}

func sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}
