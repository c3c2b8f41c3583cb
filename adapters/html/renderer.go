package dochtml

import (
	"context"
	"encoding/base64"
	"io"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
	"github.com/goliatone/go-docrender/document"
)

const pageTemplate = `<!DOCTYPE html>
<html lang="{{ lang }}">
<head>
<meta charset="utf-8">
<title>{{ title }}</title>
<style>
@page { size: {{ page_size }} {{ orientation }}; margin: {{ page_margin }}; }
{% for face in font_faces %}@font-face { font-family: "{{ face.Family }}"; font-weight: {{ face.Weight }}; font-style: {{ face.Style }}; src: url(data:font/ttf;base64,{{ face.Data }}) format("truetype"); }
{% endfor %}body { margin: 0; font-family: "{{ font_family }}", sans-serif; {{ default_style }} }
.text { white-space: pre-wrap; }
ul.list { margin: 0; padding-left: 12pt; }
table.table { border-collapse: collapse; width: 100%; }
table.table td { padding: 2pt 4pt; vertical-align: top; }
.columns { display: flex; }
{% for rule in style_rules %}.{{ rule.Class }} { {{ rule.CSS }} }
{% endfor %}</style>
</head>
<body>
{{ body|safe }}
</body>
</html>
`

var defaultPage = sync.OnceValues(func() (*pongo2.Template, error) {
	return pongo2.FromString(pageTemplate)
})

// Renderer writes definitions as HTML pages. The zero value is ready to use.
type Renderer struct {
	// Template overrides the page shell. It receives the same context as
	// the built-in template.
	Template *pongo2.Template
	// FontFamily selects the family embedded from the font set. Empty uses
	// document.DefaultFontFamily.
	FontFamily string
	// Lang is the page language. Empty means "es".
	Lang string
}

type fontFace struct {
	Family string
	Weight int
	Style  string
	Data   string
}

type styleRule struct {
	Class string
	CSS   string
}

// Render implements the HTML stage of docpdf.HTMLEngine.
func (r Renderer) Render(ctx context.Context, def document.Definition, fonts *document.FontSet, w io.Writer) error {
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return err
		}
	}

	tpl := r.Template
	if tpl == nil {
		var err error
		tpl, err = defaultPage()
		if err != nil {
			return document.NewError(document.KindInternal, "html page template invalid", err)
		}
	}

	familyName, faces := r.fontFaces(fonts)
	body := &strings.Builder{}
	writeNodes(body, def.Content)

	page := pongo2.Context{
		"lang":          r.lang(),
		"title":         def.Info.Title,
		"page_size":     pageSize(def.PageSize),
		"orientation":   orientation(def.PageOrientation),
		"page_margin":   pageMargin(def.PageMargins),
		"font_faces":    faces,
		"font_family":   familyName,
		"default_style": styleCSS(document.StyleDef{FontSize: document.DefaultFontSize}.Merge(def.DefaultStyle)),
		"style_rules":   styleRules(def.Styles),
		"body":          body.String(),
	}
	if err := tpl.ExecuteWriter(page, w); err != nil {
		return document.NewError(document.KindRenderFailed, "html page render failed", err)
	}
	return nil
}

func (r Renderer) fontFaces(fonts *document.FontSet) (string, []fontFace) {
	name := strings.TrimSpace(r.FontFamily)
	if name == "" {
		name = document.DefaultFontFamily
	}
	family, ok := fonts.Family(name)
	if !ok {
		return name, nil
	}

	variants := []struct {
		weight int
		style  string
		file   string
	}{
		{weight: 400, style: "normal", file: family.Normal},
		{weight: 700, style: "normal", file: family.Bold},
		{weight: 400, style: "italic", file: family.Italics},
		{weight: 700, style: "italic", file: family.BoldItalics},
	}
	faces := make([]fontFace, 0, len(variants))
	for _, variant := range variants {
		data, ok := fonts.File(variant.file)
		if !ok {
			continue
		}
		faces = append(faces, fontFace{
			Family: name,
			Weight: variant.weight,
			Style:  variant.style,
			Data:   base64.StdEncoding.EncodeToString(data),
		})
	}
	return name, faces
}

func (r Renderer) lang() string {
	if lang := strings.TrimSpace(r.Lang); lang != "" {
		return lang
	}
	return "es"
}

func pageSize(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return document.DefaultPageSize
	}
	return value
}

func orientation(value document.Orientation) string {
	if value == document.Landscape {
		return "landscape"
	}
	return "portrait"
}

func pageMargin(margin document.Margin) string {
	if !margin.Valid() {
		margin = document.DefaultPageMargins()
	}
	return boxCSS(margin)
}
