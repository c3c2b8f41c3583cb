package dochtml

import (
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-docrender/document"
)

// styleCSS renders the set fields of a style as CSS declarations.
func styleCSS(style document.StyleDef) string {
	var decls []string
	if style.FontSize > 0 {
		decls = append(decls, "font-size: "+points(style.FontSize))
	}
	if style.Bold != nil {
		weight := "normal"
		if *style.Bold {
			weight = "bold"
		}
		decls = append(decls, "font-weight: "+weight)
	}
	if style.Italics != nil {
		fontStyle := "normal"
		if *style.Italics {
			fontStyle = "italic"
		}
		decls = append(decls, "font-style: "+fontStyle)
	}
	if style.Alignment.Valid() {
		decls = append(decls, "text-align: "+string(style.Alignment))
	}
	if color := cssColor(style.Color); color != "" {
		decls = append(decls, "color: "+color)
	}
	if fill := cssColor(style.FillColor); fill != "" {
		decls = append(decls, "background-color: "+fill)
	}
	if style.Margin.Valid() {
		decls = append(decls, "margin: "+boxCSS(style.Margin))
	}
	return strings.Join(decls, "; ")
}

// styleRules returns one CSS rule per named style, sorted by name.
func styleRules(styles map[string]document.StyleDef) []styleRule {
	names := make([]string, 0, len(styles))
	for name := range styles {
		names = append(names, name)
	}
	sort.Strings(names)

	rules := make([]styleRule, 0, len(names))
	for _, name := range names {
		css := styleCSS(styles[name])
		if css == "" {
			continue
		}
		rules = append(rules, styleRule{Class: className(name), CSS: css})
	}
	return rules
}

// className maps a style name to a CSS class. Characters outside
// [A-Za-z0-9_-] become underscores.
func className(name string) string {
	return "s-" + strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}

// boxCSS renders a margin as CSS top right bottom left.
func boxCSS(margin document.Margin) string {
	left, top, right, bottom := margin.Box()
	return strings.Join([]string{points(top), points(right), points(bottom), points(left)}, " ")
}

func points(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64) + "pt"
}

// cssColor accepts hex colors and plain color names. Anything else is
// dropped so user values cannot break out of a declaration.
func cssColor(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	for i, r := range value {
		switch {
		case r == '#' && i == 0:
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		default:
			return ""
		}
	}
	return value
}
