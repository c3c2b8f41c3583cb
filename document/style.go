package document

import (
	"fmt"
	"sort"
)

// Alignment is the horizontal alignment of a text block.
type Alignment string

const (
	AlignLeft    Alignment = "left"
	AlignCenter  Alignment = "center"
	AlignRight   Alignment = "right"
	AlignJustify Alignment = "justify"
)

// Valid reports whether a is one of the known alignments.
func (a Alignment) Valid() bool {
	switch a {
	case AlignLeft, AlignCenter, AlignRight, AlignJustify:
		return true
	}
	return false
}

// Margin is a 2-tuple (horizontal, vertical) or a 4-tuple
// (left, top, right, bottom) in points.
type Margin []float64

// Valid reports whether the margin has a supported shape.
func (m Margin) Valid() bool {
	return len(m) == 2 || len(m) == 4
}

// Box expands the margin to left, top, right, bottom.
// Malformed margins expand to zero.
func (m Margin) Box() (left, top, right, bottom float64) {
	switch len(m) {
	case 2:
		return m[0], m[1], m[0], m[1]
	case 4:
		return m[0], m[1], m[2], m[3]
	default:
		return 0, 0, 0, 0
	}
}

func (m Margin) clone() Margin {
	if m == nil {
		return nil
	}
	out := make(Margin, len(m))
	copy(out, m)
	return out
}

// StyleDef is a named, reusable set of formatting attributes.
type StyleDef struct {
	FontSize  float64   `json:"fontSize,omitempty" toml:"font_size"`
	Bold      *bool     `json:"bold,omitempty" toml:"bold"`
	Italics   *bool     `json:"italics,omitempty" toml:"italics"`
	Alignment Alignment `json:"alignment,omitempty" toml:"alignment"`
	Color     string    `json:"color,omitempty" toml:"color"`
	FillColor string    `json:"fillColor,omitempty" toml:"fill_color"`
	Margin    Margin    `json:"margin,omitempty" toml:"margin"`
}

// Merge overlays the set fields of over on top of s.
func (s StyleDef) Merge(over StyleDef) StyleDef {
	out := s
	if over.FontSize != 0 {
		out.FontSize = over.FontSize
	}
	if over.Bold != nil {
		out.Bold = over.Bold
	}
	if over.Italics != nil {
		out.Italics = over.Italics
	}
	if over.Alignment != "" {
		out.Alignment = over.Alignment
	}
	if over.Color != "" {
		out.Color = over.Color
	}
	if over.FillColor != "" {
		out.FillColor = over.FillColor
	}
	if over.Margin != nil {
		out.Margin = over.Margin
	}
	return out
}

// IsBold reports whether the style is bold.
func (s StyleDef) IsBold() bool {
	return s.Bold != nil && *s.Bold
}

// IsItalic reports whether the style is italic.
func (s StyleDef) IsItalic() bool {
	return s.Italics != nil && *s.Italics
}

// IsZero reports whether no field is set.
func (s StyleDef) IsZero() bool {
	return s.FontSize == 0 && s.Bold == nil && s.Italics == nil && s.Alignment == "" &&
		s.Color == "" && s.FillColor == "" && s.Margin == nil
}

// Bool returns a pointer to value.
func Bool(value bool) *bool {
	return &value
}

// BaseStyles returns the built-in header and subheader styles.
func BaseStyles() map[string]StyleDef {
	return map[string]StyleDef{
		"header": {
			FontSize:  18,
			Bold:      Bool(true),
			Alignment: AlignCenter,
			Margin:    Margin{0, 0, 0, 10},
		},
		"subheader": {
			FontSize: 14,
			Bold:     Bool(true),
			Margin:   Margin{0, 10, 0, 5},
		},
	}
}

// ResolveStyles merges custom styles over the built-in styles.
//
// Custom entries replace built-ins of the same name as a whole. Margins of
// length 2 or 4 are copied as-is; any other shape is left untouched.
func ResolveStyles(custom map[string]StyleDef) map[string]StyleDef {
	resolved := BaseStyles()
	for name, style := range custom {
		if style.Margin.Valid() {
			style.Margin = style.Margin.clone()
		}
		resolved[name] = style
	}
	return resolved
}

// ValidateStyles rejects styles whose margin is neither a 2- nor a 4-tuple
// and styles with an unknown alignment.
func ValidateStyles(styles map[string]StyleDef) error {
	names := make([]string, 0, len(styles))
	for name := range styles {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		margin := styles[name].Margin
		if margin != nil && !margin.Valid() {
			return NewError(KindMalformedStyle, fmt.Sprintf("style %q: margin must have 2 or 4 values, got %d", name, len(margin)), nil)
		}
		if align := styles[name].Alignment; align != "" && !align.Valid() {
			return NewError(KindMalformedStyle, fmt.Sprintf("style %q: unknown alignment %q", name, align), nil)
		}
	}
	return nil
}
