package document

import (
	"sort"
	"sync"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
)

// DefaultFontFamily is the family engines use when a definition names none.
const DefaultFontFamily = "Go"

// FontFamily maps the four variants of a family to file names in the
// font set's virtual filesystem.
type FontFamily struct {
	Normal      string
	Bold        string
	Italics     string
	BoldItalics string
}

// File returns the file name of the variant matching bold and italics.
func (f FontFamily) File(bold, italics bool) string {
	switch {
	case bold && italics:
		return f.BoldItalics
	case bold:
		return f.Bold
	case italics:
		return f.Italics
	default:
		return f.Normal
	}
}

// FontSet is an immutable virtual filesystem of font files plus the family
// descriptors that reference them. It is shared by all renders.
type FontSet struct {
	vfs      map[string][]byte
	families map[string]FontFamily
}

// NewFontSet builds a font set. Families referencing missing files are
// dropped.
func NewFontSet(vfs map[string][]byte, families map[string]FontFamily) *FontSet {
	set := &FontSet{
		vfs:      make(map[string][]byte, len(vfs)),
		families: make(map[string]FontFamily, len(families)),
	}
	for name, data := range vfs {
		set.vfs[name] = data
	}
	for name, family := range families {
		if !set.has(family.Normal) || !set.has(family.Bold) || !set.has(family.Italics) || !set.has(family.BoldItalics) {
			continue
		}
		set.families[name] = family
	}
	return set
}

func (s *FontSet) has(file string) bool {
	_, ok := s.vfs[file]
	return ok
}

// File returns the bytes of a font file.
func (s *FontSet) File(name string) ([]byte, bool) {
	if s == nil {
		return nil, false
	}
	data, ok := s.vfs[name]
	return data, ok
}

// Family returns a registered family.
func (s *FontSet) Family(name string) (FontFamily, bool) {
	if s == nil {
		return FontFamily{}, false
	}
	family, ok := s.families[name]
	return family, ok
}

// Families returns the registered family names, sorted.
func (s *FontSet) Families() []string {
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.families))
	for name := range s.families {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var defaultFonts = sync.OnceValue(func() *FontSet {
	return NewFontSet(
		map[string][]byte{
			"Go-Regular.ttf":    goregular.TTF,
			"Go-Bold.ttf":       gobold.TTF,
			"Go-Italic.ttf":     goitalic.TTF,
			"Go-BoldItalic.ttf": gobolditalic.TTF,
		},
		map[string]FontFamily{
			DefaultFontFamily: {
				Normal:      "Go-Regular.ttf",
				Bold:        "Go-Bold.ttf",
				Italics:     "Go-Italic.ttf",
				BoldItalics: "Go-BoldItalic.ttf",
			},
		},
	)
})

// DefaultFonts returns the process-wide embedded font set. The set is built
// on first use; concurrent callers all receive the same instance.
func DefaultFonts() *FontSet {
	return defaultFonts()
}
