package document

import (
	"strings"
	"time"
)

// Orientation is the page orientation.
type Orientation string

const (
	Portrait  Orientation = "portrait"
	Landscape Orientation = "landscape"
)

const (
	DefaultPageSize = "A4"
	DefaultFontSize = 12.0
	DefaultLocale   = "es_ES"
)

// DefaultPageMargins returns the page margins used when a definition sets
// none: 40pt left and right, 60pt top and bottom.
func DefaultPageMargins() Margin {
	return Margin{40, 60, 40, 60}
}

// DocumentOptions configures page setup and styles for a strategy.
// Zero values resolve to the documented defaults.
type DocumentOptions struct {
	Title        string              `json:"title,omitempty"`
	Orientation  Orientation         `json:"orientation,omitempty"`
	PageSize     string              `json:"pageSize,omitempty"`
	Styles       map[string]StyleDef `json:"styles,omitempty"`
	DefaultStyle *StyleDef           `json:"defaultStyle,omitempty"`
	Locale       string              `json:"locale,omitempty"`
	Timezone     string              `json:"timezone,omitempty"`
	StrictStyles bool                `json:"strictStyles,omitempty"`
}

// ResolvedOptions are DocumentOptions with every default applied.
type ResolvedOptions struct {
	Title        string
	Orientation  Orientation
	PageSize     string
	Styles       map[string]StyleDef
	DefaultStyle StyleDef
	Locale       string
	Location     *time.Location
	StrictStyles bool
}

// ResolveOptions applies defaults. orientation is used when opts leaves it
// empty; an empty orientation falls back to portrait.
func ResolveOptions(opts DocumentOptions, orientation Orientation) (ResolvedOptions, error) {
	resolved := ResolvedOptions{
		Title:        strings.TrimSpace(opts.Title),
		Orientation:  opts.Orientation,
		PageSize:     strings.TrimSpace(opts.PageSize),
		Styles:       ResolveStyles(opts.Styles),
		DefaultStyle: StyleDef{FontSize: DefaultFontSize},
		Locale:       strings.TrimSpace(opts.Locale),
		Location:     time.Local,
		StrictStyles: opts.StrictStyles,
	}

	switch resolved.Orientation {
	case "":
		resolved.Orientation = orientation
		if resolved.Orientation == "" {
			resolved.Orientation = Portrait
		}
	case Portrait, Landscape:
	default:
		return ResolvedOptions{}, NewError(KindValidation, "orientation must be portrait or landscape", nil)
	}

	if resolved.PageSize == "" {
		resolved.PageSize = DefaultPageSize
	}
	if opts.DefaultStyle != nil {
		resolved.DefaultStyle = resolved.DefaultStyle.Merge(*opts.DefaultStyle)
	}
	if resolved.Locale == "" {
		resolved.Locale = DefaultLocale
	}
	if tz := strings.TrimSpace(opts.Timezone); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return ResolvedOptions{}, NewError(KindValidation, "invalid timezone", err)
		}
		resolved.Location = loc
	}

	if resolved.StrictStyles {
		if err := ValidateStyles(opts.Styles); err != nil {
			return ResolvedOptions{}, err
		}
		if err := ValidateStyles(map[string]StyleDef{"defaultStyle": resolved.DefaultStyle}); err != nil {
			return ResolvedOptions{}, err
		}
	}

	return resolved, nil
}

// baseDefinition returns a definition carrying page setup and styles but no
// content.
func (o ResolvedOptions) baseDefinition() Definition {
	return Definition{
		PageOrientation: o.Orientation,
		PageSize:        o.PageSize,
		Info:            Info{Title: o.Title, Creator: "go-docrender"},
		Styles:          o.Styles,
		DefaultStyle:    o.DefaultStyle,
	}
}
