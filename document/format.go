package document

import (
	"strings"
	"time"

	"github.com/goodsign/monday"
)

var timestampLayouts = map[monday.Locale]string{
	monday.LocaleEsES: "2 de January de 2006, 15:04:05",
	monday.LocaleEnUS: "January 2, 2006 3:04:05 PM",
	monday.LocaleEnGB: "2 January 2006 15:04:05",
	monday.LocalePtBR: "2 de January de 2006, 15:04:05",
	monday.LocaleFrFR: "2 January 2006 15:04:05",
	monday.LocaleDeDE: "2. January 2006 15:04:05",
}

const fallbackTimestampLayout = "2006-01-02 15:04:05"

// FormatTimestamp renders t as a human readable date and time in locale.
func FormatTimestamp(t time.Time, locale string) string {
	loc := monday.Locale(locale)
	layout, ok := timestampLayouts[loc]
	if !ok {
		return t.Format(fallbackTimestampLayout)
	}
	return monday.Format(t, layout, loc)
}

// fileDate is the day stamp used in generated file names. It is always UTC.
func fileDate(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// SanitizeFileName makes a generated file name safe to use as a single path
// element. Separators become underscores. Quotes and control characters
// are dropped.
func SanitizeFileName(name string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(name) {
		switch {
		case r == '/' || r == '\\':
			b.WriteRune('_')
		case r == '"' || r < 0x20 || r == 0x7f:
		default:
			b.WriteRune(r)
		}
	}
	out := strings.Trim(b.String(), ". ")
	if out == "" {
		return "document.pdf"
	}
	return out
}
