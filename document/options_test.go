package document

import (
	"testing"
	"time"
)

func TestResolveOptions_Defaults(t *testing.T) {
	resolved, err := ResolveOptions(DocumentOptions{}, "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved.Orientation != Portrait {
		t.Fatalf("expected portrait, got %s", resolved.Orientation)
	}
	if resolved.PageSize != "A4" {
		t.Fatalf("expected A4, got %s", resolved.PageSize)
	}
	if resolved.DefaultStyle.FontSize != 12 {
		t.Fatalf("expected default font size 12, got %v", resolved.DefaultStyle.FontSize)
	}
	if resolved.Locale != DefaultLocale {
		t.Fatalf("expected locale %s, got %s", DefaultLocale, resolved.Locale)
	}
	if resolved.Location != time.Local {
		t.Fatalf("expected local timezone")
	}
	if _, ok := resolved.Styles["header"]; !ok {
		t.Fatalf("expected base styles")
	}
}

func TestResolveOptions_FallbackOrientation(t *testing.T) {
	resolved, err := ResolveOptions(DocumentOptions{}, Landscape)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved.Orientation != Landscape {
		t.Fatalf("expected landscape fallback, got %s", resolved.Orientation)
	}

	resolved, err = ResolveOptions(DocumentOptions{Orientation: Portrait}, Landscape)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved.Orientation != Portrait {
		t.Fatalf("expected caller orientation to win, got %s", resolved.Orientation)
	}
}

func TestResolveOptions_DefaultStyleMerge(t *testing.T) {
	resolved, err := ResolveOptions(DocumentOptions{
		DefaultStyle: &StyleDef{Bold: Bool(true), Color: "#333333"},
	}, "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved.DefaultStyle.FontSize != 12 {
		t.Fatalf("expected font size default kept, got %v", resolved.DefaultStyle.FontSize)
	}
	if !resolved.DefaultStyle.IsBold() || resolved.DefaultStyle.Color != "#333333" {
		t.Fatalf("expected caller fields merged, got %+v", resolved.DefaultStyle)
	}

	resolved, err = ResolveOptions(DocumentOptions{DefaultStyle: &StyleDef{FontSize: 9}}, "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved.DefaultStyle.FontSize != 9 {
		t.Fatalf("expected caller font size, got %v", resolved.DefaultStyle.FontSize)
	}
}

func TestResolveOptions_Errors(t *testing.T) {
	cases := []struct {
		name string
		opts DocumentOptions
		kind ErrorKind
	}{
		{name: "orientation", opts: DocumentOptions{Orientation: "sideways"}, kind: KindValidation},
		{name: "timezone", opts: DocumentOptions{Timezone: "Mars/Olympus"}, kind: KindValidation},
		{
			name: "strict styles",
			opts: DocumentOptions{
				StrictStyles: true,
				Styles:       map[string]StyleDef{"bad": {Margin: Margin{1, 2, 3}}},
			},
			kind: KindMalformedStyle,
		},
		{
			name: "strict default style",
			opts: DocumentOptions{
				StrictStyles: true,
				DefaultStyle: &StyleDef{Margin: Margin{1}},
			},
			kind: KindMalformedStyle,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ResolveOptions(tc.opts, "")
			if err == nil {
				t.Fatalf("expected error")
			}
			if KindFromError(err) != tc.kind {
				t.Fatalf("expected %s, got %s (%v)", tc.kind, KindFromError(err), err)
			}
		})
	}
}

func TestResolveOptions_MalformedStylesPassThrough(t *testing.T) {
	resolved, err := ResolveOptions(DocumentOptions{
		Styles: map[string]StyleDef{"bad": {Margin: Margin{1, 2, 3}}},
	}, "")
	if err != nil {
		t.Fatalf("expected lenient resolution, got %v", err)
	}
	if len(resolved.Styles["bad"].Margin) != 3 {
		t.Fatalf("expected malformed margin untouched, got %v", resolved.Styles["bad"].Margin)
	}
}

func TestResolveOptions_Timezone(t *testing.T) {
	resolved, err := ResolveOptions(DocumentOptions{Timezone: "UTC"}, "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved.Location.String() != "UTC" {
		t.Fatalf("expected UTC, got %s", resolved.Location)
	}
}
