package document

import (
	"strings"
	"testing"
	"time"
)

func TestFormatTimestamp(t *testing.T) {
	ts := time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)

	spanish := FormatTimestamp(ts, "es_ES")
	if !strings.HasPrefix(spanish, "5 de ") || !strings.HasSuffix(spanish, "de 2024, 14:07:09") {
		t.Fatalf("unexpected es_ES timestamp %q", spanish)
	}
	if strings.Contains(spanish, "March") {
		t.Fatalf("expected translated month, got %q", spanish)
	}

	if got := FormatTimestamp(ts, "xx_XX"); got != "2024-03-05 14:07:09" {
		t.Fatalf("unexpected fallback timestamp %q", got)
	}
}

func TestSanitizeFileName(t *testing.T) {
	cases := map[string]string{
		"orden-produccion-OP-042.pdf": "orden-produccion-OP-042.pdf",
		"../etc/passwd":               "_etc_passwd",
		"a\nb.pdf":                    "ab.pdf",
		`orden-"x".pdf`:               "orden-x.pdf",
		"  ":                          "document.pdf",
	}
	for input, want := range cases {
		if got := SanitizeFileName(input); got != want {
			t.Fatalf("SanitizeFileName(%q) = %q, want %q", input, got, want)
		}
	}
}
