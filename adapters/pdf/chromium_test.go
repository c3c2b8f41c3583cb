package docpdf

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goliatone/go-docrender/document"
)

func chromeBinaryPath(t *testing.T) string {
	t.Helper()

	chromePath := os.Getenv("CHROME_BIN")
	if chromePath == "" {
		for _, candidate := range []string{"google-chrome", "chromium", "chromium-browser"} {
			if path, err := exec.LookPath(candidate); err == nil {
				chromePath = path
				break
			}
		}
	}
	if chromePath == "" {
		t.Skip("chromium binary not found; set CHROME_BIN to run this test")
	}

	return chromePath
}

func newTestChromium(t *testing.T) *ChromiumConverter {
	t.Helper()
	converter := &ChromiumConverter{
		BrowserPath: chromeBinaryPath(t),
		Headless:    true,
		Timeout:     10 * time.Second,
		Args:        []string{"--no-sandbox", "--disable-dev-shm-usage"},
	}
	t.Cleanup(func() {
		_ = converter.Close()
	})
	return converter
}

func TestParseLength(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{input: "1in", want: 72},
		{input: "25.4mm", want: 72},
		{input: "2.54cm", want: 72},
		{input: "72pt", want: 72},
		{input: "96px", want: 72},
		{input: "2", want: 144},
	}

	for _, tc := range tests {
		got, err := parseLength(tc.input)
		if err != nil {
			t.Fatalf("parseLength(%q): %v", tc.input, err)
		}
		if diff := got - tc.want; diff > 0.0001 || diff < -0.0001 {
			t.Fatalf("parseLength(%q): expected %f, got %f", tc.input, tc.want, got)
		}
	}

	for _, bad := range []string{"", "ten", "5furlongs"} {
		if _, err := parseLength(bad); document.KindFromError(err) != document.KindValidation {
			t.Fatalf("parseLength(%q): expected validation error, got %v", bad, err)
		}
	}
}

func TestBuildPrintToPDFParams_PageSize(t *testing.T) {
	params, err := buildPrintToPDFParams(PDFOptions{
		PageSize:        "a4",
		Landscape:       boolPtr(true),
		PrintBackground: boolPtr(true),
		MarginTop:       "10mm",
	})
	if err != nil {
		t.Fatalf("buildPrintToPDFParams: %v", err)
	}
	if diff := params.PaperWidth - 8.2678; diff > 0.001 || diff < -0.001 {
		t.Fatalf("expected A4 width in inches, got %f", params.PaperWidth)
	}
	if params.PaperHeight == 0 {
		t.Fatalf("expected paper height to be set")
	}
	if params.MarginTop == 0 {
		t.Fatalf("expected margin top to be set")
	}
	if !params.PrintBackground || !params.Landscape {
		t.Fatalf("expected print background and landscape")
	}
	if params.PreferCSSPageSize {
		t.Fatalf("expected explicit page size to win over css")
	}
}

func TestBuildPrintToPDFParams_Errors(t *testing.T) {
	if _, err := buildPrintToPDFParams(PDFOptions{PageSize: "B9"}); document.KindFromError(err) != document.KindValidation {
		t.Fatalf("expected validation error for page size, got %v", err)
	}
	if _, err := buildPrintToPDFParams(PDFOptions{Scale: 3}); document.KindFromError(err) != document.KindValidation {
		t.Fatalf("expected validation error for scale, got %v", err)
	}
}

func TestMergePDFOptions(t *testing.T) {
	merged := mergePDFOptions(
		PDFOptions{PageSize: "A4", Scale: 1, PrintBackground: boolPtr(true), MarginTop: "1cm"},
		PDFOptions{PageSize: "Letter", Landscape: boolPtr(true)},
	)
	if merged.PageSize != "Letter" || merged.MarginTop != "1cm" || merged.Scale != 1 {
		t.Fatalf("unexpected merge: %+v", merged)
	}
	if merged.Landscape == nil || !*merged.Landscape || merged.PrintBackground == nil {
		t.Fatalf("expected pointer fields merged: %+v", merged)
	}
}

func TestChromeFlags(t *testing.T) {
	flags := chromeFlags([]string{"--no-sandbox", " ", "--window-size=800,600"})
	if len(flags) != 2 {
		t.Fatalf("expected 2 flags, got %d", len(flags))
	}
}

func TestChromiumConverter_InvalidOptionsSkipBrowser(t *testing.T) {
	converter := &ChromiumConverter{BrowserPath: "/nonexistent/chromium"}
	_, err := converter.Convert(context.Background(), ConvertRequest{
		HTML:    []byte("<html></html>"),
		Options: PDFOptions{PageSize: "B9"},
	})
	if document.KindFromError(err) != document.KindValidation {
		t.Fatalf("expected validation error before starting chromium, got %v", err)
	}
	if converter.stop != nil {
		t.Fatalf("expected browser to stay stopped")
	}
}

func TestChromiumConverter_Convert_Smoke(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping chromium smoke test in short mode")
	}
	converter := newTestChromium(t)

	pdf, err := converter.Convert(context.Background(), ConvertRequest{
		HTML:    []byte("<html><body><h1>Hola</h1></body></html>"),
		Options: PDFOptions{PageSize: "A4"},
	})
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if len(pdf) < 4 || string(pdf[:4]) != "%PDF" {
		t.Fatalf("expected pdf output")
	}
}

func TestChromiumConverter_BlocksExternalAssets(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping chromium external asset test in short mode")
	}
	converter := newTestChromium(t)
	var hits int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	html := []byte("<html><body><img src=\"" + server.URL + "/asset.png\"></body></html>")
	_, err := converter.Convert(context.Background(), ConvertRequest{
		HTML: html,
		Options: PDFOptions{
			PageSize:             "A4",
			ExternalAssetsPolicy: ExternalAssetsBlock,
		},
	})
	if err != nil {
		t.Fatalf("convert: %v", err)
	}

	time.Sleep(500 * time.Millisecond)

	if atomic.LoadInt32(&hits) != 0 {
		t.Fatalf("expected external assets to be blocked, got %d request(s)", hits)
	}
}
