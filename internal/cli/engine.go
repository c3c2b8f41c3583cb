package cli

import (
	"fmt"

	dochtml "github.com/goliatone/go-docrender/adapters/html"
	docpdf "github.com/goliatone/go-docrender/adapters/pdf"
	"github.com/goliatone/go-docrender/document"
	"github.com/goliatone/go-docrender/internal/config"
)

// buildEngine returns the configured engine and a release func for any
// external process it owns.
func buildEngine(cfg config.PDFConfig) (document.Engine, func() error, error) {
	noop := func() error { return nil }
	pdfDefaults := docpdf.PDFOptions{
		ExternalAssetsPolicy: docpdf.ExternalAssetsPolicy(cfg.ExternalAssetsPolicy),
	}

	switch cfg.Engine {
	case "", config.EngineNative:
		return docpdf.NativeEngine{FontFamily: cfg.FontFamily}, noop, nil
	case config.EngineChromium:
		converter := &docpdf.ChromiumConverter{
			BrowserPath: cfg.ChromiumPath,
			Headless:    cfg.Headless,
			Timeout:     cfg.Timeout(),
			Args:        cfg.Args,
			DefaultPDF:  pdfDefaults,
		}
		return htmlEngine(cfg, converter), converter.Close, nil
	case config.EngineWKHTMLTOPDF:
		converter := docpdf.WKHTMLTOPDFConverter{
			Command: cfg.WKHTMLTOPDFPath,
			Timeout: cfg.Timeout(),
		}
		if pdfDefaults.ExternalAssetsPolicy == docpdf.ExternalAssetsBlock {
			converter.Args = []string{"--disable-local-file-access", "--disable-external-links"}
		}
		return htmlEngine(cfg, converter), noop, nil
	default:
		return nil, noop, fmt.Errorf("unknown pdf engine %q", cfg.Engine)
	}
}

func htmlEngine(cfg config.PDFConfig, converter docpdf.Converter) docpdf.HTMLEngine {
	return docpdf.HTMLEngine{
		Enabled:      true,
		HTML:         dochtml.Renderer{FontFamily: cfg.FontFamily},
		Converter:    converter,
		MaxHTMLBytes: cfg.MaxHTMLBytes,
	}
}

// newService wires the document service from configuration.
func newService(cfg config.Config, engine document.Engine, logger document.Logger) document.Service {
	return document.NewService(document.ServiceConfig{
		Engine:   engine,
		Logger:   logger,
		Locale:   cfg.Document.Locale,
		Timezone: cfg.Document.Timezone,
	})
}
