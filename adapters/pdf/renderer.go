package docpdf

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/goliatone/go-docrender/document"
)

// DefaultMaxHTMLBytes guards in-memory HTML buffering before PDF conversion.
const DefaultMaxHTMLBytes int64 = 8 * 1024 * 1024

// ExternalAssetsPolicy controls how external assets are handled during
// conversion.
type ExternalAssetsPolicy string

const (
	ExternalAssetsUnspecified ExternalAssetsPolicy = ""
	ExternalAssetsAllow       ExternalAssetsPolicy = "allow"
	ExternalAssetsBlock       ExternalAssetsPolicy = "block"
)

// PDFOptions configures PDF output for HTML converters.
type PDFOptions struct {
	PageSize             string
	Landscape            *bool
	PrintBackground      *bool
	Scale                float64
	MarginTop            string
	MarginBottom         string
	MarginLeft           string
	MarginRight          string
	PreferCSSPageSize    *bool
	ExternalAssetsPolicy ExternalAssetsPolicy
}

// ConvertRequest contains HTML input and options for a converter.
type ConvertRequest struct {
	HTML    []byte
	Options PDFOptions
}

// Converter turns HTML into PDF bytes.
type Converter interface {
	Convert(ctx context.Context, req ConvertRequest) ([]byte, error)
}

// ConverterFunc adapts a function to a Converter.
type ConverterFunc func(ctx context.Context, req ConvertRequest) ([]byte, error)

func (f ConverterFunc) Convert(ctx context.Context, req ConvertRequest) ([]byte, error) {
	if f == nil {
		return nil, errors.New("pdf converter func is nil")
	}
	return f(ctx, req)
}

// HTMLRenderer writes a definition as a standalone HTML page.
type HTMLRenderer interface {
	Render(ctx context.Context, def document.Definition, fonts *document.FontSet, w io.Writer) error
}

// HTMLEngine renders definitions to HTML and converts the page to PDF.
type HTMLEngine struct {
	Enabled      bool
	HTML         HTMLRenderer
	Converter    Converter
	MaxHTMLBytes int64
}

// Render implements document.Engine.
func (e HTMLEngine) Render(ctx context.Context, req document.RenderRequest) ([]byte, error) {
	if !e.Enabled {
		return nil, document.NewError(document.KindNotImplemented, "html pdf engine is disabled", nil)
	}
	if e.HTML == nil {
		return nil, document.NewError(document.KindValidation, "html pdf engine requires html renderer", nil)
	}
	if e.Converter == nil {
		return nil, document.NewError(document.KindValidation, "html pdf engine requires converter", nil)
	}

	buffer := newLimitedBuffer(e.MaxHTMLBytes)
	if err := e.HTML.Render(ctx, req.Definition, req.Fonts, buffer); err != nil {
		return nil, err
	}

	return e.Converter.Convert(ctx, ConvertRequest{
		HTML:    buffer.Bytes(),
		Options: pdfOptionsFor(req.Definition),
	})
}

// pdfOptionsFor carries page setup from the definition. Everything else is
// left to converter defaults.
func pdfOptionsFor(def document.Definition) PDFOptions {
	pageSize := strings.TrimSpace(def.PageSize)
	if pageSize == "" {
		pageSize = document.DefaultPageSize
	}
	return PDFOptions{
		PageSize:  pageSize,
		Landscape: boolPtr(def.PageOrientation == document.Landscape),
	}
}

// WKHTMLTOPDFConverter invokes wkhtmltopdf for HTML-to-PDF conversion.
type WKHTMLTOPDFConverter struct {
	Command string
	Args    []string
	Env     []string
	Timeout time.Duration
}

// Convert executes wkhtmltopdf using stdin/stdout for HTML/PDF.
func (c WKHTMLTOPDFConverter) Convert(ctx context.Context, req ConvertRequest) ([]byte, error) {
	cmdPath := strings.TrimSpace(c.Command)
	if cmdPath == "" {
		cmdPath = "wkhtmltopdf"
	}
	if ctx == nil {
		ctx = context.Background()
	}
	cmdCtx := ctx
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		cmdCtx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	args := append([]string{"--quiet", "--encoding", "utf-8"}, wkhtmltopdfArgs(req.Options)...)
	args = append(args, c.Args...)
	args = append(args, "-", "-")
	cmd := exec.CommandContext(cmdCtx, cmdPath, args...)
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}
	cmd.Stdin = bytes.NewReader(req.HTML)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := cmdCtx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		message := strings.TrimSpace(stderr.String())
		if message == "" {
			message = "wkhtmltopdf failed"
		}
		return nil, document.NewError(document.KindInternal, message, err)
	}
	return stdout.Bytes(), nil
}

func wkhtmltopdfArgs(opts PDFOptions) []string {
	var args []string
	if opts.PageSize != "" {
		args = append(args, "--page-size", opts.PageSize)
	}
	if opts.Landscape != nil {
		orientation := "Portrait"
		if *opts.Landscape {
			orientation = "Landscape"
		}
		args = append(args, "--orientation", orientation)
	}
	if opts.PrintBackground != nil && !*opts.PrintBackground {
		args = append(args, "--no-background")
	}
	margins := []struct {
		flag  string
		value string
	}{
		{flag: "--margin-top", value: opts.MarginTop},
		{flag: "--margin-bottom", value: opts.MarginBottom},
		{flag: "--margin-left", value: opts.MarginLeft},
		{flag: "--margin-right", value: opts.MarginRight},
	}
	for _, margin := range margins {
		if margin.value != "" {
			args = append(args, margin.flag, margin.value)
		}
	}
	if opts.ExternalAssetsPolicy == ExternalAssetsBlock {
		args = append(args, "--disable-local-file-access", "--disable-external-links")
	}
	return args
}

type limitedBuffer struct {
	buf     bytes.Buffer
	maxSize int64
}

func newLimitedBuffer(maxSize int64) *limitedBuffer {
	if maxSize <= 0 {
		maxSize = DefaultMaxHTMLBytes
	}
	return &limitedBuffer{maxSize: maxSize}
}

func (b *limitedBuffer) Write(p []byte) (int, error) {
	if b.maxSize > 0 && int64(b.buf.Len()+len(p)) > b.maxSize {
		return 0, document.NewError(document.KindValidation, "html pdf engine max html bytes exceeded", nil)
	}
	return b.buf.Write(p)
}

func (b *limitedBuffer) Bytes() []byte {
	return b.buf.Bytes()
}
