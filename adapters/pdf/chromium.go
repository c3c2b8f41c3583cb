package docpdf

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/goliatone/go-docrender/document"
)

const (
	defaultPDFScale = 1.0
	minPDFScale     = 0.1
	maxPDFScale     = 2.0
)

// ChromiumConverter prints HTML through one headless Chromium process shared
// by every conversion. The process starts on first use and stops on Close.
type ChromiumConverter struct {
	BrowserPath string
	Headless    bool
	Timeout     time.Duration
	Args        []string

	DefaultPDF PDFOptions

	once    sync.Once
	browser context.Context
	stop    func()
}

// Convert prints the page in a fresh tab.
func (c *ChromiumConverter) Convert(ctx context.Context, req ConvertRequest) ([]byte, error) {
	if c == nil {
		return nil, document.NewError(document.KindInternal, "chromium converter is nil", nil)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	opts := mergePDFOptions(c.defaults(), req.Options)
	params, err := buildPrintToPDFParams(opts)
	if err != nil {
		return nil, err
	}

	browser, err := c.start()
	if err != nil {
		return nil, document.NewError(document.KindInternal, "chromium converter init failed", err)
	}

	tab, closeTab := chromedp.NewContext(browser)
	defer closeTab()
	runCtx, cancel := c.runContext(ctx, tab)
	defer cancel()

	var out []byte
	if err := chromedp.Run(runCtx, printActions(req.HTML, opts.ExternalAssetsPolicy, params, &out)...); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return nil, document.NewError(document.KindTimeout, fmt.Sprintf("chromium pdf conversion exceeded %s", c.Timeout), err)
		}
		return nil, document.NewError(document.KindInternal, "chromium pdf conversion failed", err)
	}
	return out, nil
}

// Close stops the browser process if it was started.
func (c *ChromiumConverter) Close() error {
	if c != nil && c.stop != nil {
		c.stop()
	}
	return nil
}

func (c *ChromiumConverter) start() (context.Context, error) {
	c.once.Do(func() {
		opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
		if c.BrowserPath != "" {
			opts = append(opts, chromedp.ExecPath(c.BrowserPath))
		}
		opts = append(opts, chromedp.Flag("headless", c.Headless))
		opts = append(opts, chromeFlags(c.Args)...)

		alloc, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
		browser, cancelBrowser := chromedp.NewContext(alloc)
		c.browser = browser
		c.stop = func() {
			cancelBrowser()
			cancelAlloc()
		}
	})
	if c.browser == nil {
		return nil, errors.New("chromium allocator unavailable")
	}
	return c.browser, nil
}

// runContext derives the tab context from both the caller context and the
// converter timeout.
func (c *ChromiumConverter) runContext(ctx, tab context.Context) (context.Context, context.CancelFunc) {
	runCtx, cancel := context.WithCancel(tab)
	release := context.AfterFunc(ctx, cancel)
	if c.Timeout <= 0 {
		return runCtx, func() {
			release()
			cancel()
		}
	}
	timed, cancelTimeout := context.WithTimeout(runCtx, c.Timeout)
	return timed, func() {
		cancelTimeout()
		release()
		cancel()
	}
}

func (c *ChromiumConverter) defaults() PDFOptions {
	opts := c.DefaultPDF
	opts.Scale = cmp.Or(opts.Scale, defaultPDFScale)
	if opts.PrintBackground == nil {
		opts.PrintBackground = boolPtr(true)
	}
	return opts
}

func printActions(html []byte, policy ExternalAssetsPolicy, params *page.PrintToPDFParams, out *[]byte) []chromedp.Action {
	var actions []chromedp.Action
	if policy == ExternalAssetsBlock {
		actions = append(actions,
			network.Enable(),
			network.SetBlockedURLs([]string{"http://*", "https://*"}),
		)
	}
	return append(actions,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, string(html)).Do(ctx)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := params.Do(ctx)
			*out = data
			return err
		}),
	)
}

// mergePDFOptions prefers the set fields of override.
func mergePDFOptions(base, override PDFOptions) PDFOptions {
	return PDFOptions{
		PageSize:             cmp.Or(override.PageSize, base.PageSize),
		Landscape:            firstBool(override.Landscape, base.Landscape),
		PrintBackground:      firstBool(override.PrintBackground, base.PrintBackground),
		Scale:                cmp.Or(override.Scale, base.Scale),
		MarginTop:            cmp.Or(override.MarginTop, base.MarginTop),
		MarginBottom:         cmp.Or(override.MarginBottom, base.MarginBottom),
		MarginLeft:           cmp.Or(override.MarginLeft, base.MarginLeft),
		MarginRight:          cmp.Or(override.MarginRight, base.MarginRight),
		PreferCSSPageSize:    firstBool(override.PreferCSSPageSize, base.PreferCSSPageSize),
		ExternalAssetsPolicy: cmp.Or(override.ExternalAssetsPolicy, base.ExternalAssetsPolicy),
	}
}

// buildPrintToPDFParams converts lengths to the inches Chromium expects.
// Without an explicit page size the @page rule of the document wins.
func buildPrintToPDFParams(opts PDFOptions) (*page.PrintToPDFParams, error) {
	scale := cmp.Or(opts.Scale, defaultPDFScale)
	if scale < minPDFScale || scale > maxPDFScale {
		return nil, document.NewError(document.KindValidation,
			fmt.Sprintf("pdf scale must be between %.1f and %.1f", minPDFScale, maxPDFScale), nil)
	}

	params := page.PrintToPDF().
		WithScale(scale).
		WithLandscape(boolOr(opts.Landscape, false)).
		WithPrintBackground(boolOr(opts.PrintBackground, false)).
		WithPreferCSSPageSize(boolOr(opts.PreferCSSPageSize, opts.PageSize == ""))

	if opts.PageSize != "" {
		size, err := lookupPageSize(opts.PageSize)
		if err != nil {
			return nil, err
		}
		params = params.WithPaperWidth(size.width / pointsPerInch).WithPaperHeight(size.height / pointsPerInch)
	}

	// top, right, bottom, left
	var margins [4]float64
	for i, value := range []string{opts.MarginTop, opts.MarginRight, opts.MarginBottom, opts.MarginLeft} {
		if value == "" {
			continue
		}
		points, err := parseLength(value)
		if err != nil {
			return nil, err
		}
		margins[i] = points / pointsPerInch
	}
	return params.
		WithMarginTop(margins[0]).
		WithMarginRight(margins[1]).
		WithMarginBottom(margins[2]).
		WithMarginLeft(margins[3]), nil
}

// chromeFlags maps flags such as --no-sandbox or --window-size=800,600 to
// allocator options.
func chromeFlags(args []string) []chromedp.ExecAllocatorOption {
	flags := make([]chromedp.ExecAllocatorOption, 0, len(args))
	for _, arg := range args {
		arg = strings.TrimPrefix(strings.TrimSpace(arg), "--")
		if arg == "" {
			continue
		}
		if name, value, ok := strings.Cut(arg, "="); ok {
			flags = append(flags, chromedp.Flag(name, value))
		} else {
			flags = append(flags, chromedp.Flag(arg, true))
		}
	}
	return flags
}

func firstBool(values ...*bool) *bool {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

func boolOr(value *bool, fallback bool) bool {
	if value == nil {
		return fallback
	}
	return *value
}

func boolPtr(value bool) *bool {
	return &value
}
