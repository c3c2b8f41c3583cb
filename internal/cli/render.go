package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	gcmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-docrender/command"
	"github.com/goliatone/go-docrender/document"
	"github.com/goliatone/go-docrender/query"
	"github.com/spf13/cobra"
)

// renderOpts holds the flags shared by render subcommands.
type renderOpts struct {
	output      string
	input       string
	title       string
	orientation string
	pageSize    string
}

// documentOptions leaves locale and timezone empty so the service applies
// the configured defaults.
func (o renderOpts) documentOptions() document.DocumentOptions {
	return document.DocumentOptions{
		Title:       o.title,
		Orientation: document.Orientation(o.orientation),
		PageSize:    o.pageSize,
	}
}

func newRenderCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render documents to PDF files",
	}
	cmd.AddCommand(newRenderSimpleCmd(a))
	cmd.AddCommand(newRenderProductionOrderCmd(a))
	cmd.AddCommand(newRenderRequestCmd(a))
	cmd.AddCommand(newRenderDefinitionCmd(a))
	cmd.AddCommand(newRenderBatchCmd(a))
	return cmd
}

func newRenderSimpleCmd(a *app) *cobra.Command {
	var opts renderOpts
	cmd := &cobra.Command{
		Use:   "simple",
		Short: "Render the simple landscape report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withService(cmd.Context(), func(svc document.Service) error {
				var result document.RenderResult
				err := command.NewGenerateDocumentHandler(svc).Execute(cmd.Context(), command.GenerateDocument{
					Request: document.GenerateRequest{
						Kind: document.KindSimple,
						Options: &document.DocumentOptions{
							Title:       document.SimpleReportTitle,
							Orientation: document.Landscape,
						},
					},
					Result: &result,
				})
				if err != nil {
					return err
				}
				return a.writeResult(opts.output, result)
			})
		},
	}
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file or directory, - for stdout")
	return cmd
}

func newRenderProductionOrderCmd(a *app) *cobra.Command {
	var opts renderOpts
	cmd := &cobra.Command{
		Use:   "production-order",
		Short: "Render a production order from a JSON file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var data document.ProductionOrderData
			if err := readJSON(opts.input, cmd.InOrStdin(), &data); err != nil {
				return err
			}
			return a.withService(cmd.Context(), func(svc document.Service) error {
				var result document.RenderResult
				err := command.NewGenerateProductionOrderHandler(svc).Execute(cmd.Context(), command.GenerateProductionOrder{
					Data:    data,
					Options: opts.documentOptions(),
					Result:  &result,
				})
				if err != nil {
					return err
				}
				return a.writeResult(opts.output, result)
			})
		},
	}
	cmd.Flags().StringVarP(&opts.input, "input", "i", "-", "production order JSON file, - for stdin")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file or directory, - for stdout")
	cmd.Flags().StringVar(&opts.title, "title", "", "document title")
	cmd.Flags().StringVar(&opts.orientation, "orientation", "", "portrait or landscape")
	cmd.Flags().StringVar(&opts.pageSize, "page-size", "", "page size such as A4 or LETTER")
	return cmd
}

func newRenderRequestCmd(a *app) *cobra.Command {
	var opts renderOpts
	cmd := &cobra.Command{
		Use:   "request",
		Short: "Render a generate request ({type, options, content, order}) from JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var req document.GenerateRequest
			if err := readJSON(opts.input, cmd.InOrStdin(), &req); err != nil {
				return err
			}
			return a.withService(cmd.Context(), func(svc document.Service) error {
				var result document.RenderResult
				err := command.NewGenerateDocumentHandler(svc).Execute(cmd.Context(), command.GenerateDocument{
					Request: req,
					Result:  &result,
				})
				if err != nil {
					return err
				}
				return a.writeResult(opts.output, result)
			})
		},
	}
	cmd.Flags().StringVarP(&opts.input, "input", "i", "-", "generate request JSON file, - for stdin")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file or directory, - for stdout")
	return cmd
}

func newRenderDefinitionCmd(a *app) *cobra.Command {
	var (
		opts renderOpts
		kind string
	)
	cmd := &cobra.Command{
		Use:   "definition",
		Short: "Print the document definition as JSON without rendering",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := document.GenerateRequest{Kind: document.Kind(kind)}
			if opts.input != "" {
				if err := readJSON(opts.input, cmd.InOrStdin(), &req); err != nil {
					return err
				}
			}
			svc := newService(a.cfg, nil, docLogger{l: a.logger})
			preview, err := query.NewPreviewDefinitionHandler(svc).Query(cmd.Context(), query.PreviewDefinition{Request: req})
			if err != nil {
				return err
			}
			encoder := json.NewEncoder(a.stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(preview)
		},
	}
	cmd.Flags().StringVarP(&kind, "type", "t", string(document.KindSimple), "document kind")
	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "generate request JSON file, - for stdin")
	return cmd
}

func newRenderBatchCmd(a *app) *cobra.Command {
	var (
		from     string
		outDir   string
		maxDocs  int
		interval time.Duration
		schedule bool
		cronExpr string
	)
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Render every request of a JSON batch file into a directory",
		Long: "Render every request of a JSON batch file into a directory.\n\n" +
			"With --schedule the batch file is re-read and rendered on a cron schedule\n" +
			"(--cron, default \"" + command.DefaultBatchSchedule + "\") until interrupted.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withService(cmd.Context(), func(svc document.Service) error {
				opts := []command.BatchOption{
					command.WithBatchLimits(command.BatchLimits{MaxDocuments: maxDocs, MinInterval: interval}),
				}
				if cronExpr != "" {
					opts = append(opts, command.WithBatchCronConfig(gcmd.HandlerConfig{Expression: cronExpr}))
				}
				loader := func(context.Context) ([]command.BatchItem, error) {
					return command.LoadBatchFile(from)
				}
				batch := command.NewBatchRenderCommand(svc, command.DirWriter{Dir: outDir}, loader, opts...)

				if schedule {
					return a.runScheduled(cmd.Context(), batch)
				}
				written, err := batch.Run(cmd.Context(), "")
				for _, path := range written {
					a.logger.Info("wrote document", "path", path)
				}
				return err
			})
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "JSON batch file")
	cmd.Flags().StringVarP(&outDir, "out-dir", "o", ".", "output directory")
	cmd.Flags().IntVar(&maxDocs, "max", 0, "maximum documents to render, 0 for all")
	cmd.Flags().DurationVar(&interval, "interval", 0, "pause between documents")
	cmd.Flags().BoolVar(&schedule, "schedule", false, "keep running and render on the cron schedule")
	cmd.Flags().StringVar(&cronExpr, "cron", "", "cron expression for --schedule")
	_ = cmd.MarkFlagRequired("from")
	return cmd
}

// withService builds the configured engine for the duration of fn.
func (a *app) withService(ctx context.Context, fn func(document.Service) error) error {
	engine, release, err := buildEngine(a.cfg.PDF)
	if err != nil {
		return err
	}
	defer func() {
		if err := release(); err != nil {
			a.logger.Warn("release engine", "err", err)
		}
	}()
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(newService(a.cfg, engine, docLogger{l: a.logger}))
}

// writeResult writes the rendered buffer. An empty output or a directory
// receives the sanitized result file name.
func (a *app) writeResult(output string, result document.RenderResult) error {
	if output == "-" {
		_, err := a.stdout.Write(result.Buffer)
		return err
	}

	path := output
	if path == "" {
		path = "."
	}
	if info, err := os.Stat(path); (err == nil && info.IsDir()) || strings.HasSuffix(output, string(os.PathSeparator)) || output == "" {
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
		path = filepath.Join(path, document.SanitizeFileName(result.FileName))
	}
	if err := os.WriteFile(path, result.Buffer, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	a.logger.Info("wrote document", "path", path, "bytes", len(result.Buffer))
	return nil
}

func readJSON(path string, stdin io.Reader, dst any) error {
	var r io.Reader
	switch path {
	case "", "-":
		r = stdin
	default:
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		r = f
	}
	if err := json.NewDecoder(r).Decode(dst); err != nil {
		return fmt.Errorf("decode %s: %w", inputName(path), err)
	}
	return nil
}

func inputName(path string) string {
	if path == "" || path == "-" {
		return "stdin"
	}
	return path
}
