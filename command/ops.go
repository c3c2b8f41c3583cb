package command

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	gcmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-docrender/document"
	"github.com/goliatone/go-errors"
)

// BatchItem describes one document of a batch render.
type BatchItem struct {
	Request  document.GenerateRequest `json:"request"`
	FileName string                   `json:"fileName,omitempty"`
}

// BatchLoader loads batch items from a source.
type BatchLoader func(ctx context.Context) ([]BatchItem, error)

// Generator renders a single document.
type Generator interface {
	Generate(ctx context.Context, req document.GenerateRequest) (document.RenderResult, error)
}

// ArtifactWriter persists rendered documents.
type ArtifactWriter interface {
	WriteArtifact(ctx context.Context, name string, data []byte) (string, error)
}

// ArtifactWriterFunc adapts a function to an ArtifactWriter.
type ArtifactWriterFunc func(ctx context.Context, name string, data []byte) (string, error)

func (f ArtifactWriterFunc) WriteArtifact(ctx context.Context, name string, data []byte) (string, error) {
	if f == nil {
		return "", errors.New("artifact writer is required", errors.CategoryInternal).
			WithTextCode("WRITER_NIL")
	}
	return f(ctx, name, data)
}

// DirWriter writes artifacts into a directory. File names are sanitized.
type DirWriter struct {
	Dir string
}

func (w DirWriter) WriteArtifact(_ context.Context, name string, data []byte) (string, error) {
	dir := w.Dir
	if strings.TrimSpace(dir) == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(err, errors.CategoryExternal, "create output directory failed").
			WithTextCode("OUTPUT_DIR")
	}
	path := filepath.Join(dir, document.SanitizeFileName(name))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", errors.Wrap(err, errors.CategoryExternal, "write document failed").
			WithTextCode("OUTPUT_WRITE")
	}
	return path, nil
}

// BatchCommand renders batches once or on a cron schedule.
type BatchCommand struct {
	generator  Generator
	writer     ArtifactWriter
	loader     BatchLoader
	cronConfig gcmd.HandlerConfig
	limits     BatchLimits
	sleep      func(time.Duration)
}

// BatchOption customizes batch commands.
type BatchOption func(*BatchCommand)

// BatchLimits bounds batch execution throughput.
type BatchLimits struct {
	MaxDocuments int
	MinInterval  time.Duration
}

// WithBatchCronConfig overrides cron configuration.
func WithBatchCronConfig(cfg gcmd.HandlerConfig) BatchOption {
	return func(cmd *BatchCommand) {
		cmd.cronConfig = cfg
	}
}

// WithBatchLimits overrides batch execution limits.
func WithBatchLimits(limits BatchLimits) BatchOption {
	return func(cmd *BatchCommand) {
		cmd.limits = limits
	}
}

// DefaultBatchSchedule runs scheduled batches every morning.
const DefaultBatchSchedule = "0 6 * * *"

// NewBatchRenderCommand creates a batch render command. Run executes it once
// and CronHandler on a schedule.
func NewBatchRenderCommand(generator Generator, writer ArtifactWriter, loader BatchLoader, opts ...BatchOption) *BatchCommand {
	cmd := &BatchCommand{
		generator:  generator,
		writer:     writer,
		loader:     loader,
		cronConfig: gcmd.HandlerConfig{Expression: DefaultBatchSchedule},
		sleep:      time.Sleep,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(cmd)
		}
	}
	return cmd
}

// CronHandler renders the loader's batch each time it is called.
func (c *BatchCommand) CronHandler() func() error {
	return func() error {
		_, err := c.Run(context.Background(), "")
		return err
	}
}

// CronOptions returns cron configuration.
func (c *BatchCommand) CronOptions() gcmd.HandlerConfig {
	if c == nil {
		return gcmd.HandlerConfig{}
	}
	return c.cronConfig
}

// Run renders every item from the JSON file at from, or from the loader when
// from is empty, and returns the written paths. It stops at the first
// failure.
func (c *BatchCommand) Run(ctx context.Context, from string) ([]string, error) {
	if c == nil {
		return nil, errors.New("batch command is nil", errors.CategoryInternal).
			WithTextCode("BATCH_CMD_NIL")
	}
	if c.generator == nil {
		return nil, errors.New("document generator is required", errors.CategoryValidation).
			WithTextCode("GENERATOR_REQUIRED")
	}
	if c.writer == nil {
		return nil, errors.New("artifact writer is required", errors.CategoryValidation).
			WithTextCode("WRITER_REQUIRED")
	}

	items, err := c.loadItems(ctx, from)
	if err != nil {
		return nil, err
	}

	written := make([]string, 0, len(items))
	for _, item := range items {
		if c.limits.MaxDocuments > 0 && len(written) >= c.limits.MaxDocuments {
			break
		}
		if err := ctx.Err(); err != nil {
			return written, err
		}
		result, err := c.generator.Generate(ctx, item.Request)
		if err != nil {
			return written, err
		}
		name := item.FileName
		if strings.TrimSpace(name) == "" {
			name = result.FileName
		}
		path, err := c.writer.WriteArtifact(ctx, name, result.Buffer)
		if err != nil {
			return written, err
		}
		written = append(written, path)
		if c.limits.MinInterval > 0 && c.sleep != nil {
			c.sleep(c.limits.MinInterval)
		}
	}
	return written, nil
}

func (c *BatchCommand) loadItems(ctx context.Context, from string) ([]BatchItem, error) {
	if strings.TrimSpace(from) != "" {
		return LoadBatchFile(from)
	}
	if c.loader == nil {
		return nil, errors.New("batch loader not configured", errors.CategoryValidation).
			WithTextCode("LOADER_REQUIRED")
	}
	return c.loader(ctx)
}

// LoadBatchFile reads a JSON array of batch items.
func LoadBatchFile(path string) ([]BatchItem, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryExternal, "read batch file failed").
			WithTextCode("BATCH_FILE_READ")
	}

	var items []BatchItem
	if err := json.Unmarshal(content, &items); err != nil {
		return nil, errors.Wrap(err, errors.CategoryValidation, "batch file invalid JSON").
			WithTextCode("BATCH_FILE_INVALID")
	}
	return items, nil
}
