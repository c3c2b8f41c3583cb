package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	gcmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-docrender/command"
	"github.com/goliatone/go-docrender/document"
	"github.com/goliatone/go-docrender/internal/config"
)

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := NewRootCommand(&stdout, &stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestKindsCommand(t *testing.T) {
	out, _, err := runCLI(t, "kinds")
	if err != nil {
		t.Fatalf("kinds: %v", err)
	}
	if strings.TrimSpace(out) != "custom\nproduction-order\nsimple" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestRenderSimpleWritesSanitizedFile(t *testing.T) {
	dir := t.TempDir()
	if _, _, err := runCLI(t, "render", "simple", "-o", dir); err != nil {
		t.Fatalf("render simple: %v", err)
	}
	matches, err := filepath.Glob(filepath.Join(dir, "reporte-*.pdf"))
	if err != nil || len(matches) != 1 {
		t.Fatalf("expected one report file, got %v (%v)", matches, err)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("expected pdf output")
	}
}

func TestRenderProductionOrderFromFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "order.json")
	order := `{"orderNumber":"OP/042","client":"ACME","company":"Textiles SA","sizes":[{"size":"S","quantity":10},{"size":"M","quantity":20}],"totalQuantity":30}`
	if err := os.WriteFile(input, []byte(order), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	out := filepath.Join(dir, "out")
	if err := os.Mkdir(out, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	if _, _, err := runCLI(t, "render", "production-order", "-i", input, "-o", out); err != nil {
		t.Fatalf("render production-order: %v", err)
	}
	if _, err := os.Stat(filepath.Join(out, "orden-produccion-OP_042.pdf")); err != nil {
		t.Fatalf("expected sanitized output file: %v", err)
	}
}

func TestRenderProductionOrderRejectsInvalidData(t *testing.T) {
	input := filepath.Join(t.TempDir(), "order.json")
	if err := os.WriteFile(input, []byte(`{"sizes":[]}`), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	if _, _, err := runCLI(t, "render", "production-order", "-i", input, "-o", "-"); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestRenderDefinitionPrintsJSON(t *testing.T) {
	out, _, err := runCLI(t, "render", "definition", "--type", "simple")
	if err != nil {
		t.Fatalf("render definition: %v", err)
	}
	var preview struct {
		Type       string `json:"type"`
		Definition struct {
			Content []json.RawMessage `json:"content"`
		} `json:"definition"`
	}
	if err := json.Unmarshal([]byte(out), &preview); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if preview.Type != "simple" || len(preview.Definition.Content) != 5 {
		t.Fatalf("unexpected preview %+v", preview)
	}
}

func TestRenderRequestUnknownKindFails(t *testing.T) {
	input := filepath.Join(t.TempDir(), "req.json")
	if err := os.WriteFile(input, []byte(`{"type":"invoice"}`), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	_, _, err := runCLI(t, "render", "request", "-i", input, "-o", "-")
	if err == nil || !strings.Contains(err.Error(), "invoice") {
		t.Fatalf("expected unsupported kind error, got %v", err)
	}
}

func TestBadConfigFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docgen.toml")
	if err := os.WriteFile(path, []byte("[pdf]\nengine = \"latex\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, err := runCLI(t, "--config", path, "kinds"); err == nil {
		t.Fatalf("expected config error")
	}
}

func TestBuildEngine(t *testing.T) {
	for _, engine := range []string{config.EngineNative, config.EngineChromium, config.EngineWKHTMLTOPDF} {
		cfg := config.Defaults().PDF
		cfg.Engine = engine
		got, release, err := buildEngine(cfg)
		if err != nil {
			t.Fatalf("%s: %v", engine, err)
		}
		if got == nil {
			t.Fatalf("%s: expected engine", engine)
		}
		if err := release(); err != nil {
			t.Fatalf("%s: release: %v", engine, err)
		}
	}

	cfg := config.Defaults().PDF
	cfg.Engine = "latex"
	if _, _, err := buildEngine(cfg); err == nil {
		t.Fatalf("expected unknown engine error")
	}
}

func TestDocLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := docLogger{l: newLogger(&buf, log.InfoLevel)}

	logger.Debugf("hidden %d", 1)
	if buf.Len() != 0 {
		t.Fatalf("debug should be filtered at info level")
	}
	logger.Infof("render %s", "ok")
	if !strings.Contains(buf.String(), "render ok") {
		t.Fatalf("expected info output, got %q", buf.String())
	}
}

func writeBatchFile(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "batch.json")
	batch := `[{"request":{"type":"simple"},"fileName":"semanal.pdf"},{"request":{"type":"production-order","order":{"orderNumber":"OP-7","sizes":[{"size":"L","quantity":3}],"totalQuantity":3}}}]`
	if err := os.WriteFile(path, []byte(batch), 0o644); err != nil {
		t.Fatalf("write batch: %v", err)
	}
	return path
}

func TestRenderBatchCommand(t *testing.T) {
	dir := t.TempDir()
	from := writeBatchFile(t, dir)
	out := filepath.Join(dir, "out")

	if _, _, err := runCLI(t, "render", "batch", "--from", from, "-o", out); err != nil {
		t.Fatalf("render batch: %v", err)
	}
	for _, name := range []string{"semanal.pdf", "orden-produccion-OP-7.pdf"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Fatalf("expected %s: %v", name, err)
		}
	}
}

func TestBatchSchedulerRunsCronHandler(t *testing.T) {
	dir := t.TempDir()
	from := writeBatchFile(t, dir)
	out := filepath.Join(dir, "scheduled")

	var logs bytes.Buffer
	a := &app{logger: newLogger(&logs, log.InfoLevel)}
	engine := document.EngineFunc(func(context.Context, document.RenderRequest) ([]byte, error) {
		return []byte("%PDF-stub"), nil
	})
	loader := func(context.Context) ([]command.BatchItem, error) {
		return command.LoadBatchFile(from)
	}
	batch := command.NewBatchRenderCommand(newService(config.Defaults(), engine, docLogger{l: a.logger}), command.DirWriter{Dir: out}, loader)

	scheduler, err := a.newBatchScheduler(batch)
	if err != nil {
		t.Fatalf("scheduler: %v", err)
	}
	entries := scheduler.Entries()
	if len(entries) != 1 {
		t.Fatalf("expected one scheduled entry, got %d", len(entries))
	}
	entries[0].Job.Run()

	if _, err := os.Stat(filepath.Join(out, "semanal.pdf")); err != nil {
		t.Fatalf("expected scheduled run to write output: %v", err)
	}
	if !strings.Contains(logs.String(), "running scheduled batch") {
		t.Fatalf("expected run to be logged, got %q", logs.String())
	}
}

func TestBatchSchedulerRejectsInvalidExpression(t *testing.T) {
	a := &app{logger: newLogger(&bytes.Buffer{}, log.InfoLevel)}
	batch := command.NewBatchRenderCommand(nil, command.DirWriter{}, nil,
		command.WithBatchCronConfig(gcmd.HandlerConfig{Expression: "every tuesday"}))
	if _, err := a.newBatchScheduler(batch); err == nil {
		t.Fatalf("expected invalid schedule error")
	}
}
