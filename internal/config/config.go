package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Transports and engines understood by the server.
const (
	TransportRouter = "router"
	TransportHTTP   = "http"

	EngineNative      = "native"
	EngineChromium    = "chromium"
	EngineWKHTMLTOPDF = "wkhtmltopdf"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "DOCGEN_"

// Config holds docgen configuration.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Document DocumentConfig `toml:"document"`
	PDF      PDFConfig      `toml:"pdf"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string `toml:"host"`
	Port            string `toml:"port"`
	Transport       string `toml:"transport"`
	BasePath        string `toml:"base_path"`
	MaxBodyBytes    int64  `toml:"max_body_bytes"`
	ShutdownSeconds int    `toml:"shutdown_seconds"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

// ShutdownTimeout returns the graceful shutdown window.
func (s ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(s.ShutdownSeconds) * time.Second
}

// DocumentConfig holds defaults applied to every document.
type DocumentConfig struct {
	Locale   string `toml:"locale"`
	Timezone string `toml:"timezone"`
}

// PDFConfig selects and tunes the rendering engine.
type PDFConfig struct {
	Engine               string   `toml:"engine"`
	FontFamily           string   `toml:"font_family"`
	ChromiumPath         string   `toml:"chromium_path"`
	Headless             bool     `toml:"headless"`
	Args                 []string `toml:"args"`
	WKHTMLTOPDFPath      string   `toml:"wkhtmltopdf_path"`
	TimeoutSeconds       int      `toml:"timeout_seconds"`
	MaxHTMLBytes         int64    `toml:"max_html_bytes"`
	ExternalAssetsPolicy string   `toml:"external_assets_policy"`
}

// Timeout returns the per-render converter timeout.
func (p PDFConfig) Timeout() time.Duration {
	return time.Duration(p.TimeoutSeconds) * time.Second
}

// Defaults returns a Config with sensible defaults.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Host:            "localhost",
			Port:            "3000",
			Transport:       TransportRouter,
			BasePath:        "/pdf",
			MaxBodyBytes:    1 << 20,
			ShutdownSeconds: 10,
		},
		Document: DocumentConfig{
			Locale: "es_ES",
		},
		PDF: PDFConfig{
			Engine:         EngineNative,
			Headless:       true,
			TimeoutSeconds: 30,
		},
	}
}

// Load returns defaults overlaid with the TOML file at path, when given, and
// then with DOCGEN_* environment variables.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if strings.TrimSpace(path) != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("load config %s: %w", path, err)
		}
	}
	if err := ApplyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks enumerated settings and bounds.
func (c Config) Validate() error {
	return validation.Errors{
		"server": validation.ValidateStruct(&c.Server,
			validation.Field(&c.Server.Port, validation.Required),
			validation.Field(&c.Server.Transport, validation.Required, validation.In(TransportRouter, TransportHTTP)),
			validation.Field(&c.Server.MaxBodyBytes, validation.Min(int64(0))),
			validation.Field(&c.Server.ShutdownSeconds, validation.Min(0)),
		),
		"pdf": validation.ValidateStruct(&c.PDF,
			validation.Field(&c.PDF.Engine, validation.Required, validation.In(EngineNative, EngineChromium, EngineWKHTMLTOPDF)),
			validation.Field(&c.PDF.TimeoutSeconds, validation.Min(0)),
			validation.Field(&c.PDF.ExternalAssetsPolicy, validation.In("allow", "block")),
		),
	}.Filter()
}

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// ApplyEnv overlays DOCGEN_* variables on cfg.
func ApplyEnv(cfg *Config, lookup LookupFunc) error {
	if cfg == nil || lookup == nil {
		return nil
	}
	env := func(name string) (string, bool) {
		value, ok := lookup(EnvPrefix + name)
		value = strings.TrimSpace(value)
		return value, ok && value != ""
	}

	strs := map[string]*string{
		"HOST":                &cfg.Server.Host,
		"PORT":                &cfg.Server.Port,
		"TRANSPORT":           &cfg.Server.Transport,
		"BASE_PATH":           &cfg.Server.BasePath,
		"LOCALE":              &cfg.Document.Locale,
		"TIMEZONE":            &cfg.Document.Timezone,
		"PDF_ENGINE":          &cfg.PDF.Engine,
		"PDF_FONT_FAMILY":     &cfg.PDF.FontFamily,
		"CHROMIUM_PATH":       &cfg.PDF.ChromiumPath,
		"WKHTMLTOPDF_PATH":    &cfg.PDF.WKHTMLTOPDFPath,
		"PDF_EXTERNAL_ASSETS": &cfg.PDF.ExternalAssetsPolicy,
	}
	for name, dst := range strs {
		if value, ok := env(name); ok {
			*dst = value
		}
	}

	if value, ok := env("PDF_HEADLESS"); ok {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%sPDF_HEADLESS: %w", EnvPrefix, err)
		}
		cfg.PDF.Headless = parsed
	}
	if value, ok := env("PDF_TIMEOUT"); ok {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%sPDF_TIMEOUT: %w", EnvPrefix, err)
		}
		cfg.PDF.TimeoutSeconds = parsed
	}
	if value, ok := env("MAX_BODY_BYTES"); ok {
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("%sMAX_BODY_BYTES: %w", EnvPrefix, err)
		}
		cfg.Server.MaxBodyBytes = parsed
	}
	if value, ok := env("CHROMIUM_ARGS"); ok {
		cfg.PDF.Args = splitCSV(value)
	}
	return nil
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
