package document

import (
	"context"
	"strings"
	"time"
)

// SimpleReportTitle is the title used by GenerateSimple.
const SimpleReportTitle = "Reporte Simple"

// Service exposes document generation operations.
type Service interface {
	Generate(ctx context.Context, req GenerateRequest) (RenderResult, error)
	GenerateSimple(ctx context.Context) (RenderResult, error)
	GenerateProductionOrder(ctx context.Context, data ProductionOrderData, opts DocumentOptions) (RenderResult, error)
	Preview(ctx context.Context, req GenerateRequest) (Preview, error)
	Kinds() []Kind
}

// Preview is a definition built without rendering.
type Preview struct {
	Kind       Kind       `json:"type"`
	FileName   string     `json:"fileName"`
	Definition Definition `json:"definition"`
}

// ServiceConfig supplies dependencies for Service.
type ServiceConfig struct {
	Engine      Engine
	Fonts       *FontSet
	Registry    *StrategyRegistry
	Logger      Logger
	Now         func() time.Time
	IDGenerator func() string
	// Locale and Timezone fill request options that leave them empty.
	Locale   string
	Timezone string
}

type service struct {
	engine      Engine
	fonts       *FontSet
	registry    *StrategyRegistry
	logger      Logger
	now         Clock
	idGenerator func() string
	locale      string
	timezone    string
}

// NewService creates a Service with the provided configuration. The font
// set is loaded here so the first request does not pay for it.
func NewService(cfg ServiceConfig) Service {
	fonts := cfg.Fonts
	if fonts == nil {
		fonts = DefaultFonts()
	}
	registry := cfg.Registry
	if registry == nil {
		registry = DefaultStrategyRegistry()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = NopLogger{}
	}
	idGen := cfg.IDGenerator
	if idGen == nil {
		idGen = defaultIDGenerator
	}

	return &service{
		engine:      cfg.Engine,
		fonts:       fonts,
		registry:    registry,
		logger:      logger,
		now:         Clock(cfg.Now),
		idGenerator: idGen,
		locale:      strings.TrimSpace(cfg.Locale),
		timezone:    strings.TrimSpace(cfg.Timezone),
	}
}

func (s *service) Generate(ctx context.Context, req GenerateRequest) (RenderResult, error) {
	strategy, err := s.strategy(req)
	if err != nil {
		s.logger.Errorf("generate %s: %v", req.Kind, err)
		return RenderResult{}, err
	}
	return s.render(ctx, strategy)
}

func (s *service) GenerateSimple(ctx context.Context) (RenderResult, error) {
	return s.Generate(ctx, GenerateRequest{
		Kind: KindSimple,
		Options: &DocumentOptions{
			Title:       SimpleReportTitle,
			Orientation: Landscape,
		},
	})
}

func (s *service) GenerateProductionOrder(ctx context.Context, data ProductionOrderData, opts DocumentOptions) (RenderResult, error) {
	return s.Generate(ctx, GenerateRequest{
		Kind:    KindProductionOrder,
		Options: &opts,
		Order:   &data,
	})
}

func (s *service) Preview(ctx context.Context, req GenerateRequest) (Preview, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	strategy, err := s.strategy(req)
	if err != nil {
		return Preview{}, err
	}
	def, err := strategy.Definition(ctx)
	if err != nil {
		return Preview{}, err
	}
	kind := req.Kind
	if strings.TrimSpace(string(kind)) == "" {
		kind = KindSimple
	}
	return Preview{Kind: kind, FileName: strategy.FileName(), Definition: def}, nil
}

func (s *service) Kinds() []Kind {
	return s.registry.Kinds()
}

func (s *service) strategy(req GenerateRequest) (Strategy, error) {
	opts := req.DocumentOptions()
	if opts.Locale == "" {
		opts.Locale = s.locale
	}
	if opts.Timezone == "" {
		opts.Timezone = s.timezone
	}
	req.Options = &opts
	return s.registry.Resolve(req, s.now)
}

func (s *service) render(ctx context.Context, strategy Strategy) (RenderResult, error) {
	rc := NewRenderContext(s.engine, s.fonts, strategy,
		WithLogger(s.logger),
		WithIDGenerator(s.idGenerator),
		WithClock(s.now),
	)
	return rc.Render(ctx)
}
