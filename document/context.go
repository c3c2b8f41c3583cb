package document

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// State is the lifecycle state of a RenderContext.
type State string

const (
	StateIdle          State = "idle"
	StateStrategyBound State = "strategy_bound"
	StateRendering     State = "rendering"
	StateComplete      State = "complete"
	StateFailed        State = "failed"
)

// RenderContext binds a strategy to an engine and runs a render.
// A RenderContext is not safe for concurrent use; create one per request.
type RenderContext struct {
	strategy    Strategy
	engine      Engine
	fonts       *FontSet
	logger      Logger
	idGenerator func() string
	now         Clock
	state       State
}

// RenderContextOption configures a RenderContext.
type RenderContextOption func(*RenderContext)

// WithLogger sets the logger.
func WithLogger(logger Logger) RenderContextOption {
	return func(rc *RenderContext) {
		if logger != nil {
			rc.logger = logger
		}
	}
}

// WithIDGenerator sets the render id generator.
func WithIDGenerator(fn func() string) RenderContextOption {
	return func(rc *RenderContext) {
		if fn != nil {
			rc.idGenerator = fn
		}
	}
}

// WithClock sets the clock used to time renders.
func WithClock(clock Clock) RenderContextOption {
	return func(rc *RenderContext) {
		rc.now = clock
	}
}

// NewRenderContext creates a context in the Idle state, or StrategyBound
// when strategy is not nil.
func NewRenderContext(engine Engine, fonts *FontSet, strategy Strategy, opts ...RenderContextOption) *RenderContext {
	rc := &RenderContext{
		engine:      engine,
		fonts:       fonts,
		logger:      NopLogger{},
		idGenerator: defaultIDGenerator,
		state:       StateIdle,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(rc)
		}
	}
	if strategy != nil {
		rc.SetStrategy(strategy)
	}
	return rc
}

// SetStrategy swaps the active strategy. It has no rendering side effects.
func (rc *RenderContext) SetStrategy(strategy Strategy) {
	rc.strategy = strategy
	if strategy == nil {
		rc.state = StateIdle
		return
	}
	rc.state = StateStrategyBound
}

// State returns the current lifecycle state.
func (rc *RenderContext) State() State {
	return rc.state
}

// Render asks the bound strategy for a definition and a file name, then
// renders the definition. Failures are returned unchanged apart from engine
// errors, which are tagged KindRenderFailed.
func (rc *RenderContext) Render(ctx context.Context) (RenderResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if rc.strategy == nil {
		return RenderResult{}, NewError(KindInternal, "no strategy bound", nil)
	}
	if rc.engine == nil {
		return RenderResult{}, NewError(KindInternal, "rendering engine not configured", nil)
	}
	if rc.state == StateRendering {
		return RenderResult{}, NewError(KindInternal, "render already in progress", nil)
	}

	rc.state = StateRendering
	id := rc.idGenerator()
	start := rc.now.now()

	def, err := rc.strategy.Definition(ctx)
	if err != nil {
		return rc.fail(id, err)
	}
	fileName := rc.strategy.FileName()

	rc.logger.Debugf("render %s: %s (%d top-level nodes)", id, fileName, len(def.Content))

	buffer, err := rc.engine.Render(ctx, RenderRequest{
		ID:         id,
		Definition: def,
		Fonts:      rc.fonts,
	})
	if err != nil {
		if KindFromError(err) == KindInternal {
			err = NewError(KindRenderFailed, "rendering engine failed", err)
		}
		return rc.fail(id, err)
	}
	if len(buffer) == 0 {
		return rc.fail(id, NewError(KindRenderFailed, "rendering engine returned an empty document", nil))
	}

	rc.state = StateComplete
	rc.logger.Infof("render %s: %s (%d bytes, %s)", id, fileName, len(buffer), rc.now.now().Sub(start).Round(time.Millisecond))

	return RenderResult{
		Buffer:      buffer,
		FileName:    fileName,
		ContentType: ContentTypePDF,
	}, nil
}

func (rc *RenderContext) fail(id string, err error) (RenderResult, error) {
	rc.state = StateFailed
	rc.logger.Errorf("render %s failed: %v", id, err)
	return RenderResult{}, err
}

func defaultIDGenerator() string {
	return uuid.NewString()
}
