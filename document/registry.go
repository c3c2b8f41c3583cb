package document

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Kind names a document strategy.
type Kind string

const (
	KindSimple          Kind = "simple"
	KindProductionOrder Kind = "production-order"
	KindCustom          Kind = "custom"
)

// GenerateRequest selects a strategy and carries its inputs.
type GenerateRequest struct {
	Kind    Kind                 `json:"type"`
	Options *DocumentOptions     `json:"options,omitempty"`
	Content []Node               `json:"content,omitempty"`
	Order   *ProductionOrderData `json:"order,omitempty"`
}

// DocumentOptions returns the request options or the zero value.
func (r GenerateRequest) DocumentOptions() DocumentOptions {
	if r.Options == nil {
		return DocumentOptions{}
	}
	return *r.Options
}

// StrategyFactory builds a fresh strategy for a request.
type StrategyFactory func(req GenerateRequest, clock Clock) (Strategy, error)

// StrategyRegistry stores strategy factories by kind.
type StrategyRegistry struct {
	mu        sync.RWMutex
	factories map[Kind]StrategyFactory
}

// NewStrategyRegistry creates an empty registry.
func NewStrategyRegistry() *StrategyRegistry {
	return &StrategyRegistry{factories: make(map[Kind]StrategyFactory)}
}

// DefaultStrategyRegistry returns a registry with the built-in strategies.
// The custom kind is reserved and reports not implemented.
func DefaultStrategyRegistry() *StrategyRegistry {
	registry := NewStrategyRegistry()
	_ = registry.Register(KindSimple, simpleFactory)
	_ = registry.Register(KindProductionOrder, productionOrderFactory)
	_ = registry.Register(KindCustom, unimplementedFactory(KindCustom))
	return registry
}

// Register adds a factory for a kind.
func (r *StrategyRegistry) Register(kind Kind, factory StrategyFactory) error {
	if kind == "" {
		return NewError(KindValidation, "strategy kind is required", nil)
	}
	if factory == nil {
		return NewError(KindValidation, "strategy factory is required", nil)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[kind]; exists {
		return NewError(KindValidation, fmt.Sprintf("strategy %q already registered", kind), nil)
	}
	r.factories[kind] = factory
	return nil
}

// Resolve builds a strategy for the request kind.
func (r *StrategyRegistry) Resolve(req GenerateRequest, clock Clock) (Strategy, error) {
	kind := Kind(strings.TrimSpace(string(req.Kind)))
	if kind == "" {
		kind = KindSimple
	}

	r.mu.RLock()
	factory, ok := r.factories[kind]
	r.mu.RUnlock()
	if !ok {
		return nil, NewError(KindUnsupported, fmt.Sprintf("unsupported document type: %s", kind), nil)
	}
	req.Kind = kind
	return factory(req, clock)
}

// Kinds returns the registered kinds, sorted.
func (r *StrategyRegistry) Kinds() []Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kinds := make([]Kind, 0, len(r.factories))
	for kind := range r.factories {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

func simpleFactory(req GenerateRequest, clock Clock) (Strategy, error) {
	return NewSimpleStrategy(req.DocumentOptions(), req.Content, clock), nil
}

func productionOrderFactory(req GenerateRequest, clock Clock) (Strategy, error) {
	if req.Order == nil {
		return nil, NewError(KindValidation, "production order data is required", nil)
	}
	return NewProductionOrderStrategy(*req.Order, req.DocumentOptions(), clock), nil
}

func unimplementedFactory(kind Kind) StrategyFactory {
	return func(GenerateRequest, Clock) (Strategy, error) {
		return nil, NewError(KindNotImplemented, fmt.Sprintf("%s strategy not implemented", kind), nil)
	}
}
