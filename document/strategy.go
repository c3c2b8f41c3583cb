package document

import (
	"context"
	"time"
)

// Strategy maps business data to a document definition and a file name.
// Each request builds its own strategy instance.
type Strategy interface {
	Definition(ctx context.Context) (Definition, error)
	FileName() string
}

// StrategyFunc adapts a pair of functions to a Strategy.
type StrategyFunc struct {
	DefinitionFunc func(ctx context.Context) (Definition, error)
	Name           string
}

func (s StrategyFunc) Definition(ctx context.Context) (Definition, error) {
	if s.DefinitionFunc == nil {
		return Definition{}, NewError(KindInternal, "strategy definition func is nil", nil)
	}
	return s.DefinitionFunc(ctx)
}

func (s StrategyFunc) FileName() string {
	return s.Name
}

// Clock returns the current time.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}
