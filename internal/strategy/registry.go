package strategy

import (
	"sort"
	"sync"

	"github.com/rxtech-lab/argo-ma/internal/types"
	"github.com/rxtech-lab/argo-ma/pkg/errors"
)

// Factory builds a strategy from params.
type Factory func(params Params) (Strategy, error)

// Registry maps strategy names to factories.
type Registry interface {
	Register(name types.StrategyType, factory Factory) error
	Create(name types.StrategyType, params Params) (Strategy, error)
	List() []types.StrategyType
	Remove(name types.StrategyType) error
}

// RegistryV1 is a thread-safe Registry.
type RegistryV1 struct {
	factories map[types.StrategyType]Factory
	mu        sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() Registry {
	return &RegistryV1{
		factories: make(map[types.StrategyType]Factory),
		mu:        sync.RWMutex{},
	}
}

// NewDefaultRegistry creates a registry holding every built-in strategy.
func NewDefaultRegistry() Registry {
	registry := NewRegistry()

	// names are distinct, registration cannot fail
	_ = registry.Register(types.StrategyTypeSingleMA, func(params Params) (Strategy, error) {
		return NewSingleMA(orDefault(params.Period, DefaultPeriod))
	})
	_ = registry.Register(types.StrategyTypeBullishStack, func(params Params) (Strategy, error) {
		return NewBullishStack(
			orDefault(params.Short, DefaultShort),
			orDefault(params.Medium, DefaultMedium),
			orDefault(params.Long, DefaultLong),
		)
	})

	return registry
}

// Register adds a factory under name.
func (r *RegistryV1) Register(name types.StrategyType, factory Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return errors.Newf(errors.ErrCodeStrategyAlreadyExists, "strategy %s already registered", name)
	}

	r.factories[name] = factory

	return nil
}

// Create builds the strategy registered under name.
func (r *RegistryV1) Create(name types.StrategyType, params Params) (Strategy, error) {
	r.mu.RLock()
	factory, exists := r.factories[name]
	r.mu.RUnlock()

	if !exists {
		return nil, errors.Newf(errors.ErrCodeStrategyNotFound, "strategy %s not found", name)
	}

	return factory(params)
}

// List returns the registered names in sorted order.
func (r *RegistryV1) List() []types.StrategyType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]types.StrategyType, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}

	sort.Slice(names, func(i, j int) bool {
		return names[i] < names[j]
	})

	return names
}

// Remove deletes a strategy from the registry.
func (r *RegistryV1) Remove(name types.StrategyType) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; !exists {
		return errors.Newf(errors.ErrCodeStrategyNotFound, "strategy %s not found", name)
	}

	delete(r.factories, name)

	return nil
}
