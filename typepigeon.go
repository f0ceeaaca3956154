// Package typepigeon converts values to the types that type descriptors name
// and reduces values to JSON-compatible shapes.
//
//	v, err := typepigeon.ToType("1, 2, 3", "List[int]") // []any{1, 2, 3}
//	n, err := typepigeon.As[[]int]("1, 2, 3")          // []int{1, 2, 3}
//
// The package-level functions share an engine configured from the
// environment on first use (see pkg/config).
package typepigeon

import (
	"sync"

	"github.com/zacharyburnett/TypePigeon/pkg/coerce"
	"github.com/zacharyburnett/TypePigeon/pkg/config"
	"github.com/zacharyburnett/TypePigeon/pkg/descriptor"
	"github.com/zacharyburnett/TypePigeon/pkg/jsonshape"
)

type runtime struct {
	engine  *coerce.Engine
	reducer *jsonshape.Reducer
}

var defaultRuntime = sync.OnceValues(func() (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	e := coerce.NewEngine(cfg.EngineOptions()...)
	return &runtime{engine: e, reducer: jsonshape.NewReducer(e)}, nil
})

// Engine returns the shared engine.
func Engine() (*coerce.Engine, error) {
	rt, err := defaultRuntime()
	if err != nil {
		return nil, err
	}
	return rt.engine, nil
}

// ToType converts value to the type target describes. Targets may be type
// names, annotation text, reflect.Type values, container literals or
// descriptor values.
func ToType(value, target any) (any, error) {
	rt, err := defaultRuntime()
	if err != nil {
		return nil, err
	}
	return rt.engine.Coerce(value, target)
}

// As converts value to T and returns it typed.
func As[T any](value any) (T, error) {
	rt, err := defaultRuntime()
	if err != nil {
		var zero T
		return zero, err
	}
	return coerce.Into[T](rt.engine, value)
}

// ToJSON reduces value to nil, numbers, booleans, text, []any and *value.Map.
func ToJSON(value any) (any, error) {
	rt, err := defaultRuntime()
	if err != nil {
		return nil, err
	}
	return rt.reducer.Reduce(value)
}

// Normalize returns the canonical descriptor for target.
func Normalize(target any) (descriptor.Descriptor, error) {
	rt, err := defaultRuntime()
	if err != nil {
		return nil, err
	}
	return rt.engine.Normalize(target)
}
