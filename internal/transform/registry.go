// Package transform holds the named column-value transforms applied while
// copying rows.
package transform

import (
	"fmt"
	"sort"
	"time"

	"github.com/brianvoe/gofakeit/v6"
)

// Func replaces a column value. It must not have side effects beyond drawing
// random numbers, and must return something insertable into the column.
type Func func(value any) (any, error)

// Registry maps transform names to functions. It is not safe to register
// transforms while a replication run is using the registry.
type Registry struct {
	transforms map[string]Func
	faker      *gofakeit.Faker
}

// Option configures a Registry.
type Option func(*Registry)

// WithSeed makes the random transforms reproducible.
func WithSeed(seed int64) Option {
	return func(r *Registry) {
		r.faker = gofakeit.New(seed)
	}
}

// NewRegistry returns a registry holding every built-in transform.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		transforms: make(map[string]Func),
		faker:      gofakeit.New(time.Now().UnixNano()),
	}
	for _, o := range opts {
		o(r)
	}
	registerBuiltins(r)
	registerFakers(r)
	registerLocale(r)
	return r
}

// Register adds fn under name, replacing any transform already registered
// under that name.
func (r *Registry) Register(name string, fn Func) {
	r.transforms[name] = fn
}

// Resolve returns the transform registered under name.
func (r *Registry) Resolve(name string) (Func, error) {
	fn, ok := r.transforms[name]
	if !ok {
		return nil, &UnknownTransformError{Name: name}
	}
	return fn, nil
}

// Names returns the registered transform names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.transforms))
	for n := range r.transforms {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Faker exposes the registry's random source so custom transforms draw from
// the same seed.
func (r *Registry) Faker() *gofakeit.Faker {
	return r.faker
}

// UnknownTransformError is returned when a name is not registered. Table and
// Column are filled in when the lookup was made on behalf of a column.
type UnknownTransformError struct {
	Name   string
	Table  string
	Column string
}

func (e *UnknownTransformError) Error() string {
	if e.Table == "" {
		return fmt.Sprintf("unknown transform %q", e.Name)
	}
	return fmt.Sprintf("unknown transform %q for %s.%s", e.Name, e.Table, e.Column)
}

// TypeMismatchError is returned when a transform receives a value it cannot
// handle.
type TypeMismatchError struct {
	Transform string
	Want      string
	Value     any
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("transform %q expects %s, got %T", e.Transform, e.Want, e.Value)
}
