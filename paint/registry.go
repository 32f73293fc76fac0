package paint

import (
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/benoitkugler/okpaint/style"
)

var (
	// ErrUnknownName is returned when no instancer is registered for a
	// name.
	ErrUnknownName = errors.New("no instancer registered")
	// ErrInvalidProperty is returned when a property required to instance
	// an effect is missing or has the wrong unit.
	ErrInvalidProperty = errors.New("invalid property")
)

// PropertyDef declares a property understood by an instancer.
type PropertyDef struct {
	Name    string
	Default style.Property
	// Keywords lists the keywords accepted by the property, in the order
	// of their index. It is empty for properties without keywords.
	Keywords []string
}

// KeywordIndex returns the index of keyword in def, or -1.
func (def PropertyDef) KeywordIndex(keyword string) int {
	for i, k := range def.Keywords {
		if k == keyword {
			return i
		}
	}
	return -1
}

// Instancer creates effects of type T from style properties.
type Instancer[T any] interface {
	// Properties returns the properties read by Instance, with their
	// default value.
	Properties() []PropertyDef
	// Instance returns a new effect. name is the name it was registered
	// with, so that one instancer may serve variants.
	Instance(name string, props style.Dictionary) (T, error)
}

// Registry maps effect names to their instancer.
// It is not safe for concurrent use.
type Registry[T any] struct {
	kind       string // for messages
	instancers map[string]Instancer[T]
	logger     *zap.Logger
}

// NewRegistry returns an empty registry. kind names the effect family in
// log messages. A nil logger disables logging.
func NewRegistry[T any](kind string, logger *zap.Logger) *Registry[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry[T]{kind: kind, instancers: make(map[string]Instancer[T]), logger: logger}
}

// Register adds or replaces the instancer for name.
func (r *Registry[T]) Register(name string, inst Instancer[T]) {
	r.instancers[name] = inst
}

// Lookup returns the instancer registered for name.
func (r *Registry[T]) Lookup(name string) (Instancer[T], bool) {
	inst, ok := r.instancers[name]
	return inst, ok
}

// Names returns the registered names, sorted.
func (r *Registry[T]) Names() []string {
	names := make([]string, 0, len(r.instancers))
	for name := range r.instancers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Instance creates the effect registered under name. Properties missing
// from props take their default value.
func (r *Registry[T]) Instance(name string, props style.Dictionary) (T, error) {
	var zero T
	inst, ok := r.instancers[name]
	if !ok {
		r.logger.Warn("unknown "+r.kind, zap.String("name", name))
		return zero, fmt.Errorf("%s %q: %w", r.kind, name, ErrUnknownName)
	}

	full := make(style.Dictionary, len(props))
	for _, def := range inst.Properties() {
		full[def.Name] = def.Default
	}
	for k, v := range props {
		full[k] = v
	}

	out, err := inst.Instance(name, full)
	if err != nil {
		r.logger.Warn("can't instance "+r.kind, zap.String("name", name), zap.Error(err))
		return zero, fmt.Errorf("%s %q: %w", r.kind, name, err)
	}
	return out, nil
}
