package transport

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Builder constructs a Transport from a settings bundle.
// Builders validate the fields they consume and return the fully
// constructed transport; a non-nil Transport is never half-initialized.
type Builder func(Settings) (Transport, error)

// Info documents a registered kind for discovery surfaces (kinds command).
type Info struct {
	// Summary is a one-line description of the backend.
	Summary string `json:"summary" yaml:"summary"`
	// Required lists the Settings fields the builder rejects when empty.
	Required []string `json:"required,omitempty" yaml:"required,omitempty"`
	// Optional lists the Settings fields the builder reads when present.
	Optional []string `json:"optional,omitempty" yaml:"optional,omitempty"`
}

// Registration binds a builder to its discovery metadata.
type Registration struct {
	Build Builder
	Info  Info
}

// Registry maps transport kinds to builders.
//
// The kind string is the only runtime discriminator: callers never branch
// on concrete types, and adding a backend is one Register call. Lookups
// are read-mostly; the map is guarded so concurrent New calls never
// observe a partially inserted registration.
type Registry struct {
	mu    sync.RWMutex
	kinds map[string]Registration
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{kinds: make(map[string]Registration)}
}

// Register adds a kind to the registry.
// Returns an error on empty kind, nil builder, or duplicate registration;
// duplicates are rejected rather than overwritten so two packages cannot
// silently fight over a kind name.
func (r *Registry) Register(kind string, reg Registration) error {
	if kind == "" {
		return fmt.Errorf("transport kind must not be empty")
	}
	if reg.Build == nil {
		return fmt.Errorf("transport %q: builder must not be nil", kind)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.kinds[kind]; exists {
		return fmt.Errorf("transport %q already registered", kind)
	}
	r.kinds[kind] = reg
	return nil
}

// New builds a transport for the given kind.
//
// An unregistered kind fails with *UnknownKindError. There is no default
// kind: falling back silently would hide configuration mistakes.
func (r *Registry) New(kind string, settings Settings) (Transport, error) {
	r.mu.RLock()
	reg, ok := r.kinds[kind]
	r.mu.RUnlock()

	if !ok {
		return nil, &UnknownKindError{Kind: kind, Known: r.Kinds()}
	}

	tr, err := reg.Build(settings)
	if err != nil {
		return nil, fmt.Errorf("build transport %q: %w", kind, err)
	}
	return tr, nil
}

// Kinds returns the registered kind names, sorted.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.kinds))
	for name := range r.kinds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Describe returns the discovery metadata for a kind.
func (r *Registry) Describe(kind string) (Info, error) {
	r.mu.RLock()
	reg, ok := r.kinds[kind]
	r.mu.RUnlock()

	if !ok {
		return Info{}, &UnknownKindError{Kind: kind, Known: r.Kinds()}
	}
	return reg.Info, nil
}

// UnknownKindError reports a discriminator with no registered builder.
type UnknownKindError struct {
	// Kind is the unrecognized discriminator.
	Kind string
	// Known lists the kinds registered at lookup time.
	Known []string
}

func (e *UnknownKindError) Error() string {
	if len(e.Known) == 0 {
		return fmt.Sprintf("unknown transport kind %q (registry is empty)", e.Kind)
	}
	return fmt.Sprintf("unknown transport kind %q (known: %s)", e.Kind, strings.Join(e.Known, ", "))
}
