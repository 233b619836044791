package gdpr

import (
	"slices"
	"sync"

	"github.com/samber/lo"
)

// Anonymizer produces an anonymized replacement for a field value.
// Implementations must be deterministic and free of side effects.
type Anonymizer interface {
	// Anonymize returns the replacement for value. Options come from the
	// field's marker, e.g. `gdpr.anonymize:"fixed,value=anon"`.
	Anonymize(value any, opts Options) (any, error)
}

// AnonymizerFunc adapts a function to the Anonymizer interface.
type AnonymizerFunc func(value any, opts Options) (any, error)

// Anonymize calls f(value, opts).
func (f AnonymizerFunc) Anonymize(value any, opts Options) (any, error) {
	return f(value, opts)
}

// Registry binds anonymizer types to implementations.
//
// A type can be bound once: Register rejects a second binding with a
// ConfigurationError. Use Replace to override a binding deliberately.
//
// Registries are safe for concurrent use.
type Registry struct {
	mu          sync.RWMutex
	anonymizers map[string]Anonymizer
}

// RegistryOption configures a Registry.
type RegistryOption func(*registryConfig)

type registryConfig struct {
	builtins bool
	secret   []byte
	argon2   Argon2Params
}

// WithoutBuiltins creates the registry empty.
func WithoutBuiltins() RegistryOption {
	return func(c *registryConfig) {
		c.builtins = false
	}
}

// WithSecret sets the key used by the blake2b, argon2, and pseudonym anonymizers.
func WithSecret(secret []byte) RegistryOption {
	return func(c *registryConfig) {
		c.secret = append([]byte(nil), secret...)
	}
}

// WithArgon2Params sets the parameters of the argon2 anonymizer.
func WithArgon2Params(p Argon2Params) RegistryOption {
	return func(c *registryConfig) {
		c.argon2 = p
	}
}

// NewRegistry creates a Registry with the builtin anonymizers bound.
func NewRegistry(opts ...RegistryOption) *Registry {
	cfg := registryConfig{builtins: true, argon2: DefaultArgon2Params()}
	for _, opt := range opts {
		opt(&cfg)
	}

	r := &Registry{anonymizers: make(map[string]Anonymizer)}
	if cfg.builtins {
		for typ, a := range builtinAnonymizers(cfg) {
			r.anonymizers[typ] = a
		}
	}
	return r
}

// Register binds typ to a. Binding an already bound type is rejected.
func (r *Registry) Register(typ string, a Anonymizer) error {
	if typ == "" || a == nil {
		return newConfigError(ErrMissingAnonymizer, typ, "")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.anonymizers[typ]; ok {
		return newConfigError(ErrDuplicateAnonymizer, typ, "")
	}
	r.anonymizers[typ] = a
	return nil
}

// RegisterAll binds every entry in sorted type order, stopping at the first error.
func (r *Registry) RegisterAll(anonymizers map[string]Anonymizer) error {
	types := lo.Keys(anonymizers)
	slices.Sort(types)
	for _, typ := range types {
		if err := r.Register(typ, anonymizers[typ]); err != nil {
			return err
		}
	}
	return nil
}

// Replace binds typ to a, overriding any existing binding.
// Returns the registry for chaining.
func (r *Registry) Replace(typ string, a Anonymizer) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.anonymizers[typ] = a
	return r
}

// Lookup returns the anonymizer bound to typ.
func (r *Registry) Lookup(typ string) (Anonymizer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.anonymizers[typ]
	return a, ok
}

// Types returns the bound types in sorted order.
func (r *Registry) Types() []string {
	r.mu.RLock()
	types := lo.Keys(r.anonymizers)
	r.mu.RUnlock()
	slices.Sort(types)
	return types
}

// Anonymize runs the anonymizer bound to typ. An unbound type returns a
// ConfigurationError; the anonymizer's output is returned unchanged.
func (r *Registry) Anonymize(typ string, value any, opts Options) (any, error) {
	a, ok := r.Lookup(typ)
	if !ok {
		return nil, newConfigError(ErrMissingAnonymizer, typ, "")
	}
	return a.Anonymize(value, opts)
}
