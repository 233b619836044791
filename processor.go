package gdpr

import (
	"context"
	"reflect"
	"sync"
)

// Processor is a typed pipeline over T: export, anonymize, or both.
//
// Anonymization always works on a clone, so the value passed in is never
// modified. Processors are safe for concurrent use.
//
// Validation occurs automatically on first operation. Register custom
// anonymizers before the first call to Export, Forget, or ExportAnonymized.
type Processor[T Cloner[T]] struct {
	exporter  *Exporter
	forgetter *Forgetter

	// Validation state (runs once on first operation)
	validateOnce sync.Once
	validateErr  error

	typeName string
}

// NewProcessor creates a Processor for T encoding with codec.
// Options configure the metadata reader and anonymizer registry.
func NewProcessor[T Cloner[T]](codec Codec, opts ...ForgetterOption) (*Processor[T], error) {
	forgetter := NewForgetter(opts...)
	if err := Prepare[T](forgetter.reader); err != nil {
		return nil, err
	}

	p := &Processor[T]{
		exporter:  NewExporter(codec, WithReader(forgetter.reader)),
		forgetter: forgetter,
		typeName:  typeName(reflect.TypeFor[T]()),
	}

	emitProcessorCreated(context.Background(), codec.ContentType(), p.typeName)
	return p, nil
}

// Registry returns the anonymizer registry, for registering custom types.
func (p *Processor[T]) Registry() *Registry {
	return p.forgetter.registry
}

// Validate checks that every anonymizer type reachable from T is bound.
//
// Validation also runs automatically on first operation. Calling Validate
// explicitly allows catching configuration errors at startup.
func (p *Processor[T]) Validate() error {
	return p.ensureValidated()
}

// ensureValidated runs validation once and caches the result.
func (p *Processor[T]) ensureValidated() error {
	p.validateOnce.Do(func() {
		p.validateErr = p.validateAnonymizers(reflect.TypeFor[T](), make(map[reflect.Type]bool))
	})
	return p.validateErr
}

// validateAnonymizers walks the anonymize markers of rt and of the struct
// types its object and collection fields hold.
func (p *Processor[T]) validateAnonymizers(rt reflect.Type, visited map[reflect.Type]bool) error {
	rt = structType(rt)
	if rt == nil || visited[rt] {
		return nil
	}
	visited[rt] = true
	if reflect.PointerTo(rt).Implements(reflect.TypeFor[Anonymizable]()) {
		return nil
	}

	markers, err := p.forgetter.reader.Fields(rt, KindAnonymize)
	if err != nil {
		return err
	}
	for _, m := range markers {
		switch m.Type {
		case AnonymizeObject, AnonymizeCollection:
			sf, ok := rt.FieldByName(m.Field)
			if !ok {
				return &NoSuchFieldError{Type: typeName(rt), Field: m.Field}
			}
			if err := p.validateAnonymizers(elemStruct(sf.Type), visited); err != nil {
				return err
			}
		default:
			if _, ok := p.forgetter.registry.Lookup(m.Type); !ok {
				return newConfigError(ErrMissingAnonymizer, m.Type, m.Field)
			}
		}
	}
	return nil
}

// elemStruct unwraps pointers and containers down to a struct type, or nil.
func elemStruct(t reflect.Type) reflect.Type {
	for {
		switch t.Kind() {
		case reflect.Ptr, reflect.Slice, reflect.Array, reflect.Map:
			t = t.Elem()
		case reflect.Struct:
			return t
		default:
			return nil
		}
	}
}

// Export normalizes obj and encodes it.
func (p *Processor[T]) Export(ctx context.Context, obj *T) ([]byte, error) {
	if err := p.ensureValidated(); err != nil {
		return nil, err
	}
	return p.exporter.Export(ctx, obj)
}

// Forget returns an anonymized clone of obj.
func (p *Processor[T]) Forget(ctx context.Context, obj *T) (*T, error) {
	if err := p.ensureValidated(); err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, nil
	}

	clone := (*obj).Clone()
	if err := p.forgetter.Anonymize(ctx, &clone); err != nil {
		return nil, err
	}
	return &clone, nil
}

// ExportAnonymized anonymizes a clone of obj and exports it.
func (p *Processor[T]) ExportAnonymized(ctx context.Context, obj *T) ([]byte, error) {
	clone, err := p.Forget(ctx, obj)
	if err != nil {
		return nil, err
	}
	return p.Export(ctx, clone)
}
