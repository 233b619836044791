package gdpr

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrMetadata indicates a malformed marker kind or marker declaration.
	ErrMetadata = errors.New("invalid metadata")

	// ErrNoSuchField indicates a marker references a field missing from the runtime type.
	ErrNoSuchField = errors.New("no such field")

	// ErrMissingAnonymizer indicates no anonymizer is registered for a type discriminator.
	ErrMissingAnonymizer = errors.New("missing anonymizer")

	// ErrDuplicateAnonymizer indicates a type discriminator is already bound.
	ErrDuplicateAnonymizer = errors.New("duplicate anonymizer")

	// ErrCyclicGraph indicates an object was reached again while it was being normalized.
	ErrCyclicGraph = errors.New("cyclic object graph")

	// ErrAnonymize indicates anonymization of a field failed.
	ErrAnonymize = errors.New("anonymize failed")

	// ErrNotSettable indicates a field cannot be written in place.
	ErrNotSettable = errors.New("field not settable")

	// ErrMarshal indicates the codec failed to marshal output data.
	ErrMarshal = errors.New("marshal failed")

	// ErrUnmarshal indicates the codec failed to unmarshal input data.
	ErrUnmarshal = errors.New("unmarshal failed")
)

// MetadataError reports a malformed marker kind or declaration.
type MetadataError struct {
	Type   string // Type being inspected, if known
	Kind   Kind   // Marker kind requested
	Field  string // Field carrying the bad declaration, if any
	Reason string
}

func (e *MetadataError) Error() string {
	msg := fmt.Sprintf("%s: %s", ErrMetadata.Error(), e.Reason)
	if e.Kind != "" {
		msg += fmt.Sprintf(" (kind %q)", string(e.Kind))
	}
	if e.Type != "" && e.Field != "" {
		return msg + fmt.Sprintf(" (field %s.%s)", e.Type, e.Field)
	}
	if e.Type != "" {
		return msg + fmt.Sprintf(" (type %s)", e.Type)
	}
	return msg
}

func (e *MetadataError) Unwrap() error {
	return ErrMetadata
}

// NoSuchFieldError reports a marker pointing at a field the runtime type lacks.
type NoSuchFieldError struct {
	Type  string
	Field string
}

func (e *NoSuchFieldError) Error() string {
	return fmt.Sprintf("%s %q on %s", ErrNoSuchField.Error(), e.Field, e.Type)
}

func (e *NoSuchFieldError) Unwrap() error {
	return ErrNoSuchField
}

// ConfigurationError represents a wiring mistake around the anonymizer registry.
// It wraps a sentinel error with the discriminator and field involved.
type ConfigurationError struct {
	Err   error  // Underlying sentinel error (ErrMissingAnonymizer, ErrDuplicateAnonymizer)
	Type  string // Type discriminator that was missing or duplicated
	Field string // Field that triggered the error, if any
}

func (e *ConfigurationError) Error() string {
	if e.Field != "" && e.Type != "" {
		return fmt.Sprintf("%s for type %q (field %s)", e.Err.Error(), e.Type, e.Field)
	}
	if e.Type != "" {
		return fmt.Sprintf("%s for type %q", e.Err.Error(), e.Type)
	}
	if e.Field != "" {
		return fmt.Sprintf("%s (field %s)", e.Err.Error(), e.Field)
	}
	return e.Err.Error()
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// CyclicGraphError reports an object identity seen twice on the active call chain.
type CyclicGraphError struct {
	Type string   // Type of the repeated value
	Path []string // Keys leading from the root to the repeated value
}

func (e *CyclicGraphError) Error() string {
	if len(e.Path) == 0 {
		return fmt.Sprintf("%s at %s", ErrCyclicGraph.Error(), e.Type)
	}
	return fmt.Sprintf("%s at %s (path %s)", ErrCyclicGraph.Error(), e.Type, strings.Join(e.Path, "."))
}

func (e *CyclicGraphError) Unwrap() error {
	return ErrCyclicGraph
}

// TransformError represents an error while rewriting a field in place.
type TransformError struct {
	Err       error  // Underlying sentinel error (ErrAnonymize, ErrNotSettable)
	Field     string // Field name that failed
	Operation string // Operation that failed
	Cause     error  // Original error from the underlying operation
}

func (e *TransformError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s field %s: %v", e.Operation, e.Field, e.Cause)
	}
	return fmt.Sprintf("%s field %s: %s", e.Operation, e.Field, e.Err.Error())
}

func (e *TransformError) Unwrap() error {
	return e.Err
}

// CodecError represents a marshal/unmarshal error.
type CodecError struct {
	Err   error // Underlying sentinel error (ErrMarshal, ErrUnmarshal)
	Cause error // Original error from the codec
}

func (e *CodecError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Err.Error(), e.Cause)
	}
	return e.Err.Error()
}

func (e *CodecError) Unwrap() error {
	return e.Err
}

// newConfigError creates a ConfigurationError for registry wiring mistakes.
func newConfigError(sentinel error, typ, field string) error {
	return &ConfigurationError{
		Err:   sentinel,
		Type:  typ,
		Field: field,
	}
}

// newTransformError creates a TransformError for in-place rewrite failures.
func newTransformError(sentinel error, operation, field string, cause error) error {
	return &TransformError{
		Err:       sentinel,
		Field:     field,
		Operation: operation,
		Cause:     cause,
	}
}

// newCodecError creates a CodecError for marshal/unmarshal failures.
func newCodecError(sentinel error, cause error) error {
	return &CodecError{
		Err:   sentinel,
		Cause: cause,
	}
}
