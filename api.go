// Package gdpr provides field-level data portability exports and
// right-to-be-forgotten anonymization for Go structs.
//
// Fields opt in through struct tags (or explicit declarations) and the
// package walks object graphs to produce an ordered, serializer-agnostic
// Tree, or rewrites tagged values in place.
//
// # Tag Syntax
//
//	gdpr.export:"[alias]"                  - Export the field, optionally under alias
//	gdpr.map:"1=active,2=inactive"         - Value map applied to exported scalars
//	gdpr.anonymize:"type[,key=value...]"   - Anonymize the field with the named anonymizer
//
// Unexported fields may be tagged. Getters (Status or GetStatus for a field
// named status) are preferred over direct field access, and setters
// (SetStatus) over direct writes.
//
// # Basic Usage
//
//	type User struct {
//	    ID     string `gdpr.export:"id"`
//	    Email  string `gdpr.export:"email" gdpr.anonymize:"email"`
//	    status int    `gdpr.export:"" gdpr.map:"1=active,2=inactive"`
//	    Orders []*Order `gdpr.export:"" gdpr.anonymize:"collection"`
//	}
//
//	exp := gdpr.NewExporter(json.New())
//	data, _ := exp.Export(ctx, user)
//
//	f := gdpr.NewForgetter()
//	_ = f.Anonymize(ctx, user)
//
// # Value Maps
//
// When a field has a value map, scalars found in the map are replaced and
// scalars missing from it are exported as null. Non-scalar values are never
// mapped.
//
// # Anonymizers
//
// Anonymizers are looked up by type in a Registry. Builtins cover masking
// (email, phone, ssn, card, ip, uuid, iban, name), digests (sha256, sha512,
// blake2b, argon2), pseudonyms, fixed and null values, and date truncation.
// The object and collection types recurse into nested tagged objects.
//
// # Codec Providers
//
// The following codec implementations are available as sub-packages:
//
//   - json - JSON encoding (application/json)
//   - xml - XML encoding (application/xml)
//   - yaml - YAML encoding (application/yaml)
//   - msgpack - MessagePack encoding (application/msgpack)
//   - bson - BSON encoding (application/bson)
package gdpr

// Codec provides content-type aware marshaling.
type Codec interface {
	// ContentType returns the MIME type for this codec (e.g., "application/json").
	ContentType() string

	// Marshal encodes v into bytes.
	Marshal(v any) ([]byte, error)

	// Unmarshal decodes data into v.
	Unmarshal(data []byte, v any) error
}

// Override interfaces allow types to bypass reflection-based processing.
// When a type implements one of these interfaces, the package calls the
// interface method instead of reading struct tags.

// Exportable bypasses reflection for export normalization.
type Exportable interface {
	// Export returns the receiver's exported fields. Nested values are
	// normalized by the Serializer like any tagged field value.
	Export() (*Tree, error)
}

// Anonymizable bypasses reflection for anonymization.
type Anonymizable interface {
	// Anonymize rewrites the receiver's personal data in place.
	// The registry holds every configured anonymizer keyed by type.
	Anonymize(registry *Registry) error
}
