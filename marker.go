package gdpr

import (
	"reflect"
	"strings"
)

// Marker describes one field carrying a marker kind.
type Marker struct {
	Field    string   // Go field name on the declaring type
	Alias    string   // Output key used instead of Field when set
	ValueMap ValueMap // Scalar replacements; nil when the field has no map
	Type     string   // Anonymizer type (anonymize markers only)
	Options  Options  // Extra anonymizer options from the tag

	index []int // reflect.Value.FieldByIndex path, nil for declared markers
}

// Key returns the output key of the field: the alias when present, else the field name.
func (m Marker) Key() string {
	if m.Alias != "" {
		return m.Alias
	}
	return m.Field
}

// ValueMap maps the canonical string form of a scalar to its replacement.
type ValueMap map[string]any

// Options carries anonymizer options declared next to the type.
type Options map[string]string

// Get returns the option value or def when absent.
func (o Options) Get(key, def string) string {
	if v, ok := o[key]; ok {
		return v
	}
	return def
}

// parseMarker builds a Marker for kind from the struct field tags.
func parseMarker(kind Kind, sf reflect.StructField, val string, index []int) (Marker, error) {
	m := Marker{Field: sf.Name, index: index}

	if kind == KindAnonymize {
		typ, opts, err := parseAnonymizeTag(val)
		if err != nil {
			return Marker{}, err
		}
		m.Type = typ
		m.Options = opts
		return m, nil
	}

	m.Alias = strings.TrimSpace(val)
	if raw, ok := sf.Tag.Lookup(tagValueMap); ok {
		vm, err := parseValueMap(raw)
		if err != nil {
			return Marker{}, err
		}
		m.ValueMap = vm
	}
	return m, nil
}

// parseAnonymizeTag splits `type,key=value,...`.
func parseAnonymizeTag(val string) (string, Options, error) {
	parts := strings.Split(val, ",")
	typ := strings.TrimSpace(parts[0])
	if typ == "" {
		return "", nil, errMissingType
	}
	var opts Options
	for _, p := range parts[1:] {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		k, v, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return "", nil, errBadOption(p)
		}
		if opts == nil {
			opts = make(Options)
		}
		opts[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return typ, opts, nil
}

// parseValueMap parses `from=to,from=to`. An empty tag yields an empty, active map.
func parseValueMap(raw string) (ValueMap, error) {
	vm := make(ValueMap)
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		from, to, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(from) == "" {
			return nil, errBadPair(pair)
		}
		vm[strings.TrimSpace(from)] = strings.TrimSpace(to)
	}
	return vm, nil
}

// tagError is a MetadataError reason awaiting type and field context.
type tagError string

func (e tagError) Error() string { return string(e) }

const errMissingType = tagError("anonymize marker requires a type")

func errBadOption(p string) error { return tagError("malformed anonymizer option " + p) }

func errBadPair(p string) error { return tagError("malformed value map pair " + p) }
