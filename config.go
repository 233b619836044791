package gdpr

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document is a YAML marker declaration file.
//
//	types:
//	  app.User:
//	    export:
//	      - field: Email
//	        alias: email
//	      - field: Status
//	        map: {1: active, 2: inactive}
//	    anonymize:
//	      - field: Email
//	        type: email
//	      - field: Token
//	        type: fixed
//	        options: {value: anonymous}
//
// Types are keyed by their reflect name (reflect.Type.String()). Kind
// sections name a marker kind with or without the "gdpr." prefix.
type Document struct {
	Types map[string]map[string][]FieldDecl `yaml:"types"`
}

// FieldDecl declares one marked field.
type FieldDecl struct {
	Field   string            `yaml:"field"`
	Alias   string            `yaml:"alias,omitempty"`
	Map     yaml.Node         `yaml:"map,omitempty"`
	Type    string            `yaml:"type,omitempty"`
	Options map[string]string `yaml:"options,omitempty"`
}

// LoadYAML reads a marker Document and declares its markers on r.
// Declarations replace struct tags for the named types and must be loaded
// before those types are first read.
func (r *Reader) LoadYAML(src io.Reader) error {
	var doc Document
	dec := yaml.NewDecoder(src)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return &MetadataError{Reason: fmt.Sprintf("decode marker document: %v", err)}
	}

	// Validate everything before declaring anything.
	type declaration struct {
		name    string
		kind    Kind
		markers []Marker
	}
	var decls []declaration
	for name, sections := range doc.Types {
		for section, fields := range sections {
			kind := kindOf(section)
			if !IsValidKind(kind) {
				return &MetadataError{Type: name, Kind: kind, Reason: "unknown marker kind"}
			}
			markers, err := declMarkers(name, kind, fields)
			if err != nil {
				return err
			}
			decls = append(decls, declaration{name: name, kind: kind, markers: markers})
		}
	}
	for _, d := range decls {
		r.declareByName(d.name, d.kind, d.markers)
	}
	return nil
}

// LoadFile loads a YAML marker Document from path.
func (r *Reader) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return r.LoadYAML(f)
}

func kindOf(section string) Kind {
	if strings.Contains(section, ".") {
		return Kind(section)
	}
	return Kind("gdpr." + section)
}

// declMarkers converts field declarations into markers.
func declMarkers(name string, kind Kind, fields []FieldDecl) ([]Marker, error) {
	markers := make([]Marker, 0, len(fields))
	seen := make(map[string]bool, len(fields))
	for _, fd := range fields {
		field := strings.TrimSpace(fd.Field)
		switch {
		case field == "":
			return nil, &MetadataError{Type: name, Kind: kind, Reason: "declared marker has no field"}
		case seen[field]:
			return nil, &MetadataError{Type: name, Kind: kind, Field: field, Reason: "field declared twice"}
		case kind == KindAnonymize && strings.TrimSpace(fd.Type) == "":
			return nil, &MetadataError{Type: name, Kind: kind, Field: field, Reason: errMissingType.Error()}
		}
		seen[field] = true

		m := Marker{
			Field: field,
			Alias: strings.TrimSpace(fd.Alias),
			Type:  strings.TrimSpace(fd.Type),
		}
		if len(fd.Options) > 0 {
			m.Options = Options(fd.Options)
		}
		if !fd.Map.IsZero() {
			vm, err := valueMapOf(&fd.Map)
			if err != nil {
				return nil, &MetadataError{Type: name, Kind: kind, Field: field, Reason: err.Error()}
			}
			m.ValueMap = vm
		}
		markers = append(markers, m)
	}
	return markers, nil
}

// valueMapOf reads a YAML mapping, keeping each key's literal text so it
// compares against the canonical string form of scalars.
func valueMapOf(node *yaml.Node) (ValueMap, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("map must be a mapping, got line %d", node.Line)
	}
	vm := make(ValueMap, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		if key.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("map key at line %d is not a scalar", key.Line)
		}
		var to any
		if err := val.Decode(&to); err != nil {
			return nil, fmt.Errorf("map value for %q: %w", key.Value, err)
		}
		vm[key.Value] = to
	}
	return vm, nil
}
