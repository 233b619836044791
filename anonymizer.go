package gdpr

import (
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"
)

// defaultRedaction replaces values for the redact type without a value option.
const defaultRedaction = "***"

// builtinAnonymizers returns the default anonymizer bindings.
func builtinAnonymizers(cfg registryConfig) map[string]Anonymizer {
	out := map[string]Anonymizer{
		AnonymizeNull:      AnonymizerFunc(anonymizeNull),
		AnonymizeFixed:     AnonymizerFunc(anonymizeFixed),
		AnonymizeRedact:    AnonymizerFunc(anonymizeRedact),
		AnonymizeDateTime:  AnonymizerFunc(anonymizeDateTime),
		AnonymizeSHA256:    DigestAnonymizer(sha256Digest),
		AnonymizeSHA512:    DigestAnonymizer(sha512Digest),
		AnonymizeBlake2b:   DigestAnonymizer(blake2bDigest(cfg.secret)),
		AnonymizeArgon2:    DigestAnonymizer(argon2Digest(cfg.argon2, cfg.secret)),
		AnonymizePseudonym: PseudonymAnonymizer(cfg.secret),
	}
	for typ, mask := range maskers {
		out[typ] = MaskAnonymizer(mask)
	}
	return out
}

// MaskAnonymizer applies fn to string values (string, *string, []string, []byte).
func MaskAnonymizer(fn func(string) string) Anonymizer {
	return AnonymizerFunc(func(value any, _ Options) (any, error) {
		return mapStrings(value, func(s string) (string, error) {
			return fn(s), nil
		})
	})
}

// DigestAnonymizer replaces string values with a deterministic digest.
// Empty strings stay empty.
func DigestAnonymizer(fn func(plaintext []byte) (string, error)) Anonymizer {
	return AnonymizerFunc(func(value any, _ Options) (any, error) {
		return mapStrings(value, func(s string) (string, error) {
			if s == "" {
				return "", nil
			}
			return fn([]byte(s))
		})
	})
}

// PseudonymAnonymizer replaces string values with a UUIDv5 derived from
// secret and the value. Equal values map to equal pseudonyms.
func PseudonymAnonymizer(secret []byte) Anonymizer {
	namespace := uuid.NewSHA1(uuid.NameSpaceOID, secret)
	return AnonymizerFunc(func(value any, _ Options) (any, error) {
		return mapStrings(value, func(s string) (string, error) {
			if s == "" {
				return "", nil
			}
			return uuid.NewSHA1(namespace, []byte(s)).String(), nil
		})
	})
}

// anonymizeNull replaces any value with nil, which writes the zero value.
func anonymizeNull(any, Options) (any, error) {
	return nil, nil
}

// anonymizeFixed replaces string values with the value option.
func anonymizeFixed(value any, opts Options) (any, error) {
	fixed, ok := opts["value"]
	if !ok {
		return nil, fmt.Errorf("fixed anonymizer requires a value option")
	}
	return mapStrings(value, func(string) (string, error) {
		return fixed, nil
	})
}

// anonymizeRedact replaces string values with *** or the value option.
func anonymizeRedact(value any, opts Options) (any, error) {
	redacted := opts.Get("value", defaultRedaction)
	return mapStrings(value, func(string) (string, error) {
		return redacted, nil
	})
}

// anonymizeDateTime truncates times to January 1st of their year.
func anonymizeDateTime(value any, _ Options) (any, error) {
	switch t := value.(type) {
	case nil:
		return nil, nil
	case time.Time:
		return startOfYear(t), nil
	case *time.Time:
		if t == nil {
			return t, nil
		}
		y := startOfYear(*t)
		return &y, nil
	default:
		return nil, fmt.Errorf("datetime anonymizer: unsupported value %T", value)
	}
}

func startOfYear(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
}

// mapStrings applies fn to the string content of value.
func mapStrings(value any, fn func(string) (string, error)) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case string:
		return fn(v)
	case *string:
		if v == nil {
			return v, nil
		}
		out, err := fn(*v)
		if err != nil {
			return nil, err
		}
		return &out, nil
	case []byte:
		if v == nil {
			return v, nil
		}
		out, err := fn(string(v))
		if err != nil {
			return nil, err
		}
		return []byte(out), nil
	case []string:
		if v == nil {
			return v, nil
		}
		out := make([]string, len(v))
		for i, s := range v {
			m, err := fn(s)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			out[i] = m
		}
		return out, nil
	}

	// Named string types
	if rv := reflect.ValueOf(value); rv.Kind() == reflect.String {
		return fn(rv.String())
	}
	return nil, fmt.Errorf("unsupported value %T", value)
}
