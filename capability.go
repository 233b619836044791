package gdpr

import (
	"sync"

	"github.com/zoobzio/sentinel"
)

// Kind identifies a marker kind. The kind doubles as the struct tag key.
type Kind string

const (
	// KindExport marks a field for data portability exports.
	// Tag value is an optional alias: `gdpr.export:"email_address"`.
	KindExport Kind = "gdpr.export"

	// KindAnonymize marks a field for right-to-be-forgotten anonymization.
	// Tag value is the anonymizer type plus options: `gdpr.anonymize:"fixed,value=anon"`.
	KindAnonymize Kind = "gdpr.anonymize"
)

// tagValueMap holds the value map of an export-style marker on the same field.
// Use: `gdpr.map:"1=active,2=inactive"`.
const tagValueMap = "gdpr.map"

// Builtin anonymizer types, used as the first element of a gdpr.anonymize tag.
const (
	AnonymizeEmail     = "email"     // alice@example.com -> a***@example.com
	AnonymizePhone     = "phone"     // (555) 123-4567 -> (***) ***-4567
	AnonymizeSSN       = "ssn"       // 123-45-6789 -> ***-**-6789
	AnonymizeCard      = "card"      // 4111111111111111 -> ************1111
	AnonymizeIP        = "ip"        // 192.168.1.100 -> 192.168.1.0
	AnonymizeUUID      = "uuid"      // 550e8400-e29b-... -> 550e8400-****-****-****-************
	AnonymizeIBAN      = "iban"      // GB82WEST12345698765432 -> GB82**************5432
	AnonymizeName      = "name"      // John Smith -> J*** S****
	AnonymizeNull      = "null"      // zero value of the field
	AnonymizeFixed     = "fixed"     // option value, e.g. `fixed,value=anonymous`
	AnonymizeRedact    = "redact"    // *** or option value
	AnonymizeSHA256    = "sha256"    // hex SHA-256 digest
	AnonymizeSHA512    = "sha512"    // hex SHA-512 digest
	AnonymizeBlake2b   = "blake2b"   // hex keyed BLAKE2b-256 digest
	AnonymizeArgon2    = "argon2"    // encoded Argon2id key, salted with the registry secret
	AnonymizePseudonym = "pseudonym" // deterministic UUIDv5
	AnonymizeDateTime  = "datetime"  // time.Time truncated to January 1st of its year

	// AnonymizeObject recurses into the tagged object held by the field.
	AnonymizeObject = "object"

	// AnonymizeCollection recurses into every tagged object of a slice, array, or map.
	AnonymizeCollection = "collection"
)

var (
	kindsMu sync.RWMutex
	kinds   = map[Kind]bool{
		KindExport:    true,
		KindAnonymize: true,
	}
)

func init() {
	sentinel.Tag(string(KindExport))
	sentinel.Tag(string(KindAnonymize))
	sentinel.Tag(tagValueMap)
}

// RegisterKind adds a custom export-style marker kind.
// Fields tagged with the kind accept an alias and a gdpr.map value map.
func RegisterKind(k Kind) error {
	if k == "" || k == tagValueMap {
		return &MetadataError{Kind: k, Reason: "reserved or empty marker kind"}
	}
	kindsMu.Lock()
	defer kindsMu.Unlock()
	if !kinds[k] {
		sentinel.Tag(string(k))
		kinds[k] = true
	}
	return nil
}

// IsValidKind returns true if the kind is builtin or was registered.
func IsValidKind(k Kind) bool {
	kindsMu.RLock()
	defer kindsMu.RUnlock()
	return kinds[k]
}
