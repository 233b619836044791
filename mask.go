package gdpr

import (
	"net/netip"
	"strings"
	"unicode"
	"unicode/utf8"
)

// maskFunc rewrites a string into its masked form.
type maskFunc func(string) string

// maskers holds the content-aware masks, keyed by anonymizer type.
var maskers = map[string]maskFunc{
	AnonymizeEmail: maskEmail,
	AnonymizePhone: maskPhone,
	AnonymizeSSN:   maskSSN,
	AnonymizeCard:  maskCard,
	AnonymizeIP:    maskIP,
	AnonymizeUUID:  maskUUID,
	AnonymizeIBAN:  maskIBAN,
	AnonymizeName:  maskName,
}

// maskEmail keeps the first character of the local part and the domain.
func maskEmail(s string) string {
	at := strings.LastIndexByte(s, '@')
	if at < 1 {
		return stars(s)
	}
	first, _ := utf8.DecodeRuneInString(s)
	return string(first) + "***" + s[at:]
}

// maskSSN keeps the last four digits.
func maskSSN(s string) string {
	last4, ok := lastDigits(s, 4)
	if !ok {
		return stars(s)
	}
	return "***-**-" + last4
}

// maskPhone keeps the last four digits and the shape of common formats.
func maskPhone(s string) string {
	digits := digitsOf(s)
	if len(digits) < 4 {
		return stars(s)
	}
	last4 := digits[len(digits)-4:]
	switch {
	case strings.HasPrefix(s, "(") && len(digits) >= 10:
		return "(***) ***-" + last4
	case len(digits) >= 10:
		return "***-***-" + last4
	default:
		return "***-" + last4
	}
}

// maskCard keeps the last four digits, preserving space or dash grouping.
func maskCard(s string) string {
	digits := digitsOf(s)
	if len(digits) < 4 {
		return stars(s)
	}
	last4 := digits[len(digits)-4:]
	groups := (len(digits) - 1) / 4
	switch {
	case strings.Contains(s, " "):
		return strings.Repeat("**** ", groups) + last4
	case strings.Contains(s, "-"):
		return strings.Repeat("****-", groups) + last4
	default:
		return strings.Repeat("*", len(digits)-4) + last4
	}
}

// maskIP zeroes the host part: the last octet of IPv4, the last 80 bits of IPv6.
func maskIP(s string) string {
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return stars(s)
	}
	bits := 48
	if addr.Is4() || addr.Is4In6() {
		addr = addr.Unmap()
		bits = 24
	}
	prefix, err := addr.Prefix(bits)
	if err != nil {
		return stars(s)
	}
	return prefix.Addr().String()
}

// maskUUID keeps the first group.
func maskUUID(s string) string {
	first, _, ok := strings.Cut(s, "-")
	if !ok || strings.Count(s, "-") != 4 {
		return stars(s)
	}
	return first + "-****-****-****-************"
}

// maskIBAN keeps the country code, check digits, and last four characters.
func maskIBAN(s string) string {
	if len(s) <= 8 {
		return stars(s)
	}
	return s[:4] + strings.Repeat("*", len(s)-8) + s[len(s)-4:]
}

// maskName keeps the first letter of every word.
func maskName(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		first, size := utf8.DecodeRuneInString(w)
		words[i] = string(first) + stars(w[size:])
	}
	return strings.Join(words, " ")
}

func stars(s string) string {
	return strings.Repeat("*", utf8.RuneCountInString(s))
}

func digitsOf(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}

func lastDigits(s string, n int) (string, bool) {
	digits := digitsOf(s)
	if len(digits) < n {
		return "", false
	}
	return digits[len(digits)-n:], true
}
