package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// Key normalizes a field label or source key to a lowercase
// underscore-separated key. Runs of characters other than letters and
// digits collapse into a single underscore.
// Examples:
//   - "Full Name" → "full_name"
//   - "FULL_NAME" → "full_name"
//   - "e-mail address" → "e_mail_address"
//   - "  Zip / Postal  " → "zip_postal"
func Key(label string) string {
	folded := cases.Fold().String(label)

	var b strings.Builder
	b.Grow(len(folded))
	pendingSep := false
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}
	return b.String()
}

// DeriveLabel derives a display label from a Go identifier by splitting
// words at case boundaries.
// Examples:
//   - "FullName" → "Full Name"
//   - "Email" → "Email"
//   - "ZIPCode" → "ZIP Code"
//   - "Phone2" → "Phone2"
func DeriveLabel(fieldName string) string {
	runes := []rune(fieldName)
	var b strings.Builder
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteByte(' ')
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ApplyPrefix strips prefix from key, ignoring case unless caseSensitive is
// set. It reports false when key does not carry the prefix.
// Examples:
//   - ApplyPrefix("FORM_EMAIL", "FORM_", false) → "EMAIL", true
//   - ApplyPrefix("form_email", "FORM_", true) → "", false
func ApplyPrefix(key, prefix string, caseSensitive bool) (string, bool) {
	if prefix == "" {
		return key, true
	}
	if len(key) < len(prefix) {
		return "", false
	}
	head := key[:len(prefix)]
	if caseSensitive {
		if head != prefix {
			return "", false
		}
	} else if !strings.EqualFold(head, prefix) {
		return "", false
	}
	return key[len(prefix):], true
}
