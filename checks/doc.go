// Package checks binds the external validation seam to concrete checks.
//
// Every check has the shape func(string) bool and never panics on malformed
// input, so it can be plugged into a formrig.Rule directly:
//
//	rule := formrig.PhoneNumberRule(formrig.WithPredicate(checks.PhoneNumberIn("CA")))
//
// Phone numbers are parsed with github.com/nyaruka/phonenumbers.
package checks
