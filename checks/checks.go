package checks

import (
	"regexp"
	"strings"
	"time"

	"github.com/nyaruka/phonenumbers"
)

// DefaultRegion is the region used for phone numbers without a country code.
const DefaultRegion = "US"

// DateLayout is the layout accepted by Age (MM/dd/yyyy).
const DateLayout = "01/02/2006"

var (
	emailRegex = regexp.MustCompile(`^[A-Z0-9a-z._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,64}$`)

	postalRegexes = map[string]*regexp.Regexp{
		"US": regexp.MustCompile(`^[0-9]{5}(-[0-9]{4})?$`),
		"CA": regexp.MustCompile(`^[ABCEGHJ-NPRSTVXY][0-9][ABCEGHJ-NPRSTV-Z] ?[0-9][ABCEGHJ-NPRSTV-Z][0-9]$`),
	}
)

// Email reports whether text looks like an email address.
func Email(text string) bool {
	return emailRegex.MatchString(text)
}

// PostalCode reports whether text is a US ZIP or a Canadian postal code.
func PostalCode(text string) bool {
	return PostalCodeIn("US", "CA")(text)
}

// PostalCodeIn returns a check accepting postal codes of any of the given
// regions. Unknown regions never match.
func PostalCodeIn(regions ...string) func(string) bool {
	patterns := make([]*regexp.Regexp, 0, len(regions))
	for _, region := range regions {
		if re, ok := postalRegexes[strings.ToUpper(region)]; ok {
			patterns = append(patterns, re)
		}
	}
	return func(text string) bool {
		candidate := strings.ToUpper(strings.TrimSpace(text))
		for _, re := range patterns {
			if re.MatchString(candidate) {
				return true
			}
		}
		return false
	}
}

// PhoneNumber reports whether text is a valid phone number in DefaultRegion.
func PhoneNumber(text string) bool {
	return PhoneNumberIn(DefaultRegion)(text)
}

// PhoneNumberIn returns a check that parses numbers relative to region.
func PhoneNumberIn(region string) func(string) bool {
	return func(text string) bool {
		if strings.TrimSpace(text) == "" {
			return false
		}
		num, err := phonenumbers.Parse(text, region)
		if err != nil {
			return false
		}
		return phonenumbers.IsValidNumber(num)
	}
}

// FormatPhoneNumber normalizes text to the national format of DefaultRegion.
//
// Inputs with fewer than ten digits are reduced to their digits. Longer
// inputs are formatted from their first ten digits. The result is stable:
// FormatPhoneNumber(FormatPhoneNumber(x)) == FormatPhoneNumber(x).
func FormatPhoneNumber(text string) string {
	digits := Digits(text)
	if len(digits) < 10 {
		return digits
	}

	candidate := digits[:10]
	num, err := phonenumbers.Parse(candidate, DefaultRegion)
	if err != nil {
		return candidate
	}
	formatted := phonenumbers.Format(num, phonenumbers.NATIONAL)

	// Formatting must keep the same digits, otherwise a second pass would
	// produce a different value.
	if Digits(formatted) != candidate {
		return candidate
	}
	return formatted
}

// Digits strips everything but ASCII digits from text.
func Digits(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); i++ {
		if text[i] >= '0' && text[i] <= '9' {
			b.WriteByte(text[i])
		}
	}
	return b.String()
}

// Age returns a check accepting DateLayout birth dates whose age in whole
// years, measured at now(), lies in [min, max]. A nil now uses time.Now.
func Age(min, max int, now func() time.Time) func(string) bool {
	if now == nil {
		now = time.Now
	}
	return func(text string) bool {
		born, err := time.Parse(DateLayout, strings.TrimSpace(text))
		if err != nil {
			return false
		}
		age := YearsBetween(born, now())
		return age >= min && age <= max
	}
}

// YearsBetween returns the number of complete years from start to end.
func YearsBetween(start, end time.Time) int {
	years := end.Year() - start.Year()
	if end.Month() < start.Month() || (end.Month() == start.Month() && end.Day() < start.Day()) {
		years--
	}
	return years
}
