package checks

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEmail(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"user@example.com", true},
		{"first.last+tag@sub.example.org", true},
		{"not-an-email", false},
		{"user@example", false},
		{"@example.com", false},
		{"", false},
		{"user@example.c", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, Email(tt.input))
		})
	}
}

func TestPostalCode(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"12345", true},
		{"12345-6789", true},
		{"K1A 0B1", true},
		{"k1a0b1", true},
		{"1234", false},
		{"123456", false},
		{"12345-67", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, PostalCode(tt.input))
		})
	}
}

func TestPostalCodeIn_UnknownRegion(t *testing.T) {
	check := PostalCodeIn("ZZ")
	assert.False(t, check("12345"))

	usOnly := PostalCodeIn("us")
	assert.True(t, usOnly("12345"))
	assert.False(t, usOnly("K1A 0B1"))
}

func TestPhoneNumber(t *testing.T) {
	assert.True(t, PhoneNumber("2015550123"))
	assert.True(t, PhoneNumber("(201) 555-0123"))
	assert.False(t, PhoneNumber("not a number"))
	assert.False(t, PhoneNumber(""))
	assert.False(t, PhoneNumber("12"))
}

func TestFormatPhoneNumber(t *testing.T) {
	assert.Equal(t, "(201) 555-0123", FormatPhoneNumber("2015550123"))
	assert.Equal(t, "(201) 555-0123", FormatPhoneNumber("201-555-0123"))
	assert.Equal(t, "(201) 555-0123", FormatPhoneNumber("20155501239999"))
	assert.Equal(t, "20155", FormatPhoneNumber("(201) 55"))
	assert.Equal(t, "", FormatPhoneNumber("abc"))
}

func TestFormatPhoneNumber_Idempotent(t *testing.T) {
	inputs := []string{
		"2015550123",
		"4155552671",
		"20155501234567",
		"1201555012",
		"0000000000",
		"9999999999999",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			once := FormatPhoneNumber(input)
			twice := FormatPhoneNumber(once)
			assert.Equal(t, once, twice)
		})
	}
}

func TestDigits(t *testing.T) {
	assert.Equal(t, "12015550123", Digits("+1 (201) 555-0123"))
	assert.Equal(t, "", Digits("no digits"))
}

func TestAge(t *testing.T) {
	now := func() time.Time { return time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC) }
	check := Age(21, 115, now)

	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"exactly 21 today", "06/15/2003", true},
		{"21 tomorrow", "06/16/2003", false},
		{"middle aged", "01/01/1980", true},
		{"115 years", "06/15/1909", true},
		{"116 years", "06/14/1908", false},
		{"wrong layout", "2003-06-15", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, check(tt.input))
		})
	}
}

func TestYearsBetween(t *testing.T) {
	start := time.Date(2000, time.February, 29, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 3, YearsBetween(start, time.Date(2004, time.February, 28, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 4, YearsBetween(start, time.Date(2004, time.February, 29, 0, 0, 0, 0, time.UTC)))
}
