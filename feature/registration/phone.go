package registration

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	localMobile      = regexp.MustCompile(`^09[1-9]\d{7}$`)
	subscriberNumber = regexp.MustCompile(`^9[1-9]\d{7}$`)
)

// phoneDigits returns the digits of raw.
func phoneDigits(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidPhone reports whether raw is a local mobile number (09X followed by
// seven digits) or the country code digits followed by the nine digit
// subscriber number. Separators are ignored.
func ValidPhone(raw, countryCode string) bool {
	digits := phoneDigits(raw)
	if localMobile.MatchString(digits) {
		return true
	}
	cc := strings.TrimPrefix(countryCode, "+")
	if cc == "" || !strings.HasPrefix(digits, cc) {
		return false
	}
	return subscriberNumber.MatchString(strings.TrimPrefix(digits, cc))
}

// NormalizePhone renders raw as "<country code> <number>".
//
// A raw value starting with the full code keeps everything after it, with at
// most one separating whitespace replaced by a single space. A value starting
// with the code digits gets the "+" and one space. Anything else has one
// national trunk zero dropped and the code prepended.
func NormalizePhone(raw, countryCode string) string {
	raw = strings.TrimSpace(raw)
	cc := strings.TrimPrefix(countryCode, "+")

	switch {
	case strings.HasPrefix(raw, "+"+cc):
		rest := raw[len(cc)+1:]
		for i, r := range rest {
			if unicode.IsSpace(r) {
				rest = rest[i+len(string(r)):]
			}
			break
		}
		return "+" + cc + " " + rest
	case strings.HasPrefix(raw, cc):
		return "+" + cc + " " + strings.TrimSpace(raw[len(cc):])
	default:
		return "+" + cc + " " + strings.TrimPrefix(raw, "0")
	}
}
