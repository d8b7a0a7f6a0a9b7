package types

import (
	"regexp"
	"strconv"
)

// DefaultPaymentTermsDays is used when a payment-terms label carries no
// parseable day count. Kept at the observed production default.
const DefaultPaymentTermsDays = 30

var termsDayPattern = regexp.MustCompile(`\d+`)

// ParsePaymentTermsDays converts a free-text payment-terms label into a day
// count by extracting the first run of digits, e.g. "Net 30" -> 30,
// "45 days from BL date" -> 45. Labels with no digits fall back to the
// supplied default; the second return value reports whether the label was
// actually parsed so callers can attach a warning instead of failing.
func ParsePaymentTermsDays(label string, fallbackDays int) (int, bool) {
	match := termsDayPattern.FindString(label)
	if match == "" {
		return fallbackDays, false
	}
	days, err := strconv.Atoi(match)
	if err != nil || days <= 0 {
		return fallbackDays, false
	}
	return days, true
}
