package domain

import (
	"regexp"
	"strconv"
	"strings"
)

var nonAmountChars = regexp.MustCompile(`[^\d.,]`)

// CleanAmount parses a free-text money amount ("120 000", "1500,50")
// into whole currency units, rounding half-up. Formatting characters
// are stripped and a comma is treated as the decimal separator.
// Anything still unparseable degrades to zero rather than erroring;
// the caller's validation decides whether zero is acceptable.
func CleanAmount(s string) int64 {
	cleaned := nonAmountChars.ReplaceAllString(s, "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}

	return RoundHalfUp(v)
}
