package parser

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// monthAlt is the month-name alternation shared by the statement date
// patterns (e.g. "2 Feb 2026").
const monthAlt = `(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)`

// Masked card numbers print as 6 leading digits, a masked middle, and the
// last 4 digits, e.g. "532016XXXXXX3032".
var maskedCardPattern = regexp.MustCompile(`^\d{6}[\dXx*]+\d{4}`)

// NormalizeText strips log-export artifacts before any pattern matching:
// NUL bytes from fixed-width dumps and carriage returns from DOS line
// endings.
func NormalizeText(s string) string {
	s = strings.ReplaceAll(s, "\x00", "")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return s
}

// parseAmount converts a string like "49,900.00" to a decimal, stripping
// thousands separators and currency noise first.
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.TrimPrefix(s, "Rs.")
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

func containsAnyFold(text string, needles []string) bool {
	lower := strings.ToLower(text)
	for _, n := range needles {
		if strings.Contains(lower, strings.ToLower(n)) {
			return true
		}
	}
	return false
}
