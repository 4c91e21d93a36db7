package recon

import "strings"

// compareAlphanum orders identifier strings numerically when both sides are
// all digits ("2" before "10") and lexically otherwise. Empty strings sort
// last so unmatched rows with no merchant number trail the table.
func compareAlphanum(a, b string) int {
	if a == b {
		return 0
	}
	if a == "" {
		return 1
	}
	if b == "" {
		return -1
	}

	if isDigits(a) && isDigits(b) {
		na := strings.TrimLeft(a, "0")
		nb := strings.TrimLeft(b, "0")
		if len(na) != len(nb) {
			if len(na) < len(nb) {
				return -1
			}
			return 1
		}
		if c := strings.Compare(na, nb); c != 0 {
			return c
		}
		// Same numeric value, different zero padding; fall through so the
		// order is still deterministic.
	}

	return strings.Compare(a, b)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
