package robokassa

import (
	"fmt"
	"strconv"
	"strings"
)

// Amounts are int64 minor units (kopecks) everywhere inside the system;
// the gateway speaks "1500.00"-style decimal strings. Conversion happens
// only at this wire boundary.

// FormatOutSum renders minor units as the gateway's decimal string,
// always with two fraction digits: 150050 -> "1500.50".
func FormatOutSum(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s%d.%02d", sign, minor/100, minor%100)
}

// ParseOutSum converts a gateway decimal string to minor units.
// Accepts "1500", "1500.5" and "1500.00"; anything else is an error.
func ParseOutSum(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty sum")
	}

	whole, frac, _ := strings.Cut(s, ".")
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid sum %q: %w", s, err)
	}

	if frac == "" {
		return units * 100, nil
	}
	if len(frac) > 2 {
		frac = frac[:2]
	}
	for len(frac) < 2 {
		frac += "0"
	}
	cents, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid sum %q: %w", s, err)
	}

	if strings.HasPrefix(whole, "-") {
		return units*100 - cents, nil
	}
	return units*100 + cents, nil
}

func parseDecimalMinor(s string) (int64, error) { return ParseOutSum(s) }
