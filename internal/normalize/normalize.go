// Parse locale-formatted metric values from the dashboard
// "36.3万" -> 363000, "3千" -> 3000, "1,000" -> 1000

package normalize

import (
	"strconv"
	"strings"

	"golang.org/x/text/width"
)

// Value converts a raw metric string into a count. Malformed input is
// never fatal: anything unrecognized degrades to 0.
func Value(raw string) int {
	// the dashboard occasionally renders fullwidth digits/commas
	s := strings.TrimSpace(width.Narrow.String(raw))
	if s == "" {
		return 0
	}

	//"36.3万" or "3万" -> ten-thousands
	if strings.Contains(s, "万") {
		return scaled(strings.ReplaceAll(s, "万", ""), 10000)
	}

	//"3.5千" -> thousands
	if strings.Contains(s, "千") {
		return scaled(strings.ReplaceAll(s, "千", ""), 1000)
	}

	//plain "1000", "1,000" or "1,234.5"
	clean := strings.ReplaceAll(s, ",", "")
	if !digitsOnly(strings.ReplaceAll(clean, ".", "")) {
		return 0
	}
	f, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0
	}
	return int(f)
}

func scaled(numeral string, factor float64) int {
	numeral = strings.TrimSpace(strings.ReplaceAll(numeral, ",", ""))
	if numeral == "" {
		//bare unit marker, e.g. just "万"
		return 0
	}
	f, err := strconv.ParseFloat(numeral, 64)
	if err != nil || f < 0 {
		return 0
	}
	return int(f * factor)
}

func digitsOnly(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
