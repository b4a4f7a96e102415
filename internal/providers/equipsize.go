package providers

import (
	"regexp"
	"strconv"
	"strings"
)

// Display-name patterns that encode a maximum equipment size. Upstream names
// are not a stable contract; extend the table when new formats show up.
var sizeRules = []struct {
	pattern *regexp.Regexp
	size    func(match []string) int
}{
	// "1 Tent", "3 Tents"
	{regexp.MustCompile(`^(\d+)\s*tent`), func(m []string) int { return atoiOr(m[1], 0) }},
	// "RV/Trailer up to 20'"
	{regexp.MustCompile(`up to (\d+)`), func(m []string) int { return atoiOr(m[1], 0) }},
	// "RV/Trailer over 40'"
	{regexp.MustCompile(`over (\d+)`), func([]string) int { return SizeUnbounded }},
}

// parseCategorySize extracts the maximum supported equipment size from an
// equipment category display name: a tent count, an RV/trailer length in
// feet, or SizeUnbounded for open-ended "over N" categories. Zero means the
// name encodes no size limit.
func parseCategorySize(name string) int {
	lower := strings.ToLower(name)
	for _, rule := range sizeRules {
		if m := rule.pattern.FindStringSubmatch(lower); m != nil {
			return rule.size(m)
		}
	}
	return 0
}

func atoiOr(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}
