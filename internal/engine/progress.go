package engine

import (
	"regexp"
	"strconv"
)

var progressRe = regexp.MustCompile(`\[download\]\s+([\d.]+)%`)

// ParseProgress extracts the percentage from a fetch tool output line such
// as "[download]  42.3% of 3.5MiB". Lines without one return false.
func ParseProgress(line string) (float64, bool) {
	m := progressRe.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	pct, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return pct, true
}
