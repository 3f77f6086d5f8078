package youtube

import (
	"math"
	"regexp"
	"strconv"
)

var durationRegex = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

// ParseDuration converts an ISO-8601 duration as returned in
// contentDetails.duration (e.g. "PT1H2M3S") to whole seconds. Anything it
// cannot read, or that does not fit in an int32 number of seconds, counts
// as zero, which the short-form filter then excludes.
func ParseDuration(s string) int {
	m := durationRegex.FindStringSubmatch(s)
	if m == nil {
		return 0
	}

	total := 0
	for i, unit := range [...]int{24 * 3600, 3600, 60, 1} {
		n := atoi(m[i+1])
		if n > (math.MaxInt32-total)/unit {
			return 0
		}
		total += n * unit
	}
	return total
}

func atoi(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
