package analytics

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// DefaultTimeframe is applied when a request omits the timeframe
// parameter entirely.
const DefaultTimeframe = "24h"

var timeframePattern = regexp.MustCompile(`^(\d+)([hdw])$`)

// ParseTimeframe converts a timeframe token to a duration. The grammar
// is <integer><unit> where unit is h (hours), d (days), or w (weeks)
// and the integer is at least 1.
func ParseTimeframe(raw string) (time.Duration, error) {
	match := timeframePattern.FindStringSubmatch(raw)
	if match == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeframe, raw)
	}

	n, err := strconv.Atoi(match[1])
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeframe, raw)
	}

	switch match[2] {
	case "h":
		return time.Duration(n) * time.Hour, nil
	case "d":
		return time.Duration(n) * 24 * time.Hour, nil
	default:
		return time.Duration(n) * 7 * 24 * time.Hour, nil
	}
}
