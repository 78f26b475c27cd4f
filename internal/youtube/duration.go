package youtube

import (
	"fmt"
	"regexp"
	"strconv"
)

// isoDurationRe matches the ISO 8601 duration tokens the Data API returns
// for contentDetails.duration, e.g. "PT1H2M3S" or "PT45S".
var isoDurationRe = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?`)

// ParseDuration converts an ISO 8601 duration token to seconds.
// Unparseable tokens yield 0, never an error.
func ParseDuration(token string) int {
	m := isoDurationRe.FindStringSubmatch(token)
	if m == nil {
		return 0
	}
	hours := atoiOrZero(m[1])
	minutes := atoiOrZero(m[2])
	seconds := atoiOrZero(m[3])
	return hours*3600 + minutes*60 + seconds
}

// FormatDuration renders seconds as "H:MM:SS" when an hour or more,
// otherwise "M:SS".
func FormatDuration(seconds int) string {
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}

func atoiOrZero(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
