package console

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatTime converts a duration in seconds to a HH:MM:SS string.
// Fractional seconds are truncated.
func FormatTime(seconds float64) string {
	total := int(seconds)
	if total < 0 {
		total = 0
	}
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
}

// ParseClock converts a HH:MM:SS string to total seconds.
func ParseClock(clock string) (int, error) {
	parts := strings.Split(clock, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid clock string: %q", clock)
	}

	values := make([]int, 3)
	for i, part := range parts {
		v, err := strconv.Atoi(part)
		if err != nil {
			return 0, fmt.Errorf("invalid clock string %q: %w", clock, err)
		}
		values[i] = v
	}

	return values[0]*3600 + values[1]*60 + values[2], nil
}

// ProgressBar renders fraction as a fixed-width textual bar, e.g.
// "#####....." for 0.5 at width 10. The fraction is clamped to [0, 1].
func ProgressBar(fraction float64, width int) string {
	if width <= 0 {
		return ""
	}
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}

	filled := int(fraction * float64(width))
	return strings.Repeat("#", filled) + strings.Repeat(".", width-filled)
}
