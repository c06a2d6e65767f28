package entities

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidTimecode is returned when a time field cannot be parsed
var ErrInvalidTimecode = errors.New("invalid time code")

// TimeField names one end of a hotspot's window
type TimeField string

const (
	TimeFieldStart TimeField = "start"
	TimeFieldEnd   TimeField = "end"
)

// ParseTimeField converts "start"/"end" (or the JSON field names) into a TimeField
func ParseTimeField(s string) (TimeField, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "start", "starttime", "start_time":
		return TimeFieldStart, nil
	case "end", "endtime", "end_time":
		return TimeFieldEnd, nil
	default:
		return "", fmt.Errorf("unknown time field %q", s)
	}
}

var timecodePattern = regexp.MustCompile(`^(-)?(?:(\d+):)?(\d+)(?:\.(\d{1,2}))?$`)

// FormatTimecode renders seconds as M:SS.CC (minutes, seconds, hundredths)
func FormatTimecode(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		seconds = 0
	}
	sign := ""
	if seconds < 0 {
		sign = "-"
		seconds = -seconds
	}
	// The epsilon absorbs binary noise such as 0.57*100 = 56.99999...
	centis := int64(math.Floor(seconds*100 + 1e-6))
	minutes := centis / 6000
	secs := (centis / 100) % 60
	hundredths := centis % 100
	return fmt.Sprintf("%s%d:%02d.%02d", sign, minutes, secs, hundredths)
}

// FormatClock renders seconds as M:SS for transport controls
func FormatClock(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		seconds = 0
	}
	whole := int64(math.Floor(seconds))
	return fmt.Sprintf("%d:%02d", whole/60, whole%60)
}

// ParseTimecode reads M:SS.CC back into seconds. The minutes part and the
// fraction are optional; a one digit fraction means tenths. A leading '-'
// reads the negative values FormatTimecode writes.
func ParseTimecode(s string) (float64, error) {
	m := timecodePattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimecode, s)
	}

	var total float64
	if m[2] != "" {
		minutes, err := strconv.ParseInt(m[2], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: minutes %q", ErrInvalidTimecode, m[2])
		}
		total += float64(minutes) * 60
	}

	secs, err := strconv.ParseInt(m[3], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: seconds %q", ErrInvalidTimecode, m[3])
	}
	total += float64(secs)

	if frac := m[4]; frac != "" {
		n, err := strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: fraction %q", ErrInvalidTimecode, frac)
		}
		if len(frac) == 1 {
			n *= 10
		}
		total += float64(n) / 100
	}

	if m[1] != "" {
		total = -total
	}
	return total, nil
}
