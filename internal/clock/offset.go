// Package clock derives signed UTC-offset components from IANA timezone
// identifiers, for rendering a friend's local clock next to the viewer's.
package clock

import (
	"fmt"
	"strconv"
	"time"
)

// ParseOffset splits a combined RFC 822 style offset string ("+0530",
// "-0800") into signed hour and minute components. The sign of the
// minute component follows the sign of the whole offset: "-0545" yields
// (-5, -45), "+0530" yields (5, 30).
func ParseOffset(offset string) (hours, minutes int, err error) {
	if len(offset) != 5 || (offset[0] != '+' && offset[0] != '-') {
		return 0, 0, fmt.Errorf("malformed utc offset %q", offset)
	}

	hours, err = strconv.Atoi(offset[:3])
	if err != nil {
		return 0, 0, fmt.Errorf("malformed utc offset %q: %w", offset, err)
	}

	mins, err := strconv.Atoi(offset[3:])
	if err != nil {
		return 0, 0, fmt.Errorf("malformed utc offset %q: %w", offset, err)
	}
	if offset[0] == '-' {
		mins = -mins
	}

	return hours, mins, nil
}

// Offset returns the signed hour and minute UTC offset of the given
// IANA timezone at the reference instant. Taking the instant as a
// parameter keeps DST transitions testable without real wall-clock time.
func Offset(timezone string, at time.Time) (hours, minutes int, err error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return 0, 0, fmt.Errorf("unknown timezone %q: %w", timezone, err)
	}
	return ParseOffset(at.In(loc).Format("-0700"))
}

// Valid reports whether the timezone identifier is known to the
// platform timezone database.
func Valid(timezone string) bool {
	if timezone == "" {
		return false
	}
	_, err := time.LoadLocation(timezone)
	return err == nil
}
