// utils/dates.go
package utils

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidTime = errors.New("invalid time")

// Layouts without a zone are interpreted in the location passed to ParseRemindAt.
var remindAtLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseRemindAt accepts RFC3339, the zone-less layouts above, or a bare
// integer of Unix epoch milliseconds.
func ParseRemindAt(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, ErrInvalidTime
	}

	if millis, err := strconv.ParseInt(value, 10, 64); err == nil {
		return time.UnixMilli(millis), nil
	}

	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}

	if loc == nil {
		loc = time.Local
	}
	for _, layout := range remindAtLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}

	return time.Time{}, ErrInvalidTime
}
