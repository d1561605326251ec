package kernel

import (
	"fmt"
	"time"

	"sweetdelivery/internal/pkg/errs"
)

// TimestampLayout renders UTC instants with millisecond precision and a literal Z.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// NormalizeTime converts t to UTC truncated to milliseconds.
func NormalizeTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

// FormatTimestamp renders t in TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return NormalizeTime(t).Format(TimestampLayout)
}

// ParseTimestamp accepts RFC 3339 input with either a Z marker or a numeric offset.
func ParseTimestamp(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, errs.NewValueIsInvalidErrorWithCause("timestamp",
			fmt.Errorf("%q must be in ISO format with a Z marker or a tz offset", value))
	}
	return NormalizeTime(t), nil
}
