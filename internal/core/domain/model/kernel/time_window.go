package kernel

import (
	"fmt"
	"strings"
	"time"

	"sweetdelivery/internal/pkg/errs"
	"sweetdelivery/internal/pkg/guard"
)

const (
	// TimeWindowLength is the exact length of the textual form "HH:MM-HH:MM".
	TimeWindowLength = 11

	clockLayout = "15:04"
)

// ErrTimeWindowIsNotConstructed is returned when a zero TimeWindow is used.
var ErrTimeWindowIsNotConstructed = errs.NewValueIsRequiredError(
	"time window must be created via ParseTimeWindow constructor")

// TimeWindow is a daily interval compared by time of day only.
// Windows never wrap around midnight: start is always strictly before end.
//
// Example:
//
//	w, err := kernel.ParseTimeWindow("09:00-18:00")
//	if err != nil {
//	    // malformed or inverted window
//	}
//	fmt.Println(w) // 09:00-18:00
type TimeWindow struct {
	start int // minutes since midnight
	end   int
	guard guard.ConstructorGuard
}

// ParseTimeWindow parses the "HH:MM-HH:MM" form.
func ParseTimeWindow(value string) (TimeWindow, error) {
	if len(value) != TimeWindowLength || value[5] != '-' {
		return TimeWindow{}, errs.NewValueIsInvalidErrorWithCause(
			"time window", fmt.Errorf("%q is not in HH:MM-HH:MM format", value))
	}

	start, err := parseClock(value[:5])
	if err != nil {
		return TimeWindow{}, errs.NewValueIsInvalidErrorWithCause("time window", err)
	}
	end, err := parseClock(value[6:])
	if err != nil {
		return TimeWindow{}, errs.NewValueIsInvalidErrorWithCause("time window", err)
	}

	if start >= end {
		return TimeWindow{}, errs.NewValueIsInvalidErrorWithCause(
			"time window", fmt.Errorf("%q starts after it ends", value))
	}

	return TimeWindow{start: start, end: end, guard: guard.NewConstructorGuard()}, nil
}

// ParseTimeWindows parses every value, joining errors for the malformed ones.
func ParseTimeWindows(values []string) ([]TimeWindow, error) {
	windows := make([]TimeWindow, 0, len(values))
	var problems []string
	for _, v := range values {
		w, err := ParseTimeWindow(v)
		if err != nil {
			problems = append(problems, fmt.Sprintf("%q", v))
			continue
		}
		windows = append(windows, w)
	}
	if len(problems) > 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"time window", fmt.Errorf("%s must be in HH:MM-HH:MM format", strings.Join(problems, ", ")))
	}
	return windows, nil
}

func parseClock(value string) (int, error) {
	t, err := time.Parse(clockLayout, value)
	if err != nil {
		return 0, fmt.Errorf("%q is not a valid time of day", value)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// Validate reports whether the window was built by ParseTimeWindow.
func (w TimeWindow) Validate() error {
	return w.guard.Validate(ErrTimeWindowIsNotConstructed)
}

// Contains reports whether other lies fully inside w.
func (w TimeWindow) Contains(other TimeWindow) bool {
	return w.start <= other.start && w.end >= other.end
}

// String renders the window in its "HH:MM-HH:MM" form.
func (w TimeWindow) String() string {
	return fmt.Sprintf("%02d:%02d-%02d:%02d", w.start/60, w.start%60, w.end/60, w.end%60)
}

// AnyContains reports whether at least one required window fits fully inside
// at least one available window. An empty required list never matches.
func AnyContains(available, required []TimeWindow) bool {
	for _, a := range available {
		for _, r := range required {
			if a.Contains(r) {
				return true
			}
		}
	}
	return false
}

// TimeWindowStrings renders windows in order.
func TimeWindowStrings(windows []TimeWindow) []string {
	out := make([]string, 0, len(windows))
	for _, w := range windows {
		out = append(out, w.String())
	}
	return out
}
