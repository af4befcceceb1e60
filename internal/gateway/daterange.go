package gateway

import (
	"fmt"
	"time"
)

const (
	inputDateLayout = "2006-01-02"
	rangeDateLayout = "02-01-2006"
	// DefaultRangeDays is how far back list views look by default.
	DefaultRangeDays = 30
)

// DateRange is an inclusive range of days used to filter task and expense
// lists.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// FormatDay converts a YYYY-MM-DD date into the DD-MM-YYYY form the backend
// expects.
func FormatDay(date string) (string, error) {
	t, err := time.Parse(inputDateLayout, date)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", date, err)
	}
	return t.Format(rangeDateLayout), nil
}

// ParseRange reads a range from two YYYY-MM-DD dates.
func ParseRange(start, end string) (DateRange, error) {
	s, err := time.Parse(inputDateLayout, start)
	if err != nil {
		return DateRange{}, fmt.Errorf("invalid start date %q: %w", start, err)
	}
	e, err := time.Parse(inputDateLayout, end)
	if err != nil {
		return DateRange{}, fmt.Errorf("invalid end date %q: %w", end, err)
	}
	return DateRange{Start: s, End: e}, nil
}

// LastDays is the range of the n days before now, through today.
func LastDays(now time.Time, n int) DateRange {
	return DateRange{Start: now.AddDate(0, 0, -n), End: now}
}

// String is the value of the range query parameter.
func (r DateRange) String() string {
	return r.Start.Format(rangeDateLayout) + " - " + r.End.Format(rangeDateLayout)
}

// StartInput and EndInput render the range for date inputs.
func (r DateRange) StartInput() string { return r.Start.Format(inputDateLayout) }

func (r DateRange) EndInput() string { return r.End.Format(inputDateLayout) }
