package modal

import (
	"fmt"
	"strings"
	"time"
)

// The backend emits local date-times without an offset; older records carry
// RFC 3339 values.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

// LocalInputLayout is the layout of datetime-local form inputs.
const LocalInputLayout = "2006-01-02T15:04"

type Timestamp struct {
	time.Time
}

func (ts *Timestamp) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		ts.Time = time.Time{}
		return nil
	}
	t, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	ts.Time = t
	return nil
}

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.Time.IsZero() {
		return []byte(`null`), nil
	}
	return []byte(`"` + ts.Time.Format("2006-01-02T15:04:05") + `"`), nil
}

// InputValue renders the timestamp for a datetime-local input.
func (ts *Timestamp) InputValue() string {
	if ts == nil || ts.IsZero() {
		return ""
	}
	return ts.Format(LocalInputLayout)
}

func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
