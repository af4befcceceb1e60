package console

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrEmptySelection = errors.New("nothing selected")

// ParseIDs converts checkbox values into record IDs. Duplicates are dropped
// and the first-seen order is kept.
func ParseIDs(values []string) ([]int64, error) {
	seen := make(map[int64]struct{}, len(values))
	ids := make([]int64, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid id %q", v)
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, ErrEmptySelection
	}
	return ids, nil
}

// ParseID parses a single required record ID.
func ParseID(v string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", v)
	}
	return id, nil
}

// ParseOptionalID returns nil for a blank value.
func ParseOptionalID(v string) (*int64, error) {
	if strings.TrimSpace(v) == "" {
		return nil, nil
	}
	id, err := ParseID(v)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
