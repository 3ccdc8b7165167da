package pipeline

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingColumn is returned when a dataset lacks a required column.
var ErrMissingColumn = errors.New("missing required column")

// ValidateColumns checks that every required column is in headers and returns
// the position of each one. When a header repeats, the first one wins.
func ValidateColumns(headers, required []string) (map[string]int, error) {
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		if _, dup := index[h]; !dup {
			index[h] = i
		}
	}

	var missing []string
	for _, field := range required {
		if _, ok := index[field]; !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return index, nil
}
