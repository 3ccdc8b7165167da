package utils

import (
	"math"
	"strconv"
	"strings"
)

// ParseValue converts a raw cell into an int, a float64 or a string.
// Empty cells become nil; NaN and infinities stay strings so they can be
// written as JSON.
func ParseValue(s string) interface{} {
	// Trim whitespace first
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	// try int
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	// try float
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return f
	}
	return s
}

// CleanHeader trims whitespace and removes all quotes from a header cell.
func CleanHeader(h string) string {
	h = strings.TrimSpace(h)
	return strings.ReplaceAll(h, `"`, "")
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}
