package utils

import (
	"strconv"
	"strings"
)

// PositiveInt parses a query value and falls back to def when it is not a
// positive integer.
func PositiveInt(s string, def int) int {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || i <= 0 {
		return def
	}
	return i
}

// ParseID parses a path id. Zero and garbage report false.
func ParseID(s string) (uint, bool) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
