package core

import (
	"strconv"
	"strings"
	"unicode"
)

// ParseMinutes reads the leading integer of an estimate such as "45 min".
// Unparseable estimates yield 0.
func ParseMinutes(estimate string) int {
	s := strings.TrimSpace(estimate)
	end := 0
	for end < len(s) && unicode.IsDigit(rune(s[end])) {
		end++
	}
	if end == 0 {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

// FormatMinutes renders minutes the way documents store them.
func FormatMinutes(minutes int) string {
	return strconv.Itoa(minutes) + " min"
}
