package corpus

import (
	"strconv"
	"strings"
)

// separatorPrefix opens and closes a metadata block.
const separatorPrefix = "====="

// IsSeparator reports whether line delimits a metadata block.
func IsSeparator(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), separatorPrefix)
}

// ParseMetadataField splits a "Key: value" metadata line.
func ParseMetadataField(line string) (key, value string, ok bool) {
	key, value, ok = strings.Cut(strings.TrimSpace(line), ":")
	if !ok {
		return "", "", false
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return "", "", false
	}
	return key, strings.TrimSpace(value), true
}

// ParseYear extracts the value of a "Year: <integer>" metadata line.
// Lines with any other key, or a non-integer year, report false.
func ParseYear(line string) (int, bool) {
	key, value, ok := ParseMetadataField(line)
	if !ok || key != "Year" {
		return 0, false
	}
	year, err := strconv.Atoi(value)
	if err != nil {
		return 0, false
	}
	return year, true
}
