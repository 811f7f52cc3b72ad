package proofset

import "time"

// timestampLayout is the wire form of all modification times:
// YYYYMMDD-hhmmss, zero padded, always UTC.
const timestampLayout = "20060102-150405"

// FormatTimestamp renders t in the proofset timestamp form (UTC).
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// ParseTimestamp parses a proofset timestamp back into a UTC time.
func ParseTimestamp(s string) (time.Time, error) {
	return time.ParseInLocation(timestampLayout, s, time.UTC)
}

// isTimestamp reports whether s has the YYYYMMDD-hhmmss shape. It checks
// shape only; field ranges are left to ParseTimestamp.
func isTimestamp(s string) bool {
	if len(s) != len(timestampLayout) {
		return false
	}
	for i := 0; i < len(s); i++ {
		if i == 8 {
			if s[i] != '-' {
				return false
			}
			continue
		}
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
