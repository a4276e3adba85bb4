package cda

import (
	"fmt"
	"strings"
	"time"
)

// ParseTime parses an HL7 TS value into a time.Time. Accepted precisions are
// YYYY, YYYYMM, YYYYMMDD, YYYYMMDDHHmm and YYYYMMDDHHmmss, each optionally
// followed by a ±zzzz UTC offset. Fractional seconds are ignored.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("cda: empty timestamp")
	}

	body, zone := SplitTimeZone(s)
	if i := strings.IndexByte(body, '.'); i >= 0 {
		body = body[:i]
	}

	var layout string
	switch len(body) {
	case 4:
		layout = "2006"
	case 6:
		layout = "200601"
	case 8:
		layout = "20060102"
	case 12:
		layout = "200601021504"
	case 14:
		layout = "20060102150405"
	default:
		if len(body) > 14 {
			body = body[:14]
			layout = "20060102150405"
		} else {
			return time.Time{}, fmt.Errorf("cda: unrecognized time format: %s", s)
		}
	}

	if zone != "" && len(body) > 8 {
		return time.Parse(layout+"-0700", body+zone)
	}
	return time.Parse(layout, body)
}

// SplitTimeZone separates an HL7 timestamp into its datetime body and
// optional ±zzzz offset suffix. The body never contains '+' or '-'.
func SplitTimeZone(s string) (string, string) {
	for i := 0; i < len(s); i++ {
		if s[i] == '+' || s[i] == '-' {
			return s[:i], s[i:]
		}
	}
	return s, ""
}
