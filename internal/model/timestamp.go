package model

import (
	"fmt"
	"strings"
	"time"
)

// Timestamps are stored as ISO-8601 strings in the document. Due dates
// may arrive from clients without a zone suffix, so comparisons are done
// on the naive wall-clock part: any zone suffix is stripped and the
// remainder is parsed as-is, making naive and zoned values directly
// comparable.

// FormatTime renders t as the UTC ISO-8601 string used everywhere in the
// document.
func FormatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.999999-07:00")
}

var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseNaive strips any timezone suffix from an ISO-8601 timestamp and
// parses the rest as a zone-less wall-clock time.
func ParseNaive(ts string) (time.Time, error) {
	s := strings.TrimSpace(ts)
	s = strings.TrimSuffix(s, "Z")
	// Cut a +hh:mm / -hh:mm offset, if present. Only look after the time
	// separator so date dashes are left alone.
	if i := strings.IndexAny(s, "T "); i >= 0 {
		rest := s[i+1:]
		if j := strings.LastIndexAny(rest, "+-"); j >= 0 {
			s = s[:i+1+j]
		}
	}
	s = strings.ReplaceAll(s, " ", "T")
	for _, layout := range naiveLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", ts)
}

// AfterNaive reports whether now is strictly after the given ISO-8601
// timestamp, comparing naive wall-clock values. Unparseable timestamps
// never count as passed, matching the reference behavior.
func AfterNaive(now time.Time, ts string) bool {
	t, err := ParseNaive(ts)
	if err != nil {
		return false
	}
	naive, err := ParseNaive(FormatTime(now))
	if err != nil {
		return false
	}
	return naive.After(t)
}
