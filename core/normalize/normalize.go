// Package normalize turns the free-form fields of the four source streams
// into canonical typed records. All parsing is best-effort: a malformed
// field degrades to "missing" and never rejects its record.
package normalize

import (
	"strconv"
	"strings"
	"time"
	"unicode"
)

// dateLayouts are tried in order. ISO forms win over the day-first locale
// forms so that "2023-06-01" is never read as June 1st of year 23.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006 15:04:05",
	"02/01/2006",
	"02-01-2006",
	"02/01/06",
}

// ParseDate parses s against the accepted layouts and returns the date
// truncated to midnight UTC. ok is false when no layout matches.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Day(t), true
		}
	}
	return time.Time{}, false
}

// Day truncates t to midnight UTC so day arithmetic is exact.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseNumber parses a numeric field that may carry currency symbols,
// spaces and either thousands-separator convention. When both ',' and '.'
// occur, whichever appears last is the decimal separator. A lone separator
// is read as a thousands mark when it groups exactly three trailing digits
// ("61.200", "1,000") and as the decimal point otherwise. ok is false for
// non-numeric input.
func ParseNumber(s string) (float64, bool) {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) || r == ',' || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	s = b.String()
	if s == "" || s == "-" {
		return 0, false
	}
	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")
	switch {
	case lastComma >= 0 && lastDot >= 0 && lastComma > lastDot:
		whole := strings.NewReplacer(",", "", ".", "").Replace(s[:lastComma])
		s = whole + "." + s[lastComma+1:]
	case lastComma >= 0 && lastDot >= 0:
		whole := strings.NewReplacer(",", "", ".", "").Replace(s[:lastDot])
		s = whole + s[lastDot:]
	case lastComma >= 0:
		s = resolveLoneSeparator(s, ',')
	case lastDot >= 0:
		s = resolveLoneSeparator(s, '.')
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func resolveLoneSeparator(s string, sep byte) string {
	first := strings.IndexByte(s, sep)
	last := strings.LastIndexByte(s, sep)
	if first != last || len(s)-last-1 == 3 {
		return strings.ReplaceAll(s, string(sep), "")
	}
	if sep == ',' {
		return s[:last] + "." + s[last+1:]
	}
	return s
}

// ParseRequired is ParseNumber with a zero default for fields where the
// schema demands a value.
func ParseRequired(s string) float64 {
	v, ok := ParseNumber(s)
	if !ok {
		return 0
	}
	return v
}

// CanonicalPlate uppercases the plate and strips every non-alphanumeric
// rune. Two plates denote the same vehicle iff their canonical forms match.
func CanonicalPlate(s string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(s) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ParseModelYear extracts a four-digit model year from free text such as
// "2020", "2020/2021" or "2020.0". ok is false when the field does not
// start with four digits.
func ParseModelYear(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 4 {
		return 0, false
	}
	y, err := strconv.Atoi(s[:4])
	if err != nil || y <= 0 {
		return 0, false
	}
	return y, true
}

// DefaultExcludedStatuses lists the roster/intake status values that mark a
// vehicle as out of the active fleet.
var DefaultExcludedStatuses = []string{
	"VENDIDO", "SAIU DA FROTA", "BAIXADO", "BAIXA",
	"SOLD", "OUT OF FLEET", "WRITTEN OFF",
}

// StatusFilter decides whether a status value excludes its record from the
// active fleet. Matching is case-insensitive on the trimmed value.
type StatusFilter struct {
	excluded map[string]struct{}
}

// NewStatusFilter builds a filter from the given status values. A nil or
// empty list yields the default exclusion set.
func NewStatusFilter(statuses []string) StatusFilter {
	if len(statuses) == 0 {
		statuses = DefaultExcludedStatuses
	}
	m := make(map[string]struct{}, len(statuses))
	for _, s := range statuses {
		m[strings.ToUpper(strings.TrimSpace(s))] = struct{}{}
	}
	return StatusFilter{excluded: m}
}

// Excluded reports whether the status value removes the record from the
// active fleet.
func (f StatusFilter) Excluded(status string) bool {
	_, ok := f.excluded[strings.ToUpper(strings.TrimSpace(status))]
	return ok
}
