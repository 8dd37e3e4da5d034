// Package parsing coerces loosely formatted spreadsheet cells into typed values.
// None of the functions fail loudly: an unreadable cell yields ok == false and
// the caller stores NULL.
package parsing

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimestampLayout is the only accepted form of tiempo_inicial
const TimestampLayout = "2006-01-02 15:04:05"

var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
}

// TimeOfDay is a wall-clock time without a date
type TimeOfDay struct {
	Hour   int
	Minute int
}

// String renders the value in the form DuckDB casts to TIME
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:00", t.Hour, t.Minute)
}

func isNullToken(s string) bool {
	switch strings.ToLower(s) {
	case "", "nan", "none", "nat", "null":
		return true
	}
	return false
}

func clean(s string) string {
	s = strings.TrimSpace(s)
	return strings.TrimSuffix(s, ".0")
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// makeDate builds a date and rejects values time.Date would normalise (31/02 etc.)
func makeDate(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if d.Day() != day || int(d.Month()) != month {
		return time.Time{}, false
	}
	return d, true
}

// ParseDate recognises, in order: YYYY-MM-DD HH:MM:SS, YYYY-MM-DD, DD/MM/YYYY,
// DD-MM-YYYY and the compact numeric forms DDMMYY, DMMYY, MMYY and DMY.
// Two-digit years are read as 20YY.
func ParseDate(raw string) (time.Time, bool) {
	s := clean(raw)
	if isNullToken(s) {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}

	if !allDigits(s) {
		return time.Time{}, false
	}

	digit := func(from, to int) int {
		n, _ := strconv.Atoi(s[from:to])
		return n
	}

	switch len(s) {
	case 6: // DDMMYY
		return makeDate(2000+digit(4, 6), digit(2, 4), digit(0, 2))
	case 5: // DMMYY
		return makeDate(2000+digit(3, 5), digit(1, 3), digit(0, 1))
	case 4: // MMYY
		return makeDate(2000+digit(2, 4), digit(0, 2), 1)
	case 3: // DMY
		return makeDate(2000+digit(2, 3), digit(1, 2), digit(0, 1))
	}
	return time.Time{}, false
}

// ParseTime reads HHMM-style cells ("830", "0830.0", "1745") as well as
// HH:MM and HH:MM:SS.
func ParseTime(raw string) (TimeOfDay, bool) {
	s := clean(raw)
	if isNullToken(s) {
		return TimeOfDay{}, false
	}

	if strings.Contains(s, ":") {
		parts := strings.Split(s, ":")
		if len(parts) < 2 || len(parts) > 3 {
			return TimeOfDay{}, false
		}
		h, errH := strconv.Atoi(parts[0])
		m, errM := strconv.Atoi(parts[1])
		if errH != nil || errM != nil {
			return TimeOfDay{}, false
		}
		return validTime(h, m)
	}

	if i := strings.Index(s, "."); i >= 0 {
		s = s[:i]
	}
	if !allDigits(s) || len(s) > 4 {
		return TimeOfDay{}, false
	}
	s = strings.Repeat("0", 4-len(s)) + s

	h, _ := strconv.Atoi(s[:2])
	m, _ := strconv.Atoi(s[2:])
	return validTime(h, m)
}

func validTime(h, m int) (TimeOfDay, bool) {
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return TimeOfDay{}, false
	}
	return TimeOfDay{Hour: h, Minute: m}, true
}

// ParseInt strips thousands separators and a trailing ".0"
func ParseInt(raw string) (int64, bool) {
	s := strings.ReplaceAll(clean(raw), ",", "")
	if isNullToken(s) {
		return 0, false
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ParseTimestamp accepts only TimestampLayout
func ParseTimestamp(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if isNullToken(s) {
		return time.Time{}, false
	}
	t, err := time.Parse(TimestampLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ParseString trims a cell and maps null tokens to ok == false
func ParseString(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if isNullToken(s) {
		return "", false
	}
	return s, true
}

// FormatDate renders a date the way DuckDB casts to DATE
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}
