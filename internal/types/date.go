package types

import "time"

// DateOnly truncates a timestamp to its UTC calendar date. All due-date
// comparisons are whole-day comparisons; intraday time never shifts an
// installment between buckets.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the whole-day difference to - from on UTC calendar
// dates. Negative when to precedes from.
func DaysBetween(from, to time.Time) int {
	return int(DateOnly(to).Sub(DateOnly(from)).Hours() / 24)
}

// MonthKey formats the UTC calendar month of a date as YYYY-MM. Lexical
// ordering of keys equals chronological ordering.
func MonthKey(t time.Time) string {
	return t.UTC().Format("2006-01")
}
