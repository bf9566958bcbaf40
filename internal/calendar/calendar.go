// Package calendar implements proleptic Gregorian calendar arithmetic on int64 fields:
// carrying out-of-range fields into adjacent units, leap years, weekdays and ISO weeks.
package calendar

import "github.com/ngrash/go-datetime/internal/unixtime"

const (
	daysPer400Years  = 146097
	yearsPer400Years = 400
)

// Fields is a possibly out-of-range civil date and time.
type Fields struct {
	Year   int64
	Month  int64
	Day    int64
	Hour   int64
	Minute int64
	Second int64
}

// Unix returns the Unix timestamp of the fields, interpreted as UTC.
// The fields are normalized first.
func (f Fields) Unix() int64 {
	Normalize(&f)
	return unixtime.FromDateTime(f.Year, f.Month, f.Day, f.Hour, f.Minute, f.Second)
}

// Normalize carries overflowing and underflowing fields into the next higher unit until
// 1 <= Month <= 12, 0 <= Minute, Second < 60, 0 <= Hour < 24 and Day is within the
// bounds of Month in Year. Normalizing already normalized fields is a no-op.
func Normalize(f *Fields) {
	normalize(f)
}

// normalize returns the number of day carry iterations it took.
func normalize(f *Fields) int {
	for RangeLimit(0, 60, 60, &f.Second, &f.Minute) {
	}
	for RangeLimit(0, 60, 60, &f.Minute, &f.Hour) {
	}
	for RangeLimit(0, 24, 24, &f.Hour, &f.Day) {
	}
	for RangeLimit(1, 13, 12, &f.Month, &f.Year) {
	}

	var n int
	for rangeLimitDays(&f.Year, &f.Month, &f.Day) {
		n++
	}

	for RangeLimit(1, 13, 12, &f.Month, &f.Year) {
	}
	return n
}

// RangeLimit keeps a within [start, end) by carrying whole multiples of adj into b.
// It reports whether a was changed.
func RangeLimit(start, end, adj int64, a, b *int64) bool {
	changed := false
	if *a < start {
		abs := -*a
		*b -= abs/adj + 1
		*a = adj - abs%adj
		changed = true
	}
	if *a >= end {
		*b += *a / adj
		*a %= adj
		changed = true
	}
	return changed
}

// rangeLimitDays moves day into the bounds of month by one step: whole 400-year cycles,
// whole years or a single month. It reports whether another step may be required.
func rangeLimitDays(y, m, d *int64) bool {
	if *d >= daysPer400Years || *d <= -daysPer400Years {
		cycles := *d / daysPer400Years
		*y += yearsPer400Years * cycles
		*d -= daysPer400Years * cycles
	}

	RangeLimit(1, 13, 12, m, y)

	// Skip whole years while the day is far outside the month.
	if *d > 366 {
		if n := daysInYearFrom(*y, *m); *d > n {
			*d -= n
			*y++
			return true
		}
	}
	if *d < -366 {
		*y--
		*d += daysInYearFrom(*y, *m)
		return true
	}

	daysThisMonth := int64(DaysInMonth(*m, *y))
	lastMonth, lastYear := *m-1, *y
	if lastMonth < 1 {
		lastMonth += 12
		lastYear--
	}
	daysLastMonth := int64(DaysInMonth(lastMonth, lastYear))

	if *d <= 0 {
		*d += daysLastMonth
		*m--
		return true
	}
	if *d > daysThisMonth {
		*d -= daysThisMonth
		*m++
		return true
	}
	return false
}

// daysInYearFrom returns the number of days between the first day of month in year
// and the first day of month in the following year.
func daysInYearFrom(year, month int64) int64 {
	if (month <= 2 && IsLeapYear(year)) || (month > 2 && IsLeapYear(year+1)) {
		return 366
	}
	return 365
}

// IsLeapYear determines if the year is a leap year.
func IsLeapYear(year int64) bool {
	return unixtime.IsLeap(year)
}

// DaysInMonth returns the number of days in a given month for a specific year.
func DaysInMonth(month, year int64) int {
	if month == 2 {
		if IsLeapYear(year) {
			return 29
		}
		return 28
	}
	if month == 4 || month == 6 || month == 9 || month == 11 {
		return 30
	}
	return 31
}

// DayOfWeek returns the day of the week for a given date, where 0=Sunday, 1=Monday, ..., 6=Saturday.
func DayOfWeek(year, month, day int64) int {
	days := unixtime.DaysFromCivil(year, month, day)
	w := (days + 4) % 7 // 1970-01-01 was a Thursday
	if w < 0 {
		w += 7
	}
	return int(w)
}

// DayOfYear returns the 0-based day of the year.
func DayOfYear(year, month, day int64) int {
	return int(unixtime.DaysFromCivil(year, month, day) - unixtime.DaysFromCivil(year, 1, 1))
}

// ISOWeek returns the ISO 8601 year and week number of the given date.
func ISOWeek(year, month, day int64) (int64, int) {
	wd := DayOfWeek(year, month, day)
	if wd == 0 {
		wd = 7
	}
	week := (DayOfYear(year, month, day) + 1 - wd + 10) / 7
	if week < 1 {
		return year - 1, isoWeeksIn(year - 1)
	}
	if week > isoWeeksIn(year) {
		return year + 1, 1
	}
	return year, week
}

// isoWeeksIn returns the number of ISO weeks in year, 52 or 53.
func isoWeeksIn(year int64) int {
	jan1 := DayOfWeek(year, 1, 1)
	if jan1 == 4 || (jan1 == 3 && IsLeapYear(year)) {
		return 53
	}
	return 52
}

// LastWeekdayOfMonth finds the day of the last instance of a given weekday in a specific month and year.
func LastWeekdayOfMonth(year, month int64, weekday int) int {
	lastDay := DaysInMonth(month, year)
	lastDayWeekday := DayOfWeek(year, month, int64(lastDay))

	// Calculate how many days to subtract from the last day to get the last instance of the given weekday.
	offset := (lastDayWeekday - weekday + 7) % 7
	return lastDay - offset
}

// NthWeekdayOfMonth finds the day of the n-th instance (1-5) of weekday in month.
// An n of 5 means the last instance, as in POSIX TZ rules.
func NthWeekdayOfMonth(year, month int64, n, weekday int) int {
	first := DayOfWeek(year, month, 1)
	day := 1 + (weekday-first+7)%7 + (n-1)*7
	if dim := DaysInMonth(month, year); day > dim {
		return LastWeekdayOfMonth(year, month, weekday)
	}
	return day
}
