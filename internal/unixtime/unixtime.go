// Package unixtime converts between civil UTC date-times and Unix timestamps.
//
// The conversion ignores leap seconds but respects leap years and assumes the
// proleptic Gregorian calendar. Unlike the standard library's time package it
// works on int64 years, so dates far outside the range of time.Time are still
// representable.
package unixtime

const (
	secondsPerMinute = 60
	secondsPerHour   = 60 * secondsPerMinute
	secondsPerDay    = 24 * secondsPerHour

	daysPerYear     = 365
	daysPerLeapYear = 366
	daysPer400Years = 365*400 + 97

	// An era of 40000 years is exactly 100 leap cycles of 400 years.
	yearsPerEra   = 40000
	secondsPerEra = 100 * daysPer400Years * secondsPerDay
)

// daysBeforeMonth holds the number of days in a common year before the first day of each month.
var daysBeforeMonth = [12]int64{0, 31, 59, 90, 120, 151, 181, 212, 243, 273, 304, 334}

// IsLeap reports whether year is a leap year in the proleptic Gregorian calendar.
func IsLeap(year int64) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// FromDateTime converts a normalized date and time to a Unix timestamp, i.e. the number
// of seconds since 1970-01-01 00:00:00 UTC. Month must be within [1, 12]; the other
// fields are added linearly and may therefore be out of range.
func FromDateTime(year, month, day, hour, minute, second int64) int64 {
	return yearSeconds(year) +
		monthSeconds(month, year) +
		(day-1)*secondsPerDay +
		hour*secondsPerHour +
		minute*secondsPerMinute +
		second
}

// yearSeconds returns the number of seconds between 1970-01-01 and the first day of year.
// Whole eras are skipped before the remaining years are accumulated one by one.
func yearSeconds(year int64) int64 {
	var res int64
	if eras := (year - 1970) / yearsPerEra; eras != 0 {
		year -= eras * yearsPerEra
		res += eras * secondsPerEra
	}

	if year >= 1970 {
		for y := year - 1; y >= 1970; y-- {
			res += daysIn(y) * secondsPerDay
		}
	} else {
		for y := int64(1969); y >= year; y-- {
			res -= daysIn(y) * secondsPerDay
		}
	}
	return res
}

func monthSeconds(month, year int64) int64 {
	d := daysBeforeMonth[month-1]
	if month > 2 && IsLeap(year) {
		d++ // +leap day
	}
	return d * secondsPerDay
}

func daysIn(year int64) int64 {
	if IsLeap(year) {
		return daysPerLeapYear
	}
	return daysPerYear
}

// DateTime is the UTC breakdown of a Unix timestamp.
type DateTime struct {
	Year    int64
	Month   int // 1-12
	Day     int // 1-31
	Hour    int
	Minute  int
	Second  int
	Weekday int // 0=Sunday, ..., 6=Saturday
	YearDay int // 0-based day of the year
}

// ToDateTime breaks a Unix timestamp down into its UTC calendar fields.
func ToDateTime(unix int64) DateTime {
	days := floorDiv(unix, secondsPerDay)
	secs := unix - days*secondsPerDay

	y, m, d := civilFromDays(days)
	return DateTime{
		Year:    y,
		Month:   int(m),
		Day:     int(d),
		Hour:    int(secs / secondsPerHour),
		Minute:  int(secs % secondsPerHour / secondsPerMinute),
		Second:  int(secs % secondsPerMinute),
		Weekday: int(floorMod(days+4, 7)), // 1970-01-01 was a Thursday
		YearDay: int(days - DaysFromCivil(y, 1, 1)),
	}
}

// DaysFromCivil returns the number of days since 1970-01-01 for the given date.
func DaysFromCivil(year, month, day int64) int64 {
	if month <= 2 {
		year--
	}
	era := floorDiv(year, 400)
	yoe := year - era*400
	mp := (month + 9) % 12
	doy := (153*mp+2)/5 + day - 1
	doe := yoe*365 + yoe/4 - yoe/100 + doy
	return era*daysPer400Years + doe - 719468
}

// civilFromDays is the inverse of DaysFromCivil.
func civilFromDays(days int64) (year, month, day int64) {
	days += 719468
	era := floorDiv(days, daysPer400Years)
	doe := days - era*daysPer400Years
	yoe := (doe - doe/1460 + doe/36524 - doe/146096) / 365
	doy := doe - (365*yoe + yoe/4 - yoe/100)
	mp := (5*doy + 2) / 153
	day = doy - (153*mp+2)/5 + 1
	month = mp + 3
	if month > 12 {
		month -= 12
	}
	year = yoe + era*400
	if month <= 2 {
		year++
	}
	return year, month, day
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int64) int64 {
	return a - floorDiv(a, b)*b
}
