// Package layout renders date and time values through PHP-style date patterns,
// where every letter of the pattern is a token, e.g. "D, d M Y H:i:s O".
package layout

import (
	"strconv"
	"strings"

	"github.com/ngrash/go-datetime/internal/calendar"
)

// Moment is a point in time broken down in a time zone.
type Moment struct {
	Unix int64

	// Civil date and time in the zone.
	Year    int64
	Month   int
	Day     int
	Hour    int
	Minute  int
	Second  int
	Weekday int // 0 is Sunday
	YearDay int // 0-based

	// Offset is the UTC offset in seconds.
	Offset       int
	DST          bool
	Abbreviation string
	Zone         string

	// ExplicitZone makes T render a GMT abbreviation followed by the numeric offset.
	ExplicitZone bool
}

var (
	dayNames = [...]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

	monthNames = [...]string{"January", "February", "March", "April", "May", "June", "July",
		"August", "September", "October", "November", "December"}
)

// DayName returns the English name of the weekday, 0 being Sunday.
func DayName(weekday int) string { return dayNames[weekday] }

// MonthName returns the English name of month 1-12.
func MonthName(month int) string { return monthNames[month-1] }

// Render formats m according to layout. Characters that are not tokens are copied,
// a backslash copies the following character.
func Render(layout string, m Moment) string {
	var b strings.Builder
	for i := 0; i < len(layout); i++ {
		c := layout[i]
		if c == '\\' {
			i++
			if i < len(layout) {
				b.WriteByte(layout[i])
			}
			continue
		}
		if !renderToken(&b, c, m) {
			b.WriteByte(c)
		}
	}
	return b.String()
}

func pad(b *strings.Builder, n int64, width int) {
	s := strconv.FormatInt(n, 10)
	for i := len(s); i < width; i++ {
		b.WriteByte('0')
	}
	b.WriteString(s)
}

// renderToken writes the value of token c and reports whether c is a token.
func renderToken(b *strings.Builder, c byte, m Moment) bool {
	switch c {
	// Day
	case 'd':
		pad(b, int64(m.Day), 2)
	case 'D':
		b.WriteString(dayNames[m.Weekday][:3])
	case 'j':
		pad(b, int64(m.Day), 1)
	case 'l':
		b.WriteString(dayNames[m.Weekday])
	case 'N':
		n := m.Weekday
		if n == 0 {
			n = 7
		}
		pad(b, int64(n), 1)
	case 'S':
		b.WriteString(ordinalSuffix(m.Day))
	case 'w':
		pad(b, int64(m.Weekday), 1)
	case 'z':
		pad(b, int64(m.YearDay), 1)

	// Week
	case 'W':
		_, week := calendar.ISOWeek(m.Year, int64(m.Month), int64(m.Day))
		pad(b, int64(week), 2)

	// Month
	case 'F':
		b.WriteString(monthNames[m.Month-1])
	case 'm':
		pad(b, int64(m.Month), 2)
	case 'M':
		b.WriteString(monthNames[m.Month-1][:3])
	case 'n':
		pad(b, int64(m.Month), 1)
	case 't':
		pad(b, int64(calendar.DaysInMonth(int64(m.Month), m.Year)), 1)

	// Year
	case 'L':
		if calendar.IsLeapYear(m.Year) {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	case 'o':
		year, _ := calendar.ISOWeek(m.Year, int64(m.Month), int64(m.Day))
		b.WriteString(strconv.FormatInt(year, 10))
	case 'Y':
		b.WriteString(FormatYear(m.Year))
	case 'y':
		y := m.Year % 100
		if y < 0 {
			y = -y
		}
		pad(b, y, 2)

	// Time
	case 'a':
		if m.Hour >= 12 {
			b.WriteString("pm")
		} else {
			b.WriteString("am")
		}
	case 'A':
		if m.Hour >= 12 {
			b.WriteString("PM")
		} else {
			b.WriteString("AM")
		}
	case 'B':
		pad(b, swatchBeat(m.Unix), 3)
	case 'g':
		pad(b, int64(hour12(m.Hour)), 1)
	case 'G':
		pad(b, int64(m.Hour), 1)
	case 'h':
		pad(b, int64(hour12(m.Hour)), 2)
	case 'H':
		pad(b, int64(m.Hour), 2)
	case 'i':
		pad(b, int64(m.Minute), 2)
	case 's':
		pad(b, int64(m.Second), 2)
	case 'u':
		b.WriteString("000000")
	case 'v':
		b.WriteString("000")

	// Time zone
	case 'e':
		b.WriteString(m.Zone)
	case 'I':
		if m.DST {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	case 'O':
		b.WriteString(FormatOffset(m.Offset, false))
	case 'P':
		b.WriteString(FormatOffset(m.Offset, true))
	case 'p':
		if m.Offset == 0 {
			b.WriteByte('Z')
		} else {
			b.WriteString(FormatOffset(m.Offset, true))
		}
	case 'T':
		b.WriteString(m.Abbreviation)
		if m.ExplicitZone && m.Abbreviation == "GMT" {
			b.WriteString(FormatOffset(m.Offset, false))
		}
	case 'Z':
		b.WriteString(strconv.Itoa(m.Offset))

	// Full date/time
	case 'c':
		b.WriteString(Render("Y-m-d\\TH:i:sP", m))
	case 'r':
		b.WriteString(Render("D, d M Y H:i:s O", m))
	case 'U':
		b.WriteString(strconv.FormatInt(m.Unix, 10))

	default:
		return false
	}
	return true
}

func hour12(h int) int {
	if h%12 == 0 {
		return 12
	}
	return h % 12
}

func ordinalSuffix(day int) string {
	if day >= 11 && day <= 13 {
		return "th"
	}
	switch day % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	}
	return "th"
}

// swatchBeat returns the Swatch Internet Time, thousandths of a day in UTC+1.
func swatchBeat(unix int64) int64 {
	beat := ((unix%86400 + 3600) * 10) % 864000
	if beat < 0 {
		beat += 864000
	}
	return beat / 864
}

// FormatYear renders a year with at least four digits and a sign for negative years.
func FormatYear(year int64) string {
	var b strings.Builder
	if year < 0 {
		b.WriteByte('-')
		year = -year
	}
	pad(&b, year, 4)
	return b.String()
}

// FormatOffset renders a UTC offset as +hhmm, or +hh:mm when colon is set.
func FormatOffset(offset int, colon bool) string {
	var b strings.Builder
	if offset < 0 {
		b.WriteByte('-')
		offset = -offset
	} else {
		b.WriteByte('+')
	}
	pad(&b, int64(offset/3600), 2)
	if colon {
		b.WriteByte(':')
	}
	pad(&b, int64(offset%3600/60), 2)
	return b.String()
}

// Escape prefixes every character of s with a backslash so that Render copies it verbatim.
func Escape(s string) string {
	var b strings.Builder
	for _, r := range s {
		b.WriteByte('\\')
		b.WriteRune(r)
	}
	return b.String()
}

// SubstituteToken replaces every unescaped occurrence of token in layout with
// replacement. A token preceded by an odd number of backslashes is a literal.
func SubstituteToken(layout string, token byte, replacement string) string {
	var b strings.Builder
	for i := 0; i < len(layout); i++ {
		c := layout[i]
		switch {
		case c == '\\':
			b.WriteByte(c)
			if i+1 < len(layout) {
				i++
				b.WriteByte(layout[i])
			}
		case c == token:
			b.WriteString(replacement)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
