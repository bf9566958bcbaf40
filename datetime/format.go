package datetime

import (
	"github.com/cockroachdb/errors"

	"github.com/ngrash/go-datetime/internal/calendar"
	"github.com/ngrash/go-datetime/internal/layout"
	"github.com/ngrash/go-datetime/internal/unixtime"
)

// Format renders the value according to a layout of the following tokens.
// Any other character is copied, and a backslash copies the character after it.
//
//	d  day of the month, 2 digits        D  day name, 3 letters
//	j  day of the month                  l  day name
//	N  ISO-8601 weekday, 1 (Mon) to 7    S  ordinal suffix of the day (st, nd, rd, th)
//	w  weekday, 0 (Sun) to 6             z  day of the year, from 0
//	W  ISO-8601 week number              F  month name
//	m  month, 2 digits                   M  month name, 3 letters
//	n  month                             t  days in the month
//	L  1 in leap years, else 0           o  ISO-8601 week-numbering year
//	Y  year, at least 4 digits           y  year, 2 digits
//	a  am or pm                          A  AM or PM
//	B  Swatch Internet time              g  hour, 12-hour clock
//	G  hour                              h  hour, 12-hour clock, 2 digits
//	H  hour, 2 digits                    i  minute, 2 digits
//	s  second, 2 digits                  u  microseconds, always 000000
//	v  milliseconds, always 000          e  time zone name
//	I  1 during DST, else 0              O  UTC offset as +0200
//	P  UTC offset as +02:00              p  like P, but Z for UTC
//	T  zone abbreviation                 Z  UTC offset in seconds
//	c  ISO-8601 date                     r  RFC 2822 date
//	U  Unix time
//
// A T that renders GMT on a value pinned to a time zone is followed by the
// numeric offset, as in "GMT+0000".
func (d *DateTime) Format(l string) (string, error) {
	z, err := d.zone()
	if err != nil {
		return "", err
	}
	if !inRange(d.unix) {
		return d.formatOutOfRange(z, l)
	}

	// moment takes the zone explicitly; the default only mirrors it while rendering.
	var out string
	err = d.environment().withDefaultTimezone(z.Name(), func() error {
		m, err := d.moment(z, d.unix)
		if err != nil {
			return err
		}
		out = layout.Render(l, m)
		return nil
	})
	return out, err
}

// moment breaks unix down in z.
func (d *DateTime) moment(z *TimeZone, unix int64) (layout.Moment, error) {
	off, err := z.OffsetAt(unix)
	if err != nil {
		return layout.Moment{}, err
	}
	t := unixtime.ToDateTime(unix + int64(off.Seconds))
	return layout.Moment{
		Unix:         unix,
		Year:         t.Year,
		Month:        t.Month,
		Day:          t.Day,
		Hour:         t.Hour,
		Minute:       t.Minute,
		Second:       t.Second,
		Weekday:      t.Weekday,
		YearDay:      t.YearDay,
		Offset:       off.Seconds,
		DST:          off.DST,
		Abbreviation: off.Abbreviation,
		Zone:         z.Name(),
		ExplicitZone: d.tz != nil,
	}, nil
}

// formatOutOfRange renders a value without a timestamp. Year and day name come
// from the stored fields, every other token from the same time of day on the
// same date in 1970.
func (d *DateTime) formatOutOfRange(z *TimeZone, l string) (string, error) {
	l = layout.SubstituteToken(l, 'c', `Y-m-d\TH:i:sP`)
	l = layout.SubstituteToken(l, 'r', `D, d M Y H:i:s O`)

	year := layout.FormatYear(d.wall.Year)
	l = layout.SubstituteToken(l, 'Y', layout.Escape(year))
	l = layout.SubstituteToken(l, 'y', layout.Escape(year[len(year)-2:]))

	day := "Thursday"
	if d.weekday != "" {
		day = d.weekday
	}
	l = layout.SubstituteToken(l, 'l', layout.Escape(day))
	l = layout.SubstituteToken(l, 'D', layout.Escape(day[:3]))

	placeholder := calendar.Fields{
		Year:   1970,
		Month:  d.wall.Month,
		Day:    d.wall.Day,
		Hour:   d.wall.Hour,
		Minute: d.wall.Minute,
		Second: d.wall.Second,
	}
	m, err := d.moment(z, localToUnix(z, placeholder))
	if err != nil {
		return "", err
	}
	return layout.Render(l, m), nil
}

// FormatValue is Format for loosely typed layouts: nil, booleans, numbers and
// fmt.Stringer values are converted to text first. Other values are logged as
// a warning and fail with ErrInvalidArgument.
func (d *DateTime) FormatValue(v any) (string, error) {
	l, ok := scalarString(v)
	if !ok {
		err := errors.Wrapf(ErrInvalidArgument, "Format() expects parameter 1 to be string, %s given", typeName(v))
		d.environment().warn("Format", err)
		return "", err
	}
	return d.Format(l)
}
