// Package datetime implements a civil date and time value in the style of PHP's
// DateTime: values are parsed with CreateFromFormat patterns such as
// "D, d M Y H:i:s O", rendered with Format and adjusted with SetDate and SetTime,
// whose out-of-range fields carry into the next larger unit.
//
// A value either follows the default time zone of its Environment or is pinned
// to a TimeZone. Values outside the 32-bit timestamp window keep their calendar
// fields and can still be formatted, but have no timestamp.
package datetime

import (
	"github.com/ngrash/go-datetime/internal/calendar"
	"github.com/ngrash/go-datetime/internal/unixtime"
)

// Layouts of common standards.
const (
	ATOM    = `Y-m-d\TH:i:sP`
	COOKIE  = `l, d-M-y H:i:s T`
	ISO8601 = `Y-m-d\TH:i:sO`
	RFC822  = `D, d M y H:i:s O`
	RFC850  = `l, d-M-y H:i:s T`
	RFC1036 = `D, d M y H:i:s O`
	RFC1123 = `D, d M Y H:i:s O`
	RFC2822 = `D, d M Y H:i:s O`
	RFC3339 = `Y-m-d\TH:i:sP`
	RSS     = `D, d M Y H:i:s O`
	W3C     = `Y-m-d\TH:i:sP`
)

// The window of instants that have a timestamp, 1901-12-13T20:45:45Z to 2038-01-19T03:14:07Z.
const (
	MinTimestamp = -2147483655
	MaxTimestamp = 2147483647
)

// DateTime is a date and time in a time zone.
type DateTime struct {
	env  *Environment
	unix int64

	// tz is the pinned time zone. A nil tz follows the environment's default.
	tz *TimeZone

	// wall is the civil date and time the value was last built from, used in
	// place of the instant when the instant is out of range.
	wall calendar.Fields
	// weekday is the day name given in parsed input, if any.
	weekday string
}

func (d *DateTime) environment() *Environment {
	if d.env == nil {
		return Default
	}
	return d.env
}

func inRange(unix int64) bool {
	return unix >= MinTimestamp && unix <= MaxTimestamp
}

// zone returns the time zone the value is currently displayed in.
func (d *DateTime) zone() (*TimeZone, error) {
	if d.tz != nil {
		return d.tz, nil
	}
	return d.environment().defaultZone()
}

// Timezone returns the pinned time zone or, for values that follow the
// default time zone, the current default.
func (d *DateTime) Timezone() (*TimeZone, error) {
	return d.zone()
}

// SetTimezone pins the value to tz. The instant is unchanged. A nil tz makes
// the value follow the default time zone again.
func (d *DateTime) SetTimezone(tz *TimeZone) *DateTime {
	d.tz = tz
	if tz != nil && inRange(d.unix) {
		d.wall = localFields(tz, d.unix)
	}
	return d
}

// Timestamp returns the Unix time of the value, or ErrUnavailable if it is
// outside the timestamp window.
func (d *DateTime) Timestamp() (int64, error) {
	if !inRange(d.unix) {
		return 0, ErrUnavailable
	}
	return d.unix, nil
}

// SetTimestamp sets the instant and pins the value to its current time zone.
func (d *DateTime) SetTimestamp(unix int64) (*DateTime, error) {
	z, err := d.zone()
	if err != nil {
		return nil, err
	}
	d.unix = unix
	d.tz = z
	d.wall = localFields(z, unix)
	d.weekday = ""
	return d, nil
}

// SetDate sets year, month and day of the value in its time zone. It takes
// exactly three arguments; out-of-range values carry over, so
// SetDate(Int(2009), Int(13), Int(1)) is January 1st, 2010.
//
// On a wrong number or kind of arguments the value is unchanged, a warning is
// logged and a *ParameterCountError or *TypeMismatchError is returned.
func (d *DateTime) SetDate(args ...NumericInput) (*DateTime, error) {
	env := d.environment()
	if len(args) != 3 {
		err := &ParameterCountError{Method: "SetDate", Want: "exactly 3", Got: len(args)}
		env.warn("SetDate", err)
		return nil, err
	}
	n, err := numericArgs("SetDate", args)
	if err != nil {
		env.warn("SetDate", err)
		return nil, err
	}
	return d.update(func(f *calendar.Fields) {
		f.Year, f.Month, f.Day = n[0], n[1], n[2]
	})
}

// SetTime sets hour, minute and optionally second of the value in its time
// zone. The second defaults to zero. Out-of-range values carry over, so
// SetTime(Int(24), Int(10)) is ten past midnight of the next day.
//
// Argument errors are handled as in SetDate.
func (d *DateTime) SetTime(args ...NumericInput) (*DateTime, error) {
	env := d.environment()
	var err error
	switch {
	case len(args) < 2:
		err = &ParameterCountError{Method: "SetTime", Want: "at least 2", Got: len(args)}
	case len(args) > 3:
		err = &ParameterCountError{Method: "SetTime", Want: "at most 3", Got: len(args)}
	}
	if err != nil {
		env.warn("SetTime", err)
		return nil, err
	}
	n, err := numericArgs("SetTime", args)
	if err != nil {
		env.warn("SetTime", err)
		return nil, err
	}
	if len(n) == 2 {
		n = append(n, 0)
	}
	return d.update(func(f *calendar.Fields) {
		f.Hour, f.Minute, f.Second = n[0], n[1], n[2]
	})
}

// update applies fn to the civil fields of the value in its time zone,
// normalizes them and pins the value to that zone.
func (d *DateTime) update(fn func(*calendar.Fields)) (*DateTime, error) {
	z, err := d.zone()
	if err != nil {
		return nil, err
	}
	f := d.wall
	if inRange(d.unix) {
		f = localFields(z, d.unix)
	}
	fn(&f)
	calendar.Normalize(&f)

	d.unix = localToUnix(z, f)
	d.tz = z
	d.wall = f
	d.weekday = ""
	return d, nil
}

// localFields breaks unix down into civil fields in z.
func localFields(z *TimeZone, unix int64) calendar.Fields {
	off, _ := z.OffsetAt(unix)
	t := unixtime.ToDateTime(unix + int64(off.Seconds))
	return calendar.Fields{
		Year:   t.Year,
		Month:  int64(t.Month),
		Day:    int64(t.Day),
		Hour:   int64(t.Hour),
		Minute: int64(t.Minute),
		Second: int64(t.Second),
	}
}

// localToUnix returns the instant at which the wall clock in z shows f.
// Ambiguous wall clock times resolve to the earlier instant, times skipped by a
// forward transition are read with the offset in effect before it.
func localToUnix(z *TimeZone, f calendar.Fields) int64 {
	local := f.Unix()
	offsetAt := func(unix int64) int64 {
		off, _ := z.OffsetAt(unix)
		return int64(off.Seconds)
	}
	before := offsetAt(local - 86400)
	if u := local - before; offsetAt(u) == before {
		return u
	}
	after := offsetAt(local + 86400)
	if u := local - after; offsetAt(u) == after {
		return u
	}
	return local - before
}
