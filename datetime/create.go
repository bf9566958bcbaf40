package datetime

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/cockroachdb/errors"

	"github.com/ngrash/go-datetime/internal/calendar"
)

// CreateFromFormat parses value according to layout. Fields missing from the
// layout are taken from the current UTC time unless the layout resets them
// with '!' or '|'. A zone parsed from value takes precedence over tz; without
// either, the value follows the default time zone.
//
// The diagnostics returned by LastErrors are reset on every call. On failure
// the error, a *ParseError, is recorded there and logged as a warning.
func (e *Environment) CreateFromFormat(layout, value string, tz *TimeZone) (*DateTime, error) {
	e.resetDiagnostics()
	d, err := e.createFromFormat(layout, value, tz)
	if err != nil {
		e.recordError(err)
		attrs := []any{slog.String("op", "CreateFromFormat"), slog.String("layout", layout)}
		var perr *ParseError
		if errors.As(err, &perr) {
			attrs = append(attrs, slog.Int("pos", perr.Pos))
		}
		e.logger().Warn(err.Error(), attrs...)
		return nil, err
	}
	return d, nil
}

// CreateFromFormat parses value in the Default environment.
func CreateFromFormat(layout, value string, tz *TimeZone) (*DateTime, error) {
	return Default.CreateFromFormat(layout, value, tz)
}

func (e *Environment) createFromFormat(layout, value string, tz *TimeZone) (*DateTime, error) {
	rec, perr := parseFormat(layout, value, int64(e.now().UTC().Year()), e.directory())
	if perr != nil {
		return nil, perr
	}
	return e.fromRecord(rec, tz)
}

// fromRecord builds a value from a parsed record.
func (e *Environment) fromRecord(rec TimeRecord, tz *TimeZone) (*DateTime, error) {
	now := e.now().UTC()
	rec.fillFrom(calendar.Fields{
		Year:   int64(now.Year()),
		Month:  int64(now.Month()),
		Day:    int64(now.Day()),
		Hour:   int64(now.Hour()),
		Minute: int64(now.Minute()),
		Second: int64(now.Second()),
	})
	f := rec.fields()
	calendar.Normalize(&f)

	pinned := tz
	if rec.TZIdentifier != "" {
		if rec.TZIdentifier == "GMT" && rec.TZOffset.Value != 0 {
			pinned = fixedZone(e.directory(), int(rec.TZOffset.Value))
		} else {
			z, err := e.NewTimeZone(rec.TZIdentifier)
			if err != nil {
				return nil, err
			}
			pinned = z
		}
	}

	var unix int64
	if rec.TZOffset.Set || rec.ZoneType == ZoneTypeOffset {
		if rec.ZoneType == ZoneTypeOffset && rec.HaveRelative {
			unix += rec.Relative.Second
			if rec.Relative.HaveWeekday {
				unix += rec.Relative.Weekday * 86400
			}
		}
		unix += f.Unix() - rec.TZOffset.Value
	} else {
		z := pinned
		if z == nil {
			var err error
			if z, err = e.defaultZone(); err != nil {
				return nil, err
			}
		}
		unix = localToUnix(z, f)
	}

	d := &DateTime{env: e, unix: unix, tz: pinned, wall: f}
	if rec.ZoneType == ZoneTypeOffset && rec.HaveRelative {
		// The relative shift moved the instant away from the parsed fields.
		z := pinned
		if z == nil {
			z = fixedZone(e.directory(), 0)
		}
		d.wall = localFields(z, unix)
	}
	if rec.HaveRelative && rec.Relative.HaveWeekday {
		d.weekday = rec.Relative.WeekdayText
	}
	return d, nil
}

// Layouts New tries before handing text to the free-form parser. They capture
// time zone hints the free-form parser would lose.
var constructorLayouts = []string{
	ATOM,
	COOKIE,
	ISO8601,
	RFC822,
	RFC1123,
	"Y-m-d H:i:s",
	"Y-m-d H:i:s T",
	"Y-m-d H:i:s e",
	"Y-m-d H:i:sP",
	"Y-m-d H:i",
	"Y-m-d|",
}

var (
	// Bare numbers are not dates, except for a compact yyyymmdd.
	numberText  = regexp.MustCompile(`^[+-]?(?:\d+|\d*\.\d+)$`)
	compactDate = regexp.MustCompile(`^\d{8}$`)
	// A decimal number reads as hour.minute of today.
	decimalTime = regexp.MustCompile(`^(\d{0,2})\.(\d{1,2})$`)
)

// floating marks times parsed without a zone.
var floating = time.FixedZone("", 1)

// New creates a value from free-form text:
//
//   - "" or "now" is the current time,
//   - "@<unix>" is a Unix timestamp in GMT,
//   - a time zone name alone is the current time in that zone,
//   - the standard layouts and "Y-m-d H:i:s" with an optional zone suffix are
//     parsed like CreateFromFormat,
//   - anything else is handed to github.com/araddon/dateparse.
//
// Text without a zone is read in tz, or in the default time zone if tz is nil.
// The value is pinned to the zone found in text, else to tz.
func (e *Environment) New(text string, tz *TimeZone) (*DateTime, error) {
	text = strings.TrimSpace(text)
	if text == "" || strings.EqualFold(text, "now") {
		return e.fromInstant(e.now().Unix(), tz), nil
	}

	if rest, ok := strings.CutPrefix(text, "@"); ok {
		unix, err := strconv.ParseInt(rest, 10, 64)
		if err != nil {
			return nil, failedToParse(text)
		}
		gmt, err := e.NewTimeZone("GMT")
		if err != nil {
			return nil, err
		}
		return e.fromInstant(unix, gmt), nil
	}

	if z, err := e.NewTimeZone(text); err == nil {
		return e.fromInstant(e.now().Unix(), z), nil
	}

	for _, l := range constructorLayouts {
		if rec, perr := parseFormat(l, text, int64(e.now().UTC().Year()), e.directory()); perr == nil {
			return e.fromRecord(rec, tz)
		}
	}

	if m := decimalTime.FindStringSubmatch(text); m != nil {
		hour, _ := strconv.ParseInt("0"+m[1], 10, 64)
		minute, _ := strconv.ParseInt(m[2], 10, 64)
		if hour <= 24 && minute < 60 {
			return e.atWallClock(tz, func(f *calendar.Fields) {
				f.Hour, f.Minute, f.Second = hour, minute, 0
			})
		}
		return nil, failedToParse(text)
	}
	if numberText.MatchString(text) && !compactDate.MatchString(text) {
		return nil, failedToParse(text)
	}
	if !strings.ContainsAny(text, "0123456789") {
		return nil, failedToParse(text)
	}

	t, err := dateparse.ParseIn(text, floating)
	if err != nil {
		return nil, errors.WithSecondaryError(failedToParse(text), err)
	}
	if t.Location() == floating {
		f := calendar.Fields{
			Year:   int64(t.Year()),
			Month:  int64(t.Month()),
			Day:    int64(t.Day()),
			Hour:   int64(t.Hour()),
			Minute: int64(t.Minute()),
			Second: int64(t.Second()),
		}
		z := tz
		if z == nil {
			if z, err = e.defaultZone(); err != nil {
				return nil, err
			}
		}
		return &DateTime{env: e, unix: localToUnix(z, f), tz: tz, wall: f}, nil
	}

	name, offset := t.Zone()
	z, err := e.NewTimeZone(name)
	if err != nil || name == "" {
		z = fixedZone(e.directory(), offset)
	}
	return e.fromInstant(t.Unix(), z), nil
}

// New creates a value from free-form text in the Default environment.
func New(text string, tz *TimeZone) (*DateTime, error) { return Default.New(text, tz) }

// NewFromValue is New for loosely typed input: nil, booleans and numbers are
// converted to text first; other values fail with a *TypeMismatchError.
func (e *Environment) NewFromValue(v any, tz *TimeZone) (*DateTime, error) {
	text, ok := scalarString(v)
	if !ok {
		return nil, &TypeMismatchError{Method: "New", Param: 1, Want: "string", Got: typeName(v)}
	}
	return e.New(text, tz)
}

// NewFromValue creates a value from loosely typed input in the Default environment.
func NewFromValue(v any, tz *TimeZone) (*DateTime, error) { return Default.NewFromValue(v, tz) }

func failedToParse(text string) *ParseError {
	return &ParseError{Reason: "failed to parse string " + strconv.Quote(text), bare: true}
}

// fromInstant creates a value at unix, pinned to tz unless tz is nil.
func (e *Environment) fromInstant(unix int64, tz *TimeZone) *DateTime {
	d := &DateTime{env: e, unix: unix, tz: tz}
	z := tz
	if z == nil {
		var err error
		if z, err = e.defaultZone(); err != nil {
			z = fixedZone(e.directory(), 0)
		}
	}
	d.wall = localFields(z, unix)
	return d
}

// atWallClock creates a value at today's date in tz (or the default zone) with
// the fields changed by fn.
func (e *Environment) atWallClock(tz *TimeZone, fn func(*calendar.Fields)) (*DateTime, error) {
	z := tz
	if z == nil {
		var err error
		if z, err = e.defaultZone(); err != nil {
			return nil, err
		}
	}
	f := localFields(z, e.now().Unix())
	fn(&f)
	calendar.Normalize(&f)
	return &DateTime{env: e, unix: localToUnix(z, f), tz: tz, wall: f}, nil
}
