package datetime

import "github.com/ngrash/go-datetime/internal/calendar"

// ZoneType tells how time zone information was given in parsed input.
type ZoneType int

const (
	ZoneTypeID ZoneType = iota
	ZoneTypeOffset
	ZoneTypeAbbr
)

func (t ZoneType) String() string {
	switch t {
	case ZoneTypeID:
		return "ID"
	case ZoneTypeOffset:
		return "OFFSET"
	case ZoneTypeAbbr:
		return "ABBR"
	}
	return "unknown"
}

// Field is an optional integer field of a TimeRecord.
type Field struct {
	Value int64
	Set   bool
}

func set(v int64) Field { return Field{Value: v, Set: true} }

// Relative is an adjustment recorded while parsing.
type Relative struct {
	HaveWeekday bool
	// Weekday is the number of days from Thursday: Thu=0, Fri=1, Sat=2, Sun=3, Mon=4, Tue=5, Wed=6.
	Weekday     int64
	WeekdayText string

	Year, Month, Day     int64
	Hour, Minute, Second int64
}

// DST states of a TimeRecord.
const (
	DSTUnknown = -1
	DSTOff     = 0
	DSTOn      = 1
)

// TimeRecord is a date and time with independently optional fields, as
// produced by CreateFromFormat.
type TimeRecord struct {
	Year, Month, Day     Field
	Hour, Minute, Second Field

	IsDST int

	ZoneType     ZoneType
	TZIdentifier string
	TZOffset     Field

	HaveRelative bool
	Relative     Relative
}

func newTimeRecord() TimeRecord {
	return TimeRecord{IsDST: DSTUnknown}
}

// resetFields sets every date and time field to the Unix epoch in GMT.
func (r *TimeRecord) resetFields() {
	r.Year, r.Month, r.Day = set(1970), set(1), set(1)
	r.Hour, r.Minute, r.Second = set(0), set(0), set(0)
	r.TZIdentifier = "GMT"
	r.IsDST = DSTOff
}

// resetUnsetFields sets the fields that are still unset to the Unix epoch.
func (r *TimeRecord) resetUnsetFields() {
	defaults := []struct {
		f *Field
		v int64
	}{
		{&r.Year, 1970}, {&r.Month, 1}, {&r.Day, 1},
		{&r.Hour, 0}, {&r.Minute, 0}, {&r.Second, 0},
	}
	for _, d := range defaults {
		if !d.f.Set {
			*d.f = set(d.v)
		}
	}
}

// fillFrom sets unset fields from f.
func (r *TimeRecord) fillFrom(f calendar.Fields) {
	defaults := []struct {
		f *Field
		v int64
	}{
		{&r.Year, f.Year}, {&r.Month, f.Month}, {&r.Day, f.Day},
		{&r.Hour, f.Hour}, {&r.Minute, f.Minute}, {&r.Second, f.Second},
	}
	for _, d := range defaults {
		if !d.f.Set {
			*d.f = set(d.v)
		}
	}
}

// fields returns the date and time fields, unset ones as zero.
func (r *TimeRecord) fields() calendar.Fields {
	return calendar.Fields{
		Year:   r.Year.Value,
		Month:  r.Month.Value,
		Day:    r.Day.Value,
		Hour:   r.Hour.Value,
		Minute: r.Minute.Value,
		Second: r.Second.Value,
	}
}

func (r *TimeRecord) setFields(f calendar.Fields) {
	r.Year, r.Month, r.Day = set(f.Year), set(f.Month), set(f.Day)
	r.Hour, r.Minute, r.Second = set(f.Hour), set(f.Minute), set(f.Second)
}

// normalizeDate carries day overflow into month and year. An unset year is
// taken as provisional and only set when the carry changes it.
func (r *TimeRecord) normalizeDate(provisional int64) {
	f := calendar.Fields{Year: provisional, Month: r.Month.Value, Day: r.Day.Value}
	if r.Year.Set {
		f.Year = r.Year.Value
	}
	calendar.Normalize(&f)
	if r.Year.Set || f.Year != provisional {
		r.Year = set(f.Year)
	}
	r.Month, r.Day = set(f.Month), set(f.Day)
}
