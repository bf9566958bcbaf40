package datetime

import (
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/ngrash/go-datetime/internal/layout"
	"github.com/ngrash/go-datetime/tzdir"
)

// ZoneKind tells how a TimeZone was specified.
type ZoneKind int

const (
	// ZoneID is a zone identifier such as "Europe/London".
	ZoneID ZoneKind = iota + 1
	// ZoneOffset is a fixed UTC offset such as "+05:00".
	ZoneOffset
	// ZoneAbbr is an abbreviation such as "EST".
	ZoneAbbr
)

// TimeZone is a resolved time zone.
type TimeZone struct {
	dir  tzdir.Directory
	name string
	kind ZoneKind

	// Fixed offset and DST flag of ZoneOffset and ZoneAbbr zones.
	offset int
	dst    bool
}

// Name returns the name of the zone: the identifier, the offset as "+hh:mm"
// or the upper-case abbreviation.
func (z *TimeZone) Name() string { return z.name }

// Kind returns how the zone was specified.
func (z *TimeZone) Kind() ZoneKind { return z.kind }

func (z *TimeZone) String() string { return z.name }

// OffsetAt returns the UTC offset, DST flag and abbreviation of the zone at the given Unix time.
func (z *TimeZone) OffsetAt(unix int64) (tzdir.Offset, error) {
	switch z.kind {
	case ZoneOffset:
		return tzdir.Offset{Seconds: z.offset, Abbreviation: "GMT"}, nil
	case ZoneAbbr:
		return tzdir.Offset{Seconds: z.offset, DST: z.dst, Abbreviation: z.name}, nil
	}
	off, err := z.dir.OffsetAt(z.name, unix)
	// Daylight saving time known to the directory wins over an override.
	if o, ok := zoneOverride(z.name); ok && (err != nil || !off.DST) {
		return tzdir.Offset{Seconds: o.Offset, DST: o.DST, Abbreviation: o.Abbreviation}, nil
	}
	if err != nil {
		return tzdir.Offset{}, errors.Mark(&UnknownTimezoneError{Name: z.name}, tzdir.ErrUnknownZone)
	}
	return off, nil
}

var offsetName = regexp.MustCompile(`^(?i:GMT|UTC)?([+-])(\d{1,2})(?::?(\d{2}))?$`)

func fixedZone(dir tzdir.Directory, offset int) *TimeZone {
	return &TimeZone{dir: dir, name: layout.FormatOffset(offset, true), kind: ZoneOffset, offset: offset}
}

// NewTimeZone resolves name to a time zone. In order, it accepts fixed offsets
// like "+05:00", "-0330" or "GMT+2", zone identifiers and abbreviations.
func (e *Environment) NewTimeZone(name string) (*TimeZone, error) {
	dir := e.directory()
	if m := offsetName.FindStringSubmatch(name); m != nil {
		hours, _ := strconv.Atoi(m[2])
		minutes := 0
		if m[3] != "" {
			minutes, _ = strconv.Atoi(m[3])
		}
		if hours <= 14 && minutes < 60 {
			offset := hours*3600 + minutes*60
			if m[1] == "-" {
				offset = -offset
			}
			return fixedZone(dir, offset), nil
		}
	}
	if dir.HasIdentifier(name) {
		return &TimeZone{dir: dir, name: name, kind: ZoneID}, nil
	}
	if c, ok := dir.Abbreviation(name); ok {
		return &TimeZone{dir: dir, name: strings.ToUpper(name), kind: ZoneAbbr, offset: c.Offset, dst: c.DST}, nil
	}
	return nil, errors.Mark(&UnknownTimezoneError{Name: name}, tzdir.ErrUnknownZone)
}

// NewTimeZoneFromValue resolves a loosely typed zone name. Scalars are converted
// to their string form; other values fail with a *TypeMismatchError.
func (e *Environment) NewTimeZoneFromValue(v any) (*TimeZone, error) {
	name, ok := scalarString(v)
	if !ok {
		err := &TypeMismatchError{Method: "NewTimeZone", Param: 1, Want: "string", Got: typeName(v)}
		e.warn("NewTimeZone", err)
		return nil, err
	}
	return e.NewTimeZone(name)
}

// NewTimeZone resolves name in the Default environment.
func NewTimeZone(name string) (*TimeZone, error) { return Default.NewTimeZone(name) }

// Hint is a resolved textual time zone hint.
type Hint struct {
	Identifier string
	Offset     int
	DST        bool
}

// ResolveHint resolves an abbreviation, optionally followed by a numeric
// correction when the abbreviation is GMT (e.g. "GMT+0500"), or a zone identifier.
// Abbreviations with a zero offset resolve to the GMT identifier; all others are DST.
func (e *Environment) ResolveHint(text string) (Hint, error) {
	dir := e.directory()
	if len(text) > 3 && strings.EqualFold(text[:3], "gmt") {
		if m := gmtCorrection.FindStringSubmatch(text[3:]); m != nil && len(m[0]) == len(text)-3 {
			return resolveAbbreviation(dir, "gmt", correctionSeconds(m))
		}
	}
	if h, err := resolveAbbreviation(dir, text, 0); err == nil {
		return h, nil
	}
	if dir.HasIdentifier(text) {
		off, err := dir.OffsetAt(text, e.now().Unix())
		if err != nil {
			return Hint{}, errors.Mark(&UnknownTimezoneError{Name: text}, tzdir.ErrUnknownZone)
		}
		return Hint{Identifier: text, Offset: off.Seconds, DST: off.DST}, nil
	}
	return Hint{}, errors.Mark(&UnknownTimezoneError{Name: text}, tzdir.ErrUnknownZone)
}

func resolveAbbreviation(dir tzdir.Directory, abbr string, correction int) (Hint, error) {
	c, ok := dir.Abbreviation(abbr)
	if !ok {
		return Hint{}, errors.Mark(&UnknownTimezoneError{Name: abbr}, tzdir.ErrUnknownZone)
	}
	if c.Offset == 0 {
		return Hint{Identifier: "GMT", Offset: correction}, nil
	}
	return Hint{Identifier: c.Identifier, Offset: c.Offset + correction, DST: true}, nil
}

var gmtCorrection = regexp.MustCompile(`^([+-])(1[0-2]|0\d):?([0-5]\d)`)

func correctionSeconds(m []string) int {
	hours, _ := strconv.Atoi(m[2])
	minutes, _ := strconv.Atoi(m[3])
	secs := hours*3600 + minutes*60
	if m[1] == "-" {
		return -secs
	}
	return secs
}

// ZoneOverride replaces the directory's answer for a zone identifier.
type ZoneOverride struct {
	Offset       int
	DST          bool
	Abbreviation string
}

var overrides = struct {
	sync.RWMutex
	m map[string]ZoneOverride
}{
	m: map[string]ZoneOverride{
		// UTC+08:45; the directory's +0845 carries no abbreviation.
		"Australia/Eucla": {Offset: 8*3600 + 45*60, Abbreviation: "ACWST"},
	},
}

// RegisterZoneOverride makes every TimeZone with the identifier name use the
// given offset, DST flag and abbreviation outside of the daylight saving time
// periods the directory knows for it.
func RegisterZoneOverride(name string, o ZoneOverride) {
	overrides.Lock()
	defer overrides.Unlock()
	overrides.m[name] = o
}

func zoneOverride(name string) (ZoneOverride, bool) {
	overrides.RLock()
	defer overrides.RUnlock()
	o, ok := overrides.m[name]
	return o, ok
}
