package tzif

import (
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/ngrash/go-datetime/internal/calendar"
	"github.com/ngrash/go-datetime/internal/unixtime"
)

// RuleDateKind tells how the day of a transition is given in a TZ string.
type RuleDateKind int

const (
	// JulianNoLeap is "Jn": day 1-365, February 29 is never counted.
	JulianNoLeap RuleDateKind = iota
	// Julian is "n": zero-based day 0-365, February 29 is counted in leap years.
	Julian
	// MonthWeekDay is "Mm.w.d": day d (0 is Sunday) of week w (5 is the last) of month m.
	MonthWeekDay
)

// RuleDate is a transition date of a TZ string and the local time of day
// at which the transition happens.
type RuleDate struct {
	Kind    RuleDateKind
	Day     int
	Week    int
	Month   int
	Weekday int
	// Time is seconds after local midnight. It may be negative or exceed 24h in version 3 files.
	Time int
}

// Rule is a parsed POSIX TZ string, e.g. "CET-1CEST,M3.5.0,M10.5.0/3".
// Offsets are stored east of UT, the opposite of the TZ string notation.
type Rule struct {
	StdName   string
	StdOffset int
	DstName   string
	DstOffset int
	Start     RuleDate
	End       RuleDate
}

// HasDST reports whether the rule has a daylight saving time.
func (r Rule) HasDST() bool {
	return r.DstName != ""
}

// ParseRule parses a TZ string as found in the footer of TZif files.
func ParseRule(s string) (Rule, error) {
	p := &ruleParser{s: s}
	r, err := p.parse()
	if err != nil {
		return Rule{}, errors.Wrapf(err, "parse TZ string %q", s)
	}
	return r, nil
}

type ruleParser struct {
	s   string
	pos int
}

func (p *ruleParser) parse() (Rule, error) {
	var (
		r   Rule
		err error
	)
	if r.StdName, err = p.name(); err != nil {
		return r, err
	}
	if r.StdOffset, err = p.offset(); err != nil {
		return r, err
	}
	r.StdOffset = -r.StdOffset
	if p.done() {
		return r, nil
	}

	if r.DstName, err = p.name(); err != nil {
		return r, err
	}
	r.DstOffset = r.StdOffset + 3600
	if !p.done() && p.peek() != ',' {
		off, err := p.offset()
		if err != nil {
			return r, err
		}
		r.DstOffset = -off
	}

	if p.done() {
		// US rules are the POSIX default when none are given.
		r.Start = RuleDate{Kind: MonthWeekDay, Month: 3, Week: 2, Time: 7200}
		r.End = RuleDate{Kind: MonthWeekDay, Month: 11, Week: 1, Time: 7200}
		return r, nil
	}
	if err := p.expect(','); err != nil {
		return r, err
	}
	if r.Start, err = p.date(); err != nil {
		return r, err
	}
	if err := p.expect(','); err != nil {
		return r, err
	}
	if r.End, err = p.date(); err != nil {
		return r, err
	}
	if !p.done() {
		return r, errors.Newf("unexpected %q at position %d", p.s[p.pos:], p.pos)
	}
	return r, nil
}

func (p *ruleParser) done() bool { return p.pos >= len(p.s) }

func (p *ruleParser) peek() byte { return p.s[p.pos] }

func (p *ruleParser) expect(c byte) error {
	if p.done() || p.peek() != c {
		return errors.Newf("expected %q at position %d", c, p.pos)
	}
	p.pos++
	return nil
}

func (p *ruleParser) name() (string, error) {
	if !p.done() && p.peek() == '<' {
		end := strings.IndexByte(p.s[p.pos:], '>')
		if end < 0 {
			return "", errors.Newf("unterminated quoted name at position %d", p.pos)
		}
		name := p.s[p.pos+1 : p.pos+end]
		p.pos += end + 1
		if len(name) < 3 {
			return "", errors.Newf("name %q is shorter than 3 characters", name)
		}
		return name, nil
	}
	start := p.pos
	for !p.done() && isAlpha(p.peek()) {
		p.pos++
	}
	if p.pos-start < 3 {
		return "", errors.Newf("expected name of at least 3 letters at position %d", start)
	}
	return p.s[start:p.pos], nil
}

// offset parses [+-]hh[:mm[:ss]].
func (p *ruleParser) offset() (int, error) {
	sign := 1
	if !p.done() && (p.peek() == '+' || p.peek() == '-') {
		if p.peek() == '-' {
			sign = -1
		}
		p.pos++
	}
	secs, err := p.clock()
	return sign * secs, err
}

func (p *ruleParser) clock() (int, error) {
	h, err := p.number(0, 167)
	if err != nil {
		return 0, err
	}
	secs := h * 3600
	for _, unit := range []int{60, 1} {
		if p.done() || p.peek() != ':' {
			break
		}
		p.pos++
		n, err := p.number(0, 59)
		if err != nil {
			return 0, err
		}
		secs += n * unit
	}
	return secs, nil
}

func (p *ruleParser) number(lo, hi int) (int, error) {
	start := p.pos
	n := 0
	for !p.done() && isDigit(p.peek()) {
		n = n*10 + int(p.peek()-'0')
		p.pos++
		if n > hi {
			return 0, errors.Newf("number at position %d out of range [%d, %d]", start, lo, hi)
		}
	}
	if p.pos == start {
		return 0, errors.Newf("expected number at position %d", start)
	}
	if n < lo {
		return 0, errors.Newf("number at position %d out of range [%d, %d]", start, lo, hi)
	}
	return n, nil
}

func (p *ruleParser) date() (RuleDate, error) {
	var (
		d   = RuleDate{Time: 7200}
		err error
	)
	switch {
	case p.done():
		return d, errors.New("unexpected end of rule")
	case p.peek() == 'J':
		p.pos++
		d.Kind = JulianNoLeap
		d.Day, err = p.number(1, 365)
	case p.peek() == 'M':
		p.pos++
		d.Kind = MonthWeekDay
		if d.Month, err = p.number(1, 12); err != nil {
			return d, err
		}
		if err = p.expect('.'); err != nil {
			return d, err
		}
		if d.Week, err = p.number(1, 5); err != nil {
			return d, err
		}
		if err = p.expect('.'); err != nil {
			return d, err
		}
		d.Weekday, err = p.number(0, 6)
	default:
		d.Kind = Julian
		d.Day, err = p.number(0, 365)
	}
	if err != nil {
		return d, err
	}
	if !p.done() && p.peek() == '/' {
		p.pos++
		if d.Time, err = p.offset(); err != nil {
			return d, err
		}
	}
	return d, nil
}

func isAlpha(c byte) bool { return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' }
func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// Lookup returns the local time type in effect at the given instant.
func (r Rule) Lookup(unix int64) LocalType {
	std := LocalType{Offset: r.StdOffset, Abbreviation: r.StdName}
	if !r.HasDST() {
		return std
	}
	dst := LocalType{Offset: r.DstOffset, DST: true, Abbreviation: r.DstName}

	year := unixtime.ToDateTime(unix + int64(r.StdOffset)).Year
	// Start is given in local standard time, end in local daylight time.
	start := r.Start.unix(year) - int64(r.StdOffset)
	end := r.End.unix(year) - int64(r.DstOffset)
	if start < end {
		if unix >= start && unix < end {
			return dst
		}
		return std
	}
	// Southern hemisphere: daylight time spans the turn of the year.
	if unix >= end && unix < start {
		return std
	}
	return dst
}

// unix returns the transition in the given year as seconds since the epoch in local time.
func (d RuleDate) unix(year int64) int64 {
	var yday int64
	switch d.Kind {
	case JulianNoLeap:
		yday = int64(d.Day - 1)
		if calendar.IsLeapYear(year) && d.Day >= 60 {
			yday++
		}
	case Julian:
		yday = int64(d.Day)
	case MonthWeekDay:
		day := calendar.NthWeekdayOfMonth(year, int64(d.Month), d.Week, d.Weekday)
		yday = int64(calendar.DayOfYear(year, int64(d.Month), int64(day)))
	}
	return (unixtime.DaysFromCivil(year, 1, 1)+yday)*86400 + int64(d.Time)
}
