package datetime

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ngrash/go-datetime/tzdir"
)

// parser matches a layout against an input token by token, filling a TimeRecord.
type parser struct {
	layout string
	value  string
	lp, vp int
	// year counts days of year while no year is parsed.
	year int64

	rec        TimeRecord
	allowExtra bool

	dir           tzdir.Directory
	abbreviations []string
	identifiers   []string
}

// A matcher is an anchored regular expression for the input of a token.
type matcher struct {
	re       *regexp.Regexp
	expected string
}

func anchored(expr, expected string) matcher {
	return matcher{re: regexp.MustCompile(`^(?:` + expr + `)`), expected: expected}
}

var (
	dayNameMatcher   = anchored(`Sun(?:day)?|Mon(?:day)?|Tue(?:sday)?|Wed(?:nesday)?|Thu(?:rsday)?|Fri(?:day)?|Sat(?:urday)?`, "A textual day")
	dayMatcher       = anchored(`[0-2]\d|3[01]|0?\d`, "A two digit day")
	suffixMatcher    = anchored(`st|nd|rd|th`, "English ordinal suffix for the day of the month, 2 characters")
	yearDayMatcher   = anchored(`36[0-5]|3[0-5]\d|[1-2]\d{2}|0?\d{2}|0{0,2}\d`, "A three digit day-of-year")
	monthMatcher     = anchored(`1[0-2]|0?\d`, "A two digit month")
	monthNameMatcher = anchored(`Jan(?:uary)?|Feb(?:ruary)?|Mar(?:ch)?|Apr(?:il)?|May|June?|July?|Aug(?:ust)?|Sep(?:tember)?|Oct(?:ober)?|Nov(?:ember)?|Dec(?:ember)?`, "A textual month")
	shortYearMatcher = anchored(`\d{2}`, "A two digit year")
	yearMatcher      = anchored(`\d{1,4}`, "A four digit year")
	hour12Matcher    = anchored(`1[0-2]|0?\d`, "A two digit hour")
	hour24Matcher    = anchored(`2[0-3]|1\d|0?\d`, "A two digit hour")
	meridianMatcher  = anchored(`(?i:([ap])m)\.?`, "A meridian")
	minuteMatcher    = anchored(`[0-5]\d`, "A two digit minute")
	secondMatcher    = anchored(`[0-5]\d`, "A two digit second")
	fractionMatcher  = anchored(`\d{1,6}`, "A six digit millisecond")
	spaceMatcher     = anchored(`[ \t]`, "Any sort of whitespace")
	unixMatcher      = anchored(`\d{1,24}`, "A unix timestamp")
	offsetMatcher    = anchored(`(?i:GMT)|([+-])(1[0-2]|0\d):?([0-5]\d)`, "A timezone")
	separatorMatcher = anchored(`[;:/.,-]`, "The separation symbol ([;:/.,-])")
)

// Weekdays as days from Thursday, the weekday of the Unix epoch.
var weekdayFromThursday = map[string]int64{
	"Thu": 0, "Fri": 1, "Sat": 2, "Sun": 3, "Mon": 4, "Tue": 5, "Wed": 6,
}

var weekdayNames = map[string]string{
	"Sun": "Sunday", "Mon": "Monday", "Tue": "Tuesday", "Wed": "Wednesday",
	"Thu": "Thursday", "Fri": "Friday", "Sat": "Saturday",
}

var monthNumbers = map[string]int64{
	"Jan": 1, "Feb": 2, "Mar": 3, "Apr": 4, "May": 5, "Jun": 6,
	"Jul": 7, "Aug": 8, "Sep": 9, "Oct": 10, "Nov": 11, "Dec": 12,
}

// parseFormat matches value against layout. It never panics; mismatches are
// returned as *ParseError. A day of year is counted in year until a year is parsed.
func parseFormat(layout, value string, year int64, dir tzdir.Directory) (TimeRecord, *ParseError) {
	p := &parser{
		layout: layout,
		value:  value,
		year:   year,
		rec:    newTimeRecord(),
		dir:    dir,
	}
	if err := p.run(); err != nil {
		return TimeRecord{}, err
	}
	return p.rec, nil
}

func (p *parser) run() *ParseError {
	for p.lp < len(p.layout) && p.vp < len(p.value) {
		if err := p.token(p.layout[p.lp]); err != nil {
			return err
		}
		p.lp++
	}

	if p.vp < len(p.value) && !p.allowExtra {
		return &ParseError{Pos: p.vp, Reason: "Trailing data", Near: snippet(p.value, p.vp)}
	}

	for p.lp < len(p.layout) && p.layout[p.lp] == '+' {
		p.lp++
	}
	for ; p.lp < len(p.layout); p.lp++ {
		switch p.layout[p.lp] {
		case '!':
			p.rec.resetFields()
		case '|':
			p.rec.resetUnsetFields()
		default:
			return &ParseError{Pos: p.vp, Reason: "Data missing", Near: snippet(p.layout, p.lp)}
		}
	}

	// A partially given clock defaults to zero instead of the current time.
	r := &p.rec
	if r.Hour.Set || r.Minute.Set || r.Second.Set {
		for _, f := range []*Field{&r.Hour, &r.Minute, &r.Second} {
			if !f.Set {
				*f = set(0)
			}
		}
	}
	return nil
}

func (p *parser) fail(expected string) *ParseError {
	return &ParseError{Pos: p.vp, Expected: expected, Near: snippet(p.value, p.vp)}
}

// match runs m at the input cursor and advances past the match.
func (p *parser) match(m matcher) ([]string, *ParseError) {
	sub := m.re.FindStringSubmatch(p.value[p.vp:])
	if sub == nil {
		return nil, p.fail(m.expected)
	}
	p.vp += len(sub[0])
	return sub, nil
}

// number runs m and parses the match as a decimal integer.
func (p *parser) number(m matcher) (int64, *ParseError) {
	start := p.vp
	sub, err := p.match(m)
	if err != nil {
		return 0, err
	}
	n, perr := strconv.ParseInt(sub[0], 10, 64)
	if perr != nil {
		p.vp = start
		return 0, &ParseError{Pos: start, Reason: "Number out of range", Near: snippet(p.value, start)}
	}
	return n, nil
}

func (p *parser) token(c byte) *ParseError {
	r := &p.rec
	switch c {
	case 'D', 'l':
		sub, err := p.match(dayNameMatcher)
		if err != nil {
			return err
		}
		abbr := sub[0][:3]
		r.HaveRelative = true
		r.Relative.HaveWeekday = true
		r.Relative.Weekday = weekdayFromThursday[abbr]
		r.Relative.WeekdayText = weekdayNames[abbr]

	case 'd', 'j':
		n, err := p.number(dayMatcher)
		if err != nil {
			return err
		}
		r.Day = set(n)

	case 'S':
		if _, err := p.match(suffixMatcher); err != nil {
			return err
		}

	case 'z':
		n, err := p.number(yearDayMatcher)
		if err != nil {
			return err
		}
		r.Month, r.Day = set(1), set(n+1)
		r.normalizeDate(p.year)

	case 'm', 'n':
		n, err := p.number(monthMatcher)
		if err != nil {
			return err
		}
		r.Month = set(n)

	case 'M', 'F':
		sub, err := p.match(monthNameMatcher)
		if err != nil {
			return err
		}
		r.Month = set(monthNumbers[sub[0][:3]])

	case 'y':
		n, err := p.number(shortYearMatcher)
		if err != nil {
			return err
		}
		if n > 38 {
			r.Year = set(1900 + n)
		} else {
			r.Year = set(2000 + n)
		}

	case 'Y':
		n, err := p.number(yearMatcher)
		if err != nil {
			return err
		}
		r.Year = set(n)

	case 'g', 'h':
		n, err := p.number(hour12Matcher)
		if err != nil {
			return err
		}
		r.Hour = set(n)

	case 'G', 'H':
		n, err := p.number(hour24Matcher)
		if err != nil {
			return err
		}
		r.Hour = set(n)

	case 'a', 'A':
		sub, err := p.match(meridianMatcher)
		if err != nil {
			return err
		}
		if strings.EqualFold(sub[1], "p") {
			r.Hour = set(r.Hour.Value + 12)
		}

	case 'i':
		n, err := p.number(minuteMatcher)
		if err != nil {
			return err
		}
		r.Minute = set(n)

	case 's':
		n, err := p.number(secondMatcher)
		if err != nil {
			return err
		}
		r.Second = set(n)

	case 'u':
		if _, err := p.match(fractionMatcher); err != nil {
			return err
		}

	case ' ':
		if _, err := p.match(spaceMatcher); err != nil {
			return err
		}

	case 'U':
		n, err := p.number(unixMatcher)
		if err != nil {
			return err
		}
		r.HaveRelative = true
		r.Relative.Second += n
		r.ZoneType = ZoneTypeOffset
		r.resetFields()

	case 'O', 'P':
		sub, err := p.match(offsetMatcher)
		if err != nil {
			return err
		}
		if sub[1] != "" {
			r.TZOffset = set(int64(correctionSeconds(sub)))
		}
		r.TZIdentifier = "GMT"

	case 'T':
		return p.abbreviation()

	case 'e':
		id := p.longestIdentifier()
		if id == "" {
			return p.fail("A timezone identifier")
		}
		p.vp += len(id)
		r.TZIdentifier = id

	case '#':
		if _, err := p.match(separatorMatcher); err != nil {
			return err
		}

	case ';', ':', '/', '.', ',', '-', '(', ')':
		if p.value[p.vp] != c {
			return p.fail("The separation symbol")
		}
		p.vp++

	case '!':
		r.resetFields()

	case '|':
		r.resetUnsetFields()

	case '?':
		_, size := utf8.DecodeRuneInString(p.value[p.vp:])
		p.vp += size

	case '\\':
		p.lp++
		if p.lp >= len(p.layout) || p.value[p.vp] != p.layout[p.lp] {
			return p.fail("The escaped character")
		}
		p.vp++

	case '*':
		for p.vp < len(p.value) && !strings.ContainsRune(" \t.,:;/-0123456789", rune(p.value[p.vp])) {
			p.vp++
		}

	case '+':
		p.allowExtra = true

	default:
		if p.value[p.vp] != c {
			return p.fail("The literal " + strconv.QuoteRune(rune(c)))
		}
		p.vp++
	}
	return nil
}

// abbreviation handles the T token: the longest known abbreviation at the cursor,
// followed by an optional numeric correction if it is GMT.
func (p *parser) abbreviation() *ParseError {
	r := &p.rec
	abbr := p.longestAbbreviation()
	if abbr == "" {
		return p.fail("A timezone abbreviation")
	}
	p.vp += len(abbr)
	r.ZoneType = ZoneTypeAbbr

	correction := 0
	if abbr == "gmt" {
		if sub := gmtCorrection.FindStringSubmatch(p.value[p.vp:]); sub != nil {
			correction = correctionSeconds(sub)
			p.vp += len(sub[0])
		}
	}

	h, err := resolveAbbreviation(p.dir, abbr, correction)
	if err != nil {
		return p.fail("A timezone abbreviation")
	}
	if h.DST {
		r.IsDST = DSTOn
	} else {
		r.IsDST = DSTOff
	}
	r.TZOffset = set(r.TZOffset.Value + int64(h.Offset))
	r.TZIdentifier = h.Identifier
	return nil
}

// longestAbbreviation returns the lower-case form of the longest abbreviation
// that case-insensitively prefixes the unconsumed input.
func (p *parser) longestAbbreviation() string {
	if p.abbreviations == nil {
		for abbr := range p.dir.Abbreviations() {
			p.abbreviations = append(p.abbreviations, abbr)
		}
	}
	rest := p.value[p.vp:]
	best := ""
	for _, abbr := range p.abbreviations {
		if len(abbr) > len(best) && len(abbr) <= len(rest) && strings.EqualFold(rest[:len(abbr)], abbr) {
			best = abbr
		}
	}
	return best
}

// longestIdentifier returns the longest zone identifier prefixing the unconsumed input.
func (p *parser) longestIdentifier() string {
	if p.identifiers == nil {
		p.identifiers = p.dir.Identifiers()
	}
	rest := p.value[p.vp:]
	best := ""
	for _, id := range p.identifiers {
		if len(id) > len(best) && strings.HasPrefix(rest, id) {
			best = id
		}
	}
	return best
}
