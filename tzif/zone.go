package tzif

import (
	"sort"

	"github.com/cockroachdb/errors"
)

// LocalType is a resolved local time type.
type LocalType struct {
	// Offset is the number of seconds east of UT.
	Offset       int
	DST          bool
	Abbreviation string
}

// Zone answers which local time type applies at an instant, using the
// transitions of a TZif file and its footer rule for instants after the last transition.
type Zone struct {
	transitions []int64
	types       []uint8
	locals      []LocalType
	rule        *Rule
}

// NewZone builds a Zone from a decoded file.
func NewZone(f *File) (*Zone, error) {
	b := f.Block()
	if len(b.LocalTimeTypes) == 0 {
		return nil, errors.New("no local time types")
	}
	z := &Zone{
		transitions: b.TransitionTimes,
		types:       b.TransitionTypes,
		locals:      make([]LocalType, len(b.LocalTimeTypes)),
	}
	for i, r := range b.LocalTimeTypes {
		z.locals[i] = LocalType{Offset: int(r.Utoff), DST: r.Dst, Abbreviation: b.Designation(r.Idx)}
	}
	if f.Version >= V2 && f.TZString != "" {
		r, err := ParseRule(f.TZString)
		if err != nil {
			return nil, err
		}
		z.rule = &r
	}
	return z, nil
}

// Lookup returns the local time type in effect at the given instant.
func (z *Zone) Lookup(unix int64) LocalType {
	n := len(z.transitions)
	if n == 0 || unix < z.transitions[0] {
		if n == 0 && z.rule != nil {
			return z.rule.Lookup(unix)
		}
		return z.locals[0]
	}
	if unix >= z.transitions[n-1] && z.rule != nil {
		return z.rule.Lookup(unix)
	}
	// Index of the last transition at or before unix.
	i := sort.Search(n, func(i int) bool { return z.transitions[i] > unix }) - 1
	return z.locals[z.types[i]]
}

// Types returns every local time type of the zone, including the ones of the footer rule.
func (z *Zone) Types() []LocalType {
	types := append([]LocalType(nil), z.locals...)
	if z.rule != nil {
		types = append(types, LocalType{Offset: z.rule.StdOffset, Abbreviation: z.rule.StdName})
		if z.rule.HasDST() {
			types = append(types, LocalType{Offset: z.rule.DstOffset, DST: true, Abbreviation: z.rule.DstName})
		}
	}
	return types
}
