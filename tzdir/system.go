package tzdir

import (
	"sync"
	"time"
	// Embeds the IANA database so zones resolve without system files.
	_ "time/tzdata"

	"github.com/cockroachdb/errors"
)

// System is a Directory backed by the time package's zone database.
type System struct {
	*Table

	mu        sync.Mutex
	locations map[string]*time.Location
}

// NewSystem returns a System directory with the built-in abbreviation table.
func NewSystem() *System {
	return &System{
		Table:     DefaultTable(),
		locations: map[string]*time.Location{"UTC": time.UTC},
	}
}

// HasIdentifier implements Directory.
func (s *System) HasIdentifier(name string) bool {
	return containsSorted(defaultIdentifiers(), name)
}

// Identifiers implements Directory.
func (s *System) Identifiers() []string {
	return append([]string(nil), defaultIdentifiers()...)
}

func (s *System) location(name string) (*time.Location, error) {
	if !s.HasIdentifier(name) {
		return nil, errors.Wrapf(ErrUnknownZone, "%q", name)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if loc, ok := s.locations[name]; ok {
		return loc, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "load %q", name), ErrUnknownZone)
	}
	s.locations[name] = loc
	return loc, nil
}

// OffsetAt implements Directory.
func (s *System) OffsetAt(name string, unix int64) (Offset, error) {
	loc, err := s.location(name)
	if err != nil {
		return Offset{}, err
	}
	t := time.Unix(unix, 0).In(loc)
	abbr, secs := t.Zone()
	return Offset{Seconds: secs, DST: t.IsDST(), Abbreviation: abbr}, nil
}
