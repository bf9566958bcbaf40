// Package tzdir provides the time zone database used to resolve zone
// identifiers and abbreviations and to compute UTC offsets.
package tzdir

import (
	"bufio"
	"bytes"
	_ "embed"
	"sort"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// ErrUnknownZone is returned for zone identifiers a Directory does not know.
var ErrUnknownZone = errors.New("unknown time zone")

// Candidate is one zone an abbreviation may stand for.
type Candidate struct {
	// Offset is the total UTC offset in seconds, daylight saving included.
	Offset     int    `yaml:"offset"`
	DST        bool   `yaml:"dst"`
	Identifier string `yaml:"id"`
}

// Offset is the local time type of a zone at some instant.
type Offset struct {
	Seconds      int
	DST          bool
	Abbreviation string
}

// Directory is a time zone database.
type Directory interface {
	// Abbreviation returns the preferred candidate of a case-insensitive abbreviation.
	Abbreviation(abbr string) (Candidate, bool)
	// HasIdentifier reports whether name is a known zone identifier.
	HasIdentifier(name string) bool
	// Abbreviations returns all abbreviations keyed by their lower-case form.
	Abbreviations() map[string][]Candidate
	// Identifiers returns all zone identifiers, sorted.
	Identifiers() []string
	// OffsetAt returns the local time type of the zone at the given Unix time.
	OffsetAt(name string, unix int64) (Offset, error)
}

// Table is a set of time zone abbreviations.
type Table struct {
	m map[string][]Candidate
}

// ParseTable decodes a YAML abbreviation table mapping abbreviations to lists of candidates.
func ParseTable(data []byte) (*Table, error) {
	var raw map[string][]Candidate
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "decode abbreviation table")
	}
	t := &Table{m: make(map[string][]Candidate, len(raw))}
	for abbr, cands := range raw {
		if len(cands) == 0 {
			return nil, errors.Newf("abbreviation %q has no candidates", abbr)
		}
		key := strings.ToLower(abbr)
		t.m[key] = append(t.m[key], cands...)
	}
	return t, nil
}

//go:embed abbreviations.yaml
var abbreviationsYAML []byte

var defaultTable = sync.OnceValue(func() *Table {
	t, err := ParseTable(abbreviationsYAML)
	if err != nil {
		panic(err)
	}
	return t
})

// DefaultTable returns the built-in abbreviation table.
func DefaultTable() *Table {
	return defaultTable()
}

// Abbreviation implements Directory.
func (t *Table) Abbreviation(abbr string) (Candidate, bool) {
	cands := t.m[strings.ToLower(abbr)]
	if len(cands) == 0 {
		return Candidate{}, false
	}
	return cands[0], true
}

// Abbreviations implements Directory. The returned map is a copy.
func (t *Table) Abbreviations() map[string][]Candidate {
	m := make(map[string][]Candidate, len(t.m))
	for abbr, cands := range t.m {
		m[abbr] = append([]Candidate(nil), cands...)
	}
	return m
}

//go:embed identifiers.txt
var identifiersTxt []byte

var defaultIdentifiers = sync.OnceValue(func() []string {
	var ids []string
	s := bufio.NewScanner(bytes.NewReader(identifiersTxt))
	for s.Scan() {
		if line := strings.TrimSpace(s.Text()); line != "" {
			ids = append(ids, line)
		}
	}
	sort.Strings(ids)
	return ids
})

func containsSorted(ids []string, name string) bool {
	i := sort.SearchStrings(ids, name)
	return i < len(ids) && ids[i] == name
}
