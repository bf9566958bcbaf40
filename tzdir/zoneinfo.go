package tzdir

import (
	"bytes"
	"io"
	"io/fs"
	"path"
	"sort"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/ngrash/go-datetime/tzif"
)

// Zoneinfo is a Directory reading TZif files from a file system laid out
// like /usr/share/zoneinfo.
type Zoneinfo struct {
	*Table

	fsys fs.FS

	mu    sync.Mutex
	zones map[string]*tzif.Zone
	ids   []string
}

// NewZoneinfo returns a Zoneinfo directory reading from fsys, e.g. os.DirFS("/usr/share/zoneinfo").
func NewZoneinfo(fsys fs.FS) *Zoneinfo {
	return &Zoneinfo{
		Table: DefaultTable(),
		fsys:  fsys,
		zones: make(map[string]*tzif.Zone),
	}
}

// Files in a zoneinfo tree that are not zones of their own.
var skipped = map[string]bool{
	"posix":      true,
	"right":      true,
	"localtime":  true,
	"posixrules": true,
	"Factory":    true,
}

func (z *Zoneinfo) zone(name string) (*tzif.Zone, error) {
	if !fs.ValidPath(name) || name == "." || skipped[name] {
		return nil, errors.Wrapf(ErrUnknownZone, "%q", name)
	}
	z.mu.Lock()
	defer z.mu.Unlock()
	if zone, ok := z.zones[name]; ok {
		return zone, nil
	}

	data, err := fs.ReadFile(z.fsys, name)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "read zone %q", name), ErrUnknownZone)
	}
	f, err := tzif.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "decode zone %q", name), ErrUnknownZone)
	}
	if err := tzif.Validate(f); err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "invalid zone %q", name), ErrUnknownZone)
	}
	zone, err := tzif.NewZone(f)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "zone %q", name), ErrUnknownZone)
	}
	z.zones[name] = zone
	return zone, nil
}

// HasIdentifier implements Directory.
func (z *Zoneinfo) HasIdentifier(name string) bool {
	_, err := z.zone(name)
	return err == nil
}

// Identifiers implements Directory. It lists every file starting with the TZif magic.
func (z *Zoneinfo) Identifiers() []string {
	z.mu.Lock()
	defer z.mu.Unlock()
	if z.ids != nil {
		return append([]string(nil), z.ids...)
	}

	ids := []string{}
	_ = fs.WalkDir(z.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if skipped[path.Base(p)] {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !isTZif(z.fsys, p) {
			return nil
		}
		ids = append(ids, p)
		return nil
	})
	sort.Strings(ids)
	z.ids = ids
	return append([]string(nil), ids...)
}

func isTZif(fsys fs.FS, name string) bool {
	f, err := fsys.Open(name)
	if err != nil {
		return false
	}
	defer f.Close()
	magic := make([]byte, len(tzif.Magic))
	if _, err := io.ReadFull(f, magic); err != nil {
		return false
	}
	return bytes.Equal(magic, tzif.Magic[:])
}

// OffsetAt implements Directory.
func (z *Zoneinfo) OffsetAt(name string, unix int64) (Offset, error) {
	zone, err := z.zone(name)
	if err != nil {
		return Offset{}, err
	}
	lt := zone.Lookup(unix)
	return Offset{Seconds: lt.Offset, DST: lt.DST, Abbreviation: lt.Abbreviation}, nil
}
