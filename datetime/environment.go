package datetime

import (
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/ngrash/go-datetime/tzdir"
)

// Diagnostics are the warnings and errors of the last CreateFromFormat call,
// keyed by input position.
type Diagnostics struct {
	WarningCount int
	Warnings     map[int]string
	ErrorCount   int
	Errors       map[int]string
}

// Environment is the context date and time values are created and rendered in:
// the time zone database, the default time zone, the clock and the logger.
// The zero value is ready to use.
type Environment struct {
	// Directory resolves time zones. If nil, the system database is used.
	Directory tzdir.Directory
	// Now returns the current time. If nil, time.Now is used.
	Now func() time.Time
	// Logger receives warnings. If nil, nothing is logged.
	Logger *slog.Logger

	mu              sync.Mutex
	defaultTimezone string
	last            Diagnostics
}

// Default is the Environment used by the top-level functions of this package.
var Default = &Environment{}

var systemDirectory = sync.OnceValue(func() tzdir.Directory { return tzdir.NewSystem() })

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func (e *Environment) directory() tzdir.Directory {
	if e.Directory == nil {
		return systemDirectory()
	}
	return e.Directory
}

func (e *Environment) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

func (e *Environment) logger() *slog.Logger {
	if e.Logger == nil {
		return discardLogger
	}
	return e.Logger
}

// DefaultTimezone returns the name of the time zone used by values without an
// explicit time zone. It is "UTC" unless set otherwise.
func (e *Environment) DefaultTimezone() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.defaultTimezone == "" {
		return "UTC"
	}
	return e.defaultTimezone
}

// SetDefaultTimezone sets the default time zone. The name must resolve with NewTimeZone.
func (e *Environment) SetDefaultTimezone(name string) error {
	if _, err := e.NewTimeZone(name); err != nil {
		return err
	}
	e.mu.Lock()
	e.defaultTimezone = name
	e.mu.Unlock()
	return nil
}

// withDefaultTimezone runs fn with the default time zone set to name and
// restores the previous default afterwards, also when fn fails or panics.
func (e *Environment) withDefaultTimezone(name string, fn func() error) error {
	e.mu.Lock()
	prev := e.defaultTimezone
	e.defaultTimezone = name
	e.mu.Unlock()
	defer func() {
		e.mu.Lock()
		e.defaultTimezone = prev
		e.mu.Unlock()
	}()
	return fn()
}

func (e *Environment) defaultZone() (*TimeZone, error) {
	return e.NewTimeZone(e.DefaultTimezone())
}

// LastErrors returns the diagnostics of the last CreateFromFormat call.
func (e *Environment) LastErrors() Diagnostics {
	e.mu.Lock()
	defer e.mu.Unlock()
	d := Diagnostics{
		WarningCount: e.last.WarningCount,
		Warnings:     make(map[int]string, len(e.last.Warnings)),
		ErrorCount:   e.last.ErrorCount,
		Errors:       make(map[int]string, len(e.last.Errors)),
	}
	for k, v := range e.last.Warnings {
		d.Warnings[k] = v
	}
	for k, v := range e.last.Errors {
		d.Errors[k] = v
	}
	return d
}

func (e *Environment) resetDiagnostics() {
	e.mu.Lock()
	e.last = Diagnostics{}
	e.mu.Unlock()
}

func (e *Environment) recordError(err error) {
	pos := 0
	var perr *ParseError
	if errors.As(err, &perr) {
		pos = perr.Pos
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.last.Errors == nil {
		e.last.Errors = make(map[int]string)
	}
	e.last.Errors[pos] = err.Error()
	e.last.ErrorCount++
}

// warn logs a recoverable misuse of the API.
func (e *Environment) warn(op string, err error) {
	e.logger().Warn(err.Error(), slog.String("op", op))
}

// ListAbbreviations returns all known time zone abbreviations keyed by their lower-case form.
func (e *Environment) ListAbbreviations() map[string][]tzdir.Candidate {
	return e.directory().Abbreviations()
}

// ListIdentifiers returns all known time zone identifiers, sorted.
func (e *Environment) ListIdentifiers() []string {
	return e.directory().Identifiers()
}

// DefaultTimezone returns the default time zone of the Default environment.
func DefaultTimezone() string { return Default.DefaultTimezone() }

// SetDefaultTimezone sets the default time zone of the Default environment.
func SetDefaultTimezone(name string) error { return Default.SetDefaultTimezone(name) }

// LastErrors returns the diagnostics of the last CreateFromFormat call of the Default environment.
func LastErrors() Diagnostics { return Default.LastErrors() }

// ListAbbreviations returns the abbreviations of the Default environment.
func ListAbbreviations() map[string][]tzdir.Candidate { return Default.ListAbbreviations() }

// ListIdentifiers returns the zone identifiers of the Default environment.
func ListIdentifiers() []string { return Default.ListIdentifiers() }
