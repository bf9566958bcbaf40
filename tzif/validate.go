package tzif

import (
	"github.com/cockroachdb/errors"
)

// Validate checks the structural requirements RFC8536 places on f and
// reports every violation found.
func Validate(f *File) error {
	var errs []error
	switch f.Version {
	case V1, V2, V3, V4:
	default:
		errs = append(errs, errors.Newf("unsupported version %v", f.Version))
	}

	errs = append(errs, validateBlock("v1", f.V1Data)...)
	if f.Version >= V2 {
		errs = append(errs, validateBlock("v2", f.V2Data)...)
		if f.TZString != "" {
			if _, err := ParseRule(f.TZString); err != nil {
				errs = append(errs, errors.Wrap(err, "invalid footer"))
			}
		}
	} else if f.TZString != "" {
		errs = append(errs, errors.New("version 1 files must not have a footer"))
	}
	return errors.Join(errs...)
}

func validateBlock(name string, b DataBlock) []error {
	var (
		errs    []error
		typecnt = len(b.LocalTimeTypes)
	)

	if n := len(b.UTLocalIndicators); n != 0 && n != typecnt {
		errs = append(errs, errors.Newf("invalid %s isutcnt (%d): must be 0 or equal to typecnt (%d)", name, n, typecnt))
	}
	if n := len(b.StandardWallIndicators); n != 0 && n != typecnt {
		errs = append(errs, errors.Newf("invalid %s isstdcnt (%d): must be 0 or equal to typecnt (%d)", name, n, typecnt))
	}
	for i, ut := range b.UTLocalIndicators {
		if ut && (i >= len(b.StandardWallIndicators) || !b.StandardWallIndicators[i]) {
			errs = append(errs, errors.Newf("invalid %s indicators for type %d: UT requires standard time", name, i))
		}
	}

	if times, types := len(b.TransitionTimes), len(b.TransitionTypes); times != types {
		errs = append(errs, errors.Newf("inconsistent %s transitions: transition times = %d, transition types = %d", name, times, types))
	}
	for i := 1; i < len(b.TransitionTimes); i++ {
		if b.TransitionTimes[i] <= b.TransitionTimes[i-1] {
			errs = append(errs, errors.Newf("invalid %s transition times: %d is not after %d", name, b.TransitionTimes[i], b.TransitionTimes[i-1]))
			break
		}
	}
	for _, t := range b.TransitionTypes {
		if int(t) >= typecnt {
			errs = append(errs, errors.Newf("invalid %s transition type %d: typecnt is %d", name, t, typecnt))
		}
	}

	if typecnt == 0 {
		errs = append(errs, errors.Newf("invalid %s typecnt: must not be zero", name))
	}
	if len(b.Designations) == 0 {
		errs = append(errs, errors.Newf("invalid %s charcnt: must not be zero", name))
	} else if b.Designations[len(b.Designations)-1] != 0 {
		errs = append(errs, errors.Newf("invalid %s time zone designations: missing null terminator", name))
	}
	for i, r := range b.LocalTimeTypes {
		if int(r.Idx) >= len(b.Designations) {
			errs = append(errs, errors.Newf("invalid %s local time type %d: designation index %d out of range", name, i, r.Idx))
		}
		if r.Utoff == -1<<31 {
			errs = append(errs, errors.Newf("invalid %s local time type %d: utoff must not be -2**31", name, i))
		}
	}
	return errs
}
