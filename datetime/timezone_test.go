package datetime

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/ngrash/go-datetime/tzdir"
)

func TestNewTimeZone(t *testing.T) {
	env := testEnv(t, "GMT")

	cases := []struct {
		name     string
		wantName string
		wantKind ZoneKind
	}{
		{"GMT", "GMT", ZoneID},
		{"Europe/London", "Europe/London", ZoneID},
		{"America/Los_Angeles", "America/Los_Angeles", ZoneID},
		{"+05:00", "+05:00", ZoneOffset},
		{"-0330", "-03:30", ZoneOffset},
		{"GMT+2", "+02:00", ZoneOffset},
		{"utc-11", "-11:00", ZoneOffset},
		{"EST", "EST", ZoneID},
		{"edt", "EDT", ZoneAbbr},
		{"bst", "BST", ZoneAbbr},
	}
	for _, c := range cases {
		z, err := env.NewTimeZone(c.name)
		require.NoError(t, err, "NewTimeZone(%q)", c.name)
		require.Equal(t, c.wantName, z.Name(), "NewTimeZone(%q)", c.name)
		require.Equal(t, c.wantKind, z.Kind(), "NewTimeZone(%q)", c.name)
	}
}

func TestTimeZone_OffsetAt(t *testing.T) {
	env := testEnv(t, "UTC")

	cases := []struct {
		zone string
		unix int64
		want tzdir.Offset
	}{
		{"Europe/London", 1121376641, tzdir.Offset{Seconds: 3600, DST: true, Abbreviation: "BST"}},
		{"Europe/London", 1105696800, tzdir.Offset{Seconds: 0, Abbreviation: "GMT"}},
		{"+05:30", 0, tzdir.Offset{Seconds: 19800, Abbreviation: "GMT"}},
		{"EDT", 0, tzdir.Offset{Seconds: -14400, DST: true, Abbreviation: "EDT"}},
		{"Australia/Eucla", 1121376641, tzdir.Offset{Seconds: 31500, Abbreviation: "ACWST"}},
		{"Australia/Eucla", 1167609600, tzdir.Offset{Seconds: 35100, DST: true, Abbreviation: "+0945"}},
		{"Australia/Eucla", 1238260500, tzdir.Offset{Seconds: 31500, Abbreviation: "ACWST"}},
	}
	for _, c := range cases {
		z := mustZone(t, env, c.zone)
		got, err := z.OffsetAt(c.unix)
		require.NoError(t, err)
		if diff := cmp.Diff(c.want, got); diff != "" {
			t.Errorf("%s.OffsetAt(%d) mismatch (-want +got):\n%s", c.zone, c.unix, diff)
		}
	}
}

func TestNewTimeZoneFromValue(t *testing.T) {
	env := testEnv(t, "Europe/London")

	cases := []struct {
		value any
		want  string
	}{
		{0, "unknown or bad timezone (0)"},
		{1, "unknown or bad timezone (1)"},
		{12345, "unknown or bad timezone (12345)"},
		{-12345, "unknown or bad timezone (-12345)"},
		{10.5, "unknown or bad timezone (10.5)"},
		{-10.5, "unknown or bad timezone (-10.5)"},
		{.5, "unknown or bad timezone (0.5)"},
		{[]int{}, "NewTimeZone() expects parameter 1 to be string, array given"},
		{[]int{1, 2, 3}, "NewTimeZone() expects parameter 1 to be string, array given"},
		{map[string]int{"one": 1, "two": 2}, "NewTimeZone() expects parameter 1 to be string, array given"},
		{[]any{"foo", []int{1, 2, 3}}, "NewTimeZone() expects parameter 1 to be string, array given"},
		{nil, "unknown or bad timezone ()"},
		{true, "unknown or bad timezone (1)"},
		{false, "unknown or bad timezone ()"},
		{"", "unknown or bad timezone ()"},
		{"string", "unknown or bad timezone (string)"},
		{"sTrInG", "unknown or bad timezone (sTrInG)"},
		{"hello world", "unknown or bad timezone (hello world)"},
		{stringer("Class A object"), "unknown or bad timezone (Class A object)"},
		{struct{}{}, "NewTimeZone() expects parameter 1 to be string, object given"},
		{"0", "unknown or bad timezone (0)"},
		{"-12345", "unknown or bad timezone (-12345)"},
		{".5", "unknown or bad timezone (.5)"},
	}
	for _, c := range cases {
		_, err := env.NewTimeZoneFromValue(c.value)
		require.EqualError(t, err, c.want, "NewTimeZoneFromValue(%#v)", c.value)
	}

	_, err := env.NewTimeZoneFromValue("Mars/Olympus_Mons")
	require.True(t, errors.Is(err, tzdir.ErrUnknownZone))
	var unknown *UnknownTimezoneError
	require.ErrorAs(t, err, &unknown)
	require.Equal(t, "Mars/Olympus_Mons", unknown.Name)
}

func TestResolveHint(t *testing.T) {
	env := testEnv(t, "UTC")

	cases := []struct {
		text string
		want Hint
	}{
		{"GMT", Hint{Identifier: "GMT"}},
		{"gmt+0500", Hint{Identifier: "GMT", Offset: 18000}},
		{"GMT-03:30", Hint{Identifier: "GMT", Offset: -12600}},
		{"bdst", Hint{Identifier: "Europe/London", Offset: 7200, DST: true}},
		{"EST", Hint{Identifier: "America/New_York", Offset: -18000, DST: true}},
		{"Europe/Paris", Hint{Identifier: "Europe/Paris", Offset: 7200, DST: true}},
	}
	for _, c := range cases {
		got, err := env.ResolveHint(c.text)
		require.NoError(t, err, "ResolveHint(%q)", c.text)
		if diff := cmp.Diff(c.want, got); diff != "" {
			t.Errorf("ResolveHint(%q) mismatch (-want +got):\n%s", c.text, diff)
		}
	}

	_, err := env.ResolveHint("XYZ")
	require.ErrorIs(t, err, tzdir.ErrUnknownZone)
}

func TestDefaultTimezone(t *testing.T) {
	env := &Environment{Directory: tzdir.NewSystem()}
	require.Equal(t, "UTC", env.DefaultTimezone())

	require.NoError(t, env.SetDefaultTimezone("Europe/Berlin"))
	require.Equal(t, "Europe/Berlin", env.DefaultTimezone())

	err := env.SetDefaultTimezone("Nowhere/Special")
	require.EqualError(t, err, "unknown or bad timezone (Nowhere/Special)")
	require.Equal(t, "Europe/Berlin", env.DefaultTimezone())
}

func TestListings(t *testing.T) {
	env := testEnv(t, "GMT")

	ids := env.ListIdentifiers()
	for _, id := range []string{"Europe/London", "America/New_York", "UTC"} {
		require.Contains(t, ids, id)
	}

	acst := env.ListAbbreviations()["acst"]
	want := []tzdir.Candidate{
		{Offset: -14400, DST: true, Identifier: "America/Porto_Acre"},
		{Offset: -14400, DST: true, Identifier: "America/Eirunepe"},
		{Offset: -14400, DST: true, Identifier: "America/Rio_Branco"},
		{Offset: -14400, DST: true, Identifier: "Brazil/Acre"},
	}
	if diff := cmp.Diff(want, acst[:4]); diff != "" {
		t.Errorf("acst mismatch (-want +got):\n%s", diff)
	}
}

func TestWithDefaultTimezone(t *testing.T) {
	env := testEnv(t, "Europe/London")

	err := env.withDefaultTimezone("Asia/Tokyo", func() error {
		require.Equal(t, "Asia/Tokyo", env.DefaultTimezone())
		d, err := env.New("@0", nil)
		require.NoError(t, err)
		s, err := d.SetTimezone(nil).Format("H:i e")
		require.NoError(t, err)
		require.Equal(t, "09:00 Asia/Tokyo", s)
		return errors.New("render failed")
	})
	require.EqualError(t, err, "render failed")
	require.Equal(t, "Europe/London", env.DefaultTimezone())

	require.Panics(t, func() {
		_ = env.withDefaultTimezone("Asia/Tokyo", func() error { panic("render panicked") })
	})
	require.Equal(t, "Europe/London", env.DefaultTimezone())
}
