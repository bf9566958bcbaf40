package datetime

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestSetTime(t *testing.T) {
	cases := []struct {
		args []NumericInput
		want string
	}{
		{[]NumericInput{Int(24), Int(10), Int(0)}, "2009-02-01 00:10:00"},
		{[]NumericInput{Int(54), Int(25), Int(0)}, "2009-02-02 06:25:00"},
		{[]NumericInput{Int(-1), Int(0)}, "2009-01-30 23:00:00"},
		{[]NumericInput{NumericString("7"), NumericString("8.9"), nil}, "2009-01-31 07:08:00"},
		{[]NumericInput{Int(10), Int(61), Int(3600)}, "2009-01-31 12:01:00"},
	}
	for _, c := range cases {
		env := testEnv(t, "Europe/London")
		d, err := env.CreateFromFormat("Y-m-d H:i:s", "2009-01-31 15:14:10", nil)
		require.NoError(t, err)

		got, err := d.SetTime(c.args...)
		require.NoError(t, err)
		require.Same(t, d, got)

		s, err := d.Format("Y-m-d H:i:s")
		require.NoError(t, err)
		if diff := cmp.Diff(c.want, s); diff != "" {
			t.Errorf("SetTime(%v) mismatch (-want +got):\n%s", c.args, diff)
		}
	}
}

func TestSetDate(t *testing.T) {
	cases := []struct {
		year, month, day int64
		want             string
	}{
		{2009, 2, 29, "2009-03-01 15:14:10"},
		{2009, 13, 1, "2010-01-01 15:14:10"},
		{2008, 0, 0, "2007-11-30 15:14:10"},
		{2005, 7, 14, "2005-07-14 15:14:10 BST"},
	}
	for _, c := range cases {
		env := testEnv(t, "Europe/London")
		d, err := env.CreateFromFormat("Y-m-d H:i:s", "2009-01-31 15:14:10", nil)
		require.NoError(t, err)

		_, err = d.SetDate(Int(c.year), Int(c.month), Int(c.day))
		require.NoError(t, err)

		layout := "Y-m-d H:i:s"
		if c.want[len(c.want)-1] == 'T' {
			layout += " T"
		}
		s, err := d.Format(layout)
		require.NoError(t, err)
		require.Equal(t, c.want, s)
	}
}

func TestSetDate_OutOfRange(t *testing.T) {
	env := testEnv(t, "UTC")
	d, err := env.New("@0", nil)
	require.NoError(t, err)

	_, err = d.SetDate(Int(1), Int(2), Int(3))
	require.NoError(t, err)
	_, err = d.Timestamp()
	require.ErrorIs(t, err, ErrUnavailable)

	s, err := d.Format("Y-m-d H:i:s")
	require.NoError(t, err)
	require.Equal(t, "0001-02-03 00:00:00", s)

	// Carrying works on the stored fields as well.
	_, err = d.SetTime(Int(25), Int(0))
	require.NoError(t, err)
	s, err = d.Format("Y-m-d H:i:s")
	require.NoError(t, err)
	require.Equal(t, "0001-02-04 01:00:00", s)
}

func TestSetDate_ArgumentErrors(t *testing.T) {
	var logs bytes.Buffer
	env := testEnv(t, "Europe/London")
	env.Logger = slog.New(slog.NewTextHandler(&logs, nil))

	d, err := env.CreateFromFormat("Y-m-d H:i:s", "2009-01-31 15:14:10", nil)
	require.NoError(t, err)
	before := timestamp(t, d)

	cases := []struct {
		call func() (*DateTime, error)
		err  string
	}{
		{
			call: func() (*DateTime, error) { return d.SetDate(Int(2009), Int(1)) },
			err:  "SetDate() expects exactly 3 parameters, 2 given",
		},
		{
			call: func() (*DateTime, error) { return d.SetDate(Int(2009), Int(1), Int(1), Int(1)) },
			err:  "SetDate() expects exactly 3 parameters, 4 given",
		},
		{
			call: func() (*DateTime, error) { return d.SetDate(Int(2009), NumericString("jan"), Int(1)) },
			err:  "SetDate() expects parameter 2 to be long, string given",
		},
		{
			call: func() (*DateTime, error) { return d.SetTime(Int(1)) },
			err:  "SetTime() expects at least 2 parameters, 1 given",
		},
		{
			call: func() (*DateTime, error) { return d.SetTime(Int(1), Int(2), Int(3), Int(4)) },
			err:  "SetTime() expects at most 3 parameters, 4 given",
		},
		{
			call: func() (*DateTime, error) { return d.SetTime(NumericString("noon"), Int(0)) },
			err:  "SetTime() expects parameter 1 to be long, string given",
		},
	}
	for _, c := range cases {
		got, err := c.call()
		require.Nil(t, got)
		require.EqualError(t, err, c.err)
		require.Contains(t, logs.String(), c.err)
	}

	var countErr *ParameterCountError
	_, err = d.SetDate()
	require.ErrorAs(t, err, &countErr)
	require.Equal(t, 0, countErr.Got)

	require.Equal(t, before, timestamp(t, d))
}

func TestTimezone_PinnedVersusDefault(t *testing.T) {
	env := testEnv(t, "Europe/London")
	paris := mustZone(t, env, "Europe/Paris")

	local, err := env.New("2005-07-14 22:30:41", nil)
	require.NoError(t, err)
	pinned, err := env.New("2005-07-14 22:30:41", paris)
	require.NoError(t, err)

	format := func(d *DateTime) string {
		s, err := d.Format("P e")
		require.NoError(t, err)
		return s
	}
	require.Equal(t, "+01:00 Europe/London", format(local))
	require.Equal(t, "+02:00 Europe/Paris", format(pinned))

	require.NoError(t, env.SetDefaultTimezone("America/New_York"))
	require.Equal(t, "-04:00 America/New_York", format(local))
	require.Equal(t, "+02:00 Europe/Paris", format(pinned))

	// Mutators pin the zone in effect.
	_, err = local.SetTime(Int(12), Int(0))
	require.NoError(t, err)
	require.NoError(t, env.SetDefaultTimezone("Asia/Tokyo"))
	require.Equal(t, "-04:00 America/New_York", format(local))

	d, err := env.New("2005-07-14 22:30:41", nil)
	require.NoError(t, err)
	_, err = d.SetTimestamp(0)
	require.NoError(t, err)
	require.NoError(t, env.SetDefaultTimezone("UTC"))
	s, err := d.Format("Y-m-d H:i:s e")
	require.NoError(t, err)
	require.Equal(t, "1970-01-01 09:00:00 Asia/Tokyo", s)

	d.SetTimezone(nil)
	s, err = d.Format("Y-m-d H:i:s e")
	require.NoError(t, err)
	require.Equal(t, "1970-01-01 00:00:00 UTC", s)
}

func TestRoundTrip(t *testing.T) {
	layouts := []string{ATOM, COOKIE, ISO8601, RFC822, RFC850, RFC1036, RFC1123, RFC2822, RFC3339, RSS, W3C}
	instants := []int64{1121376641, 1105696800, 1293839999, 0, -100000000, 2000000000}

	for _, tz := range []string{"Europe/London", "America/New_York", "UTC"} {
		env := testEnv(t, tz)
		for _, unix := range instants {
			d, err := env.New("now", nil)
			require.NoError(t, err)
			d.SetTimezone(nil)
			d.unix = unix

			for _, l := range layouts {
				s, err := d.Format(l)
				require.NoError(t, err)

				parsed, err := env.CreateFromFormat(l, s, nil)
				require.NoError(t, err, "CreateFromFormat(%q, %q)", l, s)
				require.Equal(t, unix, timestamp(t, parsed), "%s: %q", tz, s)
			}
		}
	}
}
