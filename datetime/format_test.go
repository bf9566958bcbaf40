package datetime

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func london(t *testing.T) (*Environment, *DateTime) {
	t.Helper()
	env := testEnv(t, "Europe/London")
	d, err := env.New("2005-07-14 22:30:41", nil)
	require.NoError(t, err)
	return env, d
}

func TestFormat(t *testing.T) {
	_, d := london(t)

	cases := []struct {
		layout string
		want   string
	}{
		{"F j, Y, g:i a", "July 14, 2005, 10:30 pm"},
		{"m.d.y", "07.14.05"},
		{"j, n, Y", "14, 7, 2005"},
		{"Ymd", "20050714"},
		{"h-i-s, j-m-y, it is w Day", "10-30-41, 14-07-05, 3031 3041 4 Thupm05"},
		{`\i\t \i\s \t\h\e jS \d\a\y.`, "it is the 14th day."},
		{"D M j G:i:s T Y", "Thu Jul 14 22:30:41 BST 2005"},
		{`H:m:s \m \i\s\ \m\o\n\t\h`, "22:07:41 m is month"},
		{"H:i:s", "22:30:41"},
		{ATOM, "2005-07-14T22:30:41+01:00"},
		{COOKIE, "Thursday, 14-Jul-05 22:30:41 BST"},
		{ISO8601, "2005-07-14T22:30:41+0100"},
		{RFC822, "Thu, 14 Jul 05 22:30:41 +0100"},
		{RFC850, "Thursday, 14-Jul-05 22:30:41 BST"},
		{RFC1036, "Thu, 14 Jul 05 22:30:41 +0100"},
		{RFC1123, "Thu, 14 Jul 2005 22:30:41 +0100"},
		{RFC2822, "Thu, 14 Jul 2005 22:30:41 +0100"},
		{RFC3339, "2005-07-14T22:30:41+01:00"},
		{RSS, "Thu, 14 Jul 2005 22:30:41 +0100"},
		{W3C, "2005-07-14T22:30:41+01:00"},
	}
	for _, c := range cases {
		got, err := d.Format(c.layout)
		require.NoError(t, err)
		if diff := cmp.Diff(c.want, got); diff != "" {
			t.Errorf("Format(%q) mismatch (-want +got):\n%s", c.layout, diff)
		}
	}
}

func TestFormatValue(t *testing.T) {
	var logs bytes.Buffer
	env, d := london(t)
	env.Logger = slog.New(slog.NewTextHandler(&logs, nil))

	cases := []struct {
		value   any
		want    string
		invalid bool
	}{
		{value: 0, want: "0"},
		{value: 1, want: "1"},
		{value: 12345, want: "12345"},
		{value: -12345, want: "-12345"},
		{value: 10.5, want: "10.5"},
		{value: -10.5, want: "-10.5"},
		{value: .5, want: "0.5"},
		{value: []int{}, invalid: true},
		{value: []int{1, 2, 3}, invalid: true},
		{value: map[string]int{"one": 1, "two": 2}, invalid: true},
		{value: nil, want: ""},
		{value: true, want: "1"},
		{value: false, want: ""},
		{value: "", want: ""},
		{value: "string", want: "4131Thu, 14 Jul 2005 22:30:41 +010030710"},
		{value: "sTrInG", want: "41BSTThu, 14 Jul 2005 22:30:41 +01001722"},
		{value: "hello world", want: "10Europe/LondonThursdayThursday2005 42005Thu, 14 Jul 2005 22:30:41 +0100Thursday14"},
		{value: stringer("Class A object"), want: "CThursdaypm4141 PM 2005b14Europe/London2005-07-14T22:30:41+01:0031"},
		{value: struct{}{}, invalid: true},
	}
	for _, c := range cases {
		got, err := d.FormatValue(c.value)
		if c.invalid {
			require.ErrorIs(t, err, ErrInvalidArgument, "FormatValue(%#v)", c.value)
			continue
		}
		require.NoError(t, err, "FormatValue(%#v)", c.value)
		if diff := cmp.Diff(c.want, got); diff != "" {
			t.Errorf("FormatValue(%#v) mismatch (-want +got):\n%s", c.value, diff)
		}
	}
	require.Contains(t, logs.String(), "Format() expects parameter 1 to be string, object given")
}

func TestFormat_ExplicitGMT(t *testing.T) {
	env := testEnv(t, "Europe/London")
	gmt := mustZone(t, env, "GMT")

	d, err := env.CreateFromFormat("D, d M Y H:i:s T", "Fri, 31 Dec 2010 23:59:59 GMT", gmt)
	require.NoError(t, err)
	unix := timestamp(t, d)

	d, err = env.CreateFromFormat("U", "1293839999", gmt)
	require.NoError(t, err)
	require.Equal(t, unix, timestamp(t, d))

	cases := []struct {
		layout string
		want   string
	}{
		{"D, d M Y H:i:s T", "Fri, 31 Dec 2010 23:59:59 GMT+0000"},
		{"D, d M Y H:i:s", "Fri, 31 Dec 2010 23:59:59"},
		{"T T", "GMT+0000 GMT+0000"},
		{`\\T`, `\GMT+0000`},
		{`\T`, "T"},
	}
	for _, c := range cases {
		got, err := d.Format(c.layout)
		require.NoError(t, err)
		if diff := cmp.Diff(c.want, got); diff != "" {
			t.Errorf("Format(%q) mismatch (-want +got):\n%s", c.layout, diff)
		}
	}
}

func TestFormat_PinnedZone(t *testing.T) {
	env := testEnv(t, "Europe/London")
	paris := mustZone(t, env, "Europe/Paris")

	d, err := env.CreateFromFormat("D, d M Y H:i:s", "Fri, 31 Dec 2010 23:59:59", paris)
	require.NoError(t, err)
	require.Equal(t, int64(1293836399), timestamp(t, d))

	got, err := d.Format("D, d M Y H:i:s T")
	require.NoError(t, err)
	require.Equal(t, "Fri, 31 Dec 2010 23:59:59 CET", got)

	u, err := env.CreateFromFormat("U", "1293836399", paris)
	require.NoError(t, err)
	got, err = u.Format("D, d M Y H:i:s T")
	require.NoError(t, err)
	require.Equal(t, "Fri, 31 Dec 2010 22:59:59 GMT+0000", got)
}

func TestFormat_RestoresDefaultTimezone(t *testing.T) {
	env := testEnv(t, "Europe/London")
	paris := mustZone(t, env, "Europe/Paris")

	d, err := env.New("2005-07-14 22:30:41", paris)
	require.NoError(t, err)
	_, err = d.Format("e")
	require.NoError(t, err)
	require.Equal(t, "Europe/London", env.DefaultTimezone())
}

func TestFormat_Override(t *testing.T) {
	env := testEnv(t, "UTC")
	eucla := mustZone(t, env, "Australia/Eucla")

	d, err := env.New("@1293839999", nil)
	require.NoError(t, err)
	d.SetTimezone(eucla)

	got, err := d.Format("Y-m-d H:i:s O P T e")
	require.NoError(t, err)
	require.Equal(t, "2011-01-01 08:44:59 +0845 +08:45 ACWST Australia/Eucla", got)

	RegisterZoneOverride("Etc/GMT-3", ZoneOverride{Offset: 3*3600 + 30*60, Abbreviation: "XST"})
	t.Cleanup(func() {
		overrides.Lock()
		delete(overrides.m, "Etc/GMT-3")
		overrides.Unlock()
	})
	d.SetTimezone(mustZone(t, env, "Etc/GMT-3"))
	got, err = d.Format("H:i P T")
	require.NoError(t, err)
	require.Equal(t, "03:29 +03:30 XST", got)
}
