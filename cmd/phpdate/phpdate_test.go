package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/ngrash/go-datetime/tzif"
)

var london = tzif.DataBlock{
	TransitionTimes: []int64{1111885200, 1130634000},
	TransitionTypes: []uint8{1, 0},
	LocalTimeTypes: []tzif.LocalTimeType{
		{Utoff: 0, Idx: 0},
		{Utoff: 3600, Dst: true, Idx: 4},
	},
	Designations: []byte("GMT\x00BST\x00"),
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func writeZone(t *testing.T, dir, name string) string {
	t.Helper()
	var buf bytes.Buffer
	f := &tzif.File{Version: tzif.V2, V1Data: london, V2Data: london, TZString: "GMT0BST,M3.5.0/1,M10.5.0"}
	require.NoError(t, f.Encode(&buf))
	return writeFile(t, dir, name, buf.Bytes())
}

func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	t.Setenv(envTimezone, "")
	return runWithEnv(t, args...)
}

func runWithEnv(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	a := &app{now: func() time.Time { return time.Unix(1596185377, 0) }}
	cmd := newRootCmd(a)
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestFormat(t *testing.T) {
	cases := []struct {
		args []string
		want string
	}{
		{[]string{"format", "--tz", "Europe/London", "--at", "1121376641", "Y-m-d H:i:s T"}, "2005-07-14 22:30:41 BST\n"},
		{[]string{"format", "--tz", "Europe/London", "--at", "2005-07-14 22:30:41", "U"}, "1121376641\n"},
		{[]string{"format", "--tz", "America/New_York", "--at", "1121376641"}, "Thu, 14 Jul 2005 18:30:41 -0400\n"},
		{[]string{"format", "--at", "0", "Y-m-d H:i:s e"}, "1970-01-01 00:00:00 UTC\n"},
		{[]string{"format", "--tz", "Asia/Tokyo", "H:i"}, "17:49\n"},
	}
	for _, c := range cases {
		got, _, err := run(t, c.args...)
		require.NoError(t, err, "%v", c.args)
		if diff := cmp.Diff(c.want, got); diff != "" {
			t.Errorf("%v mismatch (-want +got):\n%s", c.args, diff)
		}
	}
}

func TestFormat_Errors(t *testing.T) {
	_, _, err := run(t, "format", "--tz", "Nowhere/Special")
	require.EqualError(t, err, "default timezone: unknown or bad timezone (Nowhere/Special)")

	_, _, err = run(t, "format", "--at", "not a date")
	require.EqualError(t, err, `failed to parse string "not a date"`)
}

func TestTimezoneFromEnvironment(t *testing.T) {
	t.Setenv(envTimezone, "Asia/Tokyo")

	got, _, err := runWithEnv(t, "format", "--at", "0", "H:i e")
	require.NoError(t, err)
	require.Equal(t, "09:00 Asia/Tokyo\n", got)

	got, _, err = runWithEnv(t, "format", "--tz", "Europe/Paris", "--at", "0", "H:i e")
	require.NoError(t, err)
	require.Equal(t, "01:00 Europe/Paris\n", got)
}

func TestConfig(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"phpdate.toml": "default_timezone = \"America/New_York\"\nlayout = \"Y-m-d H:i T\"\n",
		"phpdate.yaml": "default_timezone: America/New_York\nlayout: Y-m-d H:i T\n",
		"phpdate.yml":  "default_timezone: America/New_York\nlayout: Y-m-d H:i T\n",
	}
	for name, content := range files {
		path := writeFile(t, dir, name, []byte(content))

		got, _, err := run(t, "--config", path, "format", "--at", "1121376641")
		require.NoError(t, err, name)
		require.Equal(t, "2005-07-14 18:30 EDT\n", got, name)

		// An explicit layout wins over the configured one.
		got, _, err = run(t, "--config", path, "format", "--at", "1121376641", "H")
		require.NoError(t, err, name)
		require.Equal(t, "18\n", got, name)
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()

	c, err := LoadConfig(writeFile(t, dir, "empty.yaml", nil))
	require.NoError(t, err)
	require.Equal(t, Config{}, c)

	c, err = LoadConfig(writeFile(t, dir, "all.toml", []byte("default_timezone = \"UTC\"\nzoneinfo_dir = \"/zi\"\nlayout = \"c\"\n")))
	require.NoError(t, err)
	if diff := cmp.Diff(Config{DefaultTimezone: "UTC", ZoneinfoDir: "/zi", Layout: "c"}, c); diff != "" {
		t.Errorf("LoadConfig mismatch (-want +got):\n%s", diff)
	}

	_, err = LoadConfig(writeFile(t, dir, "unknown.toml", []byte("timezone = \"UTC\"\nlayout = \"c\"\n")))
	require.ErrorContains(t, err, "unknown keys timezone")

	_, err = LoadConfig(writeFile(t, dir, "unknown.yaml", []byte("timezone: UTC\n")))
	require.ErrorContains(t, err, "field timezone not found")

	_, err = LoadConfig(writeFile(t, dir, "config.json", []byte("{}")))
	require.EqualError(t, err, `unsupported config format ".json"`)

	_, err = LoadConfig(filepath.Join(dir, "missing.toml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestZoneinfoDir(t *testing.T) {
	dir := t.TempDir()
	zoneinfo := filepath.Join(dir, "zoneinfo")
	writeZone(t, zoneinfo, "Europe/London")
	path := writeFile(t, dir, "phpdate.toml", []byte("zoneinfo_dir = \""+filepath.ToSlash(zoneinfo)+"\"\n"))

	got, _, err := run(t, "--config", path, "--tz", "Europe/London", "format", "--at", "1121376641", "H:i T e")
	require.NoError(t, err)
	require.Equal(t, "22:30 BST Europe/London\n", got)

	got, _, err = run(t, "--config", path, "zones")
	require.NoError(t, err)
	require.Equal(t, "Europe/London\n", got)

	// Zones missing from the directory are unknown.
	_, _, err = run(t, "--config", path, "--tz", "Europe/Paris", "format")
	require.Error(t, err)
}

func TestParse(t *testing.T) {
	got, _, err := run(t, "--tz", "Europe/London", "parse", "Y-m-d H:i:s", "2005-07-14 22:30:41")
	require.NoError(t, err)
	require.Equal(t, "timestamp: 1121376641\nformatted: 2005-07-14T22:30:41+01:00\n", got)

	got, _, err = run(t, "parse", "-o", "D, d M Y", "Y-m-d|", "0000-01-01")
	require.NoError(t, err)
	require.Equal(t, "timestamp: out of range\nformatted: Thu, 01 Jan 0000\n", got)

	_, stderr, err := run(t, "parse", "Y-m-d", "2010")
	require.EqualError(t, err, `Data missing near "... -m-d ..."`)
	require.Contains(t, stderr, "op=CreateFromFormat")
}

func TestZones(t *testing.T) {
	got, _, err := run(t, "zones", "Europe/Lond")
	require.NoError(t, err)
	require.Equal(t, "Europe/London\n", got)

	got, _, err = run(t, "zones", "--offsets", "Asia/Kolk")
	require.NoError(t, err)
	require.Equal(t, "Asia/Kolkata\t+05:30\tIST\n", got)
}

func TestAbbrevs(t *testing.T) {
	got, _, err := run(t, "abbrevs", "BDST")
	require.NoError(t, err)
	require.Equal(t, "bdst\t+02:00\tdst\tEurope/London\nbdst\t+02:00\tdst\tGB\n", got)

	got, _, err = run(t, "abbrevs")
	require.NoError(t, err)
	require.Contains(t, got, "est\t-05:00\tstd\tAmerica/New_York\n")

	_, _, err = run(t, "abbrevs", "xyz")
	require.EqualError(t, err, `unknown abbreviation "xyz"`)
}

func TestInspect(t *testing.T) {
	path := writeZone(t, t.TempDir(), "London")

	got, stderr, err := run(t, "inspect", "--at", "1121376641", path)
	require.NoError(t, err)
	require.Empty(t, stderr)
	for _, want := range []string{
		"Version: V2 (0x32)\n",
		"  timecnt  = 2\n",
		"    1: +01:00 dst=true BST\n",
		"  Designations (8) = [GMT BST]\n",
		"  TZString = GMT0BST,M3.5.0/1,M10.5.0\n",
		"Zone types (4)\n",
		"At 1121376641: +01:00 BST dst=true\n",
	} {
		require.Contains(t, got, want)
	}

	got, _, err = run(t, "inspect", "--v1", path)
	require.NoError(t, err)
	require.Contains(t, got, "Data block V1 (0x00)\n")

	bad := writeFile(t, t.TempDir(), "bad", []byte("not a zone"))
	_, _, err = run(t, "inspect", bad)
	require.ErrorContains(t, err, "decoding "+bad)
}

func TestDiff(t *testing.T) {
	dir := t.TempDir()
	a := writeZone(t, dir, "a")
	b := writeZone(t, dir, "b")

	got, _, err := run(t, "diff", a, b)
	require.NoError(t, err)
	require.Equal(t, "files are identical\n", got)

	var buf bytes.Buffer
	f := &tzif.File{Version: tzif.V2, V1Data: london, V2Data: london, TZString: "GMT0"}
	require.NoError(t, f.Encode(&buf))
	c := writeFile(t, dir, "c", buf.Bytes())

	got, _, err = run(t, "diff", a, c)
	require.NoError(t, err)
	require.Contains(t, got, "files are different: -A +B\n")
	require.Contains(t, got, "GMT0BST,M3.5.0/1,M10.5.0")

	_, _, err = run(t, "diff", a, filepath.Join(dir, "missing"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
