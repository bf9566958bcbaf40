package main

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/ngrash/go-datetime/datetime"
	"github.com/ngrash/go-datetime/tzdir"
)

// envTimezone overrides the default_timezone of the config file.
const envTimezone = "PHPDATE_TZ"

type app struct {
	configFile string
	tz         string
	verbose    bool

	// now is the clock of the environment; nil means time.Now.
	now func() time.Time

	cfg    Config
	env    *datetime.Environment
	logger *slog.Logger
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "phpdate",
		Short: "Parse and format dates with PHP date layouts",
		Long: `phpdate formats instants and parses date strings with the layout
characters of PHP's date() and DateTime::createFromFormat().

Zones are resolved from the embedded IANA database, or from the TZif files
below zoneinfo_dir when the config file sets it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.ErrOrStderr())
		},
	}
	cmd.PersistentFlags().StringVar(&a.configFile, "config", "", "config file (.toml, .yaml or .yml)")
	cmd.PersistentFlags().StringVar(&a.tz, "tz", "", "default time zone, overrides $"+envTimezone+" and the config file")
	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log debug output to stderr")

	cmd.AddCommand(
		newFormatCmd(a),
		newParseCmd(a),
		newZonesCmd(a),
		newAbbrevsCmd(a),
		newInspectCmd(a),
		newDiffCmd(),
	)
	return cmd
}

// setup loads the config and builds the environment all commands work in.
func (a *app) setup(stderr io.Writer) error {
	level := slog.LevelInfo
	if a.verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	if a.configFile != "" {
		cfg, err := LoadConfig(a.configFile)
		if err != nil {
			return err
		}
		a.cfg = cfg
		a.logger.Debug("loaded config", slog.String("path", a.configFile))
	}

	var dir tzdir.Directory = tzdir.NewSystem()
	if a.cfg.ZoneinfoDir != "" {
		dir = tzdir.NewZoneinfo(os.DirFS(a.cfg.ZoneinfoDir))
	}
	a.env = &datetime.Environment{Directory: dir, Now: a.now, Logger: a.logger}

	tz := a.cfg.DefaultTimezone
	if v := os.Getenv(envTimezone); v != "" {
		tz = v
	}
	if a.tz != "" {
		tz = a.tz
	}
	if tz != "" {
		if err := a.env.SetDefaultTimezone(tz); err != nil {
			return errors.Wrap(err, "default timezone")
		}
	}
	a.logger.Debug("environment ready",
		slog.String("timezone", a.env.DefaultTimezone()),
		slog.String("zoneinfo", a.cfg.ZoneinfoDir))
	return nil
}

// layout returns l, or the configured layout, or fallback.
func (a *app) layout(l, fallback string) string {
	switch {
	case l != "":
		return l
	case a.cfg.Layout != "":
		return a.cfg.Layout
	}
	return fallback
}
