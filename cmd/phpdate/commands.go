package main

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/ngrash/go-datetime/datetime"
	"github.com/ngrash/go-datetime/internal/layout"
)

var integer = regexp.MustCompile(`^[+-]?\d+$`)

func newFormatCmd(a *app) *cobra.Command {
	var at string
	cmd := &cobra.Command{
		Use:   "format [layout]",
		Short: "Format an instant",
		Long: `Format renders the current time, or the instant given by --at, with a
PHP date layout. --at accepts a Unix timestamp or any text the DateTime
constructor understands. Without a layout argument, the configured layout
or RFC 2822 is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var l string
			if len(args) == 1 {
				l = args[0]
			}
			d, err := a.instant(at)
			if err != nil {
				return err
			}
			s, err := d.Format(a.layout(l, datetime.RFC2822))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), s)
			return nil
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "Unix timestamp or date text to format instead of now")
	return cmd
}

// instant resolves the --at flag. Unix timestamps are shown in the default zone.
func (a *app) instant(at string) (*datetime.DateTime, error) {
	if integer.MatchString(at) {
		d, err := a.env.New("@"+strings.TrimPrefix(at, "+"), nil)
		if err != nil {
			return nil, err
		}
		return d.SetTimezone(nil), nil
	}
	return a.env.New(at, nil)
}

func newParseCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "parse <layout> <value>",
		Short: "Parse a value with a createFromFormat layout",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.env.CreateFromFormat(args[0], args[1], nil)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if unix, err := d.Timestamp(); err == nil {
				fmt.Fprintf(w, "timestamp: %d\n", unix)
			} else if errors.Is(err, datetime.ErrUnavailable) {
				fmt.Fprintln(w, "timestamp: out of range")
			} else {
				return err
			}
			s, err := d.Format(a.layout(output, datetime.ATOM))
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "formatted: %s\n", s)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "layout of the formatted result")
	return cmd
}

func newZonesCmd(a *app) *cobra.Command {
	var offsets bool
	cmd := &cobra.Command{
		Use:   "zones [prefix]",
		Short: "List zone identifiers",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var prefix string
			if len(args) == 1 {
				prefix = args[0]
			}
			now, err := a.env.New("now", nil)
			if err != nil {
				return err
			}
			unix, err := now.Timestamp()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, id := range a.env.ListIdentifiers() {
				if !strings.HasPrefix(id, prefix) {
					continue
				}
				if !offsets {
					fmt.Fprintln(w, id)
					continue
				}
				z, err := a.env.NewTimeZone(id)
				if err != nil {
					return err
				}
				off, err := z.OffsetAt(unix)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", id, layout.FormatOffset(off.Seconds, true), off.Abbreviation)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&offsets, "offsets", false, "show the current offset and abbreviation of each zone")
	return cmd
}

func newAbbrevsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "abbrevs [abbr]",
		Short: "List time zone abbreviations and the zones they stand for",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			all := a.env.ListAbbreviations()
			var keys []string
			if len(args) == 1 {
				key := strings.ToLower(args[0])
				if _, ok := all[key]; !ok {
					return errors.Newf("unknown abbreviation %q", args[0])
				}
				keys = []string{key}
			} else {
				for k := range all {
					keys = append(keys, k)
				}
				sort.Strings(keys)
			}
			w := cmd.OutOrStdout()
			for _, k := range keys {
				for _, c := range all[k] {
					kind := "std"
					if c.DST {
						kind = "dst"
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", k, layout.FormatOffset(c.Offset, true), kind, c.Identifier)
				}
			}
			return nil
		},
	}
}
