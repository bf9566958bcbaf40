package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ngrash/go-datetime/internal/layout"
	"github.com/ngrash/go-datetime/tzif"
)

func newInspectCmd(a *app) *cobra.Command {
	var (
		at int64
		v1 bool
	)
	cmd := &cobra.Command{
		Use:   "inspect <tzif file>",
		Short: "Print the content of a TZif file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := decodeFile(args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			printFile(w, f, v1)
			if err := tzif.Validate(f); err != nil {
				a.logger.Warn("invalid TZif file", slog.String("file", args[0]), slog.Any("err", err))
			}
			z, err := tzif.NewZone(f)
			if err != nil {
				return err
			}
			types := z.Types()
			fmt.Fprintf(w, "Zone types (%d)\n", len(types))
			for _, lt := range types {
				fmt.Fprintf(w, "  %s dst=%t %s\n", layout.FormatOffset(lt.Offset, true), lt.DST, lt.Abbreviation)
			}
			if cmd.Flags().Changed("at") {
				lt := z.Lookup(at)
				fmt.Fprintf(w, "At %d: %s %s dst=%t\n", at, layout.FormatOffset(lt.Offset, true), lt.Abbreviation, lt.DST)
			}
			return nil
		},
	}
	cmd.Flags().Int64Var(&at, "at", 0, "Unix time to look up the local time type for")
	cmd.Flags().BoolVar(&v1, "v1", false, "always print the v1 data block")
	return cmd
}

func printFile(w io.Writer, f *tzif.File, v1 bool) {
	fmt.Fprintln(w, "Version:", f.Version)
	fmt.Fprintln(w)
	if f.Version == tzif.V1 || v1 {
		printBlock(w, tzif.V1, f.V1Data)
	}
	if f.Version > tzif.V1 {
		printBlock(w, f.Version, f.V2Data)
		fmt.Fprintln(w, "Footer")
		fmt.Fprintln(w, "  TZString =", f.TZString)
		fmt.Fprintln(w)
	}
}

func printBlock(w io.Writer, v tzif.Version, b tzif.DataBlock) {
	h := b.Header(v)
	fmt.Fprintln(w, "Header")
	fmt.Fprintln(w, "  isutcnt  =", h.Isutcnt)
	fmt.Fprintln(w, "  isstdcnt =", h.Isstdcnt)
	fmt.Fprintln(w, "  leapcnt  =", h.Leapcnt)
	fmt.Fprintln(w, "  timecnt  =", h.Timecnt)
	fmt.Fprintln(w, "  typecnt  =", h.Typecnt)
	fmt.Fprintln(w, "  charcnt  =", h.Charcnt)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Data block", v)
	fmt.Fprintf(w, "  TransitionTimes (%d) = %v\n", len(b.TransitionTimes), b.TransitionTimes)
	fmt.Fprintf(w, "  TransitionTypes (%d) = %v\n", len(b.TransitionTypes), b.TransitionTypes)
	fmt.Fprintf(w, "  LocalTimeTypes (%d)\n", len(b.LocalTimeTypes))
	for i, t := range b.LocalTimeTypes {
		fmt.Fprintf(w, "    %d: %s dst=%t %s\n", i, layout.FormatOffset(int(t.Utoff), true), t.Dst, b.Designation(t.Idx))
	}
	fmt.Fprintf(w, "  Designations (%d) = %v\n", len(b.Designations), strings.Split(strings.TrimSuffix(string(b.Designations), "\x00"), "\x00"))
	fmt.Fprintf(w, "  LeapSeconds (%d) = %+v\n", len(b.LeapSeconds), b.LeapSeconds)
	fmt.Fprintf(w, "  StandardWallIndicators (%d) = %v\n", len(b.StandardWallIndicators), b.StandardWallIndicators)
	fmt.Fprintf(w, "  UTLocalIndicators (%d) = %v\n", len(b.UTLocalIndicators), b.UTLocalIndicators)
	fmt.Fprintln(w)
}
