package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"

	"github.com/ngrash/go-datetime/tzif"
)

func newDiffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff <tzif file A> <tzif file B>",
		Short: "Compare the decoded content of two TZif files",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := decodeFile(args[0])
			if err != nil {
				return err
			}
			b, err := decodeFile(args[1])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if diff := cmp.Diff(a, b); diff != "" {
				fmt.Fprintln(w, "files are different: -A +B")
				fmt.Fprintln(w, diff)
			} else {
				fmt.Fprintln(w, "files are identical")
			}
			return nil
		},
	}
}

func decodeFile(name string) (*tzif.File, error) {
	b, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "reading file")
	}
	f, err := tzif.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, errors.Wrapf(err, "decoding %s", name)
	}
	return f, nil
}
