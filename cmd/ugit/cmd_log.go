package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/odvcencio/ugit/pkg/object"
	"github.com/odvcencio/ugit/pkg/refs"
)

func newLogCmd(a *app) *cobra.Command {
	var oneline bool
	var limit int

	cmd := &cobra.Command{
		Use:   "log [start]",
		Short: "Show commit history",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.open()
			if err != nil {
				return err
			}

			var h object.Hash
			if len(args) > 0 {
				if h, err = r.ResolveName(args[0]); err != nil {
					return err
				}
			} else {
				var ok bool
				h, ok, err = r.Refs.Resolve(refs.Head)
				if err != nil {
					return err
				}
				if !ok {
					return nil // no commits yet
				}
			}

			entries, err := r.Log(h, limit)
			if err != nil {
				return err
			}

			// Decorate commits that refs point at.
			list, err := r.ListRefs()
			if err != nil {
				return err
			}
			names := make(map[object.Hash][]string)
			for _, ref := range list {
				if ref.Hash != "" {
					names[ref.Hash] = append(names[ref.Hash], shortRefName(ref.Name))
				}
			}

			out := cmd.OutOrStdout()
			for _, e := range entries {
				decoration := ""
				if n := names[e.Hash]; len(n) > 0 {
					decoration = " (" + strings.Join(n, ", ") + ")"
				}
				if oneline {
					subject, _, _ := strings.Cut(e.Commit.Message, "\n")
					fmt.Fprintf(out, "%s%s %s\n", shortHash(e.Hash), decoration, subject)
					continue
				}
				fmt.Fprintf(out, "commit %s%s\n\n", e.Hash, decoration)
				for _, line := range strings.Split(strings.TrimRight(e.Commit.Message, "\n"), "\n") {
					fmt.Fprintf(out, "    %s\n", line)
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&oneline, "oneline", false, "one line per commit")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum number of commits (0 = all)")
	return cmd
}

func shortHash(h object.Hash) string {
	s := string(h)
	if len(s) > 10 {
		return s[:10]
	}
	return s
}

func shortRefName(name string) string {
	if s, ok := strings.CutPrefix(name, refs.HeadsPrefix); ok {
		return s
	}
	if s, ok := strings.CutPrefix(name, refs.TagsPrefix); ok {
		return "tag: " + s
	}
	return name
}
