package main

import (
	"github.com/spf13/cobra"

	"github.com/odvcencio/ugit/pkg/diff"
	"github.com/odvcencio/ugit/pkg/object"
	"github.com/odvcencio/ugit/pkg/refs"
	"github.com/odvcencio/ugit/pkg/repo"
)

func newDiffCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "diff [from] [to]",
		Short: "Show changes between commits, or between a commit and the working directory",
		Long: "With no arguments, compares HEAD with the working directory. With one,\n" +
			"compares that commit with the working directory. With two, compares the\n" +
			"two commits.",
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.open()
			if err != nil {
				return err
			}

			var from object.Hash
			if len(args) > 0 {
				if from, err = r.ResolveName(args[0]); err != nil {
					return err
				}
			} else if from, _, err = r.Refs.Resolve(refs.Head); err != nil {
				return err
			}

			var patches []repo.Patch
			if len(args) == 2 {
				to, err := r.ResolveName(args[1])
				if err != nil {
					return err
				}
				patches, err = r.DiffCommits(from, to)
				if err != nil {
					return err
				}
			} else if patches, err = r.DiffWorkTree(from); err != nil {
				return err
			}

			for _, p := range patches {
				if err := diff.WriteFile(cmd.OutOrStdout(), p.Change, p.Before, p.After); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
