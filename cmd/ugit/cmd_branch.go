package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newBranchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "branch [name] [start]",
		Short: "List branches, or create one at start (default HEAD)",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.open()
			if err != nil {
				return err
			}

			if len(args) == 0 {
				current, err := r.CurrentBranch()
				if err != nil {
					return err
				}
				names, err := r.ListBranches()
				if err != nil {
					return err
				}
				for _, name := range names {
					marker := "  "
					if name == current {
						marker = "* "
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s%s\n", marker, name)
				}
				return nil
			}

			start := "@"
			if len(args) == 2 {
				start = args[1]
			}
			h, err := r.ResolveName(start)
			if err != nil {
				return err
			}
			if err := r.CreateBranch(args[0], h); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Branch %s created at %s\n", args[0], shortHash(h))
			return nil
		},
	}
}
