package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show working directory changes against HEAD",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.open()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			branch, err := r.CurrentBranch()
			if err != nil {
				return err
			}
			if branch != "" {
				fmt.Fprintf(out, "On branch %s\n", branch)
			} else {
				fmt.Fprintln(out, "HEAD detached")
			}

			entries, err := r.Status()
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(out, "nothing to commit, working tree clean")
				return nil
			}
			for _, e := range entries {
				fmt.Fprintf(out, "%-10s %s\n", e.Status.String()+":", e.Path)
			}
			return nil
		},
	}
}
