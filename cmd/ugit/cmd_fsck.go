package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

func newFsckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "fsck",
		Short: "Verify object integrity and reachability",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.open()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			report, err := r.Fsck()
			if report != nil {
				for _, name := range report.DanglingRefs {
					fmt.Fprintf(out, "dangling ref %s\n", name)
				}
				for _, h := range report.Unreachable {
					fmt.Fprintf(out, "unreachable %s\n", h)
				}
			}
			if err != nil {
				for _, e := range multierr.Errors(err) {
					fmt.Fprintf(out, "error: %v\n", e)
				}
				return fmt.Errorf("fsck: %d problem(s) found", len(multierr.Errors(err)))
			}
			fmt.Fprintf(out, "ok: checked %d object(s), %d reachable\n", report.Objects, report.Reachable)
			return nil
		},
	}
}

func newGCCmd(a *app) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "gc",
		Short: "Delete objects no ref can reach",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.open()
			if err != nil {
				return err
			}
			sum, err := r.GC(dryRun)
			if err != nil {
				return err
			}
			verb := "pruned"
			if dryRun {
				verb = "would prune"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d object(s), kept %d\n", verb, len(sum.Pruned), sum.Kept)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "only report what would be deleted")
	return cmd
}
