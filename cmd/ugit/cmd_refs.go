package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newShowRefCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show-ref",
		Short: "List HEAD and every ref with the object it resolves to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.open()
			if err != nil {
				return err
			}
			list, err := r.ListRefs()
			if err != nil {
				return err
			}
			for _, ref := range list {
				h := string(ref.Hash)
				if h == "" {
					h = "(unborn)"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", h, ref.Name)
			}
			return nil
		},
	}
}

func newRevParseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rev-parse <name>",
		Short: "Resolve a ref, tag, branch or object id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, h, err := a.resolve(args[0])
			if err != nil {
				return err
			}
			if !r.Store.Has(h) {
				return fmt.Errorf("rev-parse: unknown name %q", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), h)
			return nil
		},
	}
}
