package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/odvcencio/ugit/pkg/object"
)

func newHashObjectCmd(a *app) *cobra.Command {
	var objType string

	cmd := &cobra.Command{
		Use:   "hash-object <file>",
		Short: "Store a file in the object database and print its id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.open()
			if err != nil {
				return err
			}

			path := args[0]
			if !filepath.IsAbs(path) {
				path = filepath.Join(a.workDir(), path)
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("hash-object: %w", err)
			}

			h, err := r.Store.Write(object.ObjectType(objType), data)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), h)
			return nil
		},
	}

	cmd.Flags().StringVarP(&objType, "type", "t", string(object.TypeBlob), "object type")
	return cmd
}
