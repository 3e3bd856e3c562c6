package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/odvcencio/ugit/pkg/object"
)

func newCatFileCmd(a *app) *cobra.Command {
	var expected string
	var showType bool

	cmd := &cobra.Command{
		Use:   "cat-file <object>",
		Short: "Print the content of an object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, h, err := a.resolve(args[0])
			if err != nil {
				return err
			}

			if showType {
				objType, _, err := r.Store.Read(h)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), objType)
				return nil
			}

			data, err := r.Store.Get(h, object.ObjectType(expected))
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().StringVarP(&expected, "expect", "e", "", "fail unless the object has this type")
	cmd.Flags().BoolVarP(&showType, "type", "t", false, "print the object type instead of its content")
	return cmd
}
