package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/odvcencio/ugit/pkg/object"
	"github.com/odvcencio/ugit/pkg/repo"
)

func newInitCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Create an empty repository",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.workDir()
			if len(args) > 0 {
				path = args[0]
			}

			algo, err := object.ParseAlgorithm(a.v.GetString("object_format"))
			if err != nil {
				return err
			}
			opts := append(a.repoOptions(),
				repo.WithObjectFormat(algo),
				repo.WithDefaultBranch(a.v.GetString("default_branch")),
			)

			r, err := repo.Init(path, opts...)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized empty ugit repository in %s\n", filepath.Join(r.RootDir, r.MetaDir))
			return nil
		},
	}

	cmd.Flags().String("object-format", string(object.DefaultAlgorithm), "object id digest: sha1, sha256 or blake2b")
	cmd.Flags().String("default-branch", repo.DefaultBranch, "branch HEAD points at")
	a.v.BindPFlag("object_format", cmd.Flags().Lookup("object-format"))
	a.v.BindPFlag("default_branch", cmd.Flags().Lookup("default-branch"))

	return cmd
}
