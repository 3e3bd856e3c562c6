package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/odvcencio/ugit/pkg/object"
	"github.com/odvcencio/ugit/pkg/repo"
	"github.com/odvcencio/ugit/pkg/worktree"
)

const version = "0.1.0-dev"

func main() {
	root, a := newRootCmd()
	err := root.Execute()
	a.close()
	if err != nil {
		fmt.Fprintln(os.Stderr, "ugit:", err)
		os.Exit(1)
	}
}

// app carries the state shared by every command: CLI configuration and the
// logger built from it.
type app struct {
	v      *viper.Viper
	logger *zap.Logger
}

func newRootCmd() (*cobra.Command, *app) {
	a := &app{v: viper.New(), logger: zap.NewNop()}

	root := &cobra.Command{
		Use:           "ugit",
		Short:         "A minimal content-addressed version control system",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "config file (default: ~/.config/ugit/config.yaml)")
	flags.StringP("dir", "C", ".", "run as if started in this directory")
	flags.String("meta-dir", worktree.DefaultMetaDir, "name of the repository metadata directory")
	flags.BoolP("verbose", "v", false, "enable debug logging")

	a.v.BindPFlag("dir", flags.Lookup("dir"))
	a.v.BindPFlag("meta_dir", flags.Lookup("meta-dir"))
	a.v.BindPFlag("verbose", flags.Lookup("verbose"))

	root.AddCommand(
		newVersionCmd(),
		newInitCmd(a),
		newHashObjectCmd(a),
		newCatFileCmd(a),
		newWriteTreeCmd(a),
		newReadTreeCmd(a),
		newCommitCmd(a),
		newLogCmd(a),
		newCheckoutCmd(a),
		newSwitchCmd(a),
		newTagCmd(a),
		newBranchCmd(a),
		newShowRefCmd(a),
		newRevParseCmd(a),
		newStatusCmd(a),
		newDiffCmd(a),
		newFsckCmd(a),
		newGCCmd(a),
	)
	return root, a
}

func (a *app) init(cmd *cobra.Command) error {
	if cfg, _ := cmd.Flags().GetString("config"); cfg != "" {
		a.v.SetConfigFile(cfg)
	} else {
		a.v.AddConfigPath(configDir())
		a.v.SetConfigName("config")
		a.v.SetConfigType("yaml")
	}

	a.v.SetEnvPrefix("UGIT")
	a.v.AutomaticEnv()
	a.v.SetDefault("meta_dir", worktree.DefaultMetaDir)
	a.v.SetDefault("object_format", string(object.DefaultAlgorithm))
	a.v.SetDefault("default_branch", repo.DefaultBranch)

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	var (
		logger *zap.Logger
		err    error
	)
	if a.v.GetBool("verbose") {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	a.logger = logger
	return nil
}

func (a *app) close() {
	_ = a.logger.Sync()
}

func (a *app) workDir() string {
	return a.v.GetString("dir")
}

func (a *app) repoOptions() []repo.Option {
	return []repo.Option{
		repo.WithMetaDir(a.v.GetString("meta_dir")),
		repo.WithLogger(a.logger),
	}
}

// open finds the repository containing the working directory.
func (a *app) open() (*repo.Repo, error) {
	return repo.Open(a.workDir(), a.repoOptions()...)
}

// resolve opens the repository and resolves name to an object id.
func (a *app) resolve(name string) (*repo.Repo, object.Hash, error) {
	r, err := a.open()
	if err != nil {
		return nil, "", err
	}
	h, err := r.ResolveName(name)
	if err != nil {
		return nil, "", err
	}
	return r, h, nil
}

func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "ugit")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "ugit")
	}
	return ".ugit-config"
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "ugit", version)
		},
	}
}
