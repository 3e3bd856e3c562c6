package repo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"go.uber.org/zap"

	"github.com/odvcencio/ugit/pkg/object"
	"github.com/odvcencio/ugit/pkg/refs"
	"github.com/odvcencio/ugit/pkg/worktree"
)

var (
	// ErrAlreadyInitialized is returned by Init when the repository exists.
	ErrAlreadyInitialized = object.ErrAlreadyInitialized
	ErrNotARepository     = errors.New("not a ugit repository")
)

// Init creates a new repository whose working directory is path. It creates
// the metadata directory with objects/, refs/heads/, refs/tags/, config.toml
// and a HEAD that points at the default branch. It fails with
// ErrAlreadyInitialized if the object store already exists.
func Init(path string, opts ...Option) (*Repo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("init: abs path: %w", err)
	}
	r, err := InitFS(osfs.New(abs), opts...)
	if err != nil {
		return nil, err
	}
	r.RootDir = abs
	return r, nil
}

// InitFS is Init on an arbitrary working-directory filesystem, such as a
// memfs in tests.
func InitFS(fs billy.Filesystem, opts ...Option) (*Repo, error) {
	o := buildOptions(opts)
	if _, err := object.ParseAlgorithm(string(o.objectFormat)); err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}
	if err := refs.ValidateName(refs.HeadsPrefix + o.defaultBranch); err != nil {
		return nil, fmt.Errorf("init: default branch: %w", err)
	}

	if err := fs.MkdirAll(o.metaDir, 0o755); err != nil {
		return nil, fmt.Errorf("init: mkdir %s: %w", o.metaDir, err)
	}
	meta, err := fs.Chroot(o.metaDir)
	if err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}

	cfg := &Config{Core: CoreConfig{
		ObjectFormat:  string(o.objectFormat),
		DefaultBranch: o.defaultBranch,
	}}
	r := newRepo(fs, meta, cfg, o)

	if err := r.Store.Init(); err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}
	for _, d := range []string{"refs/heads", "refs/tags"} {
		if err := meta.MkdirAll(d, 0o755); err != nil {
			return nil, fmt.Errorf("init: mkdir %s: %w", d, err)
		}
	}
	if err := WriteConfig(meta, cfg); err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}
	if err := r.Refs.UpdateSymbolic(refs.Head, refs.HeadsPrefix+o.defaultBranch); err != nil {
		return nil, fmt.Errorf("init: write HEAD: %w", err)
	}

	r.logger.Debug("repository initialized",
		zap.String("meta", o.metaDir),
		zap.String("object_format", string(o.objectFormat)),
	)
	return r, nil
}

// Open searches upward from path for a metadata directory and opens the
// repository. It returns ErrNotARepository if none is found.
func Open(path string, opts ...Option) (*Repo, error) {
	o := buildOptions(opts)

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("open: abs path: %w", err)
	}

	cur := abs
	for {
		info, err := os.Stat(filepath.Join(cur, o.metaDir, "objects"))
		if err == nil && info.IsDir() {
			r, err := OpenFS(osfs.New(cur), opts...)
			if err != nil {
				return nil, err
			}
			r.RootDir = cur
			return r, nil
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			return nil, fmt.Errorf("open %s: %w (or any parent up to /)", abs, ErrNotARepository)
		}
		cur = parent
	}
}

// OpenFS opens the repository whose working directory is fs.
func OpenFS(fs billy.Filesystem, opts ...Option) (*Repo, error) {
	o := buildOptions(opts)

	info, err := fs.Stat(fs.Join(o.metaDir, "objects"))
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("open: %w", ErrNotARepository)
	}
	meta, err := fs.Chroot(o.metaDir)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	cfg, err := ReadConfig(meta)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	algo, err := cfg.Algorithm()
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	o.objectFormat = algo
	return newRepo(fs, meta, cfg, o), nil
}

func newRepo(work, meta billy.Filesystem, cfg *Config, o *options) *Repo {
	return &Repo{
		MetaDir: o.metaDir,
		Config:  cfg,
		Store: object.NewStore(meta,
			object.WithAlgorithm(o.objectFormat),
			object.WithLogger(o.logger.Named("object")),
		),
		Refs: refs.NewStore(meta, refs.WithLogger(o.logger.Named("refs"))),
		Work: worktree.New(work, o.metaDir, worktree.WithLogger(o.logger.Named("worktree"))),

		logger: o.logger,
	}
}
