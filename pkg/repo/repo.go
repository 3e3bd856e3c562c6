package repo

import (
	"go.uber.org/zap"

	"github.com/odvcencio/ugit/pkg/object"
	"github.com/odvcencio/ugit/pkg/refs"
	"github.com/odvcencio/ugit/pkg/worktree"
)

// Repo represents an opened ugit repository.
type Repo struct {
	RootDir string             // working directory root; empty for in-memory repositories
	MetaDir string             // name of the metadata directory, e.g. ".ugit"
	Config  *Config            // repository config read from <meta>/config.toml
	Store   *object.Store      // content-addressed object store
	Refs    *refs.Store        // HEAD and refs/
	Work    *worktree.WorkTree // the working directory

	logger *zap.Logger
}

// Option configures Init and Open.
type Option func(*options)

type options struct {
	metaDir       string
	logger        *zap.Logger
	objectFormat  object.Algorithm
	defaultBranch string
}

// WithMetaDir overrides the metadata directory name.
func WithMetaDir(name string) Option {
	return func(o *options) {
		if name != "" {
			o.metaDir = name
		}
	}
}

// WithLogger sets the logger shared by every component of the repository.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithObjectFormat selects the digest algorithm of a new repository. Open
// ignores it and uses the algorithm recorded in the repository config.
func WithObjectFormat(a object.Algorithm) Option {
	return func(o *options) {
		if a != "" {
			o.objectFormat = a
		}
	}
}

// WithDefaultBranch sets the branch HEAD points at in a new repository.
func WithDefaultBranch(name string) Option {
	return func(o *options) {
		if name != "" {
			o.defaultBranch = name
		}
	}
}

func buildOptions(opts []Option) *options {
	o := &options{
		metaDir:       worktree.DefaultMetaDir,
		logger:        zap.NewNop(),
		objectFormat:  object.DefaultAlgorithm,
		defaultBranch: DefaultBranch,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Logger returns the repository logger.
func (r *Repo) Logger() *zap.Logger {
	return r.logger
}
