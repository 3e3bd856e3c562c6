// Package worktree reads and rewrites the working directory of a repository.
//
// The working directory is any billy.Filesystem: osfs for a checkout on
// disk, memfs in tests. The repository metadata directory lives inside it
// and is invisible to every operation here.
package worktree

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"go.uber.org/zap"
)

// DefaultMetaDir is the name of the repository metadata directory.
const DefaultMetaDir = ".ugit"

// Node is one item produced by Snapshot: a *File or a *Directory.
type Node interface {
	isNode()
}

// File is a regular file and its content.
type File struct {
	Name string
	Data []byte
}

// Directory is a directory and its children, sorted by name.
type Directory struct {
	Name     string
	Children []Node
}

func (*File) isNode()      {}
func (*Directory) isNode() {}

// IsIgnored reports whether p has a path component equal to metaDir. Both
// forward slashes and the OS separator are accepted.
func IsIgnored(metaDir, p string) bool {
	for _, part := range strings.FieldsFunc(p, isSeparator) {
		if part == metaDir {
			return true
		}
	}
	return false
}

func isSeparator(r rune) bool {
	return r == '/' || r == filepath.Separator
}

// WorkTree is the working directory of a repository.
type WorkTree struct {
	fs      billy.Filesystem
	metaDir string
	logger  *zap.Logger
}

// Option configures a WorkTree.
type Option func(*WorkTree)

// WithLogger sets the logger used for debug output.
func WithLogger(l *zap.Logger) Option {
	return func(w *WorkTree) {
		if l != nil {
			w.logger = l
		}
	}
}

// New returns a WorkTree over fs whose metadata directory is called
// metaDir. An empty metaDir selects DefaultMetaDir.
func New(fs billy.Filesystem, metaDir string, opts ...Option) *WorkTree {
	if metaDir == "" {
		metaDir = DefaultMetaDir
	}
	w := &WorkTree{fs: fs, metaDir: metaDir, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Filesystem returns the underlying filesystem.
func (w *WorkTree) Filesystem() billy.Filesystem {
	return w.fs
}

// MetaDir returns the name of the metadata directory.
func (w *WorkTree) MetaDir() string {
	return w.metaDir
}

// IsIgnored reports whether p lies inside the metadata directory.
func (w *WorkTree) IsIgnored(p string) bool {
	return IsIgnored(w.metaDir, p)
}

// Snapshot walks dir (relative to the working directory root, "." for the
// root itself) and returns its contents. Ignored paths are left out.
// Symbolic links and other non-regular files are skipped.
func (w *WorkTree) Snapshot(dir string) (*Directory, error) {
	dir = clean(dir)
	if w.IsIgnored(dir) {
		return nil, fmt.Errorf("snapshot %q: path is inside %s", dir, w.metaDir)
	}
	info, err := w.fs.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("snapshot %q: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("snapshot %q: not a directory", dir)
	}
	return w.snapshot(dir, path.Base(dir))
}

func (w *WorkTree) snapshot(dir, name string) (*Directory, error) {
	infos, err := w.fs.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("snapshot %q: %w", dir, err)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name() < infos[j].Name() })

	out := &Directory{Name: name}
	for _, fi := range infos {
		p := join(dir, fi.Name())
		if w.IsIgnored(p) {
			continue
		}
		switch {
		case fi.IsDir():
			sub, err := w.snapshot(p, fi.Name())
			if err != nil {
				return nil, err
			}
			out.Children = append(out.Children, sub)
		case fi.Mode().IsRegular():
			data, err := util.ReadFile(w.fs, p)
			if err != nil {
				return nil, fmt.Errorf("snapshot: read %q: %w", p, err)
			}
			out.Children = append(out.Children, &File{Name: fi.Name(), Data: data})
		default:
			w.logger.Debug("skipping non-regular file",
				zap.String("path", p),
				zap.Stringer("mode", fi.Mode()),
			)
		}
	}
	return out, nil
}

// Clear removes every file and directory in the working directory except
// the metadata directory. Files go first, so each directory is empty by the
// time its removal is attempted; a directory that still cannot be removed is
// left in place.
func (w *WorkTree) Clear() error {
	return w.clearDir(".")
}

func (w *WorkTree) clearDir(dir string) error {
	infos, err := w.fs.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("clear %q: %w", dir, err)
	}
	for _, fi := range infos {
		p := join(dir, fi.Name())
		if w.IsIgnored(p) {
			continue
		}
		if fi.IsDir() {
			if err := w.clearDir(p); err != nil {
				return err
			}
			if err := w.fs.Remove(p); err != nil {
				w.logger.Debug("directory not removed", zap.String("path", p), zap.Error(err))
			}
			continue
		}
		if err := w.fs.Remove(p); err != nil {
			return fmt.Errorf("clear: remove %q: %w", p, err)
		}
	}
	return nil
}

// WriteFile writes data to p, creating parent directories and replacing any
// existing file. Paths inside the metadata directory are refused.
func (w *WorkTree) WriteFile(p string, data []byte) error {
	p = clean(p)
	if p == "." || w.IsIgnored(p) {
		return fmt.Errorf("write %q: refusing to write inside %s", p, w.metaDir)
	}
	if dir := path.Dir(p); dir != "." {
		if err := w.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("write %q: mkdir: %w", p, err)
		}
	}
	if err := util.WriteFile(w.fs, p, data, 0o644); err != nil {
		return fmt.Errorf("write %q: %w", p, err)
	}
	return nil
}

func clean(p string) string {
	if p == "" {
		return "."
	}
	return path.Clean(filepath.ToSlash(p))
}

func join(dir, name string) string {
	if dir == "." {
		return name
	}
	return dir + "/" + name
}
