package repo

import (
	"fmt"
	"path"

	"go.uber.org/zap"

	"github.com/odvcencio/ugit/pkg/object"
	"github.com/odvcencio/ugit/pkg/worktree"
)

// WriteTree stores the directory dir of the working tree ("." for the root)
// as a tree object, recursively storing every file as a blob and every
// subdirectory as a child tree. It returns the root tree hash.
//
// Two directories with the same contents always produce the same hash:
// entries are sorted by name before encoding.
func (r *Repo) WriteTree(dir string) (object.Hash, error) {
	snap, err := r.Work.Snapshot(dir)
	if err != nil {
		return "", fmt.Errorf("write tree: %w", err)
	}
	return r.writeDirectory(snap, dir)
}

func (r *Repo) writeDirectory(d *worktree.Directory, dir string) (object.Hash, error) {
	entries := make([]object.TreeEntry, 0, len(d.Children))
	for _, child := range d.Children {
		switch n := child.(type) {
		case *worktree.File:
			h, err := r.Store.WriteBlob(&object.Blob{Data: n.Data})
			if err != nil {
				return "", fmt.Errorf("write tree: blob %q: %w", path.Join(dir, n.Name), err)
			}
			entries = append(entries, object.TreeEntry{Type: object.TypeBlob, Hash: h, Name: n.Name})
		case *worktree.Directory:
			sub := path.Join(dir, n.Name)
			h, err := r.writeDirectory(n, sub)
			if err != nil {
				return "", err
			}
			entries = append(entries, object.TreeEntry{Type: object.TypeTree, Hash: h, Name: n.Name})
		}
	}

	h, err := r.Store.WriteTree(&object.TreeObj{Entries: entries})
	if err != nil {
		return "", fmt.Errorf("write tree %q: %w", dir, err)
	}
	return h, nil
}

// ReadTree walks the tree h and returns every blob it contains, keyed by its
// path joined onto base with forward slashes. Entries named after the
// metadata directory are left out.
func (r *Repo) ReadTree(h object.Hash, base string) (map[string]object.Hash, error) {
	out := make(map[string]object.Hash)
	if err := r.readTreeRec(h, base, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) readTreeRec(h object.Hash, prefix string, out map[string]object.Hash) error {
	tr, err := r.Store.ReadTree(h)
	if err != nil {
		return fmt.Errorf("read tree %s: %w", h, err)
	}

	for _, e := range tr.Entries {
		full := e.Name
		if prefix != "" && prefix != "." {
			full = path.Join(prefix, e.Name)
		}
		if r.Work.IsIgnored(full) {
			r.logger.Debug("skipping tree entry inside metadata directory",
				zap.String("path", full),
				zap.String("tree", string(h)),
			)
			continue
		}

		switch e.Type {
		case object.TypeTree:
			if err := r.readTreeRec(e.Hash, full, out); err != nil {
				return err
			}
		case object.TypeBlob:
			out[full] = e.Hash
		default:
			return fmt.Errorf("read tree %s: %w: %q", h, object.ErrUnknownEntryType, e.Type)
		}
	}
	return nil
}
