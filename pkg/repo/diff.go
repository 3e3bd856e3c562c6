package repo

import (
	"fmt"
	"path"

	"github.com/odvcencio/ugit/pkg/diff"
	"github.com/odvcencio/ugit/pkg/object"
	"github.com/odvcencio/ugit/pkg/worktree"
)

// Patch is a changed path together with both versions of its content.
type Patch struct {
	diff.Change
	Before []byte
	After  []byte
}

// DiffCommits compares the trees of two commits. An empty from compares
// against an empty tree.
func (r *Repo) DiffCommits(from, to object.Hash) ([]Patch, error) {
	before, err := r.commitFiles(from)
	if err != nil {
		return nil, fmt.Errorf("diff: %w", err)
	}
	after, err := r.commitFiles(to)
	if err != nil {
		return nil, fmt.Errorf("diff: %w", err)
	}
	return r.patches(diff.Trees(before, after), nil)
}

// DiffWorkTree compares the tree of commit from with the working directory.
// An empty from compares against an empty tree. Nothing is written to the
// object store.
func (r *Repo) DiffWorkTree(from object.Hash) ([]Patch, error) {
	before, err := r.commitFiles(from)
	if err != nil {
		return nil, fmt.Errorf("diff: %w", err)
	}
	after, data, err := r.workFiles()
	if err != nil {
		return nil, fmt.Errorf("diff: %w", err)
	}
	return r.patches(diff.Trees(before, after), data)
}

func (r *Repo) patches(changes []diff.Change, work map[string][]byte) ([]Patch, error) {
	out := make([]Patch, 0, len(changes))
	for _, c := range changes {
		p := Patch{Change: c}
		var err error
		if c.Before != "" {
			if p.Before, err = r.blobData(c.Before); err != nil {
				return nil, fmt.Errorf("diff %q: %w", c.Path, err)
			}
		}
		if c.After != "" {
			if data, ok := work[c.Path]; ok {
				p.After = data
			} else if p.After, err = r.blobData(c.After); err != nil {
				return nil, fmt.Errorf("diff %q: %w", c.Path, err)
			}
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *Repo) blobData(h object.Hash) ([]byte, error) {
	b, err := r.Store.ReadBlob(h)
	if err != nil {
		return nil, err
	}
	return b.Data, nil
}

// commitFiles returns the flattened tree of commit h, or an empty map when
// h is empty.
func (r *Repo) commitFiles(h object.Hash) (map[string]object.Hash, error) {
	if h == "" {
		return map[string]object.Hash{}, nil
	}
	c, err := r.GetCommit(h)
	if err != nil {
		return nil, err
	}
	return r.ReadTree(c.TreeHash, "")
}

// workFiles hashes every file of the working directory as a blob. It
// returns path -> hash and path -> content.
func (r *Repo) workFiles() (map[string]object.Hash, map[string][]byte, error) {
	snap, err := r.Work.Snapshot(".")
	if err != nil {
		return nil, nil, err
	}
	hashes := make(map[string]object.Hash)
	data := make(map[string][]byte)
	var walk func(d *worktree.Directory, prefix string)
	walk = func(d *worktree.Directory, prefix string) {
		for _, child := range d.Children {
			switch n := child.(type) {
			case *worktree.File:
				p := path.Join(prefix, n.Name)
				hashes[p] = object.HashObject(r.Store.Algorithm(), object.TypeBlob, n.Data)
				data[p] = n.Data
			case *worktree.Directory:
				walk(n, path.Join(prefix, n.Name))
			}
		}
	}
	walk(snap, "")
	return hashes, data, nil
}
