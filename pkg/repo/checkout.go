package repo

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/odvcencio/ugit/pkg/object"
	"github.com/odvcencio/ugit/pkg/refs"
)

// CheckoutTree replaces the working directory with the contents of the tree
// h. Everything outside the metadata directory is removed first, then every
// blob of the tree is written to its path. This is a full replace, not an
// incremental update.
//
// The tree is read and every blob is checked for presence before anything is
// removed, so a missing or malformed tree leaves the working directory alone.
func (r *Repo) CheckoutTree(h object.Hash) error {
	files, err := r.ReadTree(h, "")
	if err != nil {
		return fmt.Errorf("checkout tree: %w", err)
	}
	paths := make([]string, 0, len(files))
	for p, blob := range files {
		if !r.Store.Has(blob) {
			return fmt.Errorf("checkout tree: %q: object %s: %w", p, blob, object.ErrObjectNotFound)
		}
		paths = append(paths, p)
	}
	sort.Strings(paths)

	if err := r.Work.Clear(); err != nil {
		return fmt.Errorf("checkout tree: %w", err)
	}

	for _, p := range paths {
		blob, err := r.Store.ReadBlob(files[p])
		if err != nil {
			return fmt.Errorf("checkout tree: read blob for %q: %w", p, err)
		}
		if err := r.Work.WriteFile(p, blob.Data); err != nil {
			return fmt.Errorf("checkout tree: %w", err)
		}
	}

	r.logger.Debug("tree checked out", zap.String("tree", string(h)), zap.Int("files", len(paths)))
	return nil
}

// Checkout materializes the tree of commit h and points HEAD directly at h.
// HEAD is always detached afterwards, even if it was a symbolic ref before.
func (r *Repo) Checkout(h object.Hash) error {
	c, err := r.GetCommit(h)
	if err != nil {
		return fmt.Errorf("checkout: %w", err)
	}
	if err := r.CheckoutTree(c.TreeHash); err != nil {
		return fmt.Errorf("checkout: %w", err)
	}
	if err := r.Refs.Update(refs.Head, h); err != nil {
		return fmt.Errorf("checkout: update HEAD: %w", err)
	}
	return nil
}
