package repo

import (
	"errors"
	"fmt"
	"strings"

	"github.com/odvcencio/ugit/pkg/object"
	"github.com/odvcencio/ugit/pkg/refs"
)

// ErrBranchExists is returned by CreateBranch when refs/heads/<name> exists.
var ErrBranchExists = errors.New("branch already exists")

// CreateBranch creates refs/heads/<name> pointing at target. It fails with
// ErrBranchExists if the branch already exists.
func (r *Repo) CreateBranch(name string, target object.Hash) error {
	refName := refs.HeadsPrefix + strings.TrimSpace(name)
	if err := refs.ValidateName(refName); err != nil {
		return fmt.Errorf("create branch: %w", err)
	}
	if _, ok, err := r.Refs.Read(refName); err != nil {
		return fmt.Errorf("create branch %q: %w", name, err)
	} else if ok {
		return fmt.Errorf("create branch %q: %w", name, ErrBranchExists)
	}
	if !r.Store.Has(target) {
		return fmt.Errorf("create branch %q: object %s: %w", name, target, object.ErrObjectNotFound)
	}
	if err := r.Refs.Update(refName, target); err != nil {
		return fmt.Errorf("create branch %q: %w", name, err)
	}
	return nil
}

// SwitchBranch points HEAD symbolically at refs/heads/<name> and checks out
// the commit the branch resolves to. The branch must exist.
func (r *Repo) SwitchBranch(name string) error {
	refName := refs.HeadsPrefix + strings.TrimSpace(name)
	h, ok, err := r.Refs.Resolve(refName)
	if err != nil {
		return fmt.Errorf("switch branch %q: %w", name, err)
	}
	if !ok {
		return fmt.Errorf("switch branch %q: %w", name, refs.ErrRefNotFound)
	}
	if err := r.Checkout(h); err != nil {
		return fmt.Errorf("switch branch %q: %w", name, err)
	}
	if err := r.Refs.UpdateSymbolic(refs.Head, refName); err != nil {
		return fmt.Errorf("switch branch %q: %w", name, err)
	}
	return nil
}

// ListBranches returns the branch names under refs/heads/ sorted
// alphabetically.
func (r *Repo) ListBranches() ([]string, error) {
	heads, err := r.Refs.ListPrefix(refs.HeadsPrefix)
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	names := make([]string, 0, len(heads))
	for _, h := range heads {
		names = append(names, strings.TrimPrefix(h.Name, refs.HeadsPrefix))
	}
	return names, nil
}

// CurrentBranch returns the branch HEAD points at ("main" for
// "ref: refs/heads/main"). It returns "" when HEAD is detached.
func (r *Repo) CurrentBranch() (string, error) {
	v, ok, err := r.Refs.Read(refs.Head)
	if err != nil {
		return "", fmt.Errorf("current branch: %w", err)
	}
	if !ok || !v.IsSymbolic() || !strings.HasPrefix(v.Target, refs.HeadsPrefix) {
		return "", nil
	}
	return strings.TrimPrefix(v.Target, refs.HeadsPrefix), nil
}
