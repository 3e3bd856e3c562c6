package repo

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/odvcencio/ugit/pkg/object"
	"github.com/odvcencio/ugit/pkg/refs"
)

func TestCreateBranch(t *testing.T) {
	r := newMemRepo(t)
	writeWork(t, r, "f.txt", "1")
	h := mustCommit(t, r, "one")

	if err := r.CreateBranch("feature", h); err != nil {
		t.Fatalf("CreateBranch: %v", err)
	}
	if err := r.CreateBranch("feature", h); !errors.Is(err, ErrBranchExists) {
		t.Errorf("duplicate CreateBranch error = %v, want ErrBranchExists", err)
	}

	missing := object.HashObject(object.SHA1, object.TypeCommit, []byte("nope"))
	if err := r.CreateBranch("ghost", missing); !errors.Is(err, object.ErrObjectNotFound) {
		t.Errorf("CreateBranch(missing) error = %v, want ErrObjectNotFound", err)
	}
	if err := r.CreateBranch("bad name", h); !errors.Is(err, refs.ErrInvalidRefName) {
		t.Errorf("CreateBranch(bad name) error = %v, want ErrInvalidRefName", err)
	}

	names, err := r.ListBranches()
	if err != nil {
		t.Fatalf("ListBranches: %v", err)
	}
	if diff := cmp.Diff([]string{"feature", "main"}, names); diff != "" {
		t.Errorf("ListBranches mismatch (-want +got):\n%s", diff)
	}
}

func TestSwitchBranch(t *testing.T) {
	r := newMemRepo(t)
	writeWork(t, r, "f.txt", "main work")
	base := mustCommit(t, r, "base")

	if err := r.CreateBranch("feature", base); err != nil {
		t.Fatalf("CreateBranch: %v", err)
	}
	if err := r.SwitchBranch("feature"); err != nil {
		t.Fatalf("SwitchBranch: %v", err)
	}
	branch, err := r.CurrentBranch()
	if err != nil {
		t.Fatalf("CurrentBranch: %v", err)
	}
	if branch != "feature" {
		t.Errorf("CurrentBranch = %q, want feature", branch)
	}

	writeWork(t, r, "f.txt", "feature work")
	tip := mustCommit(t, r, "on feature")

	got, _, err := r.Refs.Resolve(refs.HeadsPrefix + "feature")
	if err != nil {
		t.Fatalf("Resolve feature: %v", err)
	}
	if got != tip {
		t.Errorf("feature = %s, want %s", got, tip)
	}
	got, _, err = r.Refs.Resolve(refs.HeadsPrefix + "main")
	if err != nil {
		t.Fatalf("Resolve main: %v", err)
	}
	if got != base {
		t.Errorf("main = %s, want %s", got, base)
	}

	if err := r.SwitchBranch("main"); err != nil {
		t.Fatalf("SwitchBranch(main): %v", err)
	}
	if content := readWork(t, r, "f.txt"); content != "main work" {
		t.Errorf("f.txt = %q, want main work", content)
	}

	if err := r.SwitchBranch("missing"); !errors.Is(err, refs.ErrRefNotFound) {
		t.Errorf("SwitchBranch(missing) error = %v, want ErrRefNotFound", err)
	}
}
