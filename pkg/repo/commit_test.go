package repo

import (
	"errors"
	"testing"

	"github.com/odvcencio/ugit/pkg/object"
	"github.com/odvcencio/ugit/pkg/refs"
)

func TestCommit_FirstCommitAdvancesBranch(t *testing.T) {
	r := newMemRepo(t)
	writeWork(t, r, "main.go", "package main\n")

	h := mustCommit(t, r, "initial commit")

	c, err := r.GetCommit(h)
	if err != nil {
		t.Fatalf("GetCommit(%s): %v", h, err)
	}
	if c.Message != "initial commit" {
		t.Errorf("Message = %q, want %q", c.Message, "initial commit")
	}
	if c.Parent != "" {
		t.Errorf("Parent = %q, want none", c.Parent)
	}
	tree, err := r.WriteTree(".")
	if err != nil {
		t.Fatalf("WriteTree: %v", err)
	}
	if c.TreeHash != tree {
		t.Errorf("TreeHash = %s, want %s", c.TreeHash, tree)
	}

	main, ok, err := r.Refs.Resolve(refs.HeadsPrefix + "main")
	if err != nil || !ok {
		t.Fatalf("Resolve main = %v, %v", ok, err)
	}
	if main != h {
		t.Errorf("refs/heads/main = %s, want %s", main, h)
	}

	// HEAD itself stays symbolic.
	head, _, err := r.Refs.Read(refs.Head)
	if err != nil {
		t.Fatalf("Read HEAD: %v", err)
	}
	if head.Target != refs.HeadsPrefix+"main" {
		t.Errorf("HEAD = %v, want ref: refs/heads/main", head)
	}
}

func TestCommit_ParentChain(t *testing.T) {
	r := newMemRepo(t)
	writeWork(t, r, "f.txt", "one")
	first := mustCommit(t, r, "one")
	writeWork(t, r, "f.txt", "two")
	second := mustCommit(t, r, "two")

	c, err := r.GetCommit(second)
	if err != nil {
		t.Fatalf("GetCommit: %v", err)
	}
	if c.Parent != first {
		t.Errorf("Parent = %s, want %s", c.Parent, first)
	}

	entries, err := r.Log(second, 0)
	if err != nil {
		t.Fatalf("Log: %v", err)
	}
	if len(entries) != 2 || entries[0].Hash != second || entries[1].Hash != first {
		t.Fatalf("Log = %+v, want [%s %s]", entries, second, first)
	}

	limited, err := r.Log(second, 1)
	if err != nil {
		t.Fatalf("Log limit 1: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("Log limit 1 returned %d entries", len(limited))
	}
}

func TestCommit_ContentChangeChangesHashes(t *testing.T) {
	r := newMemRepo(t)
	writeWork(t, r, "top.txt", "top")
	base := mustCommit(t, r, "base")

	writeWork(t, r, "dir/sub/x", "abcdef")
	first := mustCommit(t, r, "same message")
	c1, err := r.GetCommit(first)
	if err != nil {
		t.Fatalf("GetCommit: %v", err)
	}

	// Rewind main so the next commit has the same parent.
	if err := r.Refs.Update(refs.HeadsPrefix+"main", base); err != nil {
		t.Fatalf("Update main: %v", err)
	}
	writeWork(t, r, "dir/sub/x", "abcdeF")
	second := mustCommit(t, r, "same message")
	c2, err := r.GetCommit(second)
	if err != nil {
		t.Fatalf("GetCommit: %v", err)
	}

	if c1.Parent != base || c2.Parent != base {
		t.Fatalf("parents = %s, %s, want both %s", c1.Parent, c2.Parent, base)
	}
	if c1.TreeHash == c2.TreeHash {
		t.Errorf("one-byte change in dir/sub/x kept tree %s", c1.TreeHash)
	}
	if first == second {
		t.Errorf("one-byte change in dir/sub/x kept commit %s", first)
	}
}

func TestCommit_MessageWithBlankLines(t *testing.T) {
	r := newMemRepo(t)
	writeWork(t, r, "f.txt", "x")
	msg := "subject\n\nbody line one\n\nbody line two\n"
	h := mustCommit(t, r, msg)

	c, err := r.GetCommit(h)
	if err != nil {
		t.Fatalf("GetCommit: %v", err)
	}
	if c.Message != msg {
		t.Errorf("Message = %q, want %q", c.Message, msg)
	}
}

func TestCommit_DetachedHeadMovesHead(t *testing.T) {
	r := newMemRepo(t)
	writeWork(t, r, "f.txt", "one")
	first := mustCommit(t, r, "one")

	if err := r.Checkout(first); err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	writeWork(t, r, "f.txt", "detached")
	second := mustCommit(t, r, "detached work")

	head, _, err := r.Refs.Read(refs.Head)
	if err != nil {
		t.Fatalf("Read HEAD: %v", err)
	}
	if head.IsSymbolic() || head.Hash != second {
		t.Errorf("HEAD = %v, want direct %s", head, second)
	}
	main, _, err := r.Refs.Resolve(refs.HeadsPrefix + "main")
	if err != nil {
		t.Fatalf("Resolve main: %v", err)
	}
	if main != first {
		t.Errorf("main moved to %s, want %s", main, first)
	}
}

func TestGetCommit_Errors(t *testing.T) {
	r := newMemRepo(t)

	noTree, err := r.Store.Write(object.TypeCommit, []byte("parent abc\n\nmsg"))
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, err := r.GetCommit(noTree); !errors.Is(err, object.ErrMalformedCommit) {
		t.Errorf("GetCommit(no tree) error = %v, want ErrMalformedCommit", err)
	}

	unknown, err := r.Store.Write(object.TypeCommit, []byte("tree abc\nauthor me\n\nmsg"))
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, err := r.GetCommit(unknown); !errors.Is(err, object.ErrMalformedCommit) {
		t.Errorf("GetCommit(unknown key) error = %v, want ErrMalformedCommit", err)
	}

	blob, err := r.Store.WriteBlob(&object.Blob{Data: []byte("x")})
	if err != nil {
		t.Fatalf("WriteBlob: %v", err)
	}
	if _, err := r.GetCommit(blob); !errors.Is(err, object.ErrTypeMismatch) {
		t.Errorf("GetCommit(blob) error = %v, want ErrTypeMismatch", err)
	}
}

func TestLog_StopsAtMissingParent(t *testing.T) {
	r := newMemRepo(t)
	tree, err := r.WriteTree(".")
	if err != nil {
		t.Fatalf("WriteTree: %v", err)
	}
	missing := object.HashObject(object.SHA1, object.TypeCommit, []byte("gone"))
	h, err := r.Store.WriteCommit(&object.CommitObj{TreeHash: tree, Parent: missing, Message: "orphan"})
	if err != nil {
		t.Fatalf("WriteCommit: %v", err)
	}

	entries, err := r.Log(h, 0)
	if err != nil {
		t.Fatalf("Log: %v", err)
	}
	if len(entries) != 1 || entries[0].Hash != h {
		t.Errorf("Log = %+v, want only %s", entries, h)
	}
}
