package refs

import (
	"errors"
	"strings"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/google/go-cmp/cmp"

	"github.com/odvcencio/ugit/pkg/object"
)

var (
	hashX = object.Hash(strings.Repeat("a", 40))
	hashY = object.Hash(strings.Repeat("b", 40))
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(memfs.New())
}

func TestUpdateAndResolveDirect(t *testing.T) {
	s := newTestStore(t)
	if err := s.Update("refs/tags/v1", hashX); err != nil {
		t.Fatalf("Update: %v", err)
	}
	h, ok, err := s.Resolve("refs/tags/v1")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !ok || h != hashX {
		t.Errorf("Resolve = (%q, %v), want (%q, true)", h, ok, hashX)
	}
}

func TestResolveMissing(t *testing.T) {
	s := newTestStore(t)
	h, ok, err := s.Resolve("refs/heads/nope")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if ok || h != "" {
		t.Errorf("Resolve(missing) = (%q, %v), want (\"\", false)", h, ok)
	}
}

func TestSymbolicIndirection(t *testing.T) {
	fs := memfs.New()
	s := NewStore(fs)

	if err := s.UpdateSymbolic(Head, "refs/heads/main"); err != nil {
		t.Fatalf("UpdateSymbolic: %v", err)
	}
	if err := s.Update("refs/heads/main", hashX); err != nil {
		t.Fatalf("Update: %v", err)
	}
	h, ok, err := s.Resolve(Head)
	if err != nil || !ok || h != hashX {
		t.Fatalf("Resolve(HEAD) = (%q, %v, %v), want %q", h, ok, err, hashX)
	}

	before, err := util.ReadFile(fs, Head)
	if err != nil {
		t.Fatalf("ReadFile(HEAD): %v", err)
	}

	if err := s.Update("refs/heads/main", hashY); err != nil {
		t.Fatalf("Update: %v", err)
	}
	h, ok, err = s.Resolve(Head)
	if err != nil || !ok || h != hashY {
		t.Fatalf("Resolve(HEAD) = (%q, %v, %v), want %q", h, ok, err, hashY)
	}

	after, err := util.ReadFile(fs, Head)
	if err != nil {
		t.Fatalf("ReadFile(HEAD): %v", err)
	}
	if string(before) != string(after) {
		t.Errorf("HEAD bytes changed: %q -> %q", before, after)
	}
	if string(after) != "ref: refs/heads/main\n" {
		t.Errorf("HEAD bytes = %q", after)
	}
}

func TestTransitiveChain(t *testing.T) {
	s := newTestStore(t)
	if err := s.UpdateSymbolic(Head, "refs/heads/a"); err != nil {
		t.Fatal(err)
	}
	if err := s.UpdateSymbolic("refs/heads/a", "refs/heads/b"); err != nil {
		t.Fatal(err)
	}
	if err := s.Update("refs/heads/b", hashX); err != nil {
		t.Fatal(err)
	}

	h, ok, err := s.Resolve(Head)
	if err != nil || !ok || h != hashX {
		t.Errorf("Resolve(HEAD) = (%q, %v, %v), want %q", h, ok, err, hashX)
	}

	target, err := s.Target(Head)
	if err != nil {
		t.Fatalf("Target: %v", err)
	}
	if target != "refs/heads/b" {
		t.Errorf("Target(HEAD) = %q, want refs/heads/b", target)
	}
}

func TestDanglingChain(t *testing.T) {
	s := newTestStore(t)
	if err := s.UpdateSymbolic(Head, "refs/heads/main"); err != nil {
		t.Fatal(err)
	}
	h, ok, err := s.Resolve(Head)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if ok || h != "" {
		t.Errorf("Resolve(dangling) = (%q, %v), want absent", h, ok)
	}

	target, err := s.Target(Head)
	if err != nil {
		t.Fatalf("Target: %v", err)
	}
	if target != "refs/heads/main" {
		t.Errorf("Target(HEAD) = %q, want refs/heads/main", target)
	}
}

func TestCycleDetected(t *testing.T) {
	s := newTestStore(t)
	if err := s.UpdateSymbolic("refs/heads/a", "refs/heads/b"); err != nil {
		t.Fatal(err)
	}
	if err := s.UpdateSymbolic("refs/heads/b", "refs/heads/a"); err != nil {
		t.Fatal(err)
	}

	_, _, err := s.Resolve("refs/heads/a")
	if !errors.Is(err, ErrRefCycle) {
		t.Fatalf("Resolve err = %v, want ErrRefCycle", err)
	}
	var ce *CycleError
	if !errors.As(err, &ce) {
		t.Fatalf("Resolve err = %T, want *CycleError", err)
	}
	want := []string{"refs/heads/a", "refs/heads/b", "refs/heads/a"}
	if diff := cmp.Diff(want, ce.Chain); diff != "" {
		t.Errorf("cycle chain (-want +got):\n%s", diff)
	}
}

func TestSelfCycle(t *testing.T) {
	s := newTestStore(t)
	if err := s.UpdateSymbolic(Head, Head); err != nil {
		t.Fatal(err)
	}
	if _, _, err := s.Resolve(Head); !errors.Is(err, ErrRefCycle) {
		t.Errorf("Resolve err = %v, want ErrRefCycle", err)
	}
}

func TestReadRawValue(t *testing.T) {
	s := newTestStore(t)
	if err := s.UpdateSymbolic(Head, "refs/heads/main"); err != nil {
		t.Fatal(err)
	}
	v, ok, err := s.Read(Head)
	if err != nil || !ok {
		t.Fatalf("Read = (%v, %v, %v)", v, ok, err)
	}
	if !v.IsSymbolic() || v.Target != "refs/heads/main" {
		t.Errorf("Read(HEAD) = %+v, want symbolic refs/heads/main", v)
	}

	// Update replaces a symbolic value with a direct one.
	if err := s.Update(Head, hashX); err != nil {
		t.Fatal(err)
	}
	v, _, _ = s.Read(Head)
	if v.IsSymbolic() || v.Hash != hashX {
		t.Errorf("Read(HEAD) = %+v, want direct %s", v, hashX)
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in     string
		want   Value
		wantOK bool
	}{
		{string(hashX) + "\n", Direct(hashX), true},
		{"ref: refs/heads/main\n", Symbolic("refs/heads/main"), true},
		{"  ref: refs/tags/x  ", Symbolic("refs/tags/x"), true},
		{"", Value{}, false},
		{"\n", Value{}, false},
	}
	for _, tt := range tests {
		got, ok := ParseValue([]byte(tt.in))
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("ParseValue(%q) = (%+v, %v), want (%+v, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestValidateName(t *testing.T) {
	valid := []string{"HEAD", "ORIG_HEAD", "refs/tags/v1", "refs/heads/feature/x", "refs/tags/v1.0"}
	for _, name := range valid {
		if err := ValidateName(name); err != nil {
			t.Errorf("ValidateName(%q) = %v, want nil", name, err)
		}
	}
	invalid := []string{
		"", "head", "main", "objects/abc", "refs/../HEAD", "refs/heads/",
		"/refs/heads/x", "refs//x", "refs/heads/.hidden", "refs/heads/a b",
		"refs/heads/x.lock", "refs/heads/a:b", string(hashX),
	}
	for _, name := range invalid {
		if err := ValidateName(name); !errors.Is(err, ErrInvalidRefName) {
			t.Errorf("ValidateName(%q) = %v, want ErrInvalidRefName", name, err)
		}
	}
}

func TestUpdateRejectsInvalid(t *testing.T) {
	s := newTestStore(t)
	if err := s.Update("../escape", hashX); !errors.Is(err, ErrInvalidRefName) {
		t.Errorf("Update(../escape) err = %v, want ErrInvalidRefName", err)
	}
	if err := s.Update("refs/tags/v1", ""); err == nil {
		t.Error("Update with empty hash should fail")
	}
	if err := s.UpdateSymbolic(Head, "nope nope"); !errors.Is(err, ErrInvalidRefName) {
		t.Errorf("UpdateSymbolic err = %v, want ErrInvalidRefName", err)
	}
}

func TestList(t *testing.T) {
	s := newTestStore(t)
	if err := s.UpdateSymbolic(Head, "refs/heads/main"); err != nil {
		t.Fatal(err)
	}
	if err := s.Update("refs/heads/main", hashX); err != nil {
		t.Fatal(err)
	}
	if err := s.Update("refs/tags/v1", hashY); err != nil {
		t.Fatal(err)
	}
	if err := s.Update("refs/tags/nested/v2", hashX); err != nil {
		t.Fatal(err)
	}
	if err := s.UpdateSymbolic("refs/heads/dangling", "refs/heads/gone"); err != nil {
		t.Fatal(err)
	}

	got, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []Ref{
		{Name: "HEAD", Hash: hashX},
		{Name: "refs/heads/dangling", Hash: ""},
		{Name: "refs/heads/main", Hash: hashX},
		{Name: "refs/tags/nested/v2", Hash: hashX},
		{Name: "refs/tags/v1", Hash: hashY},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("List (-want +got):\n%s", diff)
	}

	tags, err := s.ListPrefix(TagsPrefix)
	if err != nil {
		t.Fatalf("ListPrefix: %v", err)
	}
	if len(tags) != 2 {
		t.Errorf("ListPrefix(tags) = %v, want 2 refs", tags)
	}
}

func TestListEmpty(t *testing.T) {
	s := newTestStore(t)
	got, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if diff := cmp.Diff([]Ref{{Name: Head}}, got); diff != "" {
		t.Errorf("List (-want +got):\n%s", diff)
	}
}

func TestListSkipsInvalidNames(t *testing.T) {
	fs := memfs.New()
	s := NewStore(fs)
	if err := s.Update("refs/tags/v1", hashX); err != nil {
		t.Fatal(err)
	}
	if err := util.WriteFile(fs, "refs/tags/v 1", []byte(string(hashY)+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []Ref{
		{Name: Head},
		{Name: "refs/tags/v1", Hash: hashX},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("List (-want +got):\n%s", diff)
	}
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)
	if err := s.Update("refs/tags/v1", hashX); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete("refs/tags/v1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := s.Resolve("refs/tags/v1"); ok {
		t.Error("ref still resolves after Delete")
	}
	if err := s.Delete("refs/tags/v1"); !errors.Is(err, ErrRefNotFound) {
		t.Errorf("second Delete err = %v, want ErrRefNotFound", err)
	}
}

func TestStoreOnDisk(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(osfs.New(dir))
	if err := s.Update("refs/heads/main", hashX); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := s.UpdateSymbolic(Head, "refs/heads/main"); err != nil {
		t.Fatalf("UpdateSymbolic: %v", err)
	}

	s2 := NewStore(osfs.New(dir))
	h, ok, err := s2.Resolve(Head)
	if err != nil || !ok || h != hashX {
		t.Errorf("Resolve(HEAD) = (%q, %v, %v), want %q", h, ok, err, hashX)
	}

	refs, err := s2.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(refs) != 2 {
		t.Errorf("List = %v, want HEAD and refs/heads/main", refs)
	}
}
