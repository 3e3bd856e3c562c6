// Package refs stores mutable names that point at object ids, either
// directly or through another name.
//
// On disk every ref is a file under the metadata directory holding one line:
// the object id, or "ref: <other-name>" for a symbolic ref.
package refs

import (
	"errors"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"go.uber.org/zap"

	"github.com/odvcencio/ugit/pkg/object"
)

const (
	// Head is the ref that records the current position in history.
	Head = "HEAD"

	HeadsPrefix = "refs/heads/"
	TagsPrefix  = "refs/tags/"

	refsDir        = "refs"
	symbolicPrefix = "ref: "
)

var (
	ErrRefCycle       = errors.New("symbolic ref cycle")
	ErrInvalidRefName = errors.New("invalid ref name")
	ErrRefNotFound    = errors.New("ref not found")
)

// CycleError reports a chain of symbolic refs that leads back to itself.
// Chain lists the names in the order they were visited, ending with the
// repeated name.
type CycleError struct {
	Chain []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%s: %s", ErrRefCycle, strings.Join(e.Chain, " -> "))
}

func (e *CycleError) Is(target error) bool {
	return target == ErrRefCycle
}

// Value is the content of a ref: either a direct object id or the name of
// another ref. Exactly one of Hash and Target is set.
type Value struct {
	Hash   object.Hash
	Target string
}

// Direct returns a Value pointing at h.
func Direct(h object.Hash) Value {
	return Value{Hash: h}
}

// Symbolic returns a Value that defers to the ref called target.
func Symbolic(target string) Value {
	return Value{Target: target}
}

// IsSymbolic reports whether v points at another ref.
func (v Value) IsSymbolic() bool {
	return v.Target != ""
}

// String returns the on-disk encoding of v without the trailing newline.
func (v Value) String() string {
	if v.IsSymbolic() {
		return symbolicPrefix + v.Target
	}
	return string(v.Hash)
}

// ParseValue decodes a ref file. The second result is false for an empty
// file, which is treated the same as a missing ref.
func ParseValue(data []byte) (Value, bool) {
	content := strings.TrimSpace(string(data))
	if content == "" {
		return Value{}, false
	}
	if target, ok := strings.CutPrefix(content, symbolicPrefix); ok {
		return Symbolic(strings.TrimSpace(target)), true
	}
	return Direct(object.Hash(content)), true
}

// Ref is a name together with the object id it resolves to. Hash is empty
// when the name dangles.
type Ref struct {
	Name string
	Hash object.Hash
}

// ValidateName checks that name is a root-level ref such as HEAD (upper case
// letters and underscores) or a slash-separated path under refs/.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty", ErrInvalidRefName)
	}
	if strings.ContainsAny(name, " \t\r\n\\:*?[~^\x00\x7f") {
		return fmt.Errorf("%w: %q", ErrInvalidRefName, name)
	}
	if !strings.Contains(name, "/") {
		for _, c := range name {
			if (c < 'A' || c > 'Z') && c != '_' {
				return fmt.Errorf("%w: %q", ErrInvalidRefName, name)
			}
		}
		return nil
	}
	if !strings.HasPrefix(name, refsDir+"/") {
		return fmt.Errorf("%w: %q is not under %s/", ErrInvalidRefName, name, refsDir)
	}
	for _, part := range strings.Split(name, "/") {
		if part == "" || strings.HasPrefix(part, ".") || strings.HasSuffix(part, ".lock") {
			return fmt.Errorf("%w: %q", ErrInvalidRefName, name)
		}
	}
	return nil
}

// Store reads and writes refs on a filesystem rooted at the repository
// metadata directory.
type Store struct {
	fs     billy.Filesystem
	logger *zap.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for debug output.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewStore creates a Store on fs.
func NewStore(fs billy.Filesystem, opts ...Option) *Store {
	s := &Store{fs: fs, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Read returns the raw value stored at name without following symbolic
// refs. The boolean is false when name has no value.
func (s *Store) Read(name string) (Value, bool, error) {
	if err := ValidateName(name); err != nil {
		return Value{}, false, err
	}
	data, err := util.ReadFile(s.fs, name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Value{}, false, nil
		}
		return Value{}, false, fmt.Errorf("read ref %q: %w", name, err)
	}
	v, ok := ParseValue(data)
	return v, ok, nil
}

// Update writes h as the direct value of name, replacing whatever was there.
// Parent directories are created as needed. There is no compare-and-swap:
// the last writer wins.
func (s *Store) Update(name string, h object.Hash) error {
	if strings.TrimSpace(string(h)) == "" {
		return fmt.Errorf("update ref %q: empty hash", name)
	}
	return s.write(name, Direct(h))
}

// UpdateSymbolic makes name defer to the ref called target.
func (s *Store) UpdateSymbolic(name, target string) error {
	if err := ValidateName(target); err != nil {
		return fmt.Errorf("update ref %q: target: %w", name, err)
	}
	return s.write(name, Symbolic(target))
}

func (s *Store) write(name string, v Value) error {
	if err := ValidateName(name); err != nil {
		return fmt.Errorf("update ref: %w", err)
	}

	dir := path.Dir(name)
	if dir != "." {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("update ref %q: mkdir: %w", name, err)
		}
	}

	tmp, err := s.fs.TempFile(dir, ".tmp-ref-")
	if err != nil {
		return fmt.Errorf("update ref %q: tmpfile: %w", name, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write([]byte(v.String() + "\n")); err != nil {
		tmp.Close()
		s.fs.Remove(tmpName)
		return fmt.Errorf("update ref %q: write: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		s.fs.Remove(tmpName)
		return fmt.Errorf("update ref %q: close: %w", name, err)
	}
	if err := s.fs.Rename(tmpName, name); err != nil {
		s.fs.Remove(tmpName)
		return fmt.Errorf("update ref %q: rename: %w", name, err)
	}

	s.logger.Debug("ref updated", zap.String("ref", name), zap.String("value", v.String()))
	return nil
}

// follow walks the symbolic chain starting at name. It returns the last
// name visited and, if that name holds a direct value, the value.
func (s *Store) follow(name string) (string, Value, bool, error) {
	seen := make(map[string]struct{})
	var chain []string
	for {
		if _, dup := seen[name]; dup {
			return "", Value{}, false, &CycleError{Chain: append(chain, name)}
		}
		seen[name] = struct{}{}
		chain = append(chain, name)

		v, ok, err := s.Read(name)
		if err != nil {
			return "", Value{}, false, err
		}
		if !ok {
			return name, Value{}, false, nil
		}
		if !v.IsSymbolic() {
			return name, v, true, nil
		}
		name = v.Target
	}
}

// Resolve follows symbolic refs starting at name until it reaches a direct
// value. A chain that ends at a missing ref resolves to ("", false, nil); a
// chain that revisits a name fails with a *CycleError.
func (s *Store) Resolve(name string) (object.Hash, bool, error) {
	_, v, ok, err := s.follow(name)
	if err != nil {
		return "", false, fmt.Errorf("resolve ref %q: %w", name, err)
	}
	if !ok {
		return "", false, nil
	}
	return v.Hash, true, nil
}

// Target returns the name at the end of the symbolic chain that starts at
// name: the ref that an update "through" name should write. For a direct or
// missing ref it is name itself.
func (s *Store) Target(name string) (string, error) {
	last, _, _, err := s.follow(name)
	if err != nil {
		return "", fmt.Errorf("ref target %q: %w", name, err)
	}
	return last, nil
}

// Delete removes the ref called name.
func (s *Store) Delete(name string) error {
	if err := ValidateName(name); err != nil {
		return fmt.Errorf("delete ref: %w", err)
	}
	if err := s.fs.Remove(name); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("delete ref %q: %w", name, ErrRefNotFound)
		}
		return fmt.Errorf("delete ref %q: %w", name, err)
	}
	return nil
}

// List returns HEAD followed by every ref under refs/ in lexical order, each
// fully resolved. Refs that dangle are listed with an empty Hash. Files whose
// names are not valid ref names cannot be addressed by Read or Update and are
// skipped.
func (s *Store) List() ([]Ref, error) {
	names := []string{Head}
	under, err := s.names(refsDir)
	if err != nil {
		return nil, fmt.Errorf("list refs: %w", err)
	}
	sort.Strings(under)
	for _, name := range under {
		if err := ValidateName(name); err != nil {
			s.logger.Debug("skipping ref file", zap.String("name", name), zap.Error(err))
			continue
		}
		names = append(names, name)
	}

	out := make([]Ref, 0, len(names))
	for _, name := range names {
		h, _, err := s.Resolve(name)
		if err != nil {
			return nil, fmt.Errorf("list refs: %w", err)
		}
		out = append(out, Ref{Name: name, Hash: h})
	}
	return out, nil
}

// ListPrefix returns the resolved refs whose names start with prefix, for
// example HeadsPrefix or TagsPrefix.
func (s *Store) ListPrefix(prefix string) ([]Ref, error) {
	all, err := s.List()
	if err != nil {
		return nil, err
	}
	var out []Ref
	for _, r := range all {
		if strings.HasPrefix(r.Name, prefix) {
			out = append(out, r)
		}
	}
	return out, nil
}

// names recursively collects ref file names below dir, skipping temp files.
func (s *Store) names(dir string) ([]string, error) {
	infos, err := s.fs.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var out []string
	for _, fi := range infos {
		if strings.HasPrefix(fi.Name(), ".") {
			continue
		}
		name := dir + "/" + fi.Name()
		if fi.IsDir() {
			sub, err := s.names(name)
			if err != nil {
				return nil, err
			}
			out = append(out, sub...)
			continue
		}
		out = append(out, name)
	}
	return out, nil
}
