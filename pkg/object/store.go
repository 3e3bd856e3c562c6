package object

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"go.uber.org/zap"
)

const objectsDir = "objects"

// Store is a content-addressed object store with a flat layout:
// objects/<oid>. Each file holds "type\0content".
type Store struct {
	fs     billy.Filesystem
	algo   Algorithm
	logger *zap.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithAlgorithm selects the digest used for object ids.
func WithAlgorithm(a Algorithm) Option {
	return func(s *Store) {
		s.algo = a
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewStore creates a Store on fs, which is rooted at the repository
// metadata directory. Nothing is created until Init or the first Write.
func NewStore(fs billy.Filesystem, opts ...Option) *Store {
	s := &Store{
		fs:     fs,
		algo:   DefaultAlgorithm,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Algorithm returns the digest algorithm of the store.
func (s *Store) Algorithm() Algorithm {
	return s.algo
}

// Init creates the objects directory. It fails with ErrAlreadyInitialized if
// the directory already exists.
func (s *Store) Init() error {
	if _, err := s.fs.Stat(objectsDir); err == nil {
		return fmt.Errorf("object store init: %w", ErrAlreadyInitialized)
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("object store init: %w", err)
	}
	if err := s.fs.MkdirAll(objectsDir, 0o755); err != nil {
		return fmt.Errorf("object store init: mkdir: %w", err)
	}
	return nil
}

func (s *Store) objectPath(h Hash) string {
	return s.fs.Join(objectsDir, string(h))
}

// Has reports whether the store contains an object with the given hash.
func (s *Store) Has(h Hash) bool {
	if !s.algo.IsHash(string(h)) {
		return false
	}
	_, err := s.fs.Stat(s.objectPath(h))
	return err == nil
}

// Write stores an object and returns its content hash. Writing an object
// that already exists is a no-op. New objects are written to a temp file and
// renamed into place so a reader never observes a partial object.
func (s *Store) Write(objType ObjectType, data []byte) (Hash, error) {
	if _, err := ParseObjectType(string(objType)); err != nil {
		return "", fmt.Errorf("object write: %w", err)
	}
	h := HashObject(s.algo, objType, data)

	// Fast path: already exists.
	if s.Has(h) {
		return h, nil
	}

	if err := s.fs.MkdirAll(objectsDir, 0o755); err != nil {
		return "", fmt.Errorf("object write mkdir: %w", err)
	}

	raw := make([]byte, 0, len(objType)+1+len(data))
	raw = append(raw, string(objType)...)
	raw = append(raw, 0)
	raw = append(raw, data...)

	tmp, err := s.fs.TempFile(objectsDir, ".tmp-")
	if err != nil {
		return "", fmt.Errorf("object write tmpfile: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		s.fs.Remove(tmpName)
		return "", fmt.Errorf("object write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		s.fs.Remove(tmpName)
		return "", fmt.Errorf("object write close: %w", err)
	}
	if err := s.fs.Rename(tmpName, s.objectPath(h)); err != nil {
		s.fs.Remove(tmpName)
		return "", fmt.Errorf("object write rename: %w", err)
	}

	s.logger.Debug("object written",
		zap.String("oid", string(h)),
		zap.String("type", string(objType)),
		zap.Int("size", len(data)),
	)
	return h, nil
}

// Read retrieves an object by hash, returning its type and content.
func (s *Store) Read(h Hash) (ObjectType, []byte, error) {
	if !s.algo.IsHash(string(h)) {
		return "", nil, fmt.Errorf("object read %s: %w", h, ErrObjectNotFound)
	}
	raw, err := util.ReadFile(s.fs, s.objectPath(h))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil, fmt.Errorf("object read %s: %w", h, ErrObjectNotFound)
		}
		return "", nil, fmt.Errorf("object read %s: %w", h, err)
	}

	nulIdx := bytes.IndexByte(raw, 0)
	if nulIdx < 0 {
		return "", nil, fmt.Errorf("object read %s: %w: no type tag", h, ErrMalformedObject)
	}
	objType, err := ParseObjectType(string(raw[:nulIdx]))
	if err != nil {
		return "", nil, fmt.Errorf("object read %s: %w", h, err)
	}
	return objType, raw[nulIdx+1:], nil
}

// Get returns the content of an object. When expected is non-empty the
// stored type must match it, otherwise a *TypeMismatchError is returned.
func (s *Store) Get(h Hash, expected ObjectType) ([]byte, error) {
	objType, data, err := s.Read(h)
	if err != nil {
		return nil, err
	}
	if expected != "" && objType != expected {
		return nil, &TypeMismatchError{Hash: h, Want: expected, Got: objType}
	}
	return data, nil
}

// List returns the hashes of every stored object in lexical order.
func (s *Store) List() ([]Hash, error) {
	infos, err := s.fs.ReadDir(objectsDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("object list: %w", err)
	}
	out := make([]Hash, 0, len(infos))
	for _, fi := range infos {
		if fi.IsDir() || !s.algo.IsHash(fi.Name()) {
			continue
		}
		out = append(out, Hash(fi.Name()))
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

// Delete removes the object h. Deleting a missing object fails with
// ErrObjectNotFound.
func (s *Store) Delete(h Hash) error {
	if !s.Has(h) {
		return fmt.Errorf("object delete %s: %w", h, ErrObjectNotFound)
	}
	if err := s.fs.Remove(s.objectPath(h)); err != nil {
		return fmt.Errorf("object delete %s: %w", h, err)
	}
	s.logger.Debug("object deleted", zap.String("oid", string(h)))
	return nil
}

// Verify re-hashes the stored bytes of h and fails with ErrCorruptObject
// when they no longer hash to h.
func (s *Store) Verify(h Hash) error {
	objType, data, err := s.Read(h)
	if err != nil {
		return err
	}
	if got := HashObject(s.algo, objType, data); got != h {
		return fmt.Errorf("object %s: %w: content hashes to %s", h, ErrCorruptObject, got)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Typed convenience methods
// ---------------------------------------------------------------------------

// WriteBlob stores a Blob.
func (s *Store) WriteBlob(b *Blob) (Hash, error) {
	return s.Write(TypeBlob, b.Data)
}

// ReadBlob reads a Blob.
func (s *Store) ReadBlob(h Hash) (*Blob, error) {
	data, err := s.Get(h, TypeBlob)
	if err != nil {
		return nil, err
	}
	return &Blob{Data: data}, nil
}

// WriteTree serializes and stores a TreeObj.
func (s *Store) WriteTree(tr *TreeObj) (Hash, error) {
	data, err := MarshalTree(tr)
	if err != nil {
		return "", err
	}
	return s.Write(TypeTree, data)
}

// ReadTree reads and deserializes a TreeObj.
func (s *Store) ReadTree(h Hash) (*TreeObj, error) {
	data, err := s.Get(h, TypeTree)
	if err != nil {
		return nil, err
	}
	tr, err := UnmarshalTree(data)
	if err != nil {
		return nil, fmt.Errorf("tree %s: %w", h, err)
	}
	return tr, nil
}

// WriteCommit serializes and stores a CommitObj.
func (s *Store) WriteCommit(c *CommitObj) (Hash, error) {
	return s.Write(TypeCommit, MarshalCommit(c))
}

// ReadCommit reads and deserializes a CommitObj.
func (s *Store) ReadCommit(h Hash) (*CommitObj, error) {
	data, err := s.Get(h, TypeCommit)
	if err != nil {
		return nil, err
	}
	c, err := UnmarshalCommit(data)
	if err != nil {
		return nil, fmt.Errorf("commit %s: %w", h, err)
	}
	return c, nil
}
