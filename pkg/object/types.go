package object

import "fmt"

// Hash is a lowercase hex-encoded object digest. Its width depends on the
// repository's Algorithm (40 characters for sha1, 64 otherwise).
type Hash string

// ObjectType identifies the kind of object stored.
type ObjectType string

const (
	TypeBlob   ObjectType = "blob"
	TypeTree   ObjectType = "tree"
	TypeCommit ObjectType = "commit"
)

// ParseObjectType validates a type tag read from disk or from a caller.
func ParseObjectType(s string) (ObjectType, error) {
	switch t := ObjectType(s); t {
	case TypeBlob, TypeTree, TypeCommit:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownEntryType, s)
	}
}

// Blob holds raw file data.
type Blob struct {
	Data []byte
}

// TreeEntry is one entry in a tree object. Type is either TypeBlob or
// TypeTree.
type TreeEntry struct {
	Type ObjectType
	Hash Hash
	Name string
}

// TreeObj holds a list of tree entries. Entries are sorted by Name when the
// tree is serialized.
type TreeObj struct {
	Entries []TreeEntry
}

// CommitObj represents a commit pointing to a tree. Parent is empty for a
// root commit.
type CommitObj struct {
	TreeHash Hash
	Parent   Hash
	Message  string
}
