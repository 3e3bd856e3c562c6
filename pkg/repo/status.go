package repo

import (
	"fmt"

	"github.com/odvcencio/ugit/pkg/diff"
	"github.com/odvcencio/ugit/pkg/refs"
)

// FileStatus is the state of a path in the working directory compared with
// the tree of the HEAD commit.
type FileStatus int

const (
	StatusNew      FileStatus = iota + 1 // on disk, not in HEAD
	StatusModified                       // in both, contents differ
	StatusDeleted                        // in HEAD, not on disk
)

func (s FileStatus) String() string {
	switch s {
	case StatusNew:
		return "new"
	case StatusModified:
		return "modified"
	case StatusDeleted:
		return "deleted"
	default:
		return fmt.Sprintf("FileStatus(%d)", int(s))
	}
}

// StatusEntry records the status of a single changed path.
type StatusEntry struct {
	Path   string
	Status FileStatus
}

// Status compares the working directory with the tree of the commit HEAD
// resolves to and returns the changed paths sorted by path. Unchanged files
// are not listed. Before the first commit every file is new.
//
// Nothing is written to the object store; file contents are only hashed.
func (r *Repo) Status() ([]StatusEntry, error) {
	head, _, err := r.Refs.Resolve(refs.Head)
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}
	before, err := r.commitFiles(head)
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}
	after, _, err := r.workFiles()
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}

	changes := diff.Trees(before, after)
	out := make([]StatusEntry, 0, len(changes))
	for _, c := range changes {
		e := StatusEntry{Path: c.Path}
		switch c.Type {
		case diff.Added:
			e.Status = StatusNew
		case diff.Removed:
			e.Status = StatusDeleted
		default:
			e.Status = StatusModified
		}
		out = append(out, e)
	}
	return out, nil
}
