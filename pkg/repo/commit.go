package repo

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/odvcencio/ugit/pkg/object"
	"github.com/odvcencio/ugit/pkg/refs"
)

// Commit snapshots the working directory and records it on top of HEAD.
//
//  1. WriteTree(".")
//  2. Resolve HEAD to get the parent commit (none for the first commit)
//  3. Write the commit object
//  4. Point the ref at the end of HEAD's symbolic chain at the new commit:
//     the current branch, or HEAD itself when detached
//
// The steps are not transactional. If the process dies before step 4 the
// new objects stay behind as unreachable garbage and HEAD is unchanged.
func (r *Repo) Commit(message string) (object.Hash, error) {
	treeHash, err := r.WriteTree(".")
	if err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}

	parent, _, err := r.Refs.Resolve(refs.Head)
	if err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}

	commitHash, err := r.Store.WriteCommit(&object.CommitObj{
		TreeHash: treeHash,
		Parent:   parent,
		Message:  message,
	})
	if err != nil {
		return "", fmt.Errorf("commit: write commit: %w", err)
	}

	target, err := r.Refs.Target(refs.Head)
	if err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	if err := r.Refs.Update(target, commitHash); err != nil {
		return "", fmt.Errorf("commit: update %s: %w", target, err)
	}

	r.logger.Debug("commit created",
		zap.String("oid", string(commitHash)),
		zap.String("tree", string(treeHash)),
		zap.String("parent", string(parent)),
		zap.String("ref", target),
	)
	return commitHash, nil
}

// GetCommit reads and parses the commit h. It fails with
// object.ErrMalformedCommit if the commit has no tree or an unknown header.
func (r *Repo) GetCommit(h object.Hash) (*object.CommitObj, error) {
	c, err := r.Store.ReadCommit(h)
	if err != nil {
		return nil, fmt.Errorf("get commit: %w", err)
	}
	return c, nil
}

// LogEntry is one commit visited by Log.
type LogEntry struct {
	Hash   object.Hash
	Commit *object.CommitObj
}

// Log walks the history starting at start, following parent links, and
// returns up to limit commits newest first. A limit <= 0 means no limit. The
// walk stops quietly at a missing parent.
func (r *Repo) Log(start object.Hash, limit int) ([]LogEntry, error) {
	var out []LogEntry
	seen := make(map[object.Hash]struct{})
	current := start

	for current != "" && (limit <= 0 || len(out) < limit) {
		if _, ok := seen[current]; ok {
			return nil, fmt.Errorf("log: commit %s visited twice", current)
		}
		seen[current] = struct{}{}

		c, err := r.GetCommit(current)
		if err != nil {
			if errors.Is(err, object.ErrObjectNotFound) && len(out) > 0 {
				break
			}
			return nil, fmt.Errorf("log: %w", err)
		}
		out = append(out, LogEntry{Hash: current, Commit: c})
		current = c.Parent
	}
	return out, nil
}
