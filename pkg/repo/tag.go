package repo

import (
	"fmt"
	"strings"

	"github.com/odvcencio/ugit/pkg/object"
	"github.com/odvcencio/ugit/pkg/refs"
)

// CreateTag points refs/tags/<name> at target, replacing any existing tag of
// that name.
func (r *Repo) CreateTag(name string, target object.Hash) error {
	name = strings.TrimSpace(name)
	if strings.TrimSpace(string(target)) == "" {
		return fmt.Errorf("create tag: target hash is required")
	}
	if err := r.Refs.Update(refs.TagsPrefix+name, target); err != nil {
		return fmt.Errorf("create tag: %w", err)
	}
	return nil
}

// DeleteTag removes refs/tags/<name>.
func (r *Repo) DeleteTag(name string) error {
	if err := r.Refs.Delete(refs.TagsPrefix + strings.TrimSpace(name)); err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}
	return nil
}

// ListTags returns tag name -> target hash.
func (r *Repo) ListTags() (map[string]object.Hash, error) {
	tags, err := r.Refs.ListPrefix(refs.TagsPrefix)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	out := make(map[string]object.Hash, len(tags))
	for _, t := range tags {
		out[strings.TrimPrefix(t.Name, refs.TagsPrefix)] = t.Hash
	}
	return out, nil
}

// ListRefs returns HEAD and every ref under refs/, each resolved.
func (r *Repo) ListRefs() ([]refs.Ref, error) {
	return r.Refs.List()
}

// ResolveName turns a user-supplied name into an object hash.
//
// Resolution order:
//  1. "@" is an alias for HEAD.
//  2. The name itself, if it is a valid ref name that resolves.
//  3. refs/tags/<name>, then refs/heads/<name>.
//  4. Otherwise the name is returned unchanged, so a literal object id can
//     be passed anywhere a name is expected.
func (r *Repo) ResolveName(name string) (object.Hash, error) {
	if name == "@" {
		name = refs.Head
	}
	for _, candidate := range []string{name, refs.TagsPrefix + name, refs.HeadsPrefix + name} {
		if refs.ValidateName(candidate) != nil {
			continue
		}
		h, ok, err := r.Refs.Resolve(candidate)
		if err != nil {
			return "", fmt.Errorf("resolve name %q: %w", name, err)
		}
		if ok {
			return h, nil
		}
	}
	return object.Hash(name), nil
}
