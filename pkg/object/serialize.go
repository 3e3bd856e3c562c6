package object

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
)

// ---------------------------------------------------------------------------
// TreeObj
// ---------------------------------------------------------------------------

// ValidateEntryName checks that name can be stored as a single tree entry:
// non-empty, not "." or "..", and without a "/". Newline and NUL are refused
// as well since one entry is one line of text. Any other byte, including a
// backslash, is an ordinary filename character.
func ValidateEntryName(name string) error {
	switch {
	case name == "", name == ".", name == "..":
		return fmt.Errorf("%w: name %q", ErrInvalidTreeEntry, name)
	case strings.Contains(name, "/"):
		return fmt.Errorf("%w: name %q contains a separator", ErrInvalidTreeEntry, name)
	case strings.ContainsAny(name, "\n\x00"):
		return fmt.Errorf("%w: name %q contains a newline or NUL", ErrInvalidTreeEntry, name)
	}
	return nil
}

func parseEntryType(s string) (ObjectType, error) {
	switch t := ObjectType(s); t {
	case TypeBlob, TypeTree:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownEntryType, s)
	}
}

// MarshalTree serializes a TreeObj. Entries are sorted by Name so the
// encoding, and therefore the tree hash, does not depend on the order the
// entries were collected in. Each entry is one line:
//
//	type hash name
func MarshalTree(tr *TreeObj) ([]byte, error) {
	sorted := make([]TreeEntry, len(tr.Entries))
	copy(sorted, tr.Entries)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})

	var buf bytes.Buffer
	for i, e := range sorted {
		if err := ValidateEntryName(e.Name); err != nil {
			return nil, fmt.Errorf("marshal tree: %w", err)
		}
		if i > 0 && sorted[i-1].Name == e.Name {
			return nil, fmt.Errorf("marshal tree: %w: duplicate name %q", ErrInvalidTreeEntry, e.Name)
		}
		if _, err := parseEntryType(string(e.Type)); err != nil {
			return nil, fmt.Errorf("marshal tree: entry %q: %w", e.Name, err)
		}
		if e.Hash == "" || strings.ContainsAny(string(e.Hash), " \n") {
			return nil, fmt.Errorf("marshal tree: %w: entry %q has hash %q", ErrInvalidTreeEntry, e.Name, e.Hash)
		}
		fmt.Fprintf(&buf, "%s %s %s\n", e.Type, e.Hash, e.Name)
	}
	return buf.Bytes(), nil
}

// UnmarshalTree parses a TreeObj from its serialized form. Entry names are
// validated so that a corrupt tree can never address a path outside the
// directory it describes.
func UnmarshalTree(data []byte) (*TreeObj, error) {
	tr := &TreeObj{}
	text := strings.TrimSuffix(string(data), "\n")
	if text == "" {
		return tr, nil
	}
	for _, line := range strings.Split(text, "\n") {
		parts := strings.SplitN(line, " ", 3)
		if len(parts) != 3 {
			return nil, fmt.Errorf("unmarshal tree: %w: entry %q", ErrMalformedObject, line)
		}
		objType, err := parseEntryType(parts[0])
		if err != nil {
			return nil, fmt.Errorf("unmarshal tree: %w", err)
		}
		if err := ValidateEntryName(parts[2]); err != nil {
			return nil, fmt.Errorf("unmarshal tree: %w", err)
		}
		tr.Entries = append(tr.Entries, TreeEntry{
			Type: objType,
			Hash: Hash(parts[1]),
			Name: parts[2],
		})
	}
	return tr, nil
}

// ---------------------------------------------------------------------------
// CommitObj
// ---------------------------------------------------------------------------

// MarshalCommit serializes a CommitObj:
//
//	tree H
//	parent H     (optional)
//
//	message
//
// The message is always followed by one newline, which UnmarshalCommit
// strips again.
func MarshalCommit(c *CommitObj) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "tree %s\n", c.TreeHash)
	if c.Parent != "" {
		fmt.Fprintf(&buf, "parent %s\n", c.Parent)
	}
	buf.WriteByte('\n')
	buf.WriteString(c.Message)
	buf.WriteByte('\n')
	return buf.Bytes()
}

// UnmarshalCommit parses a CommitObj. Header lines run until the first
// blank line; everything after it is the message, blank lines included,
// minus the single newline MarshalCommit terminates it with.
func UnmarshalCommit(data []byte) (*CommitObj, error) {
	var header, message string
	if len(data) > 0 && data[0] == '\n' {
		message = string(data[1:])
	} else {
		idx := bytes.Index(data, []byte("\n\n"))
		if idx < 0 {
			return nil, fmt.Errorf("unmarshal commit: %w: missing header/message separator", ErrMalformedCommit)
		}
		header = string(data[:idx])
		message = string(data[idx+2:])
	}

	c := &CommitObj{Message: strings.TrimSuffix(message, "\n")}
	if header != "" {
		for _, line := range strings.Split(header, "\n") {
			key, val, ok := strings.Cut(line, " ")
			if !ok {
				return nil, fmt.Errorf("unmarshal commit: %w: header line %q", ErrMalformedCommit, line)
			}
			switch key {
			case "tree":
				if c.TreeHash != "" {
					return nil, fmt.Errorf("unmarshal commit: %w: duplicate tree", ErrMalformedCommit)
				}
				c.TreeHash = Hash(val)
			case "parent":
				if c.Parent != "" {
					return nil, fmt.Errorf("unmarshal commit: %w: duplicate parent", ErrMalformedCommit)
				}
				c.Parent = Hash(val)
			default:
				return nil, fmt.Errorf("unmarshal commit: %w: unknown header key %q", ErrMalformedCommit, key)
			}
		}
	}
	if c.TreeHash == "" {
		return nil, fmt.Errorf("unmarshal commit: %w: missing tree", ErrMalformedCommit)
	}
	return c, nil
}
