package diff

import (
	"bytes"
	"fmt"
	"io"
)

// WriteFile writes c as a full-context line diff:
//
//	diff a/path b/path
//	--- a/path
//	+++ b/path
//	 unchanged line
//	-old line
//	+new line
//
// Added files use /dev/null as the old side and removed files as the new
// side. Contents holding a NUL byte are reported as binary.
func WriteFile(w io.Writer, c Change, before, after []byte) error {
	oldName, newName := "a/"+c.Path, "b/"+c.Path
	switch c.Type {
	case Added:
		oldName = "/dev/null"
	case Removed:
		newName = "/dev/null"
	}

	if _, err := fmt.Fprintf(w, "diff a/%s b/%s\n", c.Path, c.Path); err != nil {
		return err
	}
	if isBinary(before) || isBinary(after) {
		_, err := fmt.Fprintf(w, "Binary files %s and %s differ\n", oldName, newName)
		return err
	}
	if _, err := fmt.Fprintf(w, "--- %s\n+++ %s\n", oldName, newName); err != nil {
		return err
	}
	for _, l := range Lines(before, after) {
		prefix := " "
		switch l.Op {
		case Insert:
			prefix = "+"
		case Delete:
			prefix = "-"
		}
		if _, err := fmt.Fprintf(w, "%s%s\n", prefix, l.Text); err != nil {
			return err
		}
	}
	return nil
}

func isBinary(data []byte) bool {
	return bytes.IndexByte(data, 0) >= 0
}
