package object

import (
	"errors"
	"fmt"
)

var (
	ErrAlreadyInitialized = errors.New("object store already initialized")
	ErrObjectNotFound     = errors.New("object not found")
	ErrTypeMismatch       = errors.New("object type mismatch")
	ErrInvalidTreeEntry   = errors.New("invalid tree entry")
	ErrUnknownEntryType   = errors.New("unknown entry type")
	ErrMalformedCommit    = errors.New("malformed commit")
	ErrMalformedObject    = errors.New("malformed object")
	ErrCorruptObject      = errors.New("corrupt object")
)

// TypeMismatchError reports an object that exists but carries a different
// type tag than the caller asked for.
type TypeMismatchError struct {
	Hash Hash
	Want ObjectType
	Got  ObjectType
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("object %s: %s: got %q, want %q", e.Hash, ErrTypeMismatch, e.Got, e.Want)
}

func (e *TypeMismatchError) Is(target error) bool {
	return target == ErrTypeMismatch
}
