package graph

import (
	"errors"
	"fmt"
)

// Common sentinel errors for graph construction and lookup.
var (
	ErrDuplicateNode   = errors.New("duplicate node id")
	ErrDanglingLink    = errors.New("link references unknown node")
	ErrSelfLoop        = errors.New("link source and target are the same node")
	ErrInvalidTier     = errors.New("tier out of range")
	ErrInvalidStrength = errors.New("strength out of range")
	ErrInvalidType     = errors.New("invalid type tag")
	ErrNodeNotFound    = errors.New("node not found")
	ErrEmptyNodeID     = errors.New("empty node id")
)

// BuildError identifies the record that made a graph build fail. Builds fail
// fast: the caller never receives a partially constructed graph.
type BuildError struct {
	Entity string // "node" or "link"
	ID     string // offending node id, or the id a link referenced
	Index  int    // position of the record in the input slice
	Cause  error
}

// Error implements the error interface.
func (e *BuildError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("build %s[%d] %q: %v", e.Entity, e.Index, e.ID, e.Cause)
	}
	return fmt.Sprintf("build %s[%d]: %v", e.Entity, e.Index, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *BuildError) Unwrap() error {
	return e.Cause
}

func nodeError(idx int, id string, cause error) error {
	return &BuildError{Entity: "node", ID: id, Index: idx, Cause: cause}
}

func linkError(idx int, id string, cause error) error {
	return &BuildError{Entity: "link", ID: id, Index: idx, Cause: cause}
}

// IsBuildError reports whether err is a construction failure and, if so,
// returns the typed error.
func IsBuildError(err error) (*BuildError, bool) {
	var be *BuildError
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}
