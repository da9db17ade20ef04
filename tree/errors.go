package tree

import "errors"

var (
	// ErrInvalidParent is returned when an insert names a missing parent or
	// brings an id that already exists in the tree.
	ErrInvalidParent = errors.New("invalid parent")

	// ErrRootRemovalForbidden is returned when an operation would detach the root.
	ErrRootRemovalForbidden = errors.New("root cannot be removed or moved")

	// ErrCycleDetected is returned when a reparent would make a node its own ancestor.
	ErrCycleDetected = errors.New("cycle detected")

	// ErrNotFound is returned for unknown node ids.
	ErrNotFound = errors.New("node not found")
)
