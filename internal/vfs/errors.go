package vfs

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("node not found")
	ErrInvalidMove     = errors.New("invalid move")
	ErrMalformedRecord = errors.New("malformed record")
	ErrInvalidName     = errors.New("invalid folder name")
	ErrDuplicateName   = errors.New("folder name already used in this container")
)

// Move guard failures. All of them satisfy errors.Is(err, ErrInvalidMove).
var (
	ErrSelfMove        = fmt.Errorf("%w: cannot move a node onto itself", ErrInvalidMove)
	ErrDraggedNotFound = fmt.Errorf("%w: dragged node not found", ErrInvalidMove)
	ErrTargetNotFound  = fmt.Errorf("%w: target node not found", ErrInvalidMove)
	ErrCycle           = fmt.Errorf("%w: folder cannot move into its own subtree", ErrInvalidMove)
	ErrUnsupportedMove = fmt.Errorf("%w: unsupported move", ErrInvalidMove)
	ErrNoChange        = fmt.Errorf("%w: node already in place", ErrInvalidMove)
)
