package script

import (
	"errors"
	"fmt"
)

var (
	// ErrClosed is returned when running a script on a closed Runner.
	ErrClosed = errors.New("script runner is closed")

	// ErrNestedUndo is raised when a script calls undo or redo inside a
	// transaction.
	ErrNestedUndo = errors.New("undo and redo are not allowed inside a transaction")
)

// Error reports a script that failed to compile or raised an error.
type Error struct {
	Name string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("script %s: %v", e.Name, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
