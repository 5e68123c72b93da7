package social

import "errors"

// Every command returns one of these kinds wrapped with a user-facing message.
// All of them are recoverable and local to the failed command; the
// presentation layer maps them to responses and never crashes on any kind.
var (
	// ErrValidation indicates a missing or malformed input.
	ErrValidation = errors.New("invalid input")
	// ErrDuplicate indicates the command would create a record that already exists.
	ErrDuplicate = errors.New("already exists")
	// ErrNotFound indicates a referenced user, book, or request does not exist.
	ErrNotFound = errors.New("not found")
	// ErrEmptyState indicates the command had nothing to operate on.
	ErrEmptyState = errors.New("nothing to do")
)
