package domain

import "errors"

var (
	// ErrNotFound is the umbrella for unknown ids; the specific errors below wrap it.
	ErrNotFound = errors.New("not found")

	// Account errors
	ErrAccountNotFound      = notFound("account not found")
	ErrInvalidAccountCode   = errors.New("invalid account code")
	ErrInvalidAccountType   = errors.New("invalid account type")
	ErrParentNotFound       = notFound("parent account not found")
	ErrDuplicateAccountCode = errors.New("duplicate account code")

	// Entry errors
	ErrEntryNotFound     = notFound("journal entry not found")
	ErrInvalidEntry      = errors.New("invalid journal entry")
	ErrInvalidTransition = errors.New("invalid status transition")

	// Classification errors
	ErrUnclassifiable   = errors.New("movement could not be classified")
	ErrInvalidDirection = errors.New("invalid movement direction")
	ErrInvalidRule      = errors.New("invalid classification rule")
)

type notFoundError struct {
	msg string
}

func notFound(msg string) error {
	return &notFoundError{msg: msg}
}

func (e *notFoundError) Error() string { return e.msg }

func (e *notFoundError) Unwrap() error { return ErrNotFound }

// IsNotFound reports whether err is, or wraps, a not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
