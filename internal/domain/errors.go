package domain

import (
	"errors"
	"strings"
)

var (
	// ErrInvalidArgument marks missing or malformed input. Nothing is read
	// from or written to a store once it has been returned.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound marks a listing that does not exist (or is soft-deleted on
	// a read path that hides deleted listings).
	ErrNotFound = errors.New("not found")

	// ErrForbidden marks a mutation attempted by someone other than the owner.
	ErrForbidden = errors.New("forbidden")

	// ErrConflict marks a write that collides with existing data, such as a
	// second account for the same email.
	ErrConflict = errors.New("conflict")
)

// Kind classifies an error for the request boundary.
type Kind int

const (
	KindStoreFailure Kind = iota
	KindInvalidArgument
	KindNotFound
	KindForbidden
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "InvalidArgument"
	case KindNotFound:
		return "NotFound"
	case KindForbidden:
		return "Forbidden"
	case KindConflict:
		return "Conflict"
	default:
		return "StoreFailure"
	}
}

// KindOf maps err onto the taxonomy. Anything unrecognised is a store failure.
func KindOf(err error) Kind {
	switch {
	case errors.Is(err, ErrInvalidArgument):
		return KindInvalidArgument
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	case errors.Is(err, ErrConflict):
		return KindConflict
	default:
		return KindStoreFailure
	}
}

// Message returns the client-facing part of a taxonomy error, without the
// sentinel prefix.
func Message(err error) string {
	msg := err.Error()
	for _, sentinel := range []error{ErrInvalidArgument, ErrNotFound, ErrForbidden, ErrConflict} {
		msg = strings.TrimPrefix(msg, sentinel.Error()+": ")
	}
	return msg
}
