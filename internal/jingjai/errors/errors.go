// Package errors holds the sentinel errors shared by the service layers.
// The transport layer maps them to gRPC codes and HTTP error kinds.
package errors

import (
	stderrors "errors"
	"fmt"
)

var (
	ErrNotFound           = fmt.Errorf("not found")
	ErrAlreadyExists      = fmt.Errorf("already exists")
	ErrInvalidInput       = fmt.Errorf("invalid input")
	ErrFailedPrecondition = fmt.Errorf("failed precondition")
	ErrUnauthenticated    = fmt.Errorf("authentication required")
)

// Kind is the machine-readable error class reported to callers.
type Kind string

const (
	KindUnauthenticated    Kind = "unauthenticated"
	KindInvalidArgument    Kind = "invalid-argument"
	KindFailedPrecondition Kind = "failed-precondition"
	KindAlreadyExists      Kind = "already-exists"
	KindNotFound           Kind = "not-found"
	KindInternal           Kind = "internal"
)

// KindOf classifies err. Anything not wrapping a sentinel is internal.
func KindOf(err error) Kind {
	switch {
	case stderrors.Is(err, ErrUnauthenticated):
		return KindUnauthenticated
	case stderrors.Is(err, ErrInvalidInput):
		return KindInvalidArgument
	case stderrors.Is(err, ErrFailedPrecondition):
		return KindFailedPrecondition
	case stderrors.Is(err, ErrAlreadyExists):
		return KindAlreadyExists
	case stderrors.Is(err, ErrNotFound):
		return KindNotFound
	default:
		return KindInternal
	}
}
