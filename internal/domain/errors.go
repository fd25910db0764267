package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by repo and service functions when the requested
// route, stop, or connection does not exist or is not owned by the caller.
// Ownership failures are deliberately indistinguishable from absence.
var ErrNotFound = errors.New("not found")

// ErrInvalidEndpoint is returned when a connection names a stop that does not
// belong to the connection's route. It is a kind of ErrNotFound.
var ErrInvalidEndpoint = fmt.Errorf("invalid endpoint: %w", ErrNotFound)

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. empty name, name too long, negative distance).
var ErrValidation = errors.New("validation error")

// ErrSelfLoop is returned when a connection would join a stop to itself.
var ErrSelfLoop = errors.New("self loop")

// ErrDuplicate is returned when a route name, stop name, or ordered
// connection pair already exists in its scope.
var ErrDuplicate = errors.New("duplicate")

// ErrNoPath is returned by the shortest-path engine when the target cannot be
// reached from the source. It is an expected outcome, not a failure.
var ErrNoPath = errors.New("no path")

// ErrNodeNotFound is returned by graph operations when a stop ID is not a
// node of the graph.
var ErrNodeNotFound = errors.New("node not found")

// ErrStoreUnavailable wraps driver and transaction failures. It is the only
// error kind worth retrying, and only for reads.
var ErrStoreUnavailable = errors.New("store unavailable")

// ErrorKind classifies an error returned by this module into exactly one of
// the categories callers are expected to handle.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindNotFound
	KindInvalidInput
	KindSelfLoop
	KindDuplicate
	KindNoPath
	KindNodeNotFound
	KindStoreUnavailable
	KindUnknown
)

var kindNames = map[ErrorKind]string{
	KindNone:             "none",
	KindNotFound:         "not_found",
	KindInvalidInput:     "invalid_input",
	KindSelfLoop:         "self_loop",
	KindDuplicate:        "duplicate",
	KindNoPath:           "no_path",
	KindNodeNotFound:     "node_not_found",
	KindStoreUnavailable: "store_unavailable",
	KindUnknown:          "unknown",
}

// String returns the snake_case code for the kind, suitable for logs and
// presentation-layer message lookups.
func (k ErrorKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return kindNames[KindUnknown]
}

// KindOf reports which sentinel err wraps. A nil error is KindNone; an error
// wrapping none of the sentinels is KindUnknown.
//
// The order matters when an error wraps more than one sentinel: the most
// specific domain outcome wins over ErrStoreUnavailable.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrSelfLoop):
		return KindSelfLoop
	case errors.Is(err, ErrDuplicate):
		return KindDuplicate
	case errors.Is(err, ErrValidation):
		return KindInvalidInput
	case errors.Is(err, ErrNodeNotFound):
		return KindNodeNotFound
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrNoPath):
		return KindNoPath
	case errors.Is(err, ErrStoreUnavailable):
		return KindStoreUnavailable
	default:
		return KindUnknown
	}
}

// Retryable reports whether a failed read may be retried with backoff.
func Retryable(err error) bool {
	return KindOf(err) == KindStoreUnavailable
}
