// Cooccur - Co-occurrence Recommendation Index
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cooccur

package recommend

import (
	"errors"
	"fmt"
)

var (
	// ErrBackendUnavailable reports that the store could not be reached or
	// answered with a protocol error.
	ErrBackendUnavailable = errors.New("backend unavailable")

	// ErrInvalidArgument reports a malformed write, such as an empty object id.
	ErrInvalidArgument = errors.New("invalid argument")
)

// BackendError describes a failed store operation.
type BackendError struct {
	Backend string
	Op      string
	Err     error
}

// NewBackendError wraps err for the given backend operation.
// A nil err yields nil.
func NewBackendError(backend, op string, err error) error {
	if err == nil {
		return nil
	}
	return &BackendError{Backend: backend, Op: op, Err: err}
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s %s: %s: %v", e.Backend, e.Op, ErrBackendUnavailable, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// Is matches ErrBackendUnavailable.
func (e *BackendError) Is(target error) bool {
	return target == ErrBackendUnavailable
}
