// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of Cilium

package security

import (
	"errors"
	"fmt"
)

// ErrUnsupported is matched by every *UnsupportedError. Callers should skip
// the vector rather than count it as a failure.
var ErrUnsupported = errors.New("not supported")

// UnsupportedError names a requested feature the backend does not advertise.
type UnsupportedError struct {
	Feature string
	// Reason optionally explains why the advertised capabilities rejected
	// the feature.
	Reason error
}

func (e *UnsupportedError) Error() string {
	if e.Reason != nil {
		return fmt.Sprintf("%s is not supported: %s", e.Feature, e.Reason)
	}
	return fmt.Sprintf("%s is not supported", e.Feature)
}

func (e *UnsupportedError) Unwrap() []error {
	if e.Reason != nil {
		return []error{ErrUnsupported, e.Reason}
	}
	return []error{ErrUnsupported}
}
