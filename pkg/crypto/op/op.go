// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of Cilium

// Package op describes the completion of a crypto or security operation
// submitted to a backend.
package op

import "fmt"

type Status int

const (
	StatusSuccess Status = iota
	StatusNotProcessed
	StatusAuthFailed
	StatusInvalidSession
	StatusInvalidArgs
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusNotProcessed:
		return "not-processed"
	case StatusAuthFailed:
		return "auth-failed"
	case StatusInvalidSession:
		return "invalid-session"
	case StatusInvalidArgs:
		return "invalid-args"
	default:
		return "error"
	}
}

func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Status) UnmarshalText(text []byte) error {
	for st := StatusSuccess; st <= StatusError; st++ {
		if st.String() == string(text) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", text)
}

// Op is the completion handle of a processed operation.
type Op struct {
	Status Status
}

// Succeeded returns true if the operation completed with StatusSuccess.
func (o *Op) Succeeded() bool {
	return o != nil && o.Status == StatusSuccess
}
