// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of Cilium

package kat

import (
	"context"

	"github.com/cilium/ipsec-vectors/pkg/crypto/op"
	"github.com/cilium/ipsec-vectors/pkg/ipsec/security"
	"github.com/cilium/ipsec-vectors/pkg/ipsec/vector"
)

// Backend is an IPsec implementation under test.
type Backend interface {
	// Capabilities returns the security capabilities the backend
	// advertises.
	Capabilities() []security.Capability

	// Process runs the input of td through a security association
	// configured from td. A non-nil error means the operation could not be
	// submitted at all; processing failures are reported in Result.Op.
	Process(ctx context.Context, td *vector.TestVector) (*Result, error)
}

// Result is a completed operation and the packet it produced.
type Result struct {
	Op     op.Op
	Packet vector.Packet
}
