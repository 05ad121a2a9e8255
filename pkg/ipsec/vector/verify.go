// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of Cilium

package vector

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/cilium/ipsec-vectors/pkg/crypto/op"
	"github.com/cilium/ipsec-vectors/pkg/ipsec/dissect"
	"github.com/cilium/ipsec-vectors/pkg/ipsec/security"
	"github.com/cilium/ipsec-vectors/pkg/logging/logfields"
)

const (
	// IPv4HeaderLen is the size of the outer IPv4 header added in tunnel mode.
	IPv4HeaderLen = 20
	// IPv6HeaderLen is the size of the outer IPv6 header added in tunnel mode.
	IPv6HeaderLen = 40
)

var (
	ErrLengthMismatch  = errors.New("output length mismatch")
	ErrContentMismatch = errors.New("output text not as expected")
	ErrOperationFailed = errors.New("security op processing failed")
)

type LengthMismatchError struct {
	Length, Expected int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("output length (%d) not matching with expected (%d)", e.Length, e.Expected)
}

func (e *LengthMismatchError) Unwrap() error { return ErrLengthMismatch }

type ContentMismatchError struct {
	// Offset is the first differing byte, relative to the packet start.
	Offset int
}

func (e *ContentMismatchError) Error() string {
	return fmt.Sprintf("%s: first difference at offset %d", ErrContentMismatch, e.Offset)
}

func (e *ContentMismatchError) Unwrap() error { return ErrContentMismatch }

type OperationFailedError struct {
	Status op.Status
}

func (e *OperationFailedError) Error() string {
	return fmt.Sprintf("%s: status %s", ErrOperationFailed, e.Status)
}

func (e *OperationFailedError) Unwrap() error { return ErrOperationFailed }

// Packet is the processed packet produced by the backend under test.
type Packet interface {
	// Len is the logical length of the packet.
	Len() int
	// Bytes returns the packet data. Only the first Len() bytes are used.
	Bytes() []byte
}

// Buffer is a Packet backed by a byte slice.
type Buffer []byte

func (b Buffer) Len() int      { return len(b) }
func (b Buffer) Bytes() []byte { return b }

// TunnelHeaderLen returns the length of the outer header a backend prepends
// when processing td, which is not part of the compared output. Only egress
// tunnel mode adds one; its size follows from the declared tunnel type.
func TunnelHeaderLen(td *TestVector) int {
	if td.IPsec.Direction != security.DirectionEgress || td.IPsec.Mode != security.ModeTunnel {
		return 0
	}
	if td.IPsec.Tunnel.Type == security.TunnelIPv4 {
		return IPv4HeaderLen
	}
	return IPv6HeaderLen
}

// Verifier checks processed packets against test vectors. Failures are
// logged to Logger and, for content mismatches, hex dumps are written to
// Dump. Both are skipped in silent mode.
type Verifier struct {
	Logger *slog.Logger
	// Dump receives hex dumps of mismatching output. nil discards them.
	Dump io.Writer
}

// VerifyOutput compares the processed packet pkt with the expected output of
// td. The outer tunnel header, if any, counts towards the length but its
// content is not compared.
func (v *Verifier) VerifyOutput(pkt Packet, td *TestVector, silent bool) error {
	length := pkt.Len()
	if length != td.Output.Len() {
		if !silent {
			v.Logger.Info("Output length not matching with expected",
				logfields.Vector, td.Name,
				logfields.Length, length,
				logfields.ExpectedLength, td.Output.Len(),
			)
		}
		return &LengthMismatchError{Length: length, Expected: td.Output.Len()}
	}

	skip := TunnelHeaderLen(td)
	if skip > length {
		skip = length
	}
	actual := pkt.Bytes()[skip:length]
	expected := td.Output[skip:]
	if bytes.Equal(actual, expected) {
		return nil
	}

	offset := skip + firstDifference(actual, expected)
	if !silent {
		v.Logger.Info("Output text not as expected",
			logfields.Vector, td.Name,
			logfields.Skip, skip,
			logfields.Offset, offset,
		)
		if v.Dump != nil {
			if skip > 0 {
				dissect.OuterHeader(v.Dump, td.IPsec.Tunnel.Type, pkt.Bytes()[:length])
			}
			dissect.Dump(v.Dump, "expected", expected)
			dissect.Dump(v.Dump, "actual", actual)
		}
	}
	return &ContentMismatchError{Offset: offset}
}

// PostProcess verifies the packet processed from td.
//
// For known-vector tests and every inbound test res is nil and the output is
// validated against td: for inbound it is the plain packet, for outbound the
// IPsec packet. res is reserved for tests whose expected output has to be
// recomputed from a previous result and is currently ignored.
func (v *Verifier) PostProcess(pkt Packet, td *TestVector, res *TestVector, silent bool) error {
	return v.VerifyOutput(pkt, td, silent)
}

// CheckStatus returns an *OperationFailedError if o did not complete
// successfully. A nil o was never processed. dir is reserved for
// direction-specific status handling and does not affect the result.
func CheckStatus(logger *slog.Logger, o *op.Op, dir security.Direction) error {
	if o.Succeeded() {
		return nil
	}
	status := op.StatusNotProcessed
	if o != nil {
		status = o.Status
	}
	logger.Info("Security op processing failed",
		logfields.Status, status,
		logfields.Direction, dir,
	)
	return &OperationFailedError{Status: status}
}

func firstDifference(a, b []byte) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}
