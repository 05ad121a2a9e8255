// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of Cilium

// Package logfields defines common logging fields which are used across packages
package logfields

const (
	// LogSubsys is the field denoting the subsystem when logging
	LogSubsys = "subsys"

	// Error is the field holding an error
	Error = "error"

	// Vector is the name of a known-answer test vector
	Vector = "vector"

	// Feature is the name of a security feature a backend does not advertise
	Feature = "feature"

	// Algorithm is a crypto algorithm identifier
	Algorithm = "algorithm"

	// Transform is the string form of a requested crypto transform
	Transform = "transform"

	// Direction is the IPsec SA direction (egress or ingress)
	Direction = "direction"

	// Mode is the IPsec SA mode (transport or tunnel)
	Mode = "mode"

	// Status is the completion status of a crypto operation
	Status = "status"

	// Length is the length of a processed packet
	Length = "length"

	// ExpectedLength is the length expected by a test vector
	ExpectedLength = "expectedLength"

	// Skip is the number of leading bytes excluded from a comparison
	Skip = "skip"

	// Offset is the first byte offset at which two buffers differ
	Offset = "offset"

	// Outcome is the result of running a test vector
	Outcome = "outcome"

	// Workers is the number of concurrent workers
	Workers = "workers"

	// Path is a filesystem path
	Path = "path"

	// Count is a number of items
	Count = "count"
)
