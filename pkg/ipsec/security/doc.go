// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of Cilium

// Package security decides whether a requested IPsec transform can run on a
// backend, given the security capability descriptors the backend advertises.
package security
