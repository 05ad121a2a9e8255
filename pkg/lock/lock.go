// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of Cilium

// Package lock provides the mutex types used throughout the module.
package lock

import "sync"

// RWMutex is equivalent to sync.RWMutex.
type RWMutex struct {
	sync.RWMutex
}

// Mutex is equivalent to sync.Mutex.
type Mutex struct {
	sync.Mutex
}
