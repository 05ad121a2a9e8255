// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of Cilium

// Package metric provides prometheus collectors that can be turned off by
// configuration. A disabled collector can still be registered, but it
// ignores updates and reports nothing when collected.
package metric

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Opts names a collector. The fully-qualified name is
// Namespace_Subsystem_Name.
type Opts struct {
	Namespace string
	Subsystem string
	Name      string
	Help      string

	// Disabled collectors drop updates and are never collected.
	Disabled bool
}

func (o Opts) counterOpts() prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace: o.Namespace,
		Subsystem: o.Subsystem,
		Name:      o.Name,
		Help:      o.Help,
	}
}
