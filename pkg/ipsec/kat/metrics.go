// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of Cilium

package kat

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/cilium/ipsec-vectors/pkg/metrics/metric"
)

const (
	namespace = "ipsec_vectors"
	subsystem = "kat"

	LabelOutcome   = "outcome"
	LabelDirection = "direction"
)

type Metrics struct {
	// Results counts processed vectors by outcome and direction.
	Results *metric.CounterVec
}

func newMetrics(cfg Config) *Metrics {
	return &Metrics{
		Results: metric.NewCounterVec(metric.Opts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "results_total",
			Help:      "Number of known-answer test results by outcome and direction",
			Disabled:  !cfg.KatMetricsEnabled,
		}, LabelOutcome, LabelDirection),
	}
}

// Register adds the metrics to reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	return reg.Register(m.Results)
}
