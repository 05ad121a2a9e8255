// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of Cilium

package metric

import (
	"github.com/prometheus/client_golang/prometheus"
)

// CounterVec is a labelled counter family gated by Opts.Disabled.
type CounterVec struct {
	vec     *prometheus.CounterVec
	enabled bool
}

func NewCounterVec(opts Opts, labelNames ...string) *CounterVec {
	return &CounterVec{
		vec:     prometheus.NewCounterVec(opts.counterOpts(), labelNames),
		enabled: !opts.Disabled,
	}
}

func (cv *CounterVec) Enabled() bool {
	return cv.enabled
}

// Inc increments the counter with the given label values, one per label
// name passed to NewCounterVec.
func (cv *CounterVec) Inc(lvs ...string) {
	if cv.enabled {
		cv.vec.WithLabelValues(lvs...).Inc()
	}
}

func (cv *CounterVec) Describe(ch chan<- *prometheus.Desc) {
	cv.vec.Describe(ch)
}

func (cv *CounterVec) Collect(ch chan<- prometheus.Metric) {
	if cv.enabled {
		cv.vec.Collect(ch)
	}
}
