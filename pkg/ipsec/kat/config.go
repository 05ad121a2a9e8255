// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of Cilium

package kat

import (
	"github.com/spf13/pflag"
)

const (
	// Workers is the number of vectors processed concurrently.
	Workers = "kat-workers"

	// RoundTrip runs the derived inbound vector of every egress vector
	// that passed.
	RoundTrip = "kat-round-trip"

	// Silent suppresses failure logging and hex dumps.
	Silent = "kat-silent"

	// MetricsEnabled enables the result counters.
	MetricsEnabled = "kat-metrics-enabled"
)

var defaultConfig = Config{
	KatWorkers:        4,
	KatRoundTrip:      false,
	KatSilent:         false,
	KatMetricsEnabled: true,
}

type Config struct {
	KatWorkers        int
	KatRoundTrip      bool
	KatSilent         bool
	KatMetricsEnabled bool
}

func (def Config) Flags(flags *pflag.FlagSet) {
	flags.Int(Workers, def.KatWorkers, "Number of test vectors processed concurrently")
	flags.Bool(RoundTrip, def.KatRoundTrip, "Also run the inbound vector derived from each passing egress vector")
	flags.Bool(Silent, def.KatSilent, "Do not log failure details or dump mismatching packets")
	flags.Bool(MetricsEnabled, def.KatMetricsEnabled, "Count test results per outcome and direction")
}
