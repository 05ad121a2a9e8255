// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of Cilium

package kat

import (
	"log/slog"

	"github.com/cilium/hive/cell"
)

// Cell provides the known-answer test Runner. The Backend under test is
// provided by the embedding hive.
var Cell = cell.Module(
	"kat",
	"IPsec known-answer test runner",

	cell.Config(defaultConfig),
	cell.Provide(
		newMetrics,
		newRunner,
	),
)

type runnerParams struct {
	cell.In

	Logger  *slog.Logger
	Config  Config
	Backend Backend
	Metrics *Metrics
}

func newRunner(p runnerParams) *Runner {
	return NewRunner(p.Logger, p.Config, p.Backend, p.Metrics)
}
