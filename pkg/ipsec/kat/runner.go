// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of Cilium

package kat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/cilium/workerpool"

	"github.com/cilium/ipsec-vectors/pkg/ipsec/security"
	"github.com/cilium/ipsec-vectors/pkg/ipsec/vector"
	"github.com/cilium/ipsec-vectors/pkg/lock"
	"github.com/cilium/ipsec-vectors/pkg/logging/logfields"
)

var errNoResult = errors.New("backend returned no result")

type Outcome int

const (
	OutcomePassed Outcome = iota
	OutcomeFailed
	// OutcomeSkipped is reported for vectors the backend does not support.
	OutcomeSkipped
)

func (o Outcome) String() string {
	switch o {
	case OutcomePassed:
		return "passed"
	case OutcomeFailed:
		return "failed"
	case OutcomeSkipped:
		return "skipped"
	}
	return "outcome(" + strconv.Itoa(int(o)) + ")"
}

func (o Outcome) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// Report is the result of running a single vector.
type Report struct {
	Vector    string
	Direction security.Direction
	Outcome   Outcome
	Err       error
}

func (r Report) String() string {
	if r.Err != nil {
		return fmt.Sprintf("%s %s: %s (%s)", r.Vector, r.Direction, r.Outcome, r.Err)
	}
	return fmt.Sprintf("%s %s: %s", r.Vector, r.Direction, r.Outcome)
}

func (r Report) MarshalJSON() ([]byte, error) {
	doc := struct {
		Vector    string             `json:"vector"`
		Direction security.Direction `json:"direction"`
		Outcome   Outcome            `json:"outcome"`
		Error     string             `json:"error,omitempty"`
	}{
		Vector:    r.Vector,
		Direction: r.Direction,
		Outcome:   r.Outcome,
	}
	if r.Err != nil {
		doc.Error = r.Err.Error()
	}
	return json.Marshal(doc)
}

// Summary counts reports per outcome.
type Summary struct {
	Passed, Failed, Skipped int
}

func Summarize(reports []Report) Summary {
	var s Summary
	for _, r := range reports {
		switch r.Outcome {
		case OutcomePassed:
			s.Passed++
		case OutcomeFailed:
			s.Failed++
		case OutcomeSkipped:
			s.Skipped++
		}
	}
	return s
}

// Runner runs test vectors against a Backend.
type Runner struct {
	logger   *slog.Logger
	cfg      Config
	backend  Backend
	metrics  *Metrics
	verifier *vector.Verifier
}

func NewRunner(logger *slog.Logger, cfg Config, backend Backend, metrics *Metrics) *Runner {
	return &Runner{
		logger:   logger,
		cfg:      cfg,
		backend:  backend,
		metrics:  metrics,
		verifier: &vector.Verifier{Logger: logger},
	}
}

// SetDump sets the writer receiving hex dumps of mismatching packets.
func (r *Runner) SetDump(w io.Writer) {
	r.verifier.Dump = w
}

// Run processes vectors on the configured number of workers and returns
// one report per processed vector, in input order. With round trips
// enabled, the report of a derived inbound vector follows the report of
// its egress vector.
func (r *Runner) Run(ctx context.Context, vectors []*vector.TestVector) ([]Report, error) {
	workers := max(r.cfg.KatWorkers, 1)
	wp := workerpool.New(workers)

	var mu lock.Mutex
	results := make([][]Report, len(vectors))

	var submitErr error
	for i, td := range vectors {
		err := wp.Submit(td.Name, func(context.Context) error {
			reports := r.runVector(ctx, td)
			mu.Lock()
			results[i] = reports
			mu.Unlock()
			return nil
		})
		if err != nil {
			submitErr = fmt.Errorf("failed to submit vector %q: %w", td.Name, err)
			break
		}
		if ctx.Err() != nil {
			break
		}
	}

	if _, err := wp.Drain(); err != nil && submitErr == nil {
		submitErr = err
	}
	if err := wp.Close(); err != nil && submitErr == nil {
		submitErr = err
	}

	var reports []Report
	for _, rs := range results {
		reports = append(reports, rs...)
	}
	if submitErr != nil {
		return reports, submitErr
	}
	return reports, ctx.Err()
}

func (r *Runner) runVector(ctx context.Context, td *vector.TestVector) []Report {
	rep := r.runOne(ctx, td)
	reports := []Report{rep}
	if r.cfg.KatRoundTrip && rep.Outcome == OutcomePassed && td.IPsec.Direction == security.DirectionEgress {
		reports = append(reports, r.runOne(ctx, vector.DeriveInbound(td)))
	}
	return reports
}

func (r *Runner) runOne(ctx context.Context, td *vector.TestVector) Report {
	rep := Report{Vector: td.Name, Direction: td.IPsec.Direction}
	rep.Err = r.process(ctx, td)
	switch {
	case rep.Err == nil:
		rep.Outcome = OutcomePassed
	case errors.Is(rep.Err, security.ErrUnsupported):
		rep.Outcome = OutcomeSkipped
	default:
		rep.Outcome = OutcomeFailed
	}

	r.metrics.Results.Inc(rep.Outcome.String(), rep.Direction.String())

	scopedLog := r.logger.With(
		logfields.Vector, td.Name,
		logfields.Direction, td.IPsec.Direction,
		logfields.Outcome, rep.Outcome,
	)
	if rep.Err != nil {
		scopedLog = scopedLog.With(logfields.Error, rep.Err)
	}
	scopedLog.Debug("Test vector processed")
	return rep
}

func (r *Runner) process(ctx context.Context, td *vector.TestVector) error {
	silent := r.cfg.KatSilent

	sc, err := security.Lookup(r.backend.Capabilities(), &td.IPsec)
	if err != nil {
		return err
	}
	if err := security.VerifySecurityCapabilities(r.logger, &td.IPsec, sc, silent); err != nil {
		return err
	}
	if err := security.VerifyCryptoCapability(sc, td.Xform); err != nil {
		if !silent {
			r.logger.Info("Crypto capability is not supported",
				logfields.Vector, td.Name,
				logfields.Transform, td.Xform,
				logfields.Error, err,
			)
		}
		return err
	}

	res, err := r.backend.Process(ctx, td)
	if err != nil {
		return fmt.Errorf("failed to process vector %q: %w", td.Name, err)
	}
	if res == nil {
		return fmt.Errorf("failed to process vector %q: %w", td.Name, errNoResult)
	}
	if err := vector.CheckStatus(r.logger, &res.Op, td.IPsec.Direction); err != nil {
		return err
	}
	pkt := res.Packet
	if pkt == nil {
		pkt = vector.Buffer(nil)
	}
	return r.verifier.PostProcess(pkt, td, nil, silent)
}
