// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of Cilium

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/cilium/hive"
	"github.com/cilium/hive/cell"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/spf13/cobra"

	"github.com/cilium/ipsec-vectors/pkg/command"
	"github.com/cilium/ipsec-vectors/pkg/ipsec/kat"
	"github.com/cilium/ipsec-vectors/pkg/ipsec/security"
	"github.com/cilium/ipsec-vectors/pkg/ipsec/vector"
	"github.com/cilium/ipsec-vectors/pkg/logging/logfields"
)

var (
	capturesPath  string
	pcapPath      string
	pcapDirection = security.DirectionEgress.String()
	showMetrics   bool

	runVectors []*vector.TestVector
	runner     *kat.Runner
	runMetrics *kat.Metrics
)

var runHive = hive.New(
	kat.Cell,

	cell.Provide(newReplayBackend),
	cell.Invoke(func(r *kat.Runner, m *kat.Metrics) {
		runner, runMetrics = r, m
	}),
)

var runCmd = &cobra.Command{
	Use:   "run [vector...]",
	Short: "Run test vectors against captured backend output",
	Long: `Runs every test vector through the known-answer test sequence against a
replay backend serving previously captured outputs: capability lookup,
security option and crypto checks, status check and output verification.`,
	Run: func(cmd *cobra.Command, args []string) {
		vectors, err := loadVectors()
		if err != nil {
			Fatalf("%s", err)
		}
		runVectors, err = selectVectors(vectors, args)
		if err != nil {
			Fatalf("%s", err)
		}

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
		defer cancel()

		if err := runHive.Start(log, ctx); err != nil {
			Fatalf("Unable to start: %s", err)
		}
		defer runHive.Stop(log, context.Background())

		reg := prometheus.NewRegistry()
		if err := runMetrics.Register(reg); err != nil {
			Fatalf("Unable to register metrics: %s", err)
		}
		runner.SetDump(os.Stdout)

		reports, err := runner.Run(ctx, runVectors)
		if command.OutputOption() {
			if err := command.PrintOutput(reports); err != nil {
				Fatalf("Unable to print reports: %s", err)
			}
		} else {
			printReports(os.Stdout, reports)
		}
		if err != nil {
			Fatalf("%s", err)
		}
		if showMetrics {
			families, err := reg.Gather()
			if err != nil {
				Fatalf("Unable to gather metrics: %s", err)
			}
			printMetrics(os.Stdout, families)
		}

		if summary := kat.Summarize(reports); summary.Failed > 0 {
			runHive.Stop(log, context.Background())
			os.Exit(1)
		}
	},
}

func init() {
	RootCmd.AddCommand(runCmd)
	flags := runCmd.Flags()
	flags.StringVar(&capturesPath, "captures", "", "Path to a capture file holding processed packets")
	flags.StringVar(&pcapPath, "pcap", "", "Path to a pcap file holding one processed packet per vector, in vector order")
	flags.StringVar(&pcapDirection, "pcap-direction", pcapDirection, "Direction the packets in the pcap file were processed in")
	flags.BoolVar(&showMetrics, "show-metrics", false, "Print result counters after the run")
	runHive.RegisterFlags(flags)
	command.AddOutputOption(runCmd)
}

func newReplayBackend() (kat.Backend, error) {
	caps, err := loadCapabilities()
	if err != nil {
		return nil, err
	}

	var captures []kat.Capture
	if capturesPath != "" {
		c, err := kat.LoadCaptures(capturesPath)
		if err != nil {
			return nil, err
		}
		captures = append(captures, c...)
	}
	if pcapPath != "" {
		var dir security.Direction
		if err := dir.UnmarshalText([]byte(pcapDirection)); err != nil {
			return nil, err
		}
		f, err := os.Open(pcapPath)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		c, err := kat.ReadPcap(f, runVectors, dir)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", pcapPath, err)
		}
		captures = append(captures, c...)
	}
	log.Debug("Loaded captures", logfields.Count, len(captures))

	return kat.NewReplayBackend(caps, captures...), nil
}

func printReports(out io.Writer, reports []kat.Report) {
	w := tabwriter.NewWriter(out, 5, 0, 3, ' ', 0)
	fmt.Fprintln(w, "VECTOR\tDIRECTION\tOUTCOME\tDETAILS")
	for _, r := range reports {
		details := ""
		if r.Err != nil {
			details = r.Err.Error()
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Vector, r.Direction, r.Outcome, details)
	}
	w.Flush()

	s := kat.Summarize(reports)
	fmt.Fprintf(out, "\n%d passed, %d failed, %d skipped\n", s.Passed, s.Failed, s.Skipped)
}

func printMetrics(out io.Writer, families []*dto.MetricFamily) {
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := make([]string, 0, len(m.GetLabel()))
			for _, l := range m.GetLabel() {
				labels = append(labels, fmt.Sprintf("%s=%q", l.GetName(), l.GetValue()))
			}
			sort.Strings(labels)
			fmt.Fprintf(out, "%s{%s} %g\n", mf.GetName(), strings.Join(labels, ","), m.GetCounter().GetValue())
		}
	}
}
