// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of Cilium

package security

import (
	"log/slog"

	"github.com/cilium/ipsec-vectors/pkg/logging/logfields"
)

// Options are the optional IPsec behaviours a transform may request and a
// backend may advertise.
type Options struct {
	ESN        bool `json:"esn,omitempty"`
	UDPEncap   bool `json:"udpEncap,omitempty"`
	CopyDSCP   bool `json:"copyDSCP,omitempty"`
	CopyFlabel bool `json:"copyFlabel,omitempty"`
	CopyDF     bool `json:"copyDF,omitempty"`
	DecTTL     bool `json:"decTTL,omitempty"`
	ECN        bool `json:"ecn,omitempty"`
	Stats      bool `json:"stats,omitempty"`
}

type option struct {
	name string
	get  func(*Options) bool
}

// options is checked in order; the first unsupported option is reported.
var options = []option{
	{"ESN", func(o *Options) bool { return o.ESN }},
	{"UDP encapsulation", func(o *Options) bool { return o.UDPEncap }},
	{"Copy DSCP", func(o *Options) bool { return o.CopyDSCP }},
	{"Copy Flow Label", func(o *Options) bool { return o.CopyFlabel }},
	{"Copy DF bit", func(o *Options) bool { return o.CopyDF }},
	{"Decrement TTL", func(o *Options) bool { return o.DecTTL }},
	{"ECN", func(o *Options) bool { return o.ECN }},
	{"Stats", func(o *Options) bool { return o.Stats }},
}

// OptionNames returns the option names in the order they are verified.
func OptionNames() []string {
	names := make([]string, len(options))
	for i, o := range options {
		names[i] = o.name
	}
	return names
}

// VerifyOptions returns an *UnsupportedError for the first option set in
// requested but not in supported. Unless silent, the failure is logged.
func VerifyOptions(logger *slog.Logger, requested, supported *Options, silent bool) error {
	for _, o := range options {
		if o.get(requested) && !o.get(supported) {
			if !silent {
				logger.Info("Security option is not supported",
					logfields.Feature, o.name,
				)
			}
			return &UnsupportedError{Feature: o.name}
		}
	}
	return nil
}

// VerifySecurityCapabilities checks the options requested by xform against
// those advertised in sc.
func VerifySecurityCapabilities(logger *slog.Logger, xform *Xform, sc *Capability, silent bool) error {
	return VerifyOptions(logger, &xform.Options, &sc.IPsec.Options, silent)
}
