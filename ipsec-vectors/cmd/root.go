// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of Cilium

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cilium/ipsec-vectors/pkg/ipsec/security"
	"github.com/cilium/ipsec-vectors/pkg/ipsec/vector"
	"github.com/cilium/ipsec-vectors/pkg/ipsec/xfrm"
	"github.com/cilium/ipsec-vectors/pkg/logging"
	"github.com/cilium/ipsec-vectors/pkg/logging/logfields"
)

var (
	vectorsPath      string
	capabilitiesPath string
	debug            bool
	logOpts          = map[string]string{}

	log = logging.DefaultSlogLogger
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "ipsec-vectors",
	Short: "IPsec known-answer test vector tool",
	Long: `ipsec-vectors checks IPsec test vectors against the capabilities of a
backend and verifies processed packets against the expected output.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		opts := logging.LogOptions(logOpts)
		if debug {
			opts[logging.LevelOpt] = "debug"
		}
		log = logging.NewLogger(os.Stderr, opts)
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(). It only needs to happen once
// to the rootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	flags := RootCmd.PersistentFlags()
	flags.StringVarP(&vectorsPath, "vectors", "f", "", "Path to the test vector file")
	flags.StringVarP(&capabilitiesPath, "capabilities", "c", "", "Path to a capability file. The kernel XFRM profile is used if unset")
	flags.BoolVarP(&debug, "debug", "D", false, "Enable debug messages")
	flags.StringToStringVar(&logOpts, "log-opt", logOpts, "Log options, e.g. level=debug,format=json")
}

// Fatalf prints the Printf formatted message to stderr and exits the program
func Fatalf(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: %s\n", fmt.Sprintf(msg, args...))
	os.Exit(1)
}

func loadVectors() ([]*vector.TestVector, error) {
	if vectorsPath == "" {
		return nil, fmt.Errorf("no test vector file given, use --vectors")
	}
	vectors, err := vector.LoadFile(vectorsPath)
	if err != nil {
		return nil, err
	}
	log.Debug("Loaded test vectors",
		logfields.Path, vectorsPath,
		logfields.Count, len(vectors),
	)
	return vectors, nil
}

func loadCapabilities() ([]security.Capability, error) {
	if capabilitiesPath == "" {
		return xfrm.Capabilities(), nil
	}
	caps, err := security.LoadCapabilities(capabilitiesPath)
	if err != nil {
		return nil, err
	}
	log.Debug("Loaded capabilities",
		logfields.Path, capabilitiesPath,
		logfields.Count, len(caps),
	)
	return caps, nil
}

func selectVectors(vectors []*vector.TestVector, names []string) ([]*vector.TestVector, error) {
	if len(names) == 0 {
		return vectors, nil
	}
	selected := make([]*vector.TestVector, 0, len(names))
	for _, name := range names {
		td, ok := vector.Find(vectors, name)
		if !ok {
			return nil, fmt.Errorf("test vector %q not found", name)
		}
		selected = append(selected, td)
	}
	return selected, nil
}
