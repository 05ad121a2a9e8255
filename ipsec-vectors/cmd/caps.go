// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of Cilium

package cmd

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cilium/ipsec-vectors/pkg/command"
	"github.com/cilium/ipsec-vectors/pkg/ipsec/security"
	"github.com/cilium/ipsec-vectors/pkg/ipsec/vector"
)

var capsVerbose bool

var capsCmd = &cobra.Command{
	Use:   "caps [vector...]",
	Short: "Check test vectors against backend capabilities",
	Long: `Reports for each test vector whether the backend advertises the IPsec
options and crypto transform it requires.`,
	Run: func(cmd *cobra.Command, args []string) {
		vectors, err := loadVectors()
		if err != nil {
			Fatalf("%s", err)
		}
		vectors, err = selectVectors(vectors, args)
		if err != nil {
			Fatalf("%s", err)
		}
		caps, err := loadCapabilities()
		if err != nil {
			Fatalf("%s", err)
		}
		if command.OutputOption() {
			if err := command.PrintOutput(checkVectors(caps, vectors)); err != nil {
				Fatalf("Unable to print results: %s", err)
			}
			return
		}
		printCapsCheck(os.Stdout, caps, vectors)
	},
}

func init() {
	RootCmd.AddCommand(capsCmd)
	capsCmd.Flags().BoolVarP(&capsVerbose, "verbose", "v", false, "Log each unsupported security option")
	command.AddOutputOption(capsCmd)
}

// checkVector returns nil if td can run on a backend advertising caps.
func checkVector(caps []security.Capability, td *vector.TestVector, silent bool) error {
	sc, err := security.Lookup(caps, &td.IPsec)
	if err != nil {
		return err
	}
	if err := security.VerifySecurityCapabilities(log, &td.IPsec, sc, silent); err != nil {
		return err
	}
	return security.VerifyCryptoCapability(sc, td.Xform)
}

type capsResult struct {
	Vector    string             `json:"vector"`
	Direction security.Direction `json:"direction"`
	Mode      security.Mode      `json:"mode"`
	Transform string             `json:"transform"`
	Supported bool               `json:"supported"`
	Reason    string             `json:"reason,omitempty"`
}

func checkVectors(caps []security.Capability, vectors []*vector.TestVector) []capsResult {
	results := make([]capsResult, 0, len(vectors))
	for _, td := range vectors {
		r := capsResult{
			Vector:    td.Name,
			Direction: td.IPsec.Direction,
			Mode:      td.IPsec.Mode,
			Transform: fmt.Sprint(td.Xform),
			Supported: true,
		}
		if err := checkVector(caps, td, !capsVerbose); err != nil {
			r.Supported = false
			r.Reason = err.Error()
		}
		results = append(results, r)
	}
	return results
}

func printCapsCheck(out io.Writer, caps []security.Capability, vectors []*vector.TestVector) {
	w := tabwriter.NewWriter(out, 5, 0, 3, ' ', 0)
	fmt.Fprintln(w, "VECTOR\tDIRECTION\tMODE\tTRANSFORM\tSUPPORTED")
	for _, r := range checkVectors(caps, vectors) {
		supported := "yes"
		if !r.Supported {
			supported = r.Reason
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", r.Vector, r.Direction, r.Mode, r.Transform, supported)
	}
	w.Flush()
}
