// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of Cilium

package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/cilium/ipsec-vectors/pkg/ipsec/security"
	"github.com/cilium/ipsec-vectors/pkg/ipsec/vector"
)

var (
	deriveOutput string
	deriveAll    bool
)

var deriveCmd = &cobra.Command{
	Use:   "derive [vector...]",
	Short: "Derive inbound test vectors from outbound ones",
	Long: `Writes the inbound counterpart of each egress test vector: the expected
output becomes the input, the direction becomes ingress and the crypto
operations are reversed.`,
	Run: func(cmd *cobra.Command, args []string) {
		vectors, err := loadVectors()
		if err != nil {
			Fatalf("%s", err)
		}
		vectors, err = selectVectors(vectors, args)
		if err != nil {
			Fatalf("%s", err)
		}

		data, err := vector.Marshal(deriveVectors(vectors, deriveAll))
		if err != nil {
			Fatalf("Unable to encode vectors: %s", err)
		}
		if deriveOutput == "" || deriveOutput == "-" {
			os.Stdout.Write(data)
			return
		}
		if err := os.WriteFile(deriveOutput, data, 0o644); err != nil {
			Fatalf("Unable to write %s: %s", deriveOutput, err)
		}
	},
}

func init() {
	RootCmd.AddCommand(deriveCmd)
	deriveCmd.Flags().StringVarP(&deriveOutput, "output", "o", "", "Output file, stdout if unset")
	deriveCmd.Flags().BoolVar(&deriveAll, "all", false, "Also derive from ingress vectors, yielding their egress counterpart")
}

func deriveVectors(vectors []*vector.TestVector, all bool) []*vector.TestVector {
	derived := make([]*vector.TestVector, 0, len(vectors))
	for _, td := range vectors {
		if !all && td.IPsec.Direction != security.DirectionEgress {
			continue
		}
		derived = append(derived, vector.DeriveInbound(td))
	}
	return derived
}
