// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of Cilium

package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cilium/ipsec-vectors/pkg/ipsec/dissect"
	"github.com/cilium/ipsec-vectors/pkg/ipsec/vector"
)

var (
	verifyHex    bool
	verifySilent bool
)

var verifyCmd = &cobra.Command{
	Use:   "verify <vector> <packet-file>",
	Short: "Verify a processed packet against a test vector",
	Long: `Compares a packet produced by a backend with the expected output of a
test vector. The outer header added in egress tunnel mode is not compared.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		vectors, err := loadVectors()
		if err != nil {
			Fatalf("%s", err)
		}
		td, ok := vector.Find(vectors, args[0])
		if !ok {
			Fatalf("test vector %q not found", args[0])
		}
		data, err := readPacket(args[1], verifyHex)
		if err != nil {
			Fatalf("Unable to read packet: %s", err)
		}

		v := &vector.Verifier{Logger: log, Dump: os.Stdout}
		if err := v.PostProcess(dissect.NewPacket(data), td, nil, verifySilent); err != nil {
			Fatalf("%s: %s", td.Name, err)
		}
		fmt.Printf("%s: output matches\n", td.Name)
	},
}

func init() {
	RootCmd.AddCommand(verifyCmd)
	verifyCmd.Flags().BoolVar(&verifyHex, "hex", false, "Packet file holds hex encoded data")
	verifyCmd.Flags().BoolVarP(&verifySilent, "silent", "s", false, "Do not log or dump mismatching data")
}

func readPacket(path string, hexEncoded bool) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !hexEncoded {
		return data, nil
	}
	var text vector.Text
	if err := text.UnmarshalText(bytes.Join(bytes.Fields(data), nil)); err != nil {
		return nil, err
	}
	return text, nil
}
