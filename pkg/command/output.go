// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of Cilium

package command

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"
)

var outputOpt string

// OutputOption returns true if an output option was specified.
func OutputOption() bool {
	return len(outputOpt) > 0
}

// OutputOptionString returns the output option as a string
func OutputOptionString() string {
	return outputOpt
}

// AddOutputOption adds the -o|--output option to any cmd to export to json or yaml.
func AddOutputOption(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&outputOpt, "output", "o", "", "json| yaml")
}

// ForceJSON sets output mode to JSON (for unit tests)
func ForceJSON() {
	outputOpt = "json"
}

// PrintOutput receives an interface and dump the data using the --output flag.
func PrintOutput(data any) error {
	return PrintOutputWithType(os.Stdout, data, outputOpt)
}

// PrintOutputWithType encodes data to w as json or yaml.
func PrintOutputWithType(w io.Writer, data any, outputType string) error {
	switch outputType {
	case "json":
		return dumpJSON(w, data)
	case "yaml":
		return dumpYAML(w, data)
	}
	return fmt.Errorf("couldn't find output printer %q", outputType)
}

// dumpJSON dumps the data variable to w as indented json.
func dumpJSON(w io.Writer, data any) error {
	result, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("Couldn't marshal to json: %w", err)
	}
	fmt.Fprintln(w, string(result))
	return nil
}

func dumpYAML(w io.Writer, data any) error {
	result, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("Couldn't marshal to yaml: %w", err)
	}
	fmt.Fprintln(w, string(result))
	return nil
}
