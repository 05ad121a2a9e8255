// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of Cilium

package main

import (
	"github.com/cilium/ipsec-vectors/ipsec-vectors/cmd"
)

func main() {
	cmd.Execute()
}
