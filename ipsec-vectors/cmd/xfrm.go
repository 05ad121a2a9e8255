// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of Cilium

package cmd

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/vishvananda/netlink"

	"github.com/cilium/ipsec-vectors/pkg/ipsec/security"
	"github.com/cilium/ipsec-vectors/pkg/ipsec/vector"
	"github.com/cilium/ipsec-vectors/pkg/ipsec/xfrm"
)

var xfrmPolicies bool

var xfrmCmd = &cobra.Command{
	Use:   "xfrm [vector...]",
	Short: "Render test vectors as XFRM states",
	Long: `Prints the XFRM state, and optionally the policy, each test vector is
installed as on the kernel backend.`,
	Run: func(cmd *cobra.Command, args []string) {
		vectors, err := loadVectors()
		if err != nil {
			Fatalf("%s", err)
		}
		vectors, err = selectVectors(vectors, args)
		if err != nil {
			Fatalf("%s", err)
		}
		if err := printXfrm(os.Stdout, vectors, xfrmPolicies); err != nil {
			Fatalf("%s", err)
		}
	},
}

func init() {
	RootCmd.AddCommand(xfrmCmd)
	xfrmCmd.Flags().BoolVarP(&xfrmPolicies, "policies", "p", false, "Also render XFRM policies")
}

func printXfrm(out io.Writer, vectors []*vector.TestVector, policies bool) error {
	installs, err := xfrm.Render(vectors, policies)
	if err != nil {
		return err
	}

	for _, inst := range installs {
		state := inst.State
		fmt.Fprintf(out, "# %s\n", inst.Vector)
		fmt.Fprintf(out, "src %s dst %s\n\tproto %s spi 0x%08x mode %s replay-window %d\n",
			state.Src, state.Dst, state.Proto, uint32(state.Spi), state.Mode, state.ReplayWindow)
		if state.Mark != nil {
			fmt.Fprintf(out, "\tmark 0x%x/0x%x\n", state.Mark.Value, state.Mark.Mask)
		}
		if state.Aead != nil {
			printAlgo(out, "aead", state.Aead, state.Aead.ICVLen)
		}
		if state.Crypt != nil {
			printAlgo(out, "enc", state.Crypt, 0)
		}
		if state.Auth != nil {
			printAlgo(out, "auth-trunc", state.Auth, state.Auth.TruncateLen)
		}
		if state.Encap != nil {
			fmt.Fprintf(out, "\tencap %s %d %d\n", state.Encap.Type, state.Encap.SrcPort, state.Encap.DstPort)
		}
		if state.ESN {
			fmt.Fprintln(out, "\tflag esn")
		}

		if p := inst.Policy; p != nil {
			fmt.Fprintf(out, "src %s dst %s\n\tdir %s\n", p.Src, p.Dst, p.Dir)
			for _, tmpl := range p.Tmpls {
				fmt.Fprintf(out, "\ttmpl src %s dst %s proto %s spi 0x%08x mode %s\n",
					tmpl.Src, tmpl.Dst, tmpl.Proto, uint32(tmpl.Spi), tmpl.Mode)
			}
		}
	}

	s := xfrm.Summarize(installs)
	ingress, egress := security.DirectionIngress, security.DirectionEgress
	fmt.Fprintf(out, "\n%d states (%d in, %d out), %d distinct AEAD keys\n",
		len(installs), s.States[ingress], s.States[egress], s.AEADKeys)
	if policies {
		fmt.Fprintf(out, "%d policies (%d in, %d out)\n",
			s.Policies[ingress]+s.Policies[egress], s.Policies[ingress], s.Policies[egress])
	}
	return nil
}

// printAlgo prints algo the way "ip xfrm state" does. bits is the ICV or
// truncation length, omitted if zero.
func printAlgo(out io.Writer, kind string, algo *netlink.XfrmStateAlgo, bits int) {
	fmt.Fprintf(out, "\t%s %s 0x%s", kind, algo.Name, hex.EncodeToString(algo.Key))
	if bits > 0 {
		fmt.Fprintf(out, " %d", bits)
	}
	fmt.Fprintln(out)
}
