// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of Cilium

// Package dissect renders processed packets for failure diagnostics.
package dissect

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"

	"github.com/cilium/ipsec-vectors/pkg/ipsec/security"
)

// Dump writes a labelled hex dump of data to w.
func Dump(w io.Writer, label string, data []byte) {
	fmt.Fprintf(w, "%s (%d bytes):\n%s", label, len(data), hex.Dump(data))
}

// OuterHeader decodes the outer tunnel header at the start of data and
// writes each decoded layer to w.
func OuterHeader(w io.Writer, tunnel security.TunnelType, data []byte) {
	first := layers.LayerTypeIPv4
	if tunnel == security.TunnelIPv6 {
		first = layers.LayerTypeIPv6
	}

	pkt := gopacket.NewPacket(data, first, gopacket.DecodeOptions{Lazy: true, NoCopy: true})
	for _, l := range pkt.Layers() {
		switch l.LayerType() {
		case layers.LayerTypeIPv4, layers.LayerTypeIPv6, layers.LayerTypeIPSecESP,
			layers.LayerTypeIPSecAH, layers.LayerTypeUDP:
			fmt.Fprintln(w, gopacket.LayerString(l))
		default:
			fmt.Fprintf(w, "%s (%d bytes)\n", l.LayerType(), len(l.LayerContents()))
		}
	}
	if errLayer := pkt.ErrorLayer(); errLayer != nil {
		fmt.Fprintf(w, "  Decoding stopped: %s\n", errLayer.Error())
	}
	if md := pkt.Metadata(); md != nil && md.Truncated {
		fmt.Fprintln(w, "  Packet has been truncated")
	}
}

// Packet exposes a decoded gopacket.Packet as a processed packet.
type Packet struct {
	gopacket.Packet
}

// NewPacket decodes data starting at an IPv4 or IPv6 header, chosen by the
// IP version nibble of the first byte.
func NewPacket(data []byte) Packet {
	first := layers.LayerTypeIPv4
	if len(data) > 0 && data[0]>>4 == 6 {
		first = layers.LayerTypeIPv6
	}
	return Packet{gopacket.NewPacket(data, first, gopacket.Default)}
}

// Len returns the length of the whole packet.
func (p Packet) Len() int { return len(p.Data()) }

// Bytes returns the packet data.
func (p Packet) Bytes() []byte { return p.Data() }
