// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of Cilium

package security

import (
	"fmt"
	"net"
	"slices"

	"github.com/cilium/ipsec-vectors/pkg/crypto/capability"
)

type Direction int

const (
	DirectionEgress Direction = iota
	DirectionIngress
)

func (d Direction) String() string {
	switch d {
	case DirectionEgress:
		return "egress"
	case DirectionIngress:
		return "ingress"
	default:
		return "unknown"
	}
}

// Reverse returns the opposite direction.
func (d Direction) Reverse() Direction {
	if d == DirectionEgress {
		return DirectionIngress
	}
	return DirectionEgress
}

func (d Direction) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Direction) UnmarshalText(text []byte) error {
	switch string(text) {
	case "egress":
		*d = DirectionEgress
	case "ingress":
		*d = DirectionIngress
	default:
		return fmt.Errorf("unknown direction %q", text)
	}
	return nil
}

type Mode int

const (
	ModeTransport Mode = iota
	ModeTunnel
)

func (m Mode) String() string {
	switch m {
	case ModeTransport:
		return "transport"
	case ModeTunnel:
		return "tunnel"
	default:
		return "unknown"
	}
}

func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *Mode) UnmarshalText(text []byte) error {
	switch string(text) {
	case "transport":
		*m = ModeTransport
	case "tunnel":
		*m = ModeTunnel
	default:
		return fmt.Errorf("unknown mode %q", text)
	}
	return nil
}

type TunnelType int

const (
	TunnelIPv4 TunnelType = iota
	TunnelIPv6
)

func (t TunnelType) String() string {
	if t == TunnelIPv6 {
		return "ipv6"
	}
	return "ipv4"
}

func (t TunnelType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *TunnelType) UnmarshalText(text []byte) error {
	switch string(text) {
	case "ipv4":
		*t = TunnelIPv4
	case "ipv6":
		*t = TunnelIPv6
	default:
		return fmt.Errorf("unknown tunnel type %q", text)
	}
	return nil
}

// Proto is the IPsec protocol of a security association.
type Proto int

const (
	ProtoESP Proto = iota
	ProtoAH
)

func (p Proto) String() string {
	if p == ProtoAH {
		return "ah"
	}
	return "esp"
}

func (p Proto) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *Proto) UnmarshalText(text []byte) error {
	switch string(text) {
	case "esp":
		*p = ProtoESP
	case "ah":
		*p = ProtoAH
	default:
		return fmt.Errorf("unknown IPsec protocol %q", text)
	}
	return nil
}

// Action is how a backend applies a security session to packets.
type Action int

const (
	ActionNone Action = iota
	ActionInlineCrypto
	ActionInlineProtocol
	ActionLookasideProtocol
	ActionCPUCrypto
)

var actionNames = map[Action]string{
	ActionNone:              "none",
	ActionInlineCrypto:      "inline-crypto",
	ActionInlineProtocol:    "inline-protocol",
	ActionLookasideProtocol: "lookaside-protocol",
	ActionCPUCrypto:         "cpu-crypto",
}

func (a Action) String() string {
	if s, ok := actionNames[a]; ok {
		return s
	}
	return "unknown"
}

func (a Action) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

func (a *Action) UnmarshalText(text []byte) error {
	for v, name := range actionNames {
		if name == string(text) {
			*a = v
			return nil
		}
	}
	return fmt.Errorf("unknown action %q", text)
}

// Tunnel describes the outer header synthesized in tunnel mode.
type Tunnel struct {
	Type TunnelType `json:"type"`
	Src  net.IP     `json:"src,omitempty"`
	Dst  net.IP     `json:"dst,omitempty"`
}

// Xform is the requested IPsec transform of a security association.
type Xform struct {
	SPI         uint32    `json:"spi"`
	Salt        uint32    `json:"salt,omitempty"`
	Proto       Proto     `json:"proto"`
	Mode        Mode      `json:"mode"`
	Direction   Direction `json:"direction"`
	Tunnel      Tunnel    `json:"tunnel"`
	Options     Options   `json:"options"`
	ReplayWinSz uint32    `json:"replayWinSz,omitempty"`
}

// DeepCopy returns a copy of x sharing no buffers with it.
func (x *Xform) DeepCopy() *Xform {
	c := *x
	c.Tunnel.Src = slices.Clone(x.Tunnel.Src)
	c.Tunnel.Dst = slices.Clone(x.Tunnel.Dst)
	return &c
}

// IPsecCapability is the IPsec part of a capability descriptor.
type IPsecCapability struct {
	Proto       Proto     `json:"proto"`
	Mode        Mode      `json:"mode"`
	Direction   Direction `json:"direction"`
	Options     Options   `json:"options"`
	ReplayWinSz uint32    `json:"replayWinSz,omitempty"`
}

// Capability is the security capability descriptor advertised by a backend.
// It is owned by the backend and must not be modified by its users.
type Capability struct {
	Action Action                  `json:"action"`
	IPsec  IPsecCapability         `json:"ipsec"`
	Crypto []capability.Capability `json:"crypto"`
}

func (c *Capability) String() string {
	return fmt.Sprintf("%s %s %s %s", c.Action, c.IPsec.Proto, c.IPsec.Mode, c.IPsec.Direction)
}
