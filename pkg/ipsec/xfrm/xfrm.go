// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of Cilium

// Package xfrm describes the Linux XFRM stack as a vector backend: the
// capabilities it advertises and the netlink states and policies a vector
// is installed as.
package xfrm

import (
	"encoding/binary"
	"fmt"
	"net"

	"github.com/vishvananda/netlink"

	"github.com/cilium/ipsec-vectors/pkg/crypto/capability"
	"github.com/cilium/ipsec-vectors/pkg/crypto/xform"
	"github.com/cilium/ipsec-vectors/pkg/ipsec/security"
	"github.com/cilium/ipsec-vectors/pkg/ipsec/vector"
)

const (
	maskStateDir = 0xf00
	markStateIn  = 0xd00
	markStateOut = 0xe00

	// NATTPort is the UDP port used for UDP encapsulated ESP.
	NATTPort = 4500

	// DefaultReplayWindow is the largest replay window advertised.
	DefaultReplayWindow = 1024
)

var aeadNames = map[xform.AEADAlgorithm]struct {
	name    string
	saltLen int
}{
	xform.AEADAlgoAESGCM:           {"rfc4106(gcm(aes))", 4},
	xform.AEADAlgoAESCCM:           {"rfc4309(ccm(aes))", 3},
	xform.AEADAlgoChaCha20Poly1305: {"rfc7539esp(chacha20,poly1305)", 4},
}

var cipherNames = map[xform.CipherAlgorithm]string{
	xform.CipherAlgoNull:    "ecb(cipher_null)",
	xform.CipherAlgo3DESCBC: "cbc(des3_ede)",
	xform.CipherAlgoAESCBC:  "cbc(aes)",
	xform.CipherAlgoAESCTR:  "rfc3686(ctr(aes))",
}

var authNames = map[xform.AuthAlgorithm]string{
	xform.AuthAlgoNull:       "digest_null",
	xform.AuthAlgoSHA1HMAC:   "hmac(sha1)",
	xform.AuthAlgoSHA256HMAC: "hmac(sha256)",
	xform.AuthAlgoSHA384HMAC: "hmac(sha384)",
	xform.AuthAlgoSHA512HMAC: "hmac(sha512)",
	xform.AuthAlgoAESXCBCMAC: "xcbc(aes)",
}

func symmetric(s capability.Symmetric) capability.Capability {
	return capability.Capability{Op: capability.OpTypeSymmetric, Sym: s}
}

// CryptoCapabilities returns the crypto transforms the kernel profile offers
// for ESP.
func CryptoCapabilities() []capability.Capability {
	return []capability.Capability{
		symmetric(&capability.AEAD{
			Algo:       xform.AEADAlgoAESGCM,
			BlockSize:  1,
			KeySize:    capability.Range{Min: 16, Max: 32, Increment: 8},
			DigestSize: capability.Range{Min: 8, Max: 16, Increment: 4},
			AADSize:    capability.Range{Min: 8, Max: 12, Increment: 4},
			IVSize:     capability.Fixed(8),
		}),
		symmetric(&capability.Cipher{
			Algo:      xform.CipherAlgoAESCBC,
			BlockSize: 16,
			KeySize:   capability.Range{Min: 16, Max: 32, Increment: 8},
			IVSize:    capability.Fixed(16),
		}),
		symmetric(&capability.Auth{
			Algo:       xform.AuthAlgoSHA256HMAC,
			BlockSize:  64,
			KeySize:    capability.Fixed(32),
			DigestSize: capability.Fixed(16),
		}),
		symmetric(&capability.Auth{
			Algo:       xform.AuthAlgoSHA512HMAC,
			BlockSize:  128,
			KeySize:    capability.Fixed(64),
			DigestSize: capability.Fixed(32),
		}),
	}
}

// Capabilities returns the kernel profile: ESP in both modes and
// directions, processed as lookaside protocol offload.
func Capabilities() []security.Capability {
	var caps []security.Capability
	for _, mode := range []security.Mode{security.ModeTransport, security.ModeTunnel} {
		for _, dir := range []security.Direction{security.DirectionEgress, security.DirectionIngress} {
			caps = append(caps, security.Capability{
				Action: security.ActionLookasideProtocol,
				IPsec: security.IPsecCapability{
					Proto:     security.ProtoESP,
					Mode:      mode,
					Direction: dir,
					Options: security.Options{
						ESN:      true,
						UDPEncap: true,
						ECN:      true,
						Stats:    true,
					},
					ReplayWinSz: DefaultReplayWindow,
				},
				Crypto: CryptoCapabilities(),
			})
		}
	}
	return caps
}

func proto(p security.Proto) netlink.Proto {
	if p == security.ProtoAH {
		return netlink.XFRM_PROTO_AH
	}
	return netlink.XFRM_PROTO_ESP
}

func mode(m security.Mode) netlink.Mode {
	if m == security.ModeTunnel {
		return netlink.XFRM_MODE_TUNNEL
	}
	return netlink.XFRM_MODE_TRANSPORT
}

func mark(d security.Direction) *netlink.XfrmMark {
	value := uint32(markStateOut)
	if d == security.DirectionIngress {
		value = markStateIn
	}
	return &netlink.XfrmMark{Value: value, Mask: maskStateDir}
}

// StateFor renders the security association of td as an XFRM state.
func StateFor(td *vector.TestVector) (*netlink.XfrmState, error) {
	x := &td.IPsec
	state := &netlink.XfrmState{
		Src:          x.Tunnel.Src,
		Dst:          x.Tunnel.Dst,
		Proto:        proto(x.Proto),
		Mode:         mode(x.Mode),
		Spi:          int(x.SPI),
		ReplayWindow: int(x.ReplayWinSz),
		ESN:          x.Options.ESN,
		Mark:         mark(x.Direction),
	}
	if x.Options.UDPEncap {
		state.Encap = &netlink.XfrmStateEncap{
			Type:    netlink.XFRM_ENCAP_ESPINUDP,
			SrcPort: NATTPort,
			DstPort: NATTPort,
		}
	}

	switch t := td.Xform.(type) {
	case *xform.AEAD:
		algo, ok := aeadNames[t.Algo]
		if !ok {
			return nil, &security.UnsupportedError{Feature: t.Algo.String()}
		}
		salt := binary.BigEndian.AppendUint32(nil, x.Salt)
		key := append(append([]byte{}, t.Key...), salt[4-algo.saltLen:]...)
		state.Aead = &netlink.XfrmStateAlgo{
			Name:   algo.name,
			Key:    key,
			ICVLen: t.DigestLength * 8,
		}
	case *xform.Chain:
		cipher, ok := cipherNames[t.Cipher.Algo]
		if !ok {
			return nil, &security.UnsupportedError{Feature: t.Cipher.Algo.String()}
		}
		auth, ok := authNames[t.Auth.Algo]
		if !ok {
			return nil, &security.UnsupportedError{Feature: t.Auth.Algo.String()}
		}
		state.Crypt = &netlink.XfrmStateAlgo{
			Name: cipher,
			Key:  append([]byte{}, t.Cipher.Key...),
		}
		state.Auth = &netlink.XfrmStateAlgo{
			Name:        auth,
			Key:         append([]byte{}, t.Auth.Key...),
			TruncateLen: t.Auth.DigestLength * 8,
		}
	default:
		return nil, fmt.Errorf("vector %q: unexpected transform %T", td.Name, td.Xform)
	}
	return state, nil
}

func hostNet(ip net.IP) *net.IPNet {
	if ip4 := ip.To4(); ip4 != nil {
		return &net.IPNet{IP: ip4, Mask: net.CIDRMask(32, 32)}
	}
	return &net.IPNet{IP: ip, Mask: net.CIDRMask(128, 128)}
}

// PolicyFor returns the XFRM policy steering the traffic of td into the
// state returned by StateFor. Both tunnel endpoints must be set.
func PolicyFor(td *vector.TestVector) (*netlink.XfrmPolicy, error) {
	x := &td.IPsec
	if x.Tunnel.Src == nil || x.Tunnel.Dst == nil {
		return nil, fmt.Errorf("vector %q: policy requires source and destination addresses", td.Name)
	}
	dir := netlink.XFRM_DIR_OUT
	if x.Direction == security.DirectionIngress {
		dir = netlink.XFRM_DIR_IN
	}
	return &netlink.XfrmPolicy{
		Src:  hostNet(x.Tunnel.Src),
		Dst:  hostNet(x.Tunnel.Dst),
		Dir:  dir,
		Mark: mark(x.Direction),
		Tmpls: []netlink.XfrmPolicyTmpl{{
			Src:   x.Tunnel.Src,
			Dst:   x.Tunnel.Dst,
			Proto: proto(x.Proto),
			Mode:  mode(x.Mode),
			Spi:   int(x.SPI),
		}},
	}, nil
}

// Install is the XFRM rendering of a test vector.
type Install struct {
	Vector    string
	Direction security.Direction
	State     *netlink.XfrmState
	// Policy is only rendered on request.
	Policy *netlink.XfrmPolicy
}

// Render renders each vector as its XFRM state, and its policy if policies
// is set. It fails on the first vector that cannot be rendered.
func Render(vectors []*vector.TestVector, policies bool) ([]Install, error) {
	installs := make([]Install, 0, len(vectors))
	for _, td := range vectors {
		inst := Install{Vector: td.Name, Direction: td.IPsec.Direction}

		var err error
		if inst.State, err = StateFor(td); err != nil {
			return nil, fmt.Errorf("%s: %w", td.Name, err)
		}
		if policies {
			if inst.Policy, err = PolicyFor(td); err != nil {
				return nil, err
			}
		}
		installs = append(installs, inst)
	}
	return installs, nil
}

// Summary counts rendered states and policies by vector direction.
type Summary struct {
	States   map[security.Direction]int
	Policies map[security.Direction]int
	// AEADKeys is the number of distinct AEAD keys, salt included.
	AEADKeys int
}

func Summarize(installs []Install) Summary {
	s := Summary{
		States:   make(map[security.Direction]int),
		Policies: make(map[security.Direction]int),
	}
	keys := make(map[string]struct{})
	for _, inst := range installs {
		if inst.State != nil {
			s.States[inst.Direction]++
			if inst.State.Aead != nil {
				keys[string(inst.State.Aead.Key)] = struct{}{}
			}
		}
		if inst.Policy != nil {
			s.Policies[inst.Direction]++
		}
	}
	s.AEADKeys = len(keys)
	return s
}
