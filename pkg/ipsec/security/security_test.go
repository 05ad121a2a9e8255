// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of Cilium

package security

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/cilium/hive/hivetest"
	"github.com/stretchr/testify/require"

	"github.com/cilium/ipsec-vectors/pkg/crypto/capability"
	"github.com/cilium/ipsec-vectors/pkg/crypto/xform"
)

// optionsFromBits sets the i-th option (in verification order) if bit i of
// bits is set.
func optionsFromBits(bits uint8) Options {
	var o Options
	flags := []*bool{&o.ESN, &o.UDPEncap, &o.CopyDSCP, &o.CopyFlabel, &o.CopyDF, &o.DecTTL, &o.ECN, &o.Stats}
	for i, f := range flags {
		*f = bits&(1<<i) != 0
	}
	return o
}

func TestVerifyOptionsSubset(t *testing.T) {
	logger := hivetest.Logger(t)
	for r := 0; r < 256; r++ {
		for c := 0; c < 256; c++ {
			requested, supported := optionsFromBits(uint8(r)), optionsFromBits(uint8(c))
			err := VerifyOptions(logger, &requested, &supported, true)
			if r&^c == 0 {
				require.NoError(t, err, "requested=%08b supported=%08b", r, c)
			} else {
				require.ErrorIs(t, err, ErrUnsupported, "requested=%08b supported=%08b", r, c)
			}
		}
	}
}

func TestVerifyOptionsFirstFailureWins(t *testing.T) {
	logger := hivetest.Logger(t)
	names := OptionNames()
	require.Equal(t, []string{
		"ESN", "UDP encapsulation", "Copy DSCP", "Copy Flow Label",
		"Copy DF bit", "Decrement TTL", "ECN", "Stats",
	}, names)

	for i, name := range names {
		// Request the i-th option and every later one; nothing supported.
		requested := optionsFromBits(^uint8(0) << i)
		var supported Options

		err := VerifyOptions(logger, &requested, &supported, true)
		var unsupported *UnsupportedError
		require.ErrorAs(t, err, &unsupported)
		require.Equal(t, name, unsupported.Feature)
	}
}

func TestVerifyOptionsESN(t *testing.T) {
	requested := Options{ESN: true}
	supported := Options{ESN: false}

	err := VerifyOptions(hivetest.Logger(t), &requested, &supported, true)
	require.EqualError(t, err, "ESN is not supported")
	require.ErrorIs(t, err, ErrUnsupported)
}

func TestVerifyOptionsSilent(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	requested := Options{DecTTL: true}
	var supported Options

	require.Error(t, VerifyOptions(logger, &requested, &supported, true))
	require.Empty(t, buf.String())

	require.Error(t, VerifyOptions(logger, &requested, &supported, false))
	require.Contains(t, buf.String(), `feature="Decrement TTL"`)
}

func TestVerifySecurityCapabilities(t *testing.T) {
	x := &Xform{Options: Options{UDPEncap: true, Stats: true}}
	sc := &Capability{IPsec: IPsecCapability{Options: Options{UDPEncap: true, Stats: true, ESN: true}}}
	require.NoError(t, VerifySecurityCapabilities(hivetest.Logger(t), x, sc, false))

	sc.IPsec.Options.Stats = false
	err := VerifySecurityCapabilities(hivetest.Logger(t), x, sc, false)
	var unsupported *UnsupportedError
	require.ErrorAs(t, err, &unsupported)
	require.Equal(t, "Stats", unsupported.Feature)
}

func gcmEntry(key, digest capability.Range) capability.Capability {
	return capability.Capability{
		Op: capability.OpTypeSymmetric,
		Sym: &capability.AEAD{
			Algo:       xform.AEADAlgoAESGCM,
			KeySize:    key,
			DigestSize: digest,
			AADSize:    capability.Range{Min: 8, Max: 12, Increment: 4},
			IVSize:     capability.Fixed(12),
		},
	}
}

func gcmXform(keyLen, digestLen int) *xform.AEAD {
	return &xform.AEAD{
		Algo:         xform.AEADAlgoAESGCM,
		Op:           xform.AEADOpEncrypt,
		Key:          make(xform.HexBytes, keyLen),
		DigestLength: digestLen,
		AADLength:    8,
		IVLength:     12,
	}
}

func TestVerifyAEADCapabilityStep(t *testing.T) {
	sc := &Capability{Crypto: []capability.Capability{
		gcmEntry(capability.Range{Min: 16, Max: 32, Increment: 8}, capability.Fixed(16)),
	}}

	require.NoError(t, VerifyAEADCapability(sc, gcmXform(32, 16)))
	require.NoError(t, VerifyAEADCapability(sc, gcmXform(24, 16)))

	err := VerifyAEADCapability(sc, gcmXform(20, 16))
	require.ErrorIs(t, err, ErrUnsupported)
	require.ErrorIs(t, err, capability.ErrOutOfRange)
	require.ErrorContains(t, err, "aes-gcm is not supported")
}

func TestVerifyAEADCapabilityMultipleEntries(t *testing.T) {
	sc := &Capability{Crypto: []capability.Capability{
		// Asymmetric and cipher entries are skipped.
		{Op: capability.OpTypeAsymmetric},
		{Op: capability.OpTypeSymmetric, Sym: &capability.Cipher{Algo: xform.CipherAlgoAESCBC}},
		// Other AEAD algorithms are skipped.
		{Op: capability.OpTypeSymmetric, Sym: &capability.AEAD{Algo: xform.AEADAlgoChaCha20Poly1305,
			KeySize: capability.Fixed(32), DigestSize: capability.Fixed(16), AADSize: capability.Fixed(8), IVSize: capability.Fixed(12)}},
		gcmEntry(capability.Fixed(16), capability.Fixed(16)),
		gcmEntry(capability.Fixed(16), capability.Fixed(8)),
	}}

	require.NoError(t, VerifyAEADCapability(sc, gcmXform(16, 16)))
	require.NoError(t, VerifyAEADCapability(sc, gcmXform(16, 8)), "second entry for the algorithm must be considered")
	require.ErrorIs(t, VerifyAEADCapability(sc, gcmXform(16, 12)), ErrUnsupported)
	require.ErrorIs(t, VerifyAEADCapability(sc, gcmXform(32, 16)), ErrUnsupported)

	ccm := gcmXform(16, 16)
	ccm.Algo = xform.AEADAlgoAESCCM
	err := VerifyAEADCapability(sc, ccm)
	require.ErrorIs(t, err, ErrUnsupported)
	require.False(t, errors.Is(err, capability.ErrOutOfRange), "no entry for the algorithm, no range error")
}

func TestVerifyAEADCapabilityEmpty(t *testing.T) {
	require.ErrorIs(t, VerifyAEADCapability(&Capability{}, gcmXform(16, 16)), ErrUnsupported)
}

func chain() *xform.Chain {
	return &xform.Chain{
		Cipher: xform.Cipher{Algo: xform.CipherAlgoAESCBC, Op: xform.CipherOpEncrypt, Key: make(xform.HexBytes, 16), IVLength: 16},
		Auth:   xform.Auth{Algo: xform.AuthAlgoSHA256HMAC, Op: xform.AuthOpGenerate, Key: make(xform.HexBytes, 32), DigestLength: 16},
	}
}

func TestVerifyChainCapability(t *testing.T) {
	cbc := capability.Capability{Op: capability.OpTypeSymmetric, Sym: &capability.Cipher{
		Algo: xform.CipherAlgoAESCBC, KeySize: capability.Range{Min: 16, Max: 32, Increment: 8}, IVSize: capability.Fixed(16)}}
	hmac := capability.Capability{Op: capability.OpTypeSymmetric, Sym: &capability.Auth{
		Algo: xform.AuthAlgoSHA256HMAC, KeySize: capability.Fixed(32), DigestSize: capability.Fixed(16)}}

	sc := &Capability{Crypto: []capability.Capability{cbc, hmac}}
	require.NoError(t, VerifyChainCapability(sc, chain()))
	require.NoError(t, VerifyCryptoCapability(sc, chain()))

	noAuth := &Capability{Crypto: []capability.Capability{cbc}}
	var unsupported *UnsupportedError
	require.ErrorAs(t, VerifyChainCapability(noAuth, chain()), &unsupported)
	require.Equal(t, "sha256-hmac", unsupported.Feature)

	noCipher := &Capability{Crypto: []capability.Capability{hmac}}
	require.ErrorAs(t, VerifyChainCapability(noCipher, chain()), &unsupported)
	require.Equal(t, "aes-cbc", unsupported.Feature)

	badDigest := chain()
	badDigest.Auth.DigestLength = 12
	require.ErrorIs(t, VerifyChainCapability(sc, badDigest), capability.ErrOutOfRange)
}

func TestLookup(t *testing.T) {
	caps := []Capability{
		{Action: ActionInlineCrypto, IPsec: IPsecCapability{Proto: ProtoESP, Mode: ModeTunnel, Direction: DirectionEgress}},
		{Action: ActionLookasideProtocol, IPsec: IPsecCapability{Proto: ProtoESP, Mode: ModeTunnel, Direction: DirectionEgress, ReplayWinSz: 64}},
		{Action: ActionLookasideProtocol, IPsec: IPsecCapability{Proto: ProtoESP, Mode: ModeTunnel, Direction: DirectionIngress}},
	}

	sc, err := Lookup(caps, &Xform{Proto: ProtoESP, Mode: ModeTunnel, Direction: DirectionEgress})
	require.NoError(t, err)
	require.Same(t, &caps[1], sc)

	sc, err = Lookup(caps, &Xform{Proto: ProtoESP, Mode: ModeTunnel, Direction: DirectionIngress})
	require.NoError(t, err)
	require.Same(t, &caps[2], sc)

	_, err = Lookup(caps, &Xform{Proto: ProtoESP, Mode: ModeTransport, Direction: DirectionEgress})
	require.ErrorIs(t, err, ErrUnsupported)
	require.EqualError(t, err, "IPsec esp transport egress is not supported")
}

func TestParseCapabilities(t *testing.T) {
	doc := `
capabilities:
- action: lookaside-protocol
  ipsec:
    proto: esp
    mode: tunnel
    direction: egress
    options:
      esn: true
      udpEncap: true
    replayWinSz: 1024
  crypto:
  - aead:
      algo: aes-gcm
      keySize: {min: 16, max: 32, increment: 8}
      digestSize: {min: 16, max: 16}
      aadSize: {min: 8, max: 12, increment: 4}
      ivSize: {min: 12, max: 12}
`
	caps, err := ParseCapabilities([]byte(doc))
	require.NoError(t, err)
	require.Len(t, caps, 1)
	require.Equal(t, ActionLookasideProtocol, caps[0].Action)
	require.Equal(t, Options{ESN: true, UDPEncap: true}, caps[0].IPsec.Options)
	require.Equal(t, uint32(1024), caps[0].IPsec.ReplayWinSz)
	require.NoError(t, VerifyAEADCapability(&caps[0], gcmXform(24, 16)))

	_, err = ParseCapabilities([]byte("capabilities:\n- action: teleport\n"))
	require.ErrorContains(t, err, `unknown action "teleport"`)

	_, err = ParseCapabilities([]byte("capabilities: []\nbogus: 1\n"))
	require.Error(t, err)

	_, err = ParseCapabilities([]byte(`
capabilities:
- action: lookaside-protocol
  ipsec: {proto: esp, mode: tunnel, direction: egress}
  crypto:
  - aead:
      algo: aes-gcm
      keySize: {min: 16, max: 32, incremnt: 8}
`))
	require.ErrorContains(t, err, `unknown field "incremnt"`)
}
