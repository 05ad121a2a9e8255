// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of Cilium

package security

import (
	"errors"
	"fmt"

	"github.com/cilium/ipsec-vectors/pkg/crypto/capability"
	"github.com/cilium/ipsec-vectors/pkg/crypto/xform"
)

// VerifyAEADCapability succeeds if one of the crypto capabilities in sc
// accepts the algorithm and the key, digest, AAD and IV lengths of aead. A
// backend may advertise several entries for the same algorithm; they are
// tried in order.
func VerifyAEADCapability(sc *Capability, aead *xform.AEAD) error {
	var reasons []error
	for _, c := range sc.Crypto {
		ac, ok := c.AEAD()
		if !ok || ac.Algo != aead.Algo {
			continue
		}
		err := capability.CheckAEAD(ac, aead.KeyLength(), aead.DigestLength, aead.AADLength, aead.IVLength)
		if err == nil {
			return nil
		}
		reasons = append(reasons, err)
	}
	return &UnsupportedError{Feature: aead.Algo.String(), Reason: errors.Join(reasons...)}
}

// VerifyChainCapability succeeds if both the cipher and the auth half of
// chain are accepted by crypto capabilities in sc.
func VerifyChainCapability(sc *Capability, chain *xform.Chain) error {
	var cipherOK, authOK bool
	var reasons []error
	for _, c := range sc.Crypto {
		if cc, ok := c.Cipher(); ok && !cipherOK && cc.Algo == chain.Cipher.Algo {
			if err := capability.CheckCipher(cc, len(chain.Cipher.Key), chain.Cipher.IVLength); err != nil {
				reasons = append(reasons, err)
			} else {
				cipherOK = true
			}
		}
		if ac, ok := c.Auth(); ok && !authOK && ac.Algo == chain.Auth.Algo {
			if err := capability.CheckAuth(ac, len(chain.Auth.Key), chain.Auth.DigestLength, chain.Auth.IVLength); err != nil {
				reasons = append(reasons, err)
			} else {
				authOK = true
			}
		}
		if cipherOK && authOK {
			return nil
		}
	}
	if !cipherOK {
		return &UnsupportedError{Feature: chain.Cipher.Algo.String(), Reason: errors.Join(reasons...)}
	}
	return &UnsupportedError{Feature: chain.Auth.Algo.String(), Reason: errors.Join(reasons...)}
}

// VerifyCryptoCapability dispatches to the check matching the shape of t.
func VerifyCryptoCapability(sc *Capability, t xform.Transform) error {
	switch x := t.(type) {
	case *xform.AEAD:
		return VerifyAEADCapability(sc, x)
	case *xform.Chain:
		return VerifyChainCapability(sc, x)
	default:
		return fmt.Errorf("unexpected transform %T", t)
	}
}
