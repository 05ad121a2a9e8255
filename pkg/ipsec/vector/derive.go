// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of Cilium

package vector

import (
	"github.com/cilium/ipsec-vectors/pkg/crypto/xform"
	"github.com/cilium/ipsec-vectors/pkg/ipsec/security"
)

// DeriveInbound returns the ingress counterpart of the egress vector out: the
// payloads swap roles, the direction becomes ingress and the crypto
// operations become decrypt, and verify for chained auth. out is not
// modified and the result shares no buffers with it.
//
// Applied to an ingress vector it yields the egress counterpart with encrypt
// and generate operations, so deriving a well-formed vector twice restores
// it.
func DeriveInbound(out *TestVector) *TestVector {
	in := out.Clone()

	in.Input, in.Output = in.Output, in.Input
	in.IPsec.Direction = out.IPsec.Direction.Reverse()
	ingress := in.IPsec.Direction == security.DirectionIngress

	switch x := in.Xform.(type) {
	case *xform.AEAD:
		x.Op = xform.AEADOpEncrypt
		if ingress {
			x.Op = xform.AEADOpDecrypt
		}
	case *xform.Chain:
		x.Cipher.Op, x.Auth.Op = xform.CipherOpEncrypt, xform.AuthOpGenerate
		if ingress {
			x.Cipher.Op, x.Auth.Op = xform.CipherOpDecrypt, xform.AuthOpVerify
		}
	}
	return in
}
