// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of Cilium

// Package xform describes the request side of a symmetric crypto transform:
// either a single AEAD transform or a cipher chained with an auth transform.
package xform

import (
	"bytes"
	"encoding/hex"
	"fmt"
)

// Transform is implemented by *AEAD and *Chain only.
type Transform interface {
	// Clone returns a copy sharing no buffers with the receiver.
	Clone() Transform

	isTransform()
}

// AEAD is an authenticated-encryption-with-associated-data transform.
type AEAD struct {
	Algo AEADAlgorithm `json:"algo"`
	Op   AEADOp        `json:"op"`
	Key  HexBytes      `json:"key"`

	IVLength     int `json:"ivLength"`
	DigestLength int `json:"digestLength"`
	AADLength    int `json:"aadLength"`
}

func (*AEAD) isTransform() {}

// KeyLength returns the length of the key in bytes.
func (a *AEAD) KeyLength() int { return len(a.Key) }

func (a *AEAD) Clone() Transform {
	c := *a
	c.Key = bytes.Clone(a.Key)
	return &c
}

func (a *AEAD) String() string {
	return fmt.Sprintf("%s %s key=%d digest=%d aad=%d iv=%d",
		a.Algo, a.Op, len(a.Key), a.DigestLength, a.AADLength, a.IVLength)
}

// Cipher is the cipher half of a chained transform.
type Cipher struct {
	Algo     CipherAlgorithm `json:"algo"`
	Op       CipherOp        `json:"op"`
	Key      HexBytes        `json:"key"`
	IVLength int             `json:"ivLength"`
}

// Auth is the authentication half of a chained transform.
type Auth struct {
	Algo         AuthAlgorithm `json:"algo"`
	Op           AuthOp        `json:"op"`
	Key          HexBytes      `json:"key,omitempty"`
	DigestLength int           `json:"digestLength"`
	IVLength     int           `json:"ivLength,omitempty"`
}

// Chain is a cipher transform chained with an auth transform. Both halves
// always run in the same direction.
type Chain struct {
	Cipher Cipher `json:"cipher"`
	Auth   Auth   `json:"auth"`
}

func (*Chain) isTransform() {}

func (c *Chain) Clone() Transform {
	n := *c
	n.Cipher.Key = bytes.Clone(c.Cipher.Key)
	n.Auth.Key = bytes.Clone(c.Auth.Key)
	return &n
}

func (c *Chain) String() string {
	return fmt.Sprintf("%s %s key=%d iv=%d / %s %s key=%d digest=%d",
		c.Cipher.Algo, c.Cipher.Op, len(c.Cipher.Key), c.Cipher.IVLength,
		c.Auth.Algo, c.Auth.Op, len(c.Auth.Key), c.Auth.DigestLength)
}

// HexBytes is a byte sequence marshalled as a hex encoded string.
type HexBytes []byte

func (h HexBytes) MarshalText() ([]byte, error) {
	return []byte(hex.EncodeToString(h)), nil
}

func (h *HexBytes) UnmarshalText(text []byte) error {
	decoded, err := hex.DecodeString(string(text))
	if err != nil {
		return err
	}
	*h = decoded
	return nil
}
