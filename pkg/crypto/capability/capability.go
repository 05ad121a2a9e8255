// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of Cilium

// Package capability models the crypto capabilities a backend advertises and
// checks requested transform parameters against them.
package capability

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cilium/ipsec-vectors/pkg/crypto/xform"
)

// ErrOutOfRange is returned when a requested length is not admitted by the
// advertised range.
var ErrOutOfRange = errors.New("length not supported")

type OpType int

const (
	OpTypeUndefined OpType = iota
	OpTypeSymmetric
	OpTypeAsymmetric
)

func (t OpType) String() string {
	switch t {
	case OpTypeSymmetric:
		return "symmetric"
	case OpTypeAsymmetric:
		return "asymmetric"
	default:
		return "undefined"
	}
}

type XformType int

const (
	XformTypeNotSpecified XformType = iota
	XformTypeAuth
	XformTypeCipher
	XformTypeAEAD
)

func (t XformType) String() string {
	switch t {
	case XformTypeAuth:
		return "auth"
	case XformTypeCipher:
		return "cipher"
	case XformTypeAEAD:
		return "aead"
	default:
		return "not-specified"
	}
}

// Range is the set of lengths {Min, Min+Increment, ..., Max}. An Increment of
// zero admits every length between Min and Max.
type Range struct {
	Min       int `json:"min"`
	Max       int `json:"max"`
	Increment int `json:"increment"`
}

// Fixed returns a range admitting exactly n.
func Fixed(n int) Range { return Range{Min: n, Max: n} }

// Admits returns true if n is one of the lengths described by r.
func (r Range) Admits(n int) bool {
	if n < r.Min || n > r.Max {
		return false
	}
	if r.Increment == 0 {
		return true
	}
	return (n-r.Min)%r.Increment == 0
}

func (r Range) String() string {
	if r.Min == r.Max {
		return fmt.Sprintf("[%d]", r.Min)
	}
	return fmt.Sprintf("[%d-%d/%d]", r.Min, r.Max, r.Increment)
}

func check(field string, r Range, n int) error {
	if !r.Admits(n) {
		return fmt.Errorf("%w: %s length %d not in %s", ErrOutOfRange, field, n, r)
	}
	return nil
}

// Symmetric is the transform shape of a symmetric capability. It is
// implemented by *AEAD, *Cipher and *Auth.
type Symmetric interface {
	XformType() XformType
}

type AEAD struct {
	Algo       xform.AEADAlgorithm `json:"algo"`
	BlockSize  int                 `json:"blockSize,omitempty"`
	KeySize    Range               `json:"keySize"`
	DigestSize Range               `json:"digestSize"`
	AADSize    Range               `json:"aadSize"`
	IVSize     Range               `json:"ivSize"`
}

func (*AEAD) XformType() XformType { return XformTypeAEAD }

type Cipher struct {
	Algo      xform.CipherAlgorithm `json:"algo"`
	BlockSize int                   `json:"blockSize,omitempty"`
	KeySize   Range                 `json:"keySize"`
	IVSize    Range                 `json:"ivSize"`
}

func (*Cipher) XformType() XformType { return XformTypeCipher }

type Auth struct {
	Algo       xform.AuthAlgorithm `json:"algo"`
	BlockSize  int                 `json:"blockSize,omitempty"`
	KeySize    Range               `json:"keySize"`
	DigestSize Range               `json:"digestSize"`
	IVSize     Range               `json:"ivSize"`
}

func (*Auth) XformType() XformType { return XformTypeAuth }

// CheckAEAD verifies that the requested AEAD lengths are admitted by c.
func CheckAEAD(c *AEAD, keyLen, digestLen, aadLen, ivLen int) error {
	return errors.Join(
		check("key", c.KeySize, keyLen),
		check("digest", c.DigestSize, digestLen),
		check("AAD", c.AADSize, aadLen),
		check("IV", c.IVSize, ivLen),
	)
}

// CheckCipher verifies that the requested cipher lengths are admitted by c.
func CheckCipher(c *Cipher, keyLen, ivLen int) error {
	return errors.Join(
		check("key", c.KeySize, keyLen),
		check("IV", c.IVSize, ivLen),
	)
}

// CheckAuth verifies that the requested auth lengths are admitted by c.
func CheckAuth(c *Auth, keyLen, digestLen, ivLen int) error {
	return errors.Join(
		check("key", c.KeySize, keyLen),
		check("digest", c.DigestSize, digestLen),
		check("IV", c.IVSize, ivLen),
	)
}

// Capability is a single entry of a backend's crypto capability list.
type Capability struct {
	Op OpType
	// Sym is only set for OpTypeSymmetric.
	Sym Symmetric
}

// AEAD returns the AEAD shape of a symmetric AEAD entry.
func (c Capability) AEAD() (*AEAD, bool) {
	if c.Op != OpTypeSymmetric {
		return nil, false
	}
	a, ok := c.Sym.(*AEAD)
	return a, ok
}

// Cipher returns the cipher shape of a symmetric cipher entry.
func (c Capability) Cipher() (*Cipher, bool) {
	if c.Op != OpTypeSymmetric {
		return nil, false
	}
	a, ok := c.Sym.(*Cipher)
	return a, ok
}

// Auth returns the auth shape of a symmetric auth entry.
func (c Capability) Auth() (*Auth, bool) {
	if c.Op != OpTypeSymmetric {
		return nil, false
	}
	a, ok := c.Sym.(*Auth)
	return a, ok
}

func (c Capability) String() string {
	if c.Op != OpTypeSymmetric || c.Sym == nil {
		return c.Op.String()
	}
	switch s := c.Sym.(type) {
	case *AEAD:
		return fmt.Sprintf("aead %s key=%s digest=%s aad=%s iv=%s", s.Algo, s.KeySize, s.DigestSize, s.AADSize, s.IVSize)
	case *Cipher:
		return fmt.Sprintf("cipher %s key=%s iv=%s", s.Algo, s.KeySize, s.IVSize)
	case *Auth:
		return fmt.Sprintf("auth %s key=%s digest=%s iv=%s", s.Algo, s.KeySize, s.DigestSize, s.IVSize)
	}
	return c.Op.String()
}

// capabilityJSON is the document form of a Capability. Exactly one of the
// fields is set.
type capabilityJSON struct {
	Asymmetric bool    `json:"asymmetric,omitempty"`
	AEAD       *AEAD   `json:"aead,omitempty"`
	Cipher     *Cipher `json:"cipher,omitempty"`
	Auth       *Auth   `json:"auth,omitempty"`
}

func (c Capability) MarshalJSON() ([]byte, error) {
	var doc capabilityJSON
	switch c.Op {
	case OpTypeAsymmetric:
		doc.Asymmetric = true
	case OpTypeSymmetric:
		switch s := c.Sym.(type) {
		case *AEAD:
			doc.AEAD = s
		case *Cipher:
			doc.Cipher = s
		case *Auth:
			doc.Auth = s
		default:
			return nil, fmt.Errorf("symmetric capability without transform shape")
		}
	default:
		return nil, fmt.Errorf("cannot marshal %s capability", c.Op)
	}
	return json.Marshal(doc)
}

func (c *Capability) UnmarshalJSON(data []byte) error {
	var doc capabilityJSON
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return err
	}

	set := 0
	*c = Capability{Op: OpTypeSymmetric}
	if doc.Asymmetric {
		set++
		c.Op = OpTypeAsymmetric
	}
	if doc.AEAD != nil {
		set++
		c.Sym = doc.AEAD
	}
	if doc.Cipher != nil {
		set++
		c.Sym = doc.Cipher
	}
	if doc.Auth != nil {
		set++
		c.Sym = doc.Auth
	}
	if set != 1 {
		return fmt.Errorf("capability must have exactly one of asymmetric, aead, cipher or auth, got %d", set)
	}
	return nil
}
