// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of Cilium

// Package vector holds IPsec known-answer test vectors and the checks run on
// packets processed from them.
package vector

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"sigs.k8s.io/yaml"

	"github.com/cilium/ipsec-vectors/pkg/crypto/xform"
	"github.com/cilium/ipsec-vectors/pkg/ipsec/security"
)

// Text is a packet payload. It is marshalled as a hex encoded string.
type Text []byte

// Len returns the length of the payload in bytes.
func (t Text) Len() int { return len(t) }

func (t Text) MarshalText() ([]byte, error) {
	return []byte(hex.EncodeToString(t)), nil
}

func (t *Text) UnmarshalText(text []byte) error {
	decoded, err := hex.DecodeString(string(text))
	if err != nil {
		return err
	}
	*t = decoded
	return nil
}

// TestVector pairs an IPsec transform with a known input payload and the
// output payload the transform is expected to produce.
type TestVector struct {
	Name  string
	IPsec security.Xform
	Xform xform.Transform

	Input  Text
	Output Text
}

// IsAEAD returns true if the vector uses a single AEAD transform rather than
// a cipher and auth chain.
func (td *TestVector) IsAEAD() bool {
	_, ok := td.Xform.(*xform.AEAD)
	return ok
}

// Clone returns a copy of td sharing no buffers with it.
func (td *TestVector) Clone() *TestVector {
	c := &TestVector{
		Name:   td.Name,
		IPsec:  *td.IPsec.DeepCopy(),
		Input:  bytes.Clone(td.Input),
		Output: bytes.Clone(td.Output),
	}
	if td.Xform != nil {
		c.Xform = td.Xform.Clone()
	}
	return c
}

func (td *TestVector) String() string {
	return fmt.Sprintf("%s (%s %s %s, %v)", td.Name, td.IPsec.Proto, td.IPsec.Mode, td.IPsec.Direction, td.Xform)
}

type testVectorJSON struct {
	Name   string         `json:"name"`
	IPsec  security.Xform `json:"ipsec"`
	AEAD   *xform.AEAD    `json:"aead,omitempty"`
	Chain  *xform.Chain   `json:"chain,omitempty"`
	Input  Text           `json:"input"`
	Output Text           `json:"output"`
}

func (td *TestVector) MarshalJSON() ([]byte, error) {
	doc := testVectorJSON{
		Name:   td.Name,
		IPsec:  td.IPsec,
		Input:  td.Input,
		Output: td.Output,
	}
	switch x := td.Xform.(type) {
	case *xform.AEAD:
		doc.AEAD = x
	case *xform.Chain:
		doc.Chain = x
	default:
		return nil, fmt.Errorf("vector %q: unexpected transform %T", td.Name, td.Xform)
	}
	return json.Marshal(doc)
}

func (td *TestVector) UnmarshalJSON(data []byte) error {
	var doc testVectorJSON
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return err
	}
	*td = TestVector{
		Name:   doc.Name,
		IPsec:  doc.IPsec,
		Input:  doc.Input,
		Output: doc.Output,
	}
	switch {
	case doc.AEAD != nil && doc.Chain != nil:
		return fmt.Errorf("vector %q: aead and chain are mutually exclusive", doc.Name)
	case doc.AEAD != nil:
		td.Xform = doc.AEAD
	case doc.Chain != nil:
		td.Xform = doc.Chain
	default:
		return fmt.Errorf("vector %q: one of aead or chain is required", doc.Name)
	}
	return nil
}

// File is the document form of a set of test vectors.
type File struct {
	Vectors []*TestVector `json:"vectors"`
}

// Parse decodes a YAML or JSON vector document.
func Parse(data []byte) ([]*TestVector, error) {
	var doc File
	if err := yaml.UnmarshalStrict(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse test vectors: %w", err)
	}
	return doc.Vectors, nil
}

// LoadFile reads a vector document from path.
func LoadFile(path string) ([]*TestVector, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	vectors, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return vectors, nil
}

// Marshal encodes vectors as a YAML document accepted by Parse.
func Marshal(vectors []*TestVector) ([]byte, error) {
	return yaml.Marshal(File{Vectors: vectors})
}

// Find returns the vector called name.
func Find(vectors []*TestVector, name string) (*TestVector, bool) {
	for _, td := range vectors {
		if td.Name == name {
			return td, true
		}
	}
	return nil, false
}
