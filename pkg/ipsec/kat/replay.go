// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of Cilium

package kat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/gopacket/pcapgo"
	"sigs.k8s.io/yaml"

	"github.com/cilium/ipsec-vectors/pkg/crypto/op"
	"github.com/cilium/ipsec-vectors/pkg/ipsec/security"
	"github.com/cilium/ipsec-vectors/pkg/ipsec/vector"
	"github.com/cilium/ipsec-vectors/pkg/lock"
)

// Capture is the recorded outcome of running a vector through a backend.
type Capture struct {
	Vector    string             `json:"vector"`
	Direction security.Direction `json:"direction"`
	Status    op.Status          `json:"status,omitempty"`
	Packet    vector.Text        `json:"packet"`
}

type captureKey struct {
	name string
	dir  security.Direction
}

// ReplayBackend serves previously captured outputs. Vectors without a
// capture complete with op.StatusNotProcessed.
type ReplayBackend struct {
	caps []security.Capability

	mu       lock.RWMutex
	captures map[captureKey]Capture
}

func NewReplayBackend(caps []security.Capability, captures ...Capture) *ReplayBackend {
	b := &ReplayBackend{
		caps:     caps,
		captures: make(map[captureKey]Capture, len(captures)),
	}
	b.Add(captures...)
	return b
}

// Add records captures, replacing earlier ones for the same vector and
// direction.
func (b *ReplayBackend) Add(captures ...Capture) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, c := range captures {
		b.captures[captureKey{c.Vector, c.Direction}] = c
	}
}

func (b *ReplayBackend) Capabilities() []security.Capability {
	return b.caps
}

func (b *ReplayBackend) Process(ctx context.Context, td *vector.TestVector) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b.mu.RLock()
	c, ok := b.captures[captureKey{td.Name, td.IPsec.Direction}]
	b.mu.RUnlock()
	if !ok {
		return &Result{Op: op.Op{Status: op.StatusNotProcessed}, Packet: vector.Buffer(nil)}, nil
	}
	return &Result{Op: op.Op{Status: c.Status}, Packet: vector.Buffer(c.Packet)}, nil
}

// CaptureFile is the document form of a set of captures.
type CaptureFile struct {
	Captures []Capture `json:"captures"`
}

// ParseCaptures decodes a YAML or JSON capture document.
func ParseCaptures(data []byte) ([]Capture, error) {
	var doc CaptureFile
	if err := yaml.UnmarshalStrict(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse captures: %w", err)
	}
	return doc.Captures, nil
}

// LoadCaptures reads a capture document from path.
func LoadCaptures(path string) ([]Capture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	captures, err := ParseCaptures(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return captures, nil
}

// ReadPcap reads the packets of a pcap stream as successful captures: the
// i-th packet is the output of vectors[i] processed in direction dir.
func ReadPcap(r io.Reader, vectors []*vector.TestVector, dir security.Direction) ([]Capture, error) {
	pr, err := pcapgo.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open pcap: %w", err)
	}

	var captures []Capture
	for _, td := range vectors {
		data, _, err := pr.ReadPacketData()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read packet for vector %q: %w", td.Name, err)
		}
		captures = append(captures, Capture{
			Vector:    td.Name,
			Direction: dir,
			Status:    op.StatusSuccess,
			Packet:    data,
		})
	}
	return captures, nil
}
