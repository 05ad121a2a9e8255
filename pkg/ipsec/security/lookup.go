// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of Cilium

package security

import (
	"fmt"
	"os"

	"sigs.k8s.io/yaml"
)

// Lookup returns the first protocol-offload capability descriptor in caps
// that handles the protocol, mode and direction of x.
func Lookup(caps []Capability, x *Xform) (*Capability, error) {
	for i := range caps {
		c := &caps[i]
		switch c.Action {
		case ActionInlineProtocol, ActionLookasideProtocol:
		default:
			continue
		}
		if c.IPsec.Proto == x.Proto && c.IPsec.Mode == x.Mode && c.IPsec.Direction == x.Direction {
			return c, nil
		}
	}
	return nil, &UnsupportedError{Feature: fmt.Sprintf("IPsec %s %s %s", x.Proto, x.Mode, x.Direction)}
}

// CapabilityFile is the document form of a backend's capability list.
type CapabilityFile struct {
	Capabilities []Capability `json:"capabilities"`
}

// ParseCapabilities decodes a YAML or JSON capability document.
func ParseCapabilities(data []byte) ([]Capability, error) {
	var doc CapabilityFile
	if err := yaml.UnmarshalStrict(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse capabilities: %w", err)
	}
	return doc.Capabilities, nil
}

// LoadCapabilities reads a capability document from path.
func LoadCapabilities(path string) ([]Capability, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	caps, err := ParseCapabilities(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return caps, nil
}
