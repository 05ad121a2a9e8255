// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of Cilium

package kat

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
	"github.com/stretchr/testify/require"

	"github.com/cilium/ipsec-vectors/pkg/crypto/op"
	"github.com/cilium/ipsec-vectors/pkg/ipsec/security"
	"github.com/cilium/ipsec-vectors/pkg/ipsec/vector"
)

func TestReplayBackend(t *testing.T) {
	td := gcmVector("vector")
	b := NewReplayBackend(nil, Capture{Vector: td.Name, Status: op.StatusAuthFailed, Packet: td.Output})

	res, err := b.Process(context.Background(), td)
	require.NoError(t, err)
	require.Equal(t, op.StatusAuthFailed, res.Op.Status)
	require.Equal(t, []byte(td.Output), res.Packet.Bytes())

	res, err = b.Process(context.Background(), vector.DeriveInbound(td))
	require.NoError(t, err)
	require.Equal(t, op.StatusNotProcessed, res.Op.Status)
	require.Equal(t, 0, res.Packet.Len())

	b.Add(Capture{Vector: td.Name, Packet: td.Output})
	res, err = b.Process(context.Background(), td)
	require.NoError(t, err)
	require.True(t, res.Op.Succeeded())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = b.Process(ctx, td)
	require.ErrorIs(t, err, context.Canceled)
}

func TestLoadCaptures(t *testing.T) {
	doc := `
captures:
- vector: a
  direction: egress
  packet: "41424344"
- vector: a
  direction: ingress
  status: auth-failed
  packet: ""
`
	path := filepath.Join(t.TempDir(), "captures.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	captures, err := LoadCaptures(path)
	require.NoError(t, err)
	require.Len(t, captures, 2)
	require.Equal(t, op.StatusSuccess, captures[0].Status)
	require.Equal(t, vector.Text("ABCD"), captures[0].Packet)
	require.Equal(t, security.DirectionIngress, captures[1].Direction)
	require.Equal(t, op.StatusAuthFailed, captures[1].Status)

	_, err = ParseCaptures([]byte("captures:\n- vector: a\n  unknown: 1\n"))
	require.Error(t, err)
}

func TestReadPcap(t *testing.T) {
	vectors := []*vector.TestVector{gcmVector("a"), gcmVector("b"), gcmVector("c")}

	var buf bytes.Buffer
	w := pcapgo.NewWriter(&buf)
	require.NoError(t, w.WriteFileHeader(65535, layers.LinkTypeRaw))
	for _, td := range vectors[:2] {
		ci := gopacket.CaptureInfo{
			Timestamp:     time.Unix(0, 0),
			CaptureLength: td.Output.Len(),
			Length:        td.Output.Len(),
		}
		require.NoError(t, w.WritePacket(ci, td.Output))
	}

	captures, err := ReadPcap(&buf, vectors, security.DirectionEgress)
	require.NoError(t, err)
	require.Len(t, captures, 2)
	require.Equal(t, "b", captures[1].Vector)
	require.Equal(t, vectors[1].Output, captures[1].Packet)

	_, err = ReadPcap(bytes.NewReader([]byte("not a pcap")), vectors, security.DirectionEgress)
	require.Error(t, err)
}
