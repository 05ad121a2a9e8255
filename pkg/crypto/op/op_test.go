// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of Cilium

package op

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSucceeded(t *testing.T) {
	require.True(t, (&Op{Status: StatusSuccess}).Succeeded())
	require.False(t, (&Op{Status: StatusAuthFailed}).Succeeded())
	require.False(t, (*Op)(nil).Succeeded())
}

func TestStatusString(t *testing.T) {
	require.Equal(t, "success", StatusSuccess.String())
	require.Equal(t, "auth-failed", StatusAuthFailed.String())
	require.Equal(t, "error", Status(42).String())
}

func TestStatusText(t *testing.T) {
	var s Status
	require.NoError(t, s.UnmarshalText([]byte("invalid-session")))
	require.Equal(t, StatusInvalidSession, s)

	text, err := StatusNotProcessed.MarshalText()
	require.NoError(t, err)
	require.Equal(t, "not-processed", string(text))

	require.Error(t, s.UnmarshalText([]byte("bogus")))
}
