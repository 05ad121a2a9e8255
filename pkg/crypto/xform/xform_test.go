// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of Cilium

package xform

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAEADClone(t *testing.T) {
	orig := &AEAD{
		Algo:         AEADAlgoAESGCM,
		Op:           AEADOpEncrypt,
		Key:          HexBytes{0x01, 0x02, 0x03, 0x04},
		IVLength:     8,
		DigestLength: 16,
		AADLength:    8,
	}

	c := orig.Clone().(*AEAD)
	require.Equal(t, orig, c)

	c.Key[0] = 0xff
	c.Op = AEADOpDecrypt
	require.Equal(t, byte(0x01), orig.Key[0])
	require.Equal(t, AEADOpEncrypt, orig.Op)
}

func TestChainClone(t *testing.T) {
	orig := &Chain{
		Cipher: Cipher{Algo: CipherAlgoAESCBC, Op: CipherOpEncrypt, Key: HexBytes{1, 2}, IVLength: 16},
		Auth:   Auth{Algo: AuthAlgoSHA256HMAC, Op: AuthOpGenerate, Key: HexBytes{3, 4}, DigestLength: 16},
	}

	c := orig.Clone().(*Chain)
	require.Equal(t, orig, c)

	c.Cipher.Key[0] = 0xff
	c.Auth.Key[0] = 0xff
	require.Equal(t, HexBytes{1, 2}, orig.Cipher.Key)
	require.Equal(t, HexBytes{3, 4}, orig.Auth.Key)
}

func TestAEADJSON(t *testing.T) {
	var a AEAD
	err := json.Unmarshal([]byte(`{"algo":"aes-gcm","op":"decrypt","key":"00112233","ivLength":8,"digestLength":16,"aadLength":12}`), &a)
	require.NoError(t, err)
	require.Equal(t, AEAD{
		Algo:         AEADAlgoAESGCM,
		Op:           AEADOpDecrypt,
		Key:          HexBytes{0x00, 0x11, 0x22, 0x33},
		IVLength:     8,
		DigestLength: 16,
		AADLength:    12,
	}, a)
	require.Equal(t, 4, a.KeyLength())

	err = json.Unmarshal([]byte(`{"algo":"aes-ocb"}`), &a)
	require.ErrorContains(t, err, `unknown AEAD algorithm "aes-ocb"`)

	err = json.Unmarshal([]byte(`{"algo":"aes-gcm","key":"zz"}`), &a)
	require.Error(t, err)
}

func TestEnumStrings(t *testing.T) {
	require.Equal(t, "aes-gcm", AEADAlgoAESGCM.String())
	require.Equal(t, "unknown", AEADAlgoUnknown.String())
	require.Equal(t, "aes-cbc", CipherAlgoAESCBC.String())
	require.Equal(t, "sha256-hmac", AuthAlgoSHA256HMAC.String())
	require.Equal(t, "verify", AuthOpVerify.String())
}
