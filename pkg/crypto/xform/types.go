// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of Cilium

package xform

import (
	"fmt"
)

type AEADAlgorithm int

const (
	AEADAlgoUnknown AEADAlgorithm = iota
	AEADAlgoAESCCM
	AEADAlgoAESGCM
	AEADAlgoChaCha20Poly1305
)

var aeadAlgoNames = map[AEADAlgorithm]string{
	AEADAlgoAESCCM:           "aes-ccm",
	AEADAlgoAESGCM:           "aes-gcm",
	AEADAlgoChaCha20Poly1305: "chacha20-poly1305",
}

func (a AEADAlgorithm) String() string { return enumString(aeadAlgoNames, a) }

func (a AEADAlgorithm) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

func (a *AEADAlgorithm) UnmarshalText(text []byte) (err error) {
	*a, err = parseEnum("AEAD algorithm", aeadAlgoNames, text)
	return
}

type CipherAlgorithm int

const (
	CipherAlgoUnknown CipherAlgorithm = iota
	CipherAlgoNull
	CipherAlgo3DESCBC
	CipherAlgoAESCBC
	CipherAlgoAESCTR
)

var cipherAlgoNames = map[CipherAlgorithm]string{
	CipherAlgoNull:    "null",
	CipherAlgo3DESCBC: "3des-cbc",
	CipherAlgoAESCBC:  "aes-cbc",
	CipherAlgoAESCTR:  "aes-ctr",
}

func (a CipherAlgorithm) String() string { return enumString(cipherAlgoNames, a) }

func (a CipherAlgorithm) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

func (a *CipherAlgorithm) UnmarshalText(text []byte) (err error) {
	*a, err = parseEnum("cipher algorithm", cipherAlgoNames, text)
	return
}

type AuthAlgorithm int

const (
	AuthAlgoUnknown AuthAlgorithm = iota
	AuthAlgoNull
	AuthAlgoSHA1HMAC
	AuthAlgoSHA256HMAC
	AuthAlgoSHA384HMAC
	AuthAlgoSHA512HMAC
	AuthAlgoAESXCBCMAC
	AuthAlgoAESGMAC
)

var authAlgoNames = map[AuthAlgorithm]string{
	AuthAlgoNull:       "null",
	AuthAlgoSHA1HMAC:   "sha1-hmac",
	AuthAlgoSHA256HMAC: "sha256-hmac",
	AuthAlgoSHA384HMAC: "sha384-hmac",
	AuthAlgoSHA512HMAC: "sha512-hmac",
	AuthAlgoAESXCBCMAC: "aes-xcbc-mac",
	AuthAlgoAESGMAC:    "aes-gmac",
}

func (a AuthAlgorithm) String() string { return enumString(authAlgoNames, a) }

func (a AuthAlgorithm) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

func (a *AuthAlgorithm) UnmarshalText(text []byte) (err error) {
	*a, err = parseEnum("auth algorithm", authAlgoNames, text)
	return
}

type AEADOp int

const (
	AEADOpEncrypt AEADOp = iota
	AEADOpDecrypt
)

var aeadOpNames = map[AEADOp]string{
	AEADOpEncrypt: "encrypt",
	AEADOpDecrypt: "decrypt",
}

func (o AEADOp) String() string { return enumString(aeadOpNames, o) }

func (o AEADOp) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

func (o *AEADOp) UnmarshalText(text []byte) (err error) {
	*o, err = parseEnum("AEAD operation", aeadOpNames, text)
	return
}

type CipherOp int

const (
	CipherOpEncrypt CipherOp = iota
	CipherOpDecrypt
)

var cipherOpNames = map[CipherOp]string{
	CipherOpEncrypt: "encrypt",
	CipherOpDecrypt: "decrypt",
}

func (o CipherOp) String() string { return enumString(cipherOpNames, o) }

func (o CipherOp) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

func (o *CipherOp) UnmarshalText(text []byte) (err error) {
	*o, err = parseEnum("cipher operation", cipherOpNames, text)
	return
}

type AuthOp int

const (
	AuthOpVerify AuthOp = iota
	AuthOpGenerate
)

var authOpNames = map[AuthOp]string{
	AuthOpVerify:   "verify",
	AuthOpGenerate: "generate",
}

func (o AuthOp) String() string { return enumString(authOpNames, o) }

func (o AuthOp) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

func (o *AuthOp) UnmarshalText(text []byte) (err error) {
	*o, err = parseEnum("auth operation", authOpNames, text)
	return
}

func enumString[T comparable](names map[T]string, v T) string {
	if s, ok := names[v]; ok {
		return s
	}
	return "unknown"
}

func parseEnum[T comparable](kind string, names map[T]string, text []byte) (T, error) {
	for v, name := range names {
		if name == string(text) {
			return v, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("unknown %s %q", kind, text)
}
