// Copyright (c) 2025 The BTPC developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package mldsa wraps the ML-DSA-87 (Dilithium) post-quantum signature
// scheme BTPC uses for every transaction signature (spec.md §5). BTPC
// never implements the lattice math itself; it defers entirely to
// circl, Cloudflare's audited, pure-Go implementation of the
// NIST-standardized algorithm.
package mldsa

import (
	"crypto/rand"
	"errors"

	"github.com/cloudflare/circl/sign/mldsa/mldsa87"
)

// PublicKeySize, PrivateKeySize, and SignatureSize are the fixed byte
// lengths of ML-DSA-87 keys and signatures.
const (
	PublicKeySize  = mldsa87.PublicKeySize
	PrivateKeySize = mldsa87.PrivateKeySize
	SignatureSize  = mldsa87.SignatureSize
	SeedSize       = mldsa87.SeedSize
)

// ErrInvalidPublicKey and ErrInvalidPrivateKey are returned when a byte
// slice cannot be unpacked into a key of the expected size.
var (
	ErrInvalidPublicKey  = errors.New("mldsa: invalid public key encoding")
	ErrInvalidPrivateKey = errors.New("mldsa: invalid private key encoding")
)

// PublicKey and PrivateKey are opaque handles around circl's ML-DSA-87
// key types, so the rest of the codebase never imports circl directly.
type PublicKey struct {
	inner *mldsa87.PublicKey
}

type PrivateKey struct {
	inner *mldsa87.PrivateKey
}

// GenerateKey creates a new random ML-DSA-87 keypair.
func GenerateKey() (*PublicKey, *PrivateKey, error) {
	pub, priv, err := mldsa87.GenerateKey(rand.Reader)
	if err != nil {
		return nil, nil, err
	}
	return &PublicKey{inner: pub}, &PrivateKey{inner: priv}, nil
}

// KeyFromSeed deterministically derives a keypair from a SeedSize-byte
// seed. Tests use this to produce reproducible fixtures without
// relying on crypto/rand.
func KeyFromSeed(seed [SeedSize]byte) (*PublicKey, *PrivateKey) {
	pub, priv := mldsa87.NewKeyFromSeed(&seed)
	return &PublicKey{inner: pub}, &PrivateKey{inner: priv}
}

// Bytes returns the fixed-size wire encoding of the public key.
func (pk *PublicKey) Bytes() []byte {
	b := make([]byte, PublicKeySize)
	pk.inner.Pack((*[PublicKeySize]byte)(b))
	return b
}

// ParsePublicKey decodes a PublicKeySize-byte slice into a PublicKey.
func ParsePublicKey(b []byte) (*PublicKey, error) {
	if len(b) != PublicKeySize {
		return nil, ErrInvalidPublicKey
	}
	var pk mldsa87.PublicKey
	if err := pk.UnmarshalBinary(b); err != nil {
		return nil, ErrInvalidPublicKey
	}
	return &PublicKey{inner: &pk}, nil
}

// Bytes returns the fixed-size wire encoding of the private key.
func (sk *PrivateKey) Bytes() []byte {
	b := make([]byte, PrivateKeySize)
	sk.inner.Pack((*[PrivateKeySize]byte)(b))
	return b
}

// ParsePrivateKey decodes a PrivateKeySize-byte slice into a
// PrivateKey.
func ParsePrivateKey(b []byte) (*PrivateKey, error) {
	if len(b) != PrivateKeySize {
		return nil, ErrInvalidPrivateKey
	}
	var sk mldsa87.PrivateKey
	if err := sk.UnmarshalBinary(b); err != nil {
		return nil, ErrInvalidPrivateKey
	}
	return &PrivateKey{inner: &sk}, nil
}

// Sign produces a detached ML-DSA-87 signature over message (which, in
// BTPC's usage, is always a 64-byte transaction signing hash, never
// the transaction bytes themselves).
func Sign(sk *PrivateKey, message []byte) []byte {
	sig := make([]byte, SignatureSize)
	mldsa87.SignTo(sk.inner, message, nil, false, sig)
	return sig
}

// Verify reports whether sig is a valid ML-DSA-87 signature by pk over
// message.
func Verify(pk *PublicKey, message, sig []byte) bool {
	if len(sig) != SignatureSize {
		return false
	}
	return mldsa87.Verify(pk.inner, message, nil, sig)
}
