// Copyright (c) 2025 The BTPC developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chainhash provides the 64-byte SHA-512 hash domain used
// throughout BTPC: block hashes, transaction ids, sighashes, merkle
// roots, and difficulty targets are all values of this one type.
package chainhash

import (
	"crypto/sha512"
	"encoding/hex"
	"fmt"
)

// HashSize is the number of bytes in a hash produced by this package's
// single hashing primitive, SHA-512.
const HashSize = 64

// MaxHashStringSize is the maximum length of a Hash hash string.
const MaxHashStringSize = HashSize * 2

// ErrHashStrSize describes an error condition where the passed string does
// not have the expected length.
var ErrHashStrSize = fmt.Errorf("max hash string length is %v bytes", MaxHashStringSize)

// Hash is a 64-byte array used throughout BTPC to represent a SHA-512
// digest: block hashes, transaction ids, sighashes, and difficulty
// targets.
type Hash [HashSize]byte

// String returns the Hash as the 128-character lowercase hex-encoded
// string, with the most significant byte first (big-endian display, as
// is conventional for on-wire hash values).
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// CloneBytes returns a copy of the bytes which make up the hash.
func (h *Hash) CloneBytes() []byte {
	newHash := make([]byte, HashSize)
	copy(newHash, h[:])
	return newHash
}

// SetBytes sets the bytes which represent the hash. An error is returned
// if the number of bytes passed in is not HashSize.
func (h *Hash) SetBytes(newHash []byte) error {
	nhlen := len(newHash)
	if nhlen != HashSize {
		return fmt.Errorf("invalid hash length of %v, want %v", nhlen, HashSize)
	}
	copy(h[:], newHash)
	return nil
}

// IsEqual returns true if target is the same as the hash.
func (h *Hash) IsEqual(target *Hash) bool {
	if h == nil && target == nil {
		return true
	}
	if h == nil || target == nil {
		return false
	}
	return *h == *target
}

// Less reports whether h sorts before other, comparing byte-by-byte with
// the most significant byte first.
func (h Hash) Less(other Hash) bool {
	for i := 0; i < HashSize; i++ {
		if h[i] != other[i] {
			return h[i] < other[i]
		}
	}
	return false
}

// NewHash returns a new Hash from a byte slice. An error is returned if
// the number of bytes passed in is not HashSize.
func NewHash(newHash []byte) (*Hash, error) {
	var sh Hash
	if err := sh.SetBytes(newHash); err != nil {
		return nil, err
	}
	return &sh, nil
}

// NewHashFromStr creates a Hash from a hash string. The string should be
// the hexadecimal string of a hash.
func NewHashFromStr(hash string) (*Hash, error) {
	ret := new(Hash)
	if err := Decode(ret, hash); err != nil {
		return nil, err
	}
	return ret, nil
}

// Decode decodes the hex encoding of a hash directly into the passed
// hash. Unlike some historical Bitcoin-derived hash types, BTPC hashes
// are encoded in natural byte order (no reversal) per spec.
func Decode(dst *Hash, src string) error {
	if len(src) != MaxHashStringSize {
		return ErrHashStrSize
	}

	var buf [HashSize]byte
	if _, err := hex.Decode(buf[:], []byte(src)); err != nil {
		return err
	}

	copy(dst[:], buf[:])
	return nil
}

// HashB calculates SHA-512(b) and returns the resulting bytes.
func HashB(b []byte) []byte {
	sum := sha512.Sum512(b)
	return sum[:]
}

// HashH calculates SHA-512(b) and returns the resulting bytes as a Hash.
func HashH(b []byte) Hash {
	return sha512.Sum512(b)
}

// DoubleHashB calculates SHA-512(SHA-512(b)) and returns the resulting
// bytes.
func DoubleHashB(b []byte) []byte {
	first := sha512.Sum512(b)
	second := sha512.Sum512(first[:])
	return second[:]
}

// DoubleHashH calculates SHA-512(SHA-512(b)) and returns the resulting
// bytes as a Hash.
func DoubleHashH(b []byte) Hash {
	first := sha512.Sum512(b)
	return sha512.Sum512(first[:])
}
