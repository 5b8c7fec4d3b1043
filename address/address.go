// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2025 The BTPC developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package address implements BTPC's single address format: Base58Check
// pay-to-pubkey-hash, identical in shape to Bitcoin's legacy P2PKH
// addresses but keyed to ML-DSA public keys instead of secp256k1 ones,
// and checked against a caller-supplied network rather than a global
// registry (spec.md §6).
package address

import (
	"bytes"
	"errors"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btpc-project/btpc/chaincfg"
	"github.com/btpc-project/btpc/chainhash"
	"github.com/btpc-project/btpc/mldsa"
)

// HashSize is the length, in bytes, of the public key hash a P2PKH
// address commits to.
const HashSize = 20

var (
	// ErrChecksumMismatch describes an error where decoding an address
	// fails to validate the checksum.
	ErrChecksumMismatch = errors.New("address: checksum mismatch")

	// ErrUnknownAddressType describes an error where an address's
	// version byte does not match the network it is being checked
	// against.
	ErrUnknownAddressType = errors.New("address: unknown address type")
)

// Address represents a BTPC P2PKH address.
type Address struct {
	netID byte
	hash  [HashSize]byte
}

// Hash160 computes the address hash committed to a public key: the
// first 20 bytes of the SHA-512 digest of the key's packed encoding.
// BTPC reuses Bitcoin's "hash then truncate" idiom with its sole hash
// primitive rather than adopting RIPEMD160, since spec.md §3 forbids
// any hash function but SHA-512 from appearing anywhere in consensus
// code.
func Hash160(pubKey *mldsa.PublicKey) [HashSize]byte {
	sum := chainhash.HashH(pubKey.Bytes())
	var out [HashSize]byte
	copy(out[:], sum[:HashSize])
	return out
}

// NewAddress builds an Address from a raw 20-byte hash for the given
// network.
func NewAddress(hash [HashSize]byte, params *chaincfg.Params) *Address {
	return &Address{netID: params.PubKeyHashAddrID, hash: hash}
}

// NewAddressFromPublicKey builds an Address for the given network
// directly from an ML-DSA public key.
func NewAddressFromPublicKey(pubKey *mldsa.PublicKey, params *chaincfg.Params) *Address {
	return NewAddress(Hash160(pubKey), params)
}

// Hash160 returns the address's underlying public key hash.
func (a *Address) Hash160() [HashSize]byte {
	return a.hash
}

// IsForNetwork reports whether the address's version byte matches the
// given network's.
func (a *Address) IsForNetwork(params *chaincfg.Params) bool {
	return a.netID == params.PubKeyHashAddrID
}

// String encodes the address as Base58Check: version byte, 20-byte
// hash, and a 4-byte checksum derived from a double application of
// BTPC's SHA-512 primitive.
func (a *Address) String() string {
	payload := make([]byte, 0, 1+HashSize)
	payload = append(payload, a.netID)
	payload = append(payload, a.hash[:]...)
	return base58CheckEncode(payload)
}

// DecodeAddress parses a Base58Check-encoded BTPC address and checks
// that its version byte matches params.
func DecodeAddress(encoded string, params *chaincfg.Params) (*Address, error) {
	payload, err := base58CheckDecode(encoded)
	if err != nil {
		return nil, err
	}
	if len(payload) != 1+HashSize {
		return nil, ErrUnknownAddressType
	}

	netID := payload[0]
	if netID != params.PubKeyHashAddrID {
		return nil, ErrUnknownAddressType
	}

	var hash [HashSize]byte
	copy(hash[:], payload[1:])
	return &Address{netID: netID, hash: hash}, nil
}

// checksumLen matches Bitcoin's Base58Check convention: a 4-byte
// checksum built from the double hash's leading bytes.
const checksumLen = 4

func base58CheckEncode(payload []byte) string {
	checksum := chainhash.DoubleHashB(payload)[:checksumLen]
	full := make([]byte, 0, len(payload)+checksumLen)
	full = append(full, payload...)
	full = append(full, checksum...)
	return base58.Encode(full)
}

func base58CheckDecode(encoded string) ([]byte, error) {
	decoded := base58.Decode(encoded)
	if len(decoded) < checksumLen {
		return nil, ErrChecksumMismatch
	}

	payload := decoded[:len(decoded)-checksumLen]
	checksum := decoded[len(decoded)-checksumLen:]
	want := chainhash.DoubleHashB(payload)[:checksumLen]
	if !bytes.Equal(checksum, want) {
		return nil, ErrChecksumMismatch
	}
	return payload, nil
}
