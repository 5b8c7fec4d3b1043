// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2025 The BTPC developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"errors"
	"math/big"

	"github.com/btpc-project/btpc/chainhash"
)

// ErrDifficultyOverflow is returned when a compact difficulty value
// decodes to a target that does not fit in a 64-byte hash.
var ErrDifficultyOverflow = errors.New("chaincfg: compact difficulty overflows 64-byte target")

// CompactToBig decodes a "bits" value to its underlying big.Int the same
// way Bitcoin does: the high byte is a base-256 exponent, the low three
// bytes (with the top bit reserved as a sign flag) are the mantissa.
// BTPC reuses this encoding unchanged — what changes is the width of
// the buffer the result is placed into (see CompactToTarget).
func CompactToBig(compact uint32) *big.Int {
	mantissa := compact & 0x007fffff
	isNegative := compact&0x00800000 != 0
	exponent := uint(compact >> 24)

	var bn *big.Int
	if exponent <= 3 {
		mantissa >>= 8 * (3 - exponent)
		bn = big.NewInt(int64(mantissa))
	} else {
		bn = big.NewInt(int64(mantissa))
		bn.Lsh(bn, 8*(exponent-3))
	}

	if isNegative {
		bn = bn.Neg(bn)
	}
	return bn
}

// BigToCompact encodes a big.Int to a "bits" value using the same
// scheme as CompactToBig.
func BigToCompact(n *big.Int) uint32 {
	if n.Sign() == 0 {
		return 0
	}

	var mantissa uint32
	exponent := uint(len(n.Bytes()))

	if exponent <= 3 {
		mantissa = uint32(n.Bits()[0])
		mantissa <<= 8 * (3 - exponent)
	} else {
		tn := new(big.Int).Set(n)
		mantissa = uint32(tn.Rsh(tn, 8*(exponent-3)).Bits()[0])
	}

	// The mantissa's high bit doubles as a sign flag; if setting it
	// would be ambiguous, shift one more byte into the exponent.
	if mantissa&0x00800000 != 0 {
		mantissa >>= 8
		exponent++
	}

	compact := uint32(exponent<<24) | mantissa
	if n.Sign() < 0 {
		compact |= 0x00800000
	}
	return compact
}

// CompactToTarget decodes a "bits" field into a 64-byte difficulty
// target. Unlike Bitcoin's 32-byte target, BTPC hashes (and therefore
// targets) are 64 bytes: the same compact exponent/mantissa encoding
// that places Bitcoin's mantissa near the low end of a 32-byte buffer
// places it 32 bytes further from the front of a 64-byte buffer, so a
// naive reuse of Bitcoin's historical PowLimitBits constants here would
// decode to a target with far more leading zero bytes than intended —
// in the case of a small regtest-style exponent, one that is
// infeasibly hard to ever meet. Network PowLimitBits values must
// therefore be chosen with the 64-byte width in mind (see the exponent
// commentary on PowLimitBits in params.go).
func CompactToTarget(bits uint32) (chainhash.Hash, error) {
	n := CompactToBig(bits)
	if n.Sign() < 0 {
		return chainhash.Hash{}, errors.New("chaincfg: negative difficulty target")
	}

	raw := n.Bytes()
	if len(raw) > chainhash.HashSize {
		return chainhash.Hash{}, ErrDifficultyOverflow
	}

	var target chainhash.Hash
	copy(target[chainhash.HashSize-len(raw):], raw)
	return target, nil
}

// TargetToCompact encodes a 64-byte difficulty target back into its
// compact "bits" form.
func TargetToCompact(target chainhash.Hash) uint32 {
	n := new(big.Int).SetBytes(target[:])
	return BigToCompact(n)
}
