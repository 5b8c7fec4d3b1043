// Copyright (c) 2025 The BTPC developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chainhash

// MeetsTarget reports whether h, interpreted as a big-endian 64-byte
// unsigned integer, is less than or equal to target — i.e. whether a
// block hash "meets" a difficulty target. The comparison runs in
// constant time: every byte is visited regardless of where the first
// difference falls, so the running time of this function must not leak
// which byte decided the comparison.
//
// The implementation tracks two branchless masks as it scans
// most-significant byte first: decided (a more significant byte already
// differed, settling the comparison either way) and lessOrEqual (the
// tentative verdict).
func (h Hash) MeetsTarget(target Hash) bool {
	var decided, lessOrEqual byte

	for i := 0; i < HashSize; i++ {
		a, b := h[i], target[i]

		isLess := byte(0)
		if a < b {
			isLess = 1
		}
		isGreater := byte(0)
		if a > b {
			isGreater = 1
		}
		isEqual := byte(1) - (isLess | isGreater)

		// Only the first undecided byte may update the verdict.
		undecided := byte(1) - decided

		lessOrEqual = lessOrEqual | (undecided & isLess)
		decided = decided | (undecided & (isLess | isGreater))
		_ = isEqual
	}

	// If we scanned every byte and never decided strictly less-than or
	// strictly greater-than, the values are equal, which meets the
	// target ("H <= T").
	if decided == 0 {
		return true
	}
	return lessOrEqual == 1
}

// Work is a 128-bit unsigned integer used as the proof-of-work "work"
// metric. It is represented as two 64-bit limbs (hi, lo) rather than a
// native integer type so that consensus comparisons are exact and
// reproducible on every platform, per spec: floating point is forbidden
// anywhere in consensus math.
type Work struct {
	Hi uint64
	Lo uint64
}

// Cmp returns -1, 0, or 1 if w is less than, equal to, or greater than
// other.
func (w Work) Cmp(other Work) int {
	if w.Hi != other.Hi {
		if w.Hi < other.Hi {
			return -1
		}
		return 1
	}
	if w.Lo != other.Lo {
		if w.Lo < other.Lo {
			return -1
		}
		return 1
	}
	return 0
}

// Add returns w + other using wrapping 128-bit addition (panics never
// occur; a real chain will never approach 2^128 cumulative work units).
func (w Work) Add(other Work) Work {
	lo := w.Lo + other.Lo
	carry := uint64(0)
	if lo < w.Lo {
		carry = 1
	}
	return Work{Hi: w.Hi + other.Hi + carry, Lo: lo}
}

// WorkInteger computes the work metric of this hash as described in
// spec.md §3: work = (index_of_first_nonzero_byte << 8) +
// (256 - first_nonzero_byte_value). A hash of all zero bytes (the
// theoretical maximum possible work, vanishingly unlikely in practice)
// returns the maximum representable value for the scan length.
func (h Hash) WorkInteger() Work {
	for i := 0; i < HashSize; i++ {
		if h[i] != 0 {
			v := uint64(i)<<8 + uint64(256-int(h[i]))
			return Work{Lo: v}
		}
	}
	// All bytes zero: maximal work for a 64-byte hash.
	return Work{Lo: uint64(HashSize)<<8 + 256}
}
