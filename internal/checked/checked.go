// Copyright (c) 2025 The BTPC developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package checked provides overflow-checked arithmetic over the base
// unit amounts used throughout consensus validation (spec.md §4.4:
// value overflow must be rejected, never silently wrapped).
package checked

import "errors"

// ErrOverflow is returned by any operation in this package that would
// otherwise wrap around uint64's range.
var ErrOverflow = errors.New("checked: arithmetic overflow")

// AddUint64 returns a+b, or ErrOverflow if the sum would exceed
// math.MaxUint64.
func AddUint64(a, b uint64) (uint64, error) {
	sum := a + b
	if sum < a {
		return 0, ErrOverflow
	}
	return sum, nil
}

// SumUint64 adds every value in vs, checking for overflow at each
// step.
func SumUint64(vs ...uint64) (uint64, error) {
	var total uint64
	for _, v := range vs {
		var err error
		total, err = AddUint64(total, v)
		if err != nil {
			return 0, err
		}
	}
	return total, nil
}

// SubUint64 returns a-b, or ErrOverflow if b > a (consensus amounts
// are never negative).
func SubUint64(a, b uint64) (uint64, error) {
	if b > a {
		return 0, ErrOverflow
	}
	return a - b, nil
}
