// Copyright (c) 2025 The BTPC developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chainhash

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// TestHexCodecRoundTrip checks that decode(encode(h)) == h for any 64
// bytes, per spec.md §8.
func TestHexCodecRoundTrip(t *testing.T) {
	rapid.Check(t, func(tt *rapid.T) {
		raw := rapid.SliceOfN(rapid.Byte(), HashSize, HashSize).Draw(tt, "raw")
		h, err := NewHash(raw)
		require.NoError(tt, err)

		decoded, err := NewHashFromStr(h.String())
		require.NoError(tt, err)
		require.Equal(tt, *h, *decoded)
	})
}

func TestDecodeRejectsWrongLength(t *testing.T) {
	err := Decode(new(Hash), "abcd")
	require.ErrorIs(t, err, ErrHashStrSize)
}

func TestMeetsTargetBasic(t *testing.T) {
	var lo, hi Hash
	for i := range lo {
		lo[i] = 0x01
		hi[i] = 0xff
	}
	require.True(t, lo.MeetsTarget(hi))
	require.False(t, hi.MeetsTarget(lo))
	require.True(t, lo.MeetsTarget(lo))
}

// TestMeetsTargetConstantTimeSmoke is a smoke test (not a cryptographic
// proof) that MeetsTarget visits every byte regardless of where the
// first difference falls, by checking the decision is correct across
// differences planted at every position.
func TestMeetsTargetConstantTimeSmoke(t *testing.T) {
	var target Hash
	for i := range target {
		target[i] = 0x80
	}

	for pos := 0; pos < HashSize; pos++ {
		h := target
		h[pos] = 0x7f // strictly less at this position, equal elsewhere
		if !h.MeetsTarget(target) {
			t.Fatalf("expected hash differing at byte %d to meet target", pos)
		}
		h[pos] = 0x81 // strictly greater at this position
		if h.MeetsTarget(target) {
			t.Fatalf("expected hash differing at byte %d to fail target", pos)
		}
	}
}

func TestWorkIntegerDeterministic(t *testing.T) {
	var h Hash
	h[3] = 0x40 // first nonzero at index 3, value 0x40
	w := h.WorkInteger()
	want := Work{Lo: uint64(3)<<8 + uint64(256-0x40)}
	require.Equal(t, want, w)
}

func TestWorkAddAndCmp(t *testing.T) {
	a := Work{Lo: 10}
	b := Work{Lo: 20}
	sum := a.Add(b)
	require.Equal(t, Work{Lo: 30}, sum)
	require.Equal(t, -1, a.Cmp(b))
	require.Equal(t, 1, b.Cmp(a))
	require.Equal(t, 0, a.Cmp(a))
}

func TestWorkAddCarries(t *testing.T) {
	a := Work{Hi: 0, Lo: ^uint64(0)}
	b := Work{Lo: 1}
	sum := a.Add(b)
	require.Equal(t, Work{Hi: 1, Lo: 0}, sum)
}
