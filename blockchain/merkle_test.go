// Copyright (c) 2025 The BTPC developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"testing"

	"github.com/btpc-project/btpc/chainhash"
	"github.com/stretchr/testify/require"
)

func TestCalcMerkleRootEmpty(t *testing.T) {
	require.Equal(t, chainhash.Hash{}, CalcMerkleRoot(nil))
}

func TestCalcMerkleRootSingleLeaf(t *testing.T) {
	leaf := chainhash.HashH([]byte("only transaction"))
	require.Equal(t, leaf, CalcMerkleRoot([]chainhash.Hash{leaf}))
}

func TestCalcMerkleRootOddCountDuplicatesLast(t *testing.T) {
	a := chainhash.HashH([]byte("a"))
	b := chainhash.HashH([]byte("b"))
	c := chainhash.HashH([]byte("c"))

	withThree := CalcMerkleRoot([]chainhash.Hash{a, b, c})
	withFourDuplicated := CalcMerkleRoot([]chainhash.Hash{a, b, c, c})
	require.Equal(t, withFourDuplicated, withThree)
}

func TestCalcMerkleRootDeterministic(t *testing.T) {
	leaves := []chainhash.Hash{
		chainhash.HashH([]byte("1")),
		chainhash.HashH([]byte("2")),
		chainhash.HashH([]byte("3")),
		chainhash.HashH([]byte("4")),
	}
	root1 := CalcMerkleRoot(leaves)
	root2 := CalcMerkleRoot(leaves)
	require.Equal(t, root1, root2)

	reordered := []chainhash.Hash{leaves[1], leaves[0], leaves[2], leaves[3]}
	require.NotEqual(t, root1, CalcMerkleRoot(reordered))
}
