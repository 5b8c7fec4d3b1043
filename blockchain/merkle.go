// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2025 The BTPC developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"github.com/btpc-project/btpc/chainhash"
	"github.com/btpc-project/btpc/wire"
)

// CalcMerkleRoot computes the root of the merkle tree built over txIDs.
// An odd number of nodes at any level is completed by duplicating the
// final node, Bitcoin's historical convention; an empty input returns
// the zero hash, since an empty block has no transactions to commit
// to.
func CalcMerkleRoot(txIDs []chainhash.Hash) chainhash.Hash {
	if len(txIDs) == 0 {
		return chainhash.Hash{}
	}

	level := make([]chainhash.Hash, len(txIDs))
	copy(level, txIDs)

	for len(level) > 1 {
		if len(level)%2 == 1 {
			level = append(level, level[len(level)-1])
		}

		next := make([]chainhash.Hash, len(level)/2)
		for i := 0; i < len(next); i++ {
			var buf [2 * chainhash.HashSize]byte
			copy(buf[:chainhash.HashSize], level[2*i][:])
			copy(buf[chainhash.HashSize:], level[2*i+1][:])
			next[i] = chainhash.DoubleHashH(buf[:])
		}
		level = next
	}

	return level[0]
}

// BlockMerkleRoot computes the merkle root of every transaction in
// block, hashed with forkID.
func BlockMerkleRoot(txs []*wire.MsgTx, forkID byte) (chainhash.Hash, error) {
	ids := make([]chainhash.Hash, len(txs))
	for i, tx := range txs {
		id, err := tx.TxHash(forkID)
		if err != nil {
			return chainhash.Hash{}, err
		}
		ids[i] = id
	}
	return CalcMerkleRoot(ids), nil
}
