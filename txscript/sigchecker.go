// Copyright (c) 2025 The BTPC developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"github.com/btpc-project/btpc/chainhash"
	"github.com/btpc-project/btpc/wire"
)

// TxSigChecker is the SigChecker used by real transaction validation:
// it computes the signing hash of tx once (script execution only ever
// signs the whole transaction; BTPC has no sighash flags) and caches
// it for every input.
type TxSigChecker struct {
	hash chainhash.Hash
}

// NewTxSigChecker precomputes the signing hash for tx on the given
// network's fork_id.
func NewTxSigChecker(tx *wire.MsgTx, forkID byte) (*TxSigChecker, error) {
	hash, err := tx.SigningHash(forkID)
	if err != nil {
		return nil, err
	}
	return &TxSigChecker{hash: hash}, nil
}

// SigningHash implements SigChecker.
func (c *TxSigChecker) SigningHash() chainhash.Hash { return c.hash }
