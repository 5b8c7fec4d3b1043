// Copyright (c) 2025 The BTPC developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import (
	"github.com/btpc-project/btpc/txscript"
	"github.com/btpc-project/btpc/wire"
)

// poolSigChecker verifies one transaction's inputs against its own
// (precomputed once) signing hash.
type poolSigChecker struct {
	checker *txscript.TxSigChecker
}

func newPoolSigChecker(tx *wire.MsgTx, forkID byte) (*poolSigChecker, error) {
	checker, err := txscript.NewTxSigChecker(tx, forkID)
	if err != nil {
		return nil, err
	}
	return &poolSigChecker{checker: checker}, nil
}

func (c *poolSigChecker) verifyInput(in *wire.TxIn, pkScript []byte) error {
	engine := txscript.NewEngine(c.checker)
	return engine.Execute(in.SignatureScript, pkScript)
}
