// Copyright (c) 2025 The BTPC developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mining

import (
	"errors"

	"github.com/btpc-project/btpc/blockchain"
	"github.com/btpc-project/btpc/chaincfg"
)

// ErrCanceled is returned by Solve when stop fires, or the search
// budget of blockchain.MineHeader runs out, before a solution is found.
var ErrCanceled = errors.New("mining: solve canceled")

// Solve searches template's header for a nonce (and, if necessary,
// successive timestamps) satisfying its Bits field's difficulty
// target, returning once a solution is found, stop is closed, or the
// search budget runs out. It wraps blockchain.MineHeader, which
// cmd/mine-genesis calls directly.
func Solve(template *BlockTemplate, params *chaincfg.Params, stop <-chan struct{}) error {
	target, err := chaincfg.CompactToTarget(template.Block.Header.Bits)
	if err != nil {
		return err
	}

	if !blockchain.MineHeader(&template.Block.Header, target, stop) {
		return ErrCanceled
	}
	return nil
}
