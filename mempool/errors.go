// Copyright (c) 2025 The BTPC developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import (
	"errors"
	"fmt"

	"github.com/btpc-project/btpc/chainhash"
	"github.com/btpc-project/btpc/wire"
)

var (
	ErrAlreadyInPool      = errors.New("mempool: transaction already in pool")
	ErrCoinbaseNotAllowed = errors.New("mempool: coinbase transactions are not relayed")
	ErrMissingParent      = errors.New("mempool: transaction spends an unknown or not-yet-seen output")
	ErrImmatureSpend      = errors.New("mempool: transaction spends an immature coinbase output")
	ErrInsufficientFunds  = errors.New("mempool: transaction outputs exceed inputs")
	ErrFeeTooLow          = errors.New("mempool: transaction fee rate is below the minimum relay fee")
	ErrTooManyAncestors   = errors.New("mempool: transaction would exceed the in-pool ancestor limit")
	ErrTooManyDescendants = errors.New("mempool: transaction would exceed an ancestor's in-pool descendant limit")
	ErrMempoolFull        = errors.New("mempool: pool is full and transaction's fee rate is too low to displace a lower-paying entry")
)

// ConflictError is returned when a transaction attempts to spend an
// outpoint already spent by another pooled transaction. BTPC has no
// replace-by-fee: the first transaction seen for a given outpoint
// always wins admission.
type ConflictError struct {
	Outpoint wire.OutPoint
	SpentBy  chainhash.Hash // txid of the transaction already holding this outpoint
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("mempool: outpoint %s already spent in pool by transaction %x", e.Outpoint, e.SpentBy)
}
