// Copyright (c) 2025 The BTPC developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"sync"

	"github.com/btpc-project/btpc/wire"
)

// UTXOEntry describes one unspent transaction output.
type UTXOEntry struct {
	Output     wire.TxOut
	Height     int64
	IsCoinbase bool
}

// UTXOSet is the full set of spendable outputs. It follows the
// single-writer, multiple-reader concurrency model spec.md §4.7
// requires: ApplyBlock and RollbackBlock take the write lock and run
// to completion (or not at all) before releasing it, while FetchEntry
// takes only the read lock and may run concurrently with other
// readers.
type UTXOSet struct {
	mu      sync.RWMutex
	entries map[wire.OutPoint]UTXOEntry
}

// NewUTXOSet returns an empty UTXO set.
func NewUTXOSet() *UTXOSet {
	return &UTXOSet{entries: make(map[wire.OutPoint]UTXOEntry)}
}

// FetchEntry looks up the unspent output at op, if any.
func (s *UTXOSet) FetchEntry(op wire.OutPoint) (UTXOEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[op]
	return e, ok
}

// Len reports how many unspent outputs the set currently holds.
func (s *UTXOSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// blockUndo records every mutation ApplyBlock made, so RollbackBlock
// can restore the prior state exactly during a reorg.
type blockUndo struct {
	spent   map[wire.OutPoint]UTXOEntry
	created []wire.OutPoint
}

// ApplyBlock spends every input and creates every output of every
// transaction in txs (block order, coinbase first) at the given
// height, returning an opaque undo record. It validates that every
// non-coinbase input refers to an existing entry before mutating
// anything, so a block that fails partway through spending leaves the
// set completely unchanged (spec.md §4.7's atomic apply/rollback
// requirement) — there is no path that commits half a block.
func (s *UTXOSet) ApplyBlock(txs []*wire.MsgTx, forkID byte, height int64) (*blockUndo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	undo := &blockUndo{spent: make(map[wire.OutPoint]UTXOEntry)}

	// Validate every spend exists, and that no outpoint is spent twice
	// within the block, before mutating anything.
	spent := make(map[wire.OutPoint]struct{})
	for i, tx := range txs {
		if i == 0 {
			continue // coinbase has no real inputs to validate
		}
		for _, in := range tx.TxIn {
			if _, ok := s.entries[in.PreviousOutPoint]; !ok {
				return nil, ruleError(ErrMissingTxOut, "transaction spends an outpoint absent from the UTXO set")
			}
			if _, dup := spent[in.PreviousOutPoint]; dup {
				return nil, ruleError(ErrMissingTxOut, "block spends the same outpoint more than once")
			}
			spent[in.PreviousOutPoint] = struct{}{}
		}
	}

	for i, tx := range txs {
		if i != 0 {
			for _, in := range tx.TxIn {
				entry := s.entries[in.PreviousOutPoint]
				undo.spent[in.PreviousOutPoint] = entry
				delete(s.entries, in.PreviousOutPoint)
			}
		}

		txid, err := tx.TxHash(forkID)
		if err != nil {
			return nil, err
		}
		for idx, out := range tx.TxOut {
			op := wire.OutPoint{Hash: txid, Index: uint32(idx)}
			s.entries[op] = UTXOEntry{Output: *out, Height: height, IsCoinbase: i == 0}
			undo.created = append(undo.created, op)
		}
	}

	return undo, nil
}

// RollbackBlock exactly reverses the mutation ApplyBlock recorded in
// undo: every output it created is removed and every entry it spent is
// restored.
func (s *UTXOSet) RollbackBlock(undo *blockUndo) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, op := range undo.created {
		delete(s.entries, op)
	}
	for op, entry := range undo.spent {
		s.entries[op] = entry
	}
}
