// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2025 The BTPC developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package mempool implements BTPC's transaction memory pool: the set
// of transactions that are individually valid and spend only
// confirmed or other mempool outputs, ranked by fee rate for block
// template construction (spec.md §4.8).
package mempool

import (
	"sync"
	"time"

	"github.com/btpc-project/btpc/blockchain"
	"github.com/btpc-project/btpc/chaincfg"
	"github.com/btpc-project/btpc/chainhash"
	"github.com/btpc-project/btpc/internal/checked"
	"github.com/btpc-project/btpc/wire"
)

// Policy bounds the shape of the mempool: ancestor/descendant caps and
// a total size limit. BTPC rejects any transaction that conflicts with
// one already in the pool rather than accepting the common fee-bumping
// "replace-by-fee" convention, favoring simplicity and predictable
// relay behavior over replacement semantics.
type Policy struct {
	MaxAncestors     int
	MaxDescendants   int
	MaxPoolSizeBytes int64
	MinRelayFeePerKB int64
}

// DefaultPolicy returns the conservative default pool policy.
func DefaultPolicy() Policy {
	return Policy{
		MaxAncestors:     25,
		MaxDescendants:   25,
		MaxPoolSizeBytes: 300 * 1024 * 1024,
		MinRelayFeePerKB: 1000,
	}
}

// TxDesc describes a transaction held in the pool.
type TxDesc struct {
	Tx       *wire.MsgTx
	TxID     chainhash.Hash
	Fee      uint64
	Size     int
	AddedAt  time.Time
	Ancestry int // number of in-pool ancestors, inclusive of this tx's direct parents
}

// FeeRate returns the transaction's fee in base units per kilobyte,
// the metric block templates and pool eviction rank by.
func (d *TxDesc) FeeRate() float64 {
	if d.Size == 0 {
		return 0
	}
	return float64(d.Fee) * 1000 / float64(d.Size)
}

// TxPool is BTPC's mempool: a fee-ranked, ancestor/descendant-capped,
// size-bounded set of not-yet-confirmed transactions, guarded by a
// single RWMutex, using a reject-on-conflict admission policy rather
// than replace-by-fee.
type TxPool struct {
	mtx    sync.RWMutex
	params *chaincfg.Params
	utxo   *blockchain.UTXOSet
	policy Policy

	pool map[chainhash.Hash]*TxDesc

	// totalSize is the sum of every pooled transaction's serialized
	// size, kept incrementally so sizeBytes() is O(1).
	totalSize int64

	// outpoints maps every outpoint spent by a pooled transaction to
	// the id of the transaction spending it, so a conflicting second
	// spend can be detected and rejected in O(1).
	outpoints map[wire.OutPoint]chainhash.Hash

	// children maps a pooled transaction's id to the ids of pooled
	// transactions that spend one of its outputs, for descendant
	// counting and recursive eviction.
	children map[chainhash.Hash]map[chainhash.Hash]struct{}
}

// New constructs an empty TxPool bound to utxo for resolving
// already-confirmed inputs.
func New(params *chaincfg.Params, utxo *blockchain.UTXOSet, policy Policy) *TxPool {
	return &TxPool{
		params:    params,
		utxo:      utxo,
		policy:    policy,
		pool:      make(map[chainhash.Hash]*TxDesc),
		outpoints: make(map[wire.OutPoint]chainhash.Hash),
		children:  make(map[chainhash.Hash]map[chainhash.Hash]struct{}),
	}
}

// Count returns the number of transactions currently pooled.
func (mp *TxPool) Count() int {
	mp.mtx.RLock()
	defer mp.mtx.RUnlock()
	return len(mp.pool)
}

// SizeBytes returns the sum of every pooled transaction's serialized
// size.
func (mp *TxPool) SizeBytes() int64 {
	mp.mtx.RLock()
	defer mp.mtx.RUnlock()
	return mp.totalSize
}

// HaveTransaction reports whether txid is already pooled.
func (mp *TxPool) HaveTransaction(txid chainhash.Hash) bool {
	mp.mtx.RLock()
	defer mp.mtx.RUnlock()
	_, ok := mp.pool[txid]
	return ok
}

// fetchInput resolves an outpoint against pooled transactions first,
// then the confirmed UTXO set, so chains of unconfirmed spends can be
// validated the same way a single isolated transaction is.
func (mp *TxPool) fetchInput(op wire.OutPoint) (wire.TxOut, bool, int64, bool) {
	if spenderlessTx, ok := mp.pool[op.Hash]; ok {
		if int(op.Index) < len(spenderlessTx.Tx.TxOut) {
			return *spenderlessTx.Tx.TxOut[op.Index], false, 0, true
		}
	}
	entry, ok := mp.utxo.FetchEntry(op)
	if !ok {
		return wire.TxOut{}, false, 0, false
	}
	return entry.Output, entry.IsCoinbase, entry.Height, true
}

// countAncestors walks the in-pool parent chain of tx, returning the
// number of distinct in-pool ancestor transactions.
func (mp *TxPool) countAncestors(tx *wire.MsgTx) int {
	seen := make(map[chainhash.Hash]struct{})
	var walk func(t *wire.MsgTx)
	walk = func(t *wire.MsgTx) {
		for _, in := range t.TxIn {
			parent, ok := mp.pool[in.PreviousOutPoint.Hash]
			if !ok {
				continue
			}
			if _, already := seen[parent.TxID]; already {
				continue
			}
			seen[parent.TxID] = struct{}{}
			walk(parent.Tx)
		}
	}
	walk(tx)
	return len(seen)
}

// countDescendants returns the number of distinct in-pool descendants
// of the transaction identified by txid.
func (mp *TxPool) countDescendants(txid chainhash.Hash) int {
	seen := make(map[chainhash.Hash]struct{})
	var walk func(id chainhash.Hash)
	walk = func(id chainhash.Hash) {
		for child := range mp.children[id] {
			if _, already := seen[child]; already {
				continue
			}
			seen[child] = struct{}{}
			walk(child)
		}
	}
	walk(txid)
	return len(seen)
}

// ProcessTransaction validates tx against the pool and the confirmed
// UTXO set and, if every check passes, admits it. currentHeight+1 is
// used as the notional confirmation height for coinbase-maturity
// checks, matching how a transaction would be evaluated for inclusion
// in the next block.
func (mp *TxPool) ProcessTransaction(tx *wire.MsgTx, currentHeight int64) (*TxDesc, error) {
	if err := blockchain.CheckTransactionSanity(tx, mp.params.ForkID); err != nil {
		return nil, err
	}
	if tx.IsCoinBase() {
		return nil, ErrCoinbaseNotAllowed
	}

	mp.mtx.Lock()
	defer mp.mtx.Unlock()

	txid, err := tx.TxHash(byte(mp.params.ForkID))
	if err != nil {
		return nil, err
	}
	if _, dup := mp.pool[txid]; dup {
		return nil, ErrAlreadyInPool
	}

	for _, in := range tx.TxIn {
		if spender, conflict := mp.outpoints[in.PreviousOutPoint]; conflict {
			return nil, &ConflictError{Outpoint: in.PreviousOutPoint, SpentBy: spender}
		}
	}

	checker, err := newPoolSigChecker(tx, byte(mp.params.ForkID))
	if err != nil {
		return nil, err
	}

	var totalIn, totalOut uint64
	spendHeight := currentHeight + 1
	for _, in := range tx.TxIn {
		out, isCoinbase, height, ok := mp.fetchInput(in.PreviousOutPoint)
		if !ok {
			return nil, ErrMissingParent
		}
		if isCoinbase && spendHeight-height < int64(mp.params.CoinbaseMaturity) {
			return nil, ErrImmatureSpend
		}
		if err := checker.verifyInput(in, out.PkScript); err != nil {
			return nil, err
		}
		sum, err := checked.AddUint64(totalIn, out.Value)
		if err != nil {
			return nil, err
		}
		totalIn = sum
	}
	for _, out := range tx.TxOut {
		sum, err := checked.AddUint64(totalOut, out.Value)
		if err != nil {
			return nil, err
		}
		totalOut = sum
	}
	if totalOut > totalIn {
		return nil, ErrInsufficientFunds
	}
	fee := totalIn - totalOut

	size := tx.SerializeSize()
	if int64(fee)*1000/int64(size) < mp.policy.MinRelayFeePerKB {
		return nil, ErrFeeTooLow
	}

	ancestors := mp.countAncestors(tx)
	if ancestors+1 > mp.policy.MaxAncestors {
		return nil, ErrTooManyAncestors
	}

	desc := &TxDesc{Tx: tx, TxID: txid, Fee: fee, Size: size, AddedAt: time.Now(), Ancestry: ancestors}

	for _, in := range tx.TxIn {
		parentTxID := in.PreviousOutPoint.Hash
		if descendants := mp.countDescendants(parentTxID); descendants+1 > mp.policy.MaxDescendants {
			return nil, ErrTooManyDescendants
		}
	}

	mp.pool[txid] = desc
	mp.totalSize += int64(desc.Size)
	for _, in := range tx.TxIn {
		mp.outpoints[in.PreviousOutPoint] = txid
		if _, ok := mp.pool[in.PreviousOutPoint.Hash]; ok {
			if mp.children[in.PreviousOutPoint.Hash] == nil {
				mp.children[in.PreviousOutPoint.Hash] = make(map[chainhash.Hash]struct{})
			}
			mp.children[in.PreviousOutPoint.Hash][txid] = struct{}{}
		}
	}

	mp.evictToSizeLimit()
	if _, stillPooled := mp.pool[txid]; !stillPooled {
		return nil, ErrMempoolFull
	}

	return desc, nil
}

// evictToSizeLimit removes whichever pooled transaction currently has
// the lowest fee rate, breaking ties by oldest arrival, along with its
// in-pool descendants, until the pool's total size no longer exceeds
// policy.MaxPoolSizeBytes (spec.md §4.8).
func (mp *TxPool) evictToSizeLimit() {
	for mp.totalSize > mp.policy.MaxPoolSizeBytes {
		var worst *TxDesc
		for _, d := range mp.pool {
			switch {
			case worst == nil:
				worst = d
			case d.FeeRate() < worst.FeeRate():
				worst = d
			case d.FeeRate() == worst.FeeRate() && d.AddedAt.Before(worst.AddedAt):
				worst = d
			}
		}
		if worst == nil {
			return
		}
		mp.removeTransaction(worst.TxID, true)
	}
}

// RemoveTransaction evicts txid and, if cascade is true, every
// transaction in the pool that transitively spends one of its
// outputs.
func (mp *TxPool) RemoveTransaction(txid chainhash.Hash, cascade bool) {
	mp.mtx.Lock()
	defer mp.mtx.Unlock()
	mp.removeTransaction(txid, cascade)
}

func (mp *TxPool) removeTransaction(txid chainhash.Hash, cascade bool) {
	desc, ok := mp.pool[txid]
	if !ok {
		return
	}

	if cascade {
		for child := range mp.children[txid] {
			mp.removeTransaction(child, true)
		}
	}

	for _, in := range desc.Tx.TxIn {
		delete(mp.outpoints, in.PreviousOutPoint)
	}
	delete(mp.children, txid)
	delete(mp.pool, txid)
	mp.totalSize -= int64(desc.Size)
}

// TxDescs returns every pooled transaction descriptor ordered by
// descending fee rate, the order a block template draws from.
func (mp *TxPool) TxDescs() []*TxDesc {
	mp.mtx.RLock()
	defer mp.mtx.RUnlock()

	out := make([]*TxDesc, 0, len(mp.pool))
	for _, d := range mp.pool {
		out = append(out, d)
	}
	sortByFeeRateDescending(out)
	return out
}

func sortByFeeRateDescending(descs []*TxDesc) {
	for i := 1; i < len(descs); i++ {
		for j := i; j > 0 && descs[j].FeeRate() > descs[j-1].FeeRate(); j-- {
			descs[j], descs[j-1] = descs[j-1], descs[j]
		}
	}
}
