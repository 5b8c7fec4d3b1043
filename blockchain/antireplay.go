// Copyright (c) 2025 The BTPC developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"sync"

	"github.com/btpc-project/btpc/chainhash"
	"github.com/decred/dcrd/lru"
)

// DefaultRecentTxLookback bounds RecentTxIndex to the last N applied
// transaction ids, resolving spec.md §9's anti-replay lookback window
// Open Question: a transaction id that reappears within this many
// applications of the active chain tip is rejected outright, rather
// than tracking an unbounded history.
const DefaultRecentTxLookback = 10000

// RecentTxIndex is a bounded, concurrency-safe set of recently applied
// transaction ids, backed by an LRU cache. It exists purely to reject
// outright replays of a transaction that was already committed to the
// active chain tip within the lookback window; it is not a substitute
// for UTXO-based double-spend detection, which ApplyBlock already
// enforces.
type RecentTxIndex struct {
	mu    sync.Mutex
	cache *lru.Cache
}

// NewRecentTxIndex returns a RecentTxIndex bounded to the given number
// of most recently recorded transaction ids.
func NewRecentTxIndex(limit uint) *RecentTxIndex {
	return &RecentTxIndex{cache: lru.NewCache(limit)}
}

// Seen reports whether txid was recorded within the lookback window.
func (r *RecentTxIndex) Seen(txid chainhash.Hash) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cache.Contains(txid)
}

// Record adds txid to the window, evicting the least recently recorded
// entry if the cache is already at its limit.
func (r *RecentTxIndex) Record(txid chainhash.Hash) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache.Add(txid)
}
