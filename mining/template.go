// Copyright (c) 2025 The BTPC developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package mining assembles candidate blocks from the mempool and
// drives the proof-of-work search that turns a candidate into a valid
// block (spec.md §4.8).
package mining

import (
	"time"

	"github.com/btpc-project/btpc/blockchain"
	"github.com/btpc-project/btpc/chaincfg"
	"github.com/btpc-project/btpc/chainhash"
	"github.com/btpc-project/btpc/mempool"
	"github.com/btpc-project/btpc/wire"
)

// BlockTemplate is a candidate block body plus the information needed
// to finish and submit it.
type BlockTemplate struct {
	Block  *wire.MsgBlock
	Height int64
	Fees   uint64
}

// NewBlockTemplate selects transactions from pool by descending fee
// rate, including a transaction only once every mempool parent it
// depends on has already been included — this preserves topological
// order without assuming the pool's fee-rate ordering already happens
// to respect dependency order (a high-fee child can sort ahead of its
// lower-fee parent). It then builds the coinbase to pay
// coinbaseScript the block subsidy plus every included transaction's
// fee.
func NewBlockTemplate(params *chaincfg.Params, pool *mempool.TxPool, height int64, prevHash chainhash.Hash, bits uint32, coinbaseScript []byte) *BlockTemplate {
	descs := pool.TxDescs()

	byTxID := make(map[chainhash.Hash]*mempool.TxDesc, len(descs))
	for _, d := range descs {
		byTxID[d.TxID] = d
	}

	// The coinbase's serialized size does not depend on its payout
	// value, only its structure, so it can be measured up front and
	// reserved from the block size budget, together with the header
	// and the transaction-count varint, before selecting mempool
	// transactions.
	coinbaseSizer := wire.NewMsgTx(wire.TxVersion)
	coinbaseSizer.AddTxIn(wire.NewTxIn(wire.NewOutPoint(&chainhash.Hash{}, wire.MaxPrevOutIndex), coinbaseHeightScript(height)))
	coinbaseSizer.AddTxOut(wire.NewTxOut(0, coinbaseScript))
	budget := wire.MaxBlockSize - wire.BlockHeaderLen - wire.MaxVarIntPayload - coinbaseSizer.SerializeSize()

	included := make(map[chainhash.Hash]bool, len(descs))
	var selected []*mempool.TxDesc
	var totalFees uint64
	var totalSize int

	for progress := true; progress; {
		progress = false
		for _, d := range descs {
			if included[d.TxID] {
				continue
			}
			if !mempoolParentsIncluded(d, byTxID, included) {
				continue
			}
			if totalSize+d.Size > budget {
				continue
			}
			included[d.TxID] = true
			selected = append(selected, d)
			totalFees += d.Fee
			totalSize += d.Size
			progress = true
		}
	}

	subsidy := blockchain.CalcBlockSubsidy(height, params)
	coinbase := wire.NewMsgTx(wire.TxVersion)
	coinbase.AddTxIn(wire.NewTxIn(wire.NewOutPoint(&chainhash.Hash{}, wire.MaxPrevOutIndex), coinbaseHeightScript(height)))
	coinbase.AddTxOut(wire.NewTxOut(subsidy+totalFees, coinbaseScript))

	block := &wire.MsgBlock{
		Header: wire.BlockHeader{
			Version:   1,
			PrevBlock: prevHash,
			Timestamp: uint32(time.Now().Unix()),
			Bits:      bits,
		},
	}
	block.AddTransaction(coinbase)
	for _, d := range selected {
		block.AddTransaction(d.Tx)
	}

	root, err := blockchain.BlockMerkleRoot(block.Transactions, byte(params.ForkID))
	if err == nil {
		block.Header.MerkleRoot = root
	}

	return &BlockTemplate{Block: block, Height: height, Fees: totalFees}
}

// mempoolParentsIncluded reports whether every input of d that spends
// another pooled transaction has already been selected into the
// template. Inputs spending confirmed (non-pooled) outputs need no
// such check.
func mempoolParentsIncluded(d *mempool.TxDesc, byTxID map[chainhash.Hash]*mempool.TxDesc, included map[chainhash.Hash]bool) bool {
	for _, in := range d.Tx.TxIn {
		if _, isPooled := byTxID[in.PreviousOutPoint.Hash]; isPooled && !included[in.PreviousOutPoint.Hash] {
			return false
		}
	}
	return true
}

// coinbaseHeightScript encodes the block height into the coinbase
// script_sig so two otherwise-identical coinbases at different
// heights never collide (the same purpose Bitcoin's BIP34 serves;
// BTPC has no other fixed coinbase schema, per spec.md §9).
func coinbaseHeightScript(height int64) []byte {
	b := make([]byte, 0, 9)
	n := height
	for n > 0 {
		b = append(b, byte(n))
		n >>= 8
	}
	return append([]byte{byte(len(b))}, b...)
}
