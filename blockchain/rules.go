// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2025 The BTPC developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"bytes"
	"sort"

	"github.com/btpc-project/btpc/chaincfg"
	"github.com/btpc-project/btpc/chainhash"
	"github.com/btpc-project/btpc/internal/checked"
	"github.com/btpc-project/btpc/wire"
)

// CheckTransactionSanity performs context-free structural checks on tx:
// every rule here can be decided from the transaction alone, without
// consulting the UTXO set or chain state (spec.md §4.6, the
// "StatelessValid" stage of the validator state machine). Output values
// are bounded by the MaxMoney of the built-in network registered under
// forkID; a fork id with no registered network gets no upper bound.
func CheckTransactionSanity(tx *wire.MsgTx, forkID chaincfg.ForkID) error {
	if len(tx.TxIn) == 0 {
		return ruleError(ErrNoTxInputs, "transaction has no inputs")
	}
	if len(tx.TxOut) == 0 {
		return ruleError(ErrNoTxOutputs, "transaction has no outputs")
	}

	var maxMoney uint64
	if params, err := chaincfg.ByForkID(forkID); err == nil {
		maxMoney = params.MaxMoney
	}

	var total uint64
	for _, out := range tx.TxOut {
		if out.Value == 0 {
			return ruleError(ErrBadTxOutValue, "transaction output value is zero")
		}
		if maxMoney != 0 && out.Value > maxMoney {
			return ruleError(ErrBadTxOutValue, "transaction output value exceeds the maximum money amount")
		}
		sum, err := checked.AddUint64(total, out.Value)
		if err != nil {
			return ruleError(ErrTxValueOverflow, "transaction output values overflow")
		}
		total = sum
		if maxMoney != 0 && total > maxMoney {
			return ruleError(ErrBadTxOutValue, "transaction output values exceed the maximum money amount")
		}
	}

	if !tx.IsCoinBase() {
		seen := make(map[wire.OutPoint]struct{}, len(tx.TxIn))
		for _, in := range tx.TxIn {
			if _, dup := seen[in.PreviousOutPoint]; dup {
				return ruleError(ErrDuplicateTxInputs, "transaction spends the same outpoint more than once")
			}
			seen[in.PreviousOutPoint] = struct{}{}
		}
	} else if len(tx.TxIn[0].SignatureScript) == 0 {
		return ruleError(ErrFirstTxNotCoinbase, "coinbase script_sig must not be empty")
	}

	return nil
}

// CheckBlockSanity performs structural checks on block that do not
// require chain context: exactly one coinbase in the first position,
// a merkle root matching its transactions, a hash meeting its claimed
// target, and every contained transaction's own sanity.
func CheckBlockSanity(block *wire.MsgBlock, params *chaincfg.Params) error {
	if len(block.Transactions) == 0 {
		return ruleError(ErrNoTransactions, "block has no transactions")
	}
	if !block.Transactions[0].IsCoinBase() {
		return ruleError(ErrFirstTxNotCoinbase, "first transaction is not a coinbase")
	}
	for _, tx := range block.Transactions[1:] {
		if tx.IsCoinBase() {
			return ruleError(ErrMultipleCoinbases, "block contains more than one coinbase transaction")
		}
	}

	seenTxIDs := make(map[chainhash.Hash]struct{}, len(block.Transactions))
	for _, tx := range block.Transactions {
		if err := CheckTransactionSanity(tx, params.ForkID); err != nil {
			return err
		}
		txid, err := tx.TxHash(byte(params.ForkID))
		if err != nil {
			return err
		}
		if _, dup := seenTxIDs[txid]; dup {
			return ruleError(ErrDuplicateTxInBlock, "block contains the same txid more than once")
		}
		seenTxIDs[txid] = struct{}{}
	}

	var buf bytes.Buffer
	if err := block.Serialize(&buf, byte(params.ForkID)); err != nil {
		return err
	}
	if buf.Len() > wire.MaxBlockSize {
		return ruleError(ErrBlockTooLarge, "block's serialized size exceeds the maximum allowed size")
	}

	root, err := BlockMerkleRoot(block.Transactions, byte(params.ForkID))
	if err != nil {
		return err
	}
	if root != block.Header.MerkleRoot {
		return ruleError(ErrBadMerkleRoot, "merkle root does not match block transactions")
	}

	if err := CheckProofOfWork(&block.Header, params); err != nil {
		return err
	}

	return nil
}

// CalcMedianTimePast returns the median timestamp of the given
// (already chronologically ordered, most recent last) sample of
// preceding block headers, used for the "time too old" check. Callers
// pass at most chaincfg.MedianTimeBlocks timestamps.
func CalcMedianTimePast(timestamps []uint32) uint32 {
	if len(timestamps) == 0 {
		return 0
	}
	sorted := make([]uint32, len(timestamps))
	copy(sorted, timestamps)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	return sorted[len(sorted)/2]
}

// CheckBlockTimestamp checks a candidate block's timestamp against the
// median time of its ancestors and the local clock's tolerance for
// blocks claiming to be from the future.
func CheckBlockTimestamp(header *wire.BlockHeader, medianTimePast uint32, nowSeconds uint32) error {
	if header.Timestamp <= medianTimePast {
		return ruleError(ErrTimeTooOld, "block timestamp is not greater than the median of its ancestors")
	}
	if int64(header.Timestamp) > int64(nowSeconds)+chaincfg.MaxFutureBlockSeconds {
		return ruleError(ErrTimeTooNew, "block timestamp is too far in the future")
	}
	return nil
}
