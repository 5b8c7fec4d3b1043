// Copyright (c) 2025 The BTPC developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"github.com/btpc-project/btpc/chaincfg"
	"github.com/btpc-project/btpc/internal/checked"
	"github.com/btpc-project/btpc/txscript"
	"github.com/btpc-project/btpc/wire"
)

// headerRecord is the sliver of an ancestor header ValidateAndApplyBlock
// needs to check a descendant's difficulty and timestamp: its bits and
// timestamp, not the full header.
type headerRecord struct {
	timestamp uint32
	bits      uint32
}

// ValidationState is a transaction or block's position in the
// consensus pipeline (spec.md §4.7).
type ValidationState int

const (
	// Proposed is the initial state of anything freshly received.
	Proposed ValidationState = iota

	// StatelessValid means CheckTransactionSanity/CheckBlockSanity
	// passed: every context-free rule is satisfied.
	StatelessValid

	// StatefulValid means every rule requiring chain context (UTXO
	// lookups, script execution, maturity, fee accounting) passed.
	StatefulValid

	// Applied means the UTXO set has been mutated to reflect this
	// block or transaction.
	Applied

	// Rejected means validation failed at some stage; it is terminal.
	Rejected
)

// Validator runs BTPC's full transaction and block admission pipeline
// against a UTXOSet, advancing each candidate through the
// Proposed -> StatelessValid -> StatefulValid -> Applied/Rejected
// states spec.md §4.7 defines.
type Validator struct {
	Params *chaincfg.Params
	UTXOs  *UTXOSet

	// recentTxs rejects any transaction whose id was already applied
	// within the lookback window, independent of whether its outputs
	// happen to still be unspent (see RecentTxIndex).
	recentTxs *RecentTxIndex

	// ancestors holds the bits and timestamp of every height this
	// Validator has applied, bounded to the last BlocksPerRetarget+1
	// entries — enough to check a retarget height's required bits
	// against the start of its window and a non-retarget height's bits
	// continuity and minimum spacing against its immediate parent. It
	// is seeded with the network's genesis header so checks apply from
	// height 1 onward.
	ancestors map[int64]headerRecord
}

// NewValidator constructs a Validator bound to params and set.
func NewValidator(params *chaincfg.Params, set *UTXOSet) *Validator {
	v := &Validator{
		Params:    params,
		UTXOs:     set,
		recentTxs: NewRecentTxIndex(DefaultRecentTxLookback),
		ancestors: make(map[int64]headerRecord),
	}
	if params.GenesisBlock != nil {
		v.ancestors[0] = headerRecord{
			timestamp: params.GenesisBlock.Header.Timestamp,
			bits:      params.GenesisBlock.Header.Bits,
		}
	}
	return v
}

// checkDifficultyAndTimestamp verifies header.Bits matches the
// retarget rule's required value at height (or its parent's bits,
// outside a retarget height) and that header.Timestamp respects the
// minimum block spacing since its parent (waived on regtest). Both
// checks are skipped if this Validator has no record of height-1,
// which only happens when blocks are applied out of sequence from a
// freshly constructed Validator.
func (v *Validator) checkDifficultyAndTimestamp(header *wire.BlockHeader, height int64) error {
	prev, ok := v.ancestors[height-1]
	if !ok {
		return nil
	}

	expectedBits := prev.bits
	if height%chaincfg.BlocksPerRetarget == 0 {
		if first, ok := v.ancestors[height-chaincfg.BlocksPerRetarget]; ok {
			bits, err := CalcNextWorkRequired(v.Params, prev.bits, first.timestamp, prev.timestamp)
			if err != nil {
				return err
			}
			expectedBits = bits
		}
	}
	if header.Bits != expectedBits {
		return ruleError(ErrUnexpectedDifficulty, "block bits does not match the value the retarget rule requires at this height")
	}

	if v.Params.ForkID == chaincfg.ForkIDRegtest {
		if header.Timestamp < prev.timestamp {
			return ruleError(ErrTimeTooOld, "block timestamp is before its parent's")
		}
		return nil
	}
	if header.Timestamp < prev.timestamp+chaincfg.MinBlockSpacingSeconds {
		return ruleError(ErrTimeTooOld, "block timestamp does not meet the minimum spacing since its parent")
	}
	return nil
}

// recordHeader remembers height's bits and timestamp for future
// difficulty and timestamp checks, pruning the one entry that falls
// out of the retarget window as a result.
func (v *Validator) recordHeader(height int64, header wire.BlockHeader) {
	v.ancestors[height] = headerRecord{timestamp: header.Timestamp, bits: header.Bits}
	if prune := height - chaincfg.BlocksPerRetarget - 1; prune >= 0 {
		delete(v.ancestors, prune)
	}
}

// ValidateTransaction runs the stateful checks for a single
// non-coinbase transaction at the given spend height: every input must
// resolve to an unspent, mature output, inputs must cover outputs plus
// an implicit fee, and every input's unlocking script must satisfy the
// referenced locking script under ML-DSA verification.
func (v *Validator) ValidateTransaction(tx *wire.MsgTx, height int64) (fee uint64, state ValidationState, err error) {
	if err := CheckTransactionSanity(tx, v.Params.ForkID); err != nil {
		return 0, Rejected, err
	}
	if tx.IsCoinBase() {
		return 0, Rejected, ruleError(ErrScriptValidation, "coinbase transactions are not validated through ValidateTransaction")
	}

	txid, err := tx.TxHash(byte(v.Params.ForkID))
	if err != nil {
		return 0, Rejected, err
	}
	if v.recentTxs.Seen(txid) {
		return 0, Rejected, ruleError(ErrDuplicateTx, "transaction id was already applied within the anti-replay lookback window")
	}

	checker, err := txscript.NewTxSigChecker(tx, byte(v.Params.ForkID))
	if err != nil {
		return 0, Rejected, err
	}

	var totalIn uint64
	for _, in := range tx.TxIn {
		entry, ok := v.UTXOs.FetchEntry(in.PreviousOutPoint)
		if !ok {
			return 0, Rejected, ruleError(ErrMissingTxOut, "transaction spends an outpoint absent from the UTXO set")
		}
		if entry.IsCoinbase && height-entry.Height < int64(v.Params.CoinbaseMaturity) {
			return 0, Rejected, ruleError(ErrSpendTooEarly, "transaction spends an immature coinbase output")
		}

		engine := txscript.NewEngine(checker)
		if err := engine.Execute(in.SignatureScript, entry.Output.PkScript); err != nil {
			return 0, Rejected, ruleError(ErrScriptValidation, "input script failed to validate: "+err.Error())
		}

		sum, err := checked.AddUint64(totalIn, entry.Output.Value)
		if err != nil {
			return 0, Rejected, ruleError(ErrTxValueOverflow, "transaction input values overflow")
		}
		totalIn = sum
	}

	var totalOut uint64
	for _, out := range tx.TxOut {
		sum, err := checked.AddUint64(totalOut, out.Value)
		if err != nil {
			return 0, Rejected, ruleError(ErrTxValueOverflow, "transaction output values overflow")
		}
		totalOut = sum
	}

	if totalOut > totalIn {
		return 0, Rejected, ruleError(ErrInsufficientFunds, "transaction outputs exceed inputs")
	}

	return totalIn - totalOut, StatefulValid, nil
}

// ValidateAndApplyBlock runs CheckBlockSanity, then every
// non-coinbase transaction's ValidateTransaction, checks the coinbase
// pays out no more than the block subsidy plus collected fees, and
// finally applies the block to the UTXO set. Any failure at any stage
// leaves the UTXO set untouched — ApplyBlock is only reached once
// every transaction is independently confirmed StatefulValid.
func (v *Validator) ValidateAndApplyBlock(block *wire.MsgBlock, height int64) (*blockUndo, error) {
	if err := CheckBlockSanity(block, v.Params); err != nil {
		return nil, err
	}
	if err := v.checkDifficultyAndTimestamp(&block.Header, height); err != nil {
		return nil, err
	}

	var totalFees uint64
	for _, tx := range block.Transactions[1:] {
		fee, _, err := v.ValidateTransaction(tx, height)
		if err != nil {
			return nil, err
		}
		sum, err := checked.AddUint64(totalFees, fee)
		if err != nil {
			return nil, ruleError(ErrTxValueOverflow, "block fees overflow")
		}
		totalFees = sum
	}

	subsidy := CalcBlockSubsidy(height, v.Params)
	maxCoinbaseOut, err := checked.AddUint64(subsidy, totalFees)
	if err != nil {
		return nil, ruleError(ErrTxValueOverflow, "block subsidy plus fees overflow")
	}

	var coinbaseOut uint64
	for _, out := range block.Transactions[0].TxOut {
		sum, err := checked.AddUint64(coinbaseOut, out.Value)
		if err != nil {
			return nil, ruleError(ErrTxValueOverflow, "coinbase output values overflow")
		}
		coinbaseOut = sum
	}
	if coinbaseOut > maxCoinbaseOut {
		return nil, ruleError(ErrBadCoinbaseValue, "coinbase pays out more than subsidy plus fees")
	}

	undo, err := v.UTXOs.ApplyBlock(block.Transactions, byte(v.Params.ForkID), height)
	if err != nil {
		return nil, err
	}

	for _, tx := range block.Transactions {
		txid, err := tx.TxHash(byte(v.Params.ForkID))
		if err != nil {
			continue
		}
		v.recentTxs.Record(txid)
	}
	v.recordHeader(height, block.Header)

	return undo, nil
}
