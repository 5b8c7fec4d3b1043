// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2025 The BTPC developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import "fmt"

// ErrorCode identifies a category of consensus rule violation.
type ErrorCode int

const (
	// ErrDuplicateBlock indicates a block already known to the chain
	// was submitted again.
	ErrDuplicateBlock ErrorCode = iota

	// ErrMissingParent indicates a block's previous hash does not
	// match any known block.
	ErrMissingParent

	// ErrBadMerkleRoot indicates the block's merkle root does not
	// match the one computed from its transactions.
	ErrBadMerkleRoot

	// ErrBadProofOfWork indicates the block's hash does not meet its
	// claimed difficulty target.
	ErrBadProofOfWork

	// ErrUnexpectedDifficulty indicates a block's bits field does not
	// match the value the retarget rule requires at that height.
	ErrUnexpectedDifficulty

	// ErrTimeTooOld indicates a block's timestamp is not greater than
	// the median of the previous eleven blocks.
	ErrTimeTooOld

	// ErrTimeTooNew indicates a block's timestamp is too far in the
	// future.
	ErrTimeTooNew

	// ErrNoTransactions indicates a block has no transactions (every
	// block must have at least a coinbase).
	ErrNoTransactions

	// ErrFirstTxNotCoinbase indicates a block's first transaction is
	// not a valid coinbase.
	ErrFirstTxNotCoinbase

	// ErrMultipleCoinbases indicates a block has more than one
	// coinbase transaction.
	ErrMultipleCoinbases

	// ErrBadCoinbaseValue indicates a coinbase transaction pays out
	// more than the block subsidy plus collected fees.
	ErrBadCoinbaseValue

	// ErrDuplicateTxInputs indicates a single transaction spends the
	// same outpoint more than once.
	ErrDuplicateTxInputs

	// ErrNoTxInputs indicates a non-coinbase transaction has no
	// inputs.
	ErrNoTxInputs

	// ErrNoTxOutputs indicates a transaction has no outputs.
	ErrNoTxOutputs

	// ErrBadTxOutValue indicates a transaction output's value is zero,
	// or that an output or the sum of the outputs exceeds the network's
	// MaxMoney.
	ErrBadTxOutValue

	// ErrTxValueOverflow indicates an overflow occurred summing a
	// transaction's outputs.
	ErrTxValueOverflow

	// ErrMissingTxOut indicates a transaction spends an outpoint not
	// present in the UTXO set.
	ErrMissingTxOut

	// ErrSpendTooEarly indicates a transaction attempts to spend a
	// coinbase output before it has matured.
	ErrSpendTooEarly

	// ErrInsufficientFunds indicates a transaction's outputs exceed
	// its inputs.
	ErrInsufficientFunds

	// ErrScriptValidation indicates a transaction input's unlocking
	// script failed to satisfy the referenced output's locking
	// script.
	ErrScriptValidation

	// ErrWrongForkID indicates a transaction's fork_id byte does not
	// match the network it was submitted to.
	ErrWrongForkID

	// ErrBadBlockHeight indicates the block's declared height, where
	// applicable, does not follow its parent.
	ErrBadBlockHeight

	// ErrDuplicateTx indicates a transaction id was already applied
	// within the anti-replay lookback window, independent of whether
	// its outputs are still unspent.
	ErrDuplicateTx

	// ErrDuplicateTxInBlock indicates the same txid appears more than
	// once within a single block.
	ErrDuplicateTxInBlock

	// ErrBlockTooLarge indicates a block's serialized size exceeds the
	// network's maximum block size.
	ErrBlockTooLarge
)

var errorCodeStrings = map[ErrorCode]string{
	ErrDuplicateBlock:       "ErrDuplicateBlock",
	ErrMissingParent:        "ErrMissingParent",
	ErrBadMerkleRoot:        "ErrBadMerkleRoot",
	ErrBadProofOfWork:       "ErrBadProofOfWork",
	ErrUnexpectedDifficulty: "ErrUnexpectedDifficulty",
	ErrTimeTooOld:           "ErrTimeTooOld",
	ErrTimeTooNew:           "ErrTimeTooNew",
	ErrNoTransactions:       "ErrNoTransactions",
	ErrFirstTxNotCoinbase:   "ErrFirstTxNotCoinbase",
	ErrMultipleCoinbases:    "ErrMultipleCoinbases",
	ErrBadCoinbaseValue:     "ErrBadCoinbaseValue",
	ErrDuplicateTxInputs:    "ErrDuplicateTxInputs",
	ErrNoTxInputs:           "ErrNoTxInputs",
	ErrNoTxOutputs:          "ErrNoTxOutputs",
	ErrBadTxOutValue:        "ErrBadTxOutValue",
	ErrTxValueOverflow:      "ErrTxValueOverflow",
	ErrMissingTxOut:         "ErrMissingTxOut",
	ErrSpendTooEarly:        "ErrSpendTooEarly",
	ErrInsufficientFunds:    "ErrInsufficientFunds",
	ErrScriptValidation:     "ErrScriptValidation",
	ErrWrongForkID:          "ErrWrongForkID",
	ErrBadBlockHeight:       "ErrBadBlockHeight",
	ErrDuplicateTx:          "ErrDuplicateTx",
	ErrDuplicateTxInBlock:   "ErrDuplicateTxInBlock",
	ErrBlockTooLarge:        "ErrBlockTooLarge",
}

func (e ErrorCode) String() string {
	if s, ok := errorCodeStrings[e]; ok {
		return s
	}
	return fmt.Sprintf("ErrorCode(%d)", int(e))
}

// RuleError identifies a rule violation and carries a human-readable
// description alongside the machine-checkable ErrorCode.
type RuleError struct {
	ErrorCode   ErrorCode
	Description string
}

func (e RuleError) Error() string {
	return e.Description
}

// ruleError creates a RuleError given a set of arguments.
func ruleError(c ErrorCode, desc string) RuleError {
	return RuleError{ErrorCode: c, Description: desc}
}
