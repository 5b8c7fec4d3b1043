// Copyright (c) 2025 The BTPC developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"testing"

	"github.com/btpc-project/btpc/address"
	"github.com/btpc-project/btpc/chaincfg"
	"github.com/btpc-project/btpc/chainhash"
	"github.com/btpc-project/btpc/mldsa"
	"github.com/btpc-project/btpc/txscript"
	"github.com/btpc-project/btpc/wire"
	"github.com/stretchr/testify/require"
)

type testWallet struct {
	pub  *mldsa.PublicKey
	priv *mldsa.PrivateKey
	addr *address.Address
}

func newTestWallet(t *testing.T, params *chaincfg.Params) testWallet {
	t.Helper()
	pub, priv, err := mldsa.GenerateKey()
	require.NoError(t, err)
	return testWallet{pub: pub, priv: priv, addr: address.NewAddressFromPublicKey(pub, params)}
}

func buildCoinbase(t *testing.T, to testWallet, value uint64) *wire.MsgTx {
	t.Helper()
	tx := wire.NewMsgTx(wire.TxVersion)
	tx.AddTxIn(wire.NewTxIn(wire.NewOutPoint(&chainhash.Hash{}, wire.MaxPrevOutIndex), []byte("genesis-style coinbase message")))
	tx.AddTxOut(wire.NewTxOut(value, txscript.PayToAddrScript(to.addr)))
	return tx
}

func buildSpend(t *testing.T, forkID byte, from testWallet, prevOut wire.OutPoint, prevOutputValue uint64, to testWallet, value uint64) *wire.MsgTx {
	t.Helper()
	tx := wire.NewMsgTx(wire.TxVersion)
	tx.AddTxIn(wire.NewTxIn(&prevOut, nil))
	tx.AddTxOut(wire.NewTxOut(value, txscript.PayToAddrScript(to.addr)))

	sigHash, err := tx.SigningHash(forkID)
	require.NoError(t, err)
	sig := mldsa.Sign(from.priv, sigHash[:])
	tx.TxIn[0].SignatureScript = txscript.SignatureScript(sig, from.pub.Bytes())
	return tx
}

func TestValidateTransactionAcceptsCorrectSpend(t *testing.T) {
	params := chaincfg.RegressionNetParams
	alice := newTestWallet(t, params)
	bob := newTestWallet(t, params)

	set := NewUTXOSet()
	cb := buildCoinbase(t, alice, 5000000000)
	_, err := set.ApplyBlock([]*wire.MsgTx{cb}, byte(params.ForkID), 1)
	require.NoError(t, err)

	cbID, err := cb.TxHash(byte(params.ForkID))
	require.NoError(t, err)

	spend := buildSpend(t, byte(params.ForkID), alice, wire.OutPoint{Hash: cbID, Index: 0}, 5000000000, bob, 4000000000)

	v := NewValidator(params, set)
	fee, state, err := v.ValidateTransaction(spend, int64(params.CoinbaseMaturity)+2)
	require.NoError(t, err)
	require.Equal(t, StatefulValid, state)
	require.Equal(t, uint64(1000000000), fee)
}

func TestValidateTransactionRejectsImmatureCoinbase(t *testing.T) {
	params := chaincfg.RegressionNetParams
	alice := newTestWallet(t, params)
	bob := newTestWallet(t, params)

	set := NewUTXOSet()
	cb := buildCoinbase(t, alice, 5000000000)
	_, err := set.ApplyBlock([]*wire.MsgTx{cb}, byte(params.ForkID), 100)
	require.NoError(t, err)

	cbID, err := cb.TxHash(byte(params.ForkID))
	require.NoError(t, err)
	spend := buildSpend(t, byte(params.ForkID), alice, wire.OutPoint{Hash: cbID, Index: 0}, 5000000000, bob, 4000000000)

	v := NewValidator(params, set)
	_, _, err = v.ValidateTransaction(spend, 101) // only 1 confirmation, maturity is 100
	require.Error(t, err)
}

func TestValidateTransactionRejectsForgedSignature(t *testing.T) {
	params := chaincfg.RegressionNetParams
	alice := newTestWallet(t, params)
	mallory := newTestWallet(t, params)
	bob := newTestWallet(t, params)

	set := NewUTXOSet()
	cb := buildCoinbase(t, alice, 5000000000)
	_, err := set.ApplyBlock([]*wire.MsgTx{cb}, byte(params.ForkID), 1)
	require.NoError(t, err)
	cbID, err := cb.TxHash(byte(params.ForkID))
	require.NoError(t, err)

	// Mallory signs, but the output is locked to Alice's key.
	forged := buildSpend(t, byte(params.ForkID), mallory, wire.OutPoint{Hash: cbID, Index: 0}, 5000000000, bob, 4000000000)

	v := NewValidator(params, set)
	_, _, err = v.ValidateTransaction(forged, int64(params.CoinbaseMaturity)+2)
	require.Error(t, err)
}

func TestValidateTransactionRejectsOverspend(t *testing.T) {
	params := chaincfg.RegressionNetParams
	alice := newTestWallet(t, params)
	bob := newTestWallet(t, params)

	set := NewUTXOSet()
	cb := buildCoinbase(t, alice, 5000000000)
	_, err := set.ApplyBlock([]*wire.MsgTx{cb}, byte(params.ForkID), 1)
	require.NoError(t, err)
	cbID, err := cb.TxHash(byte(params.ForkID))
	require.NoError(t, err)

	spend := buildSpend(t, byte(params.ForkID), alice, wire.OutPoint{Hash: cbID, Index: 0}, 5000000000, bob, 6000000000)

	v := NewValidator(params, set)
	_, _, err = v.ValidateTransaction(spend, int64(params.CoinbaseMaturity)+2)
	require.Error(t, err)
}

func TestValidateAndApplyBlockReorgAtomicity(t *testing.T) {
	params := chaincfg.RegressionNetParams
	alice := newTestWallet(t, params)
	bob := newTestWallet(t, params)

	set := NewUTXOSet()
	v := NewValidator(params, set)

	genesisCb := buildCoinbase(t, alice, 5000000000)
	_, err := set.ApplyBlock([]*wire.MsgTx{genesisCb}, byte(params.ForkID), 1)
	require.NoError(t, err)
	cbID, err := genesisCb.TxHash(byte(params.ForkID))
	require.NoError(t, err)

	height := int64(params.CoinbaseMaturity) + 2
	spend := buildSpend(t, byte(params.ForkID), alice, wire.OutPoint{Hash: cbID, Index: 0}, 5000000000, bob, 4000000000)
	subsidy := CalcBlockSubsidy(height, params)
	blockCb := buildCoinbase(t, bob, subsidy+1000000000) // pays out subsidy + the 1 BTPC fee
	block := &wire.MsgBlock{Transactions: []*wire.MsgTx{blockCb, spend}}
	root, err := BlockMerkleRoot(block.Transactions, byte(params.ForkID))
	require.NoError(t, err)
	block.Header.MerkleRoot = root
	block.Header.Bits = params.PowLimitBits
	found := MineHeader(&block.Header, mustTarget(t, params.PowLimitBits), make(chan struct{}))
	require.True(t, found)

	before := set.Len()
	undo, err := v.ValidateAndApplyBlock(block, height)
	require.NoError(t, err)
	require.NotEqual(t, before, set.Len())

	set.RollbackBlock(undo)
	require.Equal(t, before, set.Len())
	_, stillThere := set.FetchEntry(wire.OutPoint{Hash: cbID, Index: 0})
	require.True(t, stillThere)
}

func mustTarget(t *testing.T, bits uint32) chainhash.Hash {
	t.Helper()
	target, err := chaincfg.CompactToTarget(bits)
	require.NoError(t, err)
	return target
}

// buildAndApply mines and applies a single-coinbase block at height on
// top of v, returning its header for use as the next block's parent.
func buildAndApply(t *testing.T, v *Validator, params *chaincfg.Params, miner testWallet, height int64, timestamp, bits uint32) wire.BlockHeader {
	t.Helper()
	cb := buildCoinbase(t, miner, CalcBlockSubsidy(height, params))
	block := &wire.MsgBlock{Transactions: []*wire.MsgTx{cb}}
	root, err := BlockMerkleRoot(block.Transactions, byte(params.ForkID))
	require.NoError(t, err)
	block.Header.MerkleRoot = root
	block.Header.Bits = bits
	block.Header.Timestamp = timestamp
	found := MineHeader(&block.Header, mustTarget(t, bits), make(chan struct{}))
	require.True(t, found)

	_, err = v.ValidateAndApplyBlock(block, height)
	require.NoError(t, err)
	return block.Header
}

func TestValidateAndApplyBlockAcceptsSequentialChain(t *testing.T) {
	params := chaincfg.RegressionNetParams
	miner := newTestWallet(t, params)
	set := NewUTXOSet()
	v := NewValidator(params, set)

	genesis := params.GenesisBlock.Header
	buildAndApply(t, v, params, miner, 1, genesis.Timestamp+1, params.PowLimitBits)
	buildAndApply(t, v, params, miner, 2, genesis.Timestamp+2, params.PowLimitBits)
}

func TestCheckDifficultyAndTimestampRejectsWrongBits(t *testing.T) {
	params := chaincfg.RegressionNetParams
	set := NewUTXOSet()
	v := NewValidator(params, set)

	genesis := params.GenesisBlock.Header
	header := &wire.BlockHeader{
		Timestamp: genesis.Timestamp + 1,
		// Differs from the bits the retarget rule requires at a
		// non-retarget height (continuity with the parent's bits).
		Bits: params.PowLimitBits - 1,
	}

	err := v.checkDifficultyAndTimestamp(header, 1)
	var rerr RuleError
	require.ErrorAs(t, err, &rerr)
	require.Equal(t, ErrUnexpectedDifficulty, rerr.ErrorCode)
}

func TestCheckDifficultyAndTimestampRejectsSpacingViolationOnNonRegtest(t *testing.T) {
	params := chaincfg.TestNetParams
	set := NewUTXOSet()
	v := NewValidator(params, set)

	genesis := params.GenesisBlock.Header
	header := &wire.BlockHeader{
		Bits: params.PowLimitBits,
		// One second after genesis: violates the 60-second minimum
		// spacing on a network that, unlike regtest, does not waive it.
		Timestamp: genesis.Timestamp + 1,
	}

	err := v.checkDifficultyAndTimestamp(header, 1)
	var rerr RuleError
	require.ErrorAs(t, err, &rerr)
	require.Equal(t, ErrTimeTooOld, rerr.ErrorCode)
}

func TestCheckDifficultyAndTimestampAcceptsSpacingOnNonRegtest(t *testing.T) {
	params := chaincfg.TestNetParams
	set := NewUTXOSet()
	v := NewValidator(params, set)

	genesis := params.GenesisBlock.Header
	header := &wire.BlockHeader{
		Bits:      params.PowLimitBits,
		Timestamp: genesis.Timestamp + chaincfg.MinBlockSpacingSeconds,
	}

	require.NoError(t, v.checkDifficultyAndTimestamp(header, 1))
}

func TestValidateAndApplyBlockRegtestExemptFromSpacing(t *testing.T) {
	params := chaincfg.RegressionNetParams
	miner := newTestWallet(t, params)
	set := NewUTXOSet()
	v := NewValidator(params, set)

	genesis := params.GenesisBlock.Header
	// One second after genesis would fail the 60-second rule elsewhere,
	// but regtest only requires a non-decreasing timestamp.
	buildAndApply(t, v, params, miner, 1, genesis.Timestamp+1, params.PowLimitBits)
}
