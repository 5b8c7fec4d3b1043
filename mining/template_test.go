// Copyright (c) 2025 The BTPC developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mining

import (
	"testing"

	"github.com/btpc-project/btpc/address"
	"github.com/btpc-project/btpc/blockchain"
	"github.com/btpc-project/btpc/chaincfg"
	"github.com/btpc-project/btpc/chainhash"
	"github.com/btpc-project/btpc/mempool"
	"github.com/btpc-project/btpc/mldsa"
	"github.com/btpc-project/btpc/txscript"
	"github.com/btpc-project/btpc/wire"
	"github.com/stretchr/testify/require"
)

func newMiningWallet(t *testing.T, params *chaincfg.Params) (*mldsa.PublicKey, *mldsa.PrivateKey, *address.Address) {
	t.Helper()
	pub, priv, err := mldsa.GenerateKey()
	require.NoError(t, err)
	return pub, priv, address.NewAddressFromPublicKey(pub, params)
}

// TestBlockTemplateValid builds a pool with one spend, produces a
// template, solves it, and checks the result passes full block
// sanity — spec.md §8's "block template validity" property.
func TestBlockTemplateValid(t *testing.T) {
	params := chaincfg.RegressionNetParams
	set := blockchain.NewUTXOSet()

	alicePub, alicePriv, aliceAddr := newMiningWallet(t, params)
	_, _, bobAddr := newMiningWallet(t, params)

	cb := wire.NewMsgTx(wire.TxVersion)
	cb.AddTxIn(wire.NewTxIn(wire.NewOutPoint(&chainhash.Hash{}, wire.MaxPrevOutIndex), []byte("seed")))
	cb.AddTxOut(wire.NewTxOut(50_00000000, txscript.PayToAddrScript(aliceAddr)))
	_, err := set.ApplyBlock([]*wire.MsgTx{cb}, byte(params.ForkID), 1)
	require.NoError(t, err)
	cbID, err := cb.TxHash(byte(params.ForkID))
	require.NoError(t, err)

	pool := mempool.New(params, set, mempool.DefaultPolicy())
	spendTx := wire.NewMsgTx(wire.TxVersion)
	spendTx.AddTxIn(wire.NewTxIn(wire.NewOutPoint(&cbID, 0), nil))
	spendTx.AddTxOut(wire.NewTxOut(40_00000000, txscript.PayToAddrScript(bobAddr)))
	sigHash, err := spendTx.SigningHash(byte(params.ForkID))
	require.NoError(t, err)
	sig := mldsa.Sign(alicePriv, sigHash[:])
	spendTx.TxIn[0].SignatureScript = txscript.SignatureScript(sig, alicePub.Bytes())

	height := int64(params.CoinbaseMaturity) + 10
	_, err = pool.ProcessTransaction(spendTx, height)
	require.NoError(t, err)

	minerAddr := bobAddr
	template := NewBlockTemplate(params, pool, height, params.GenesisHash, params.PowLimitBits, txscript.PayToAddrScript(minerAddr))
	require.Len(t, template.Block.Transactions, 2)
	require.Equal(t, uint64(10_00000000), template.Fees)

	require.NoError(t, Solve(template, params, make(chan struct{})))

	v := blockchain.NewValidator(params, set)
	_, err = v.ValidateAndApplyBlock(template.Block, height)
	require.NoError(t, err)
}

func TestSolveRespectsCancellation(t *testing.T) {
	params := chaincfg.MainNetParams
	template := &BlockTemplate{
		Block: &wire.MsgBlock{
			Header: wire.BlockHeader{Bits: params.PowLimitBits},
		},
	}
	stop := make(chan struct{})
	close(stop)
	err := Solve(template, params, stop)
	require.ErrorIs(t, err, ErrCanceled)
}
