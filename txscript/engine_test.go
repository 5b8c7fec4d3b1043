// Copyright (c) 2025 The BTPC developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"testing"

	"github.com/btpc-project/btpc/address"
	"github.com/btpc-project/btpc/chaincfg"
	"github.com/btpc-project/btpc/chainhash"
	"github.com/btpc-project/btpc/mldsa"
	"github.com/stretchr/testify/require"
)

func buildSpendableOutput(t *testing.T) (pkScript, sigScript []byte, hash chainhash.Hash) {
	t.Helper()
	pub, priv, err := mldsa.GenerateKey()
	require.NoError(t, err)

	addr := address.NewAddressFromPublicKey(pub, chaincfg.MainNetParams)
	pkScript = PayToAddrScript(addr)

	hash = chainhash.HashH([]byte("signing hash fixture"))
	sig := mldsa.Sign(priv, hash[:])
	sigScript = SignatureScript(sig, pub.Bytes())
	return pkScript, sigScript, hash
}

func TestEngineAcceptsValidSpend(t *testing.T) {
	pkScript, sigScript, hash := buildSpendableOutput(t)

	engine := NewEngine(FixedSigChecker(hash))
	require.NoError(t, engine.Execute(sigScript, pkScript))
}

func TestEngineRejectsTamperedSignature(t *testing.T) {
	pkScript, sigScript, hash := buildSpendableOutput(t)
	sigScript[3] ^= 0xff // flip the first byte of the pushed signature (after OP_PUSHDATA2 and its 2-byte length)

	engine := NewEngine(FixedSigChecker(hash))
	require.Error(t, engine.Execute(sigScript, pkScript))
}

func TestEngineRejectsWrongPubKeyHash(t *testing.T) {
	_, sigScript, hash := buildSpendableOutput(t)

	otherPub, _, err := mldsa.GenerateKey()
	require.NoError(t, err)
	otherAddr := address.NewAddressFromPublicKey(otherPub, chaincfg.MainNetParams)
	pkScript := PayToAddrScript(otherAddr)

	engine := NewEngine(FixedSigChecker(hash))
	require.Error(t, engine.Execute(sigScript, pkScript))
}

func TestEngineRejectsNonPushOnlySigScript(t *testing.T) {
	pkScript, _, hash := buildSpendableOutput(t)
	sigScript := []byte{OP_DUP}

	engine := NewEngine(FixedSigChecker(hash))
	require.ErrorIs(t, engine.Execute(sigScript, pkScript), ErrScriptNotPushOnly)
}

func TestEngineDeterministic(t *testing.T) {
	pkScript, sigScript, hash := buildSpendableOutput(t)

	for i := 0; i < 5; i++ {
		engine := NewEngine(FixedSigChecker(hash))
		require.NoError(t, engine.Execute(sigScript, pkScript))
	}
}

func TestPayToAddrScriptRoundTrip(t *testing.T) {
	pub, _, err := mldsa.GenerateKey()
	require.NoError(t, err)
	addr := address.NewAddressFromPublicKey(pub, chaincfg.MainNetParams)

	script := PayToAddrScript(addr)
	require.True(t, IsPayToPubKeyHash(script))

	hash, ok := ExtractPubKeyHash(script)
	require.True(t, ok)
	require.Equal(t, addr.Hash160(), hash)
}
