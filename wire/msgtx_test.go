// Copyright (c) 2025 The BTPC developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"testing"

	"github.com/btpc-project/btpc/chainhash"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func sampleTx() *MsgTx {
	tx := NewMsgTx(TxVersion)
	var prevHash chainhash.Hash
	prevHash[0] = 0xaa
	tx.AddTxIn(NewTxIn(NewOutPoint(&prevHash, 0), []byte{0x01, 0x02, 0x03}))
	tx.AddTxOut(NewTxOut(5000000000, []byte{0x76, 0xa9}))
	return tx
}

// TestSerializeRoundTrip checks that Deserialize(Serialize(tx)) == tx
// for the broadcast encoding, per spec.md §8.
func TestSerializeRoundTrip(t *testing.T) {
	tx := sampleTx()
	b, err := tx.Bytes(ModeBroadcast, byte(0))
	require.NoError(t, err)

	got := new(MsgTx)
	forkID, err := got.Deserialize(bytes.NewReader(b))
	require.NoError(t, err)
	require.Equal(t, byte(0), forkID)
	require.Equal(t, tx.Version, got.Version)
	require.Len(t, got.TxIn, 1)
	require.Len(t, got.TxOut, 1)
	require.Equal(t, tx.TxIn[0].SignatureScript, got.TxIn[0].SignatureScript)
	require.Equal(t, tx.TxOut[0].Value, got.TxOut[0].Value)
}

// TestSigningHashOmitsSignatureScript is the mandatory byte-for-byte
// comparison between the signing and broadcast encodings: they must be
// identical except for the signature scripts, which the signing form
// always blanks.
func TestSigningHashOmitsSignatureScript(t *testing.T) {
	withScript := sampleTx()

	withoutScript := withScript.Copy()
	withoutScript.TxIn[0].SignatureScript = nil

	signingBytes, err := withScript.Bytes(ModeSigning, byte(0))
	require.NoError(t, err)

	broadcastOfEmpty, err := withoutScript.Bytes(ModeBroadcast, byte(0))
	require.NoError(t, err)

	require.Equal(t, broadcastOfEmpty, signingBytes,
		"signing-mode serialization must equal broadcast serialization of the same tx with script_sig emptied")
}

// TestForkIDChangesHash checks that the same transaction produces a
// different txid and signing hash on each network, preventing replay.
func TestForkIDChangesHash(t *testing.T) {
	tx := sampleTx()

	mainHash, err := tx.TxHash(0)
	require.NoError(t, err)
	testHash, err := tx.TxHash(1)
	require.NoError(t, err)
	require.NotEqual(t, mainHash, testHash)

	mainSig, err := tx.SigningHash(0)
	require.NoError(t, err)
	testSig, err := tx.SigningHash(1)
	require.NoError(t, err)
	require.NotEqual(t, mainSig, testSig)
}

func TestCoinBaseDetection(t *testing.T) {
	tx := NewMsgTx(TxVersion)
	tx.AddTxIn(NewTxIn(NewOutPoint(&chainhash.Hash{}, MaxPrevOutIndex), []byte{0x00}))
	tx.AddTxOut(NewTxOut(100, nil))
	require.True(t, tx.IsCoinBase())

	tx2 := sampleTx()
	require.False(t, tx2.IsCoinBase())
}

// TestVarIntRoundTrip is a property test over WriteVarInt/ReadVarInt.
func TestVarIntRoundTrip(t *testing.T) {
	rapid.Check(t, func(tt *rapid.T) {
		val := rapid.Uint64().Draw(tt, "val")

		var buf bytes.Buffer
		require.NoError(tt, WriteVarInt(&buf, val))
		require.Equal(tt, VarIntSerializeSize(val), buf.Len())

		got, err := ReadVarInt(&buf)
		require.NoError(tt, err)
		require.Equal(tt, val, got)
	})
}

func TestReadVarIntRejectsNonCanonical(t *testing.T) {
	// 0xfd prefix followed by a value that fits in a single byte.
	buf := bytes.NewReader([]byte{0xfd, 0x0a, 0x00})
	_, err := ReadVarInt(buf)
	require.Error(t, err)
}
