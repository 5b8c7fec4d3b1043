// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2025 The BTPC developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"github.com/btpc-project/btpc/chainhash"
	"github.com/btpc-project/btpc/wire"
)

// genesisCoinbaseScriptSig builds the coinbase input's script_sig for a
// genesis block. The coinbase message has no fixed schema (spec.md §9);
// here it is simply the network's message text, raw.
func genesisCoinbaseScriptSig(message string) []byte {
	return []byte(message)
}

// newGenesisCoinbaseTx builds the single coinbase transaction a
// genesis block contains, paying each of the network's configured
// genesis allocations.
func newGenesisCoinbaseTx(message string, allocations []GenesisAllocation) *wire.MsgTx {
	tx := wire.NewMsgTx(wire.TxVersion)
	tx.AddTxIn(wire.NewTxIn(
		wire.NewOutPoint(&chainhash.Hash{}, wire.MaxPrevOutIndex),
		genesisCoinbaseScriptSig(message),
	))

	for _, alloc := range allocations {
		script := p2pkhScript(alloc.PubKeyHash)
		tx.AddTxOut(wire.NewTxOut(alloc.Amount, script))
	}

	return tx
}

// p2pkhScript builds a pay-to-pubkey-hash script_pubkey directly,
// avoiding an import on the txscript package (which in turn would
// create an import cycle back through chaincfg for network
// parameters). txscript.PayToAddrScript builds the identical byte
// layout for ordinary use after genesis.
func p2pkhScript(hash [20]byte) []byte {
	// OP_DUP OP_HASH OP_PUSHDATA20 <hash> OP_EQUALVERIFY OP_CHECKMLDSASIG
	const (
		opDup           = 0x76
		opHash          = 0xa9
		opData20        = 0x14
		opEqualVerify   = 0x88
		opCheckMLDSASig = 0xae
	)
	script := make([]byte, 0, 25)
	script = append(script, opDup, opHash, opData20)
	script = append(script, hash[:]...)
	script = append(script, opEqualVerify, opCheckMLDSASig)
	return script
}

// newGenesisBlock assembles a single-transaction genesis block. Its
// merkle root is the coinbase transaction's own id, since a one-leaf
// tree needs no pairing.
func newGenesisBlock(forkID ForkID, message string, allocations []GenesisAllocation, timestamp, bits, nonce uint32, version int32) *wire.MsgBlock {
	coinbase := newGenesisCoinbaseTx(message, allocations)
	txid, err := coinbase.TxHash(byte(forkID))
	if err != nil {
		panic(err)
	}

	block := &wire.MsgBlock{
		Header: wire.BlockHeader{
			Version:    version,
			PrevBlock:  chainhash.Hash{},
			MerkleRoot: txid,
			Timestamp:  timestamp,
			Bits:       bits,
			Nonce:      nonce,
		},
	}
	block.AddTransaction(coinbase)
	return block
}

// BuildGenesisBlock is the exported form of newGenesisBlock, for use by
// cmd/mine-genesis when assembling a candidate genesis block to search
// for a valid nonce against.
func BuildGenesisBlock(forkID ForkID, message string, allocations []GenesisAllocation, timestamp, bits, nonce uint32) *wire.MsgBlock {
	return newGenesisBlock(forkID, message, allocations, timestamp, bits, nonce, 1)
}

// The nonce/timestamp pairs below are placeholders pending a real run
// of cmd/mine-genesis against each network's PowLimitBits; only the
// regtest genesis, whose target admits about half of all hashes,
// satisfies its own proof-of-work at nonce 0. Mainnet and testnet operators
// must regenerate these two fields (and nothing else) before launch.

var mainNetGenesisAllocations = []GenesisAllocation{
	// Placeholder developer-fund allocation; replaced with the real
	// launch address set prior to mining the real mainnet genesis.
	{PubKeyHash: [20]byte{}, Amount: 0},
}

var mainNetGenesisBlock = newGenesisBlock(
	ForkIDMainnet,
	"BTPC genesis — a post-quantum proof-of-work ledger",
	mainNetGenesisAllocations,
	1735689600, // placeholder timestamp
	0x2e00ffff,
	0,
	1,
)

var testNetGenesisBlock = newGenesisBlock(
	ForkIDTestnet,
	"BTPC testnet genesis",
	nil,
	1735689600,
	0x2e00ffff,
	0,
	1,
)

var regressionNetGenesisBlock = newGenesisBlock(
	ForkIDRegtest,
	"BTPC regtest genesis",
	nil,
	1296688602,
	0x407fffff,
	0,
	1,
)
