// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2025 The BTPC developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chaincfg defines the per-network parameters BTPC's consensus
// core consumes — it never reads global state, only a *Params value
// passed in by the caller (node, wallet, or test harness).
package chaincfg

import (
	"errors"

	"github.com/btpc-project/btpc/chainhash"
	"github.com/btpc-project/btpc/wire"
)

// ForkID discriminates mainnet/testnet/regtest and is committed to by
// every transaction's canonical serialization and therefore by every
// signature, preventing cross-network replay (spec.md §3).
type ForkID uint8

// The three networks BTPC defines. There is no mechanism for third
// parties to register additional networks: fork_id is a single byte
// enumerating exactly these three, unlike Bitcoin's open-ended
// wire.BitcoinNet magic registry.
const (
	ForkIDMainnet ForkID = 0
	ForkIDTestnet ForkID = 1
	ForkIDRegtest ForkID = 2
)

func (f ForkID) String() string {
	switch f {
	case ForkIDMainnet:
		return "mainnet"
	case ForkIDTestnet:
		return "testnet"
	case ForkIDRegtest:
		return "regtest"
	default:
		return "unknown"
	}
}

// Retarget and spacing constants shared by every network (the Bitcoin
// convention spec.md §4.3 mandates): a 2016-block window targeting two
// weeks of 10-minute blocks.
const (
	BlocksPerRetarget      = 2016
	TargetSpacingSeconds   = 600
	TargetTimespanSeconds  = BlocksPerRetarget * TargetSpacingSeconds
	RetargetClampFactor    = 4
	MedianTimeBlocks       = 11
	MinBlockSpacingSeconds = 60
	MaxFutureBlockSeconds  = 2 * 60 * 60
)

// Params defines a BTPC network by its consensus parameters. The core
// never reads a registry or global state: callers hold and pass a
// *Params value explicitly (spec.md §6).
type Params struct {
	// Name is a human-readable network identifier.
	Name string

	// ForkID is the single byte committed to by every transaction's
	// canonical serialization on this network.
	ForkID ForkID

	// DefaultP2PPort and DefaultRPCPort are informational only; the
	// consensus core never opens a socket.
	DefaultP2PPort string
	DefaultRPCPort string

	// GenesisBlock is the network's hard-coded first block.
	GenesisBlock *wire.MsgBlock

	// GenesisHash is cached for fast comparison against candidate
	// chains.
	GenesisHash chainhash.Hash

	// PowLimitBits is the loosest (easiest) difficulty allowed on this
	// network, in compact form. Mainnet and testnet share
	// 0x2e00ffff; regtest uses the intentionally trivial 0x407fffff
	// (see difficulty.go for the exponent placement on 64-byte targets).
	PowLimitBits uint32

	// PoWNoRetargeting disables the 2016-block retarget entirely
	// (regtest only): bits must always equal PowLimitBits.
	PoWNoRetargeting bool

	// CoinbaseMaturity is the number of confirmations a coinbase
	// output needs before it is spendable.
	CoinbaseMaturity int32

	// Reward schedule parameters (spec.md §4.5), in base units (1
	// BTPC = 1e8 units).
	InitialReward uint64
	TailEmission  uint64
	DecayHeight   int64

	// MaxMoney bounds any single output and the sum of a
	// transaction's outputs (spec.md §3).
	MaxMoney uint64

	// PubKeyHashAddrID is the version byte prefixed to a P2PKH
	// address's Base58Check payload.
	PubKeyHashAddrID byte

	// MinRelayTxFeePerKB is the mempool's minimum fee rate, in base
	// units per 1000 serialized bytes.
	MinRelayTxFeePerKB int64

	// GenesisMessage is the arbitrary coinbase message text mined into
	// the genesis block's coinbase script_sig (spec.md §9: the
	// coinbase message has no fixed schema).
	GenesisMessage string

	// GenesisAllocations lists the (address-hash, amount) pairs paid
	// by the genesis coinbase, e.g. a network's developer fund
	// (spec.md §4.5: "genesis coinbase outputs are developer fund per
	// network config").
	GenesisAllocations []GenesisAllocation
}

// GenesisAllocation is a single genesis coinbase output.
type GenesisAllocation struct {
	PubKeyHash [20]byte
	Amount     uint64
}

// ErrUnknownForkID is returned when decoding a transaction or looking up
// parameters for a fork_id byte that does not correspond to any of the
// three defined networks.
var ErrUnknownForkID = errors.New("chaincfg: unknown fork_id")

// ByForkID returns the registered Params for the given fork_id.
func ByForkID(id ForkID) (*Params, error) {
	switch id {
	case ForkIDMainnet:
		return MainNetParams, nil
	case ForkIDTestnet:
		return TestNetParams, nil
	case ForkIDRegtest:
		return RegressionNetParams, nil
	default:
		return nil, ErrUnknownForkID
	}
}

// Base-unit constants: one BTPC is 1e8 base units, matching Bitcoin's
// satoshi scale.
const (
	unit         = 1e8
	initialBlock = 50 * unit
	tailBlock    = unit / 2 // 0.5 BTPC tail emission, per spec.md §4.5
)

// MainNetParams defines the network parameters for the main BTPC
// network.
var MainNetParams = &Params{
	Name:           "mainnet",
	ForkID:         ForkIDMainnet,
	DefaultP2PPort: "8433",
	DefaultRPCPort: "8432",

	GenesisBlock: mainNetGenesisBlock,
	GenesisHash:  mainNetGenesisBlock.BlockHash(),

	// 0x2e00ffff: see the CompactToTarget commentary in difficulty.go
	// for why this exponent is chosen relative to BTPC's 64-byte
	// (not Bitcoin's 32-byte) target width.
	PowLimitBits:     0x2e00ffff,
	PoWNoRetargeting: false,
	CoinbaseMaturity: 100,

	InitialReward: initialBlock,
	TailEmission:  tailBlock,
	DecayHeight:   4 * 365 * 24 * 6, // ~4 years of 10-minute blocks

	MaxMoney: 21000000 * unit,

	PubKeyHashAddrID:   0x00,
	MinRelayTxFeePerKB: 1000,

	GenesisMessage:     "BTPC genesis — a post-quantum proof-of-work ledger",
	GenesisAllocations: mainNetGenesisAllocations,
}

// TestNetParams defines the network parameters for the BTPC test
// network.
var TestNetParams = &Params{
	Name:           "testnet",
	ForkID:         ForkIDTestnet,
	DefaultP2PPort: "18433",
	DefaultRPCPort: "18432",

	GenesisBlock: testNetGenesisBlock,
	GenesisHash:  testNetGenesisBlock.BlockHash(),

	PowLimitBits:     0x2e00ffff,
	PoWNoRetargeting: false,
	CoinbaseMaturity: 100,

	InitialReward: initialBlock,
	TailEmission:  tailBlock,
	DecayHeight:   4 * 365 * 24 * 6,

	MaxMoney: 21000000 * unit,

	PubKeyHashAddrID:   0x6f,
	MinRelayTxFeePerKB: 1000,

	GenesisMessage: "BTPC testnet genesis",
}

// RegressionNetParams defines the network parameters for the
// regression test network, used by the test suite and cmd/btpc-check.
// Its PowLimitBits decodes to a target with roughly half its top byte
// set (see difficulty.go), so an arbitrary nonce meets it on the first
// or second try — regtest mining must never require an actual search.
var RegressionNetParams = &Params{
	Name:           "regtest",
	ForkID:         ForkIDRegtest,
	DefaultP2PPort: "18444",
	DefaultRPCPort: "18443",

	GenesisBlock: regressionNetGenesisBlock,
	GenesisHash:  regressionNetGenesisBlock.BlockHash(),

	PowLimitBits:     0x407fffff,
	PoWNoRetargeting: true,
	CoinbaseMaturity: 100,

	InitialReward: initialBlock,
	TailEmission:  tailBlock,
	DecayHeight:   150,

	MaxMoney: 21000000 * unit,

	PubKeyHashAddrID:   0x6f,
	MinRelayTxFeePerKB: 1000,

	GenesisMessage: "BTPC regtest genesis",
}
