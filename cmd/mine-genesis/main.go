// Copyright (c) 2025 The BTPC developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Command mine-genesis searches for a nonce (and, if the search runs
// long enough, successive timestamps) that satisfies a network's
// declared proof-of-work target, then prints the resulting genesis
// block's canonical hex encoding — the build-time tool operators run
// once per network before its first launch (spec.md §6).
package main

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/btpc-project/btpc/blockchain"
	"github.com/btpc-project/btpc/chaincfg"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	initLogRotator(cfg.LogFile)

	forkID, bits, message, allocations, err := resolveNetwork(cfg)
	if err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}

	timestamp := cfg.Timestamp
	if timestamp == 0 {
		timestamp = uint32(time.Now().Unix())
	}

	log.Infof("mining genesis block for %s at bits=0x%08x", forkID, bits)

	block := chaincfg.BuildGenesisBlock(forkID, message, allocations, timestamp, bits, 0)

	target, err := chaincfg.CompactToTarget(bits)
	if err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}

	start := time.Now()
	solved := blockchain.MineHeader(&block.Header, target, nil)
	if !solved {
		log.Errorf("no solution found within the search budget")
		os.Exit(1)
	}
	log.Infof("solved in %s: nonce=%d timestamp=%d", time.Since(start), block.Header.Nonce, block.Header.Timestamp)

	var buf bytes.Buffer
	if err := block.Serialize(&buf, byte(forkID)); err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}

	hash := block.BlockHash()
	fmt.Printf("genesis hash:  %s\n", hash)
	fmt.Printf("nonce:         %d\n", block.Header.Nonce)
	fmt.Printf("timestamp:     %d\n", block.Header.Timestamp)
	fmt.Printf("serialized:    %s\n", hex.EncodeToString(buf.Bytes()))
}

func resolveNetwork(cfg *config) (chaincfg.ForkID, uint32, string, []chaincfg.GenesisAllocation, error) {
	var forkID chaincfg.ForkID
	var params *chaincfg.Params

	switch cfg.Network {
	case "mainnet":
		forkID, params = chaincfg.ForkIDMainnet, chaincfg.MainNetParams
	case "testnet":
		forkID, params = chaincfg.ForkIDTestnet, chaincfg.TestNetParams
	case "regtest":
		forkID, params = chaincfg.ForkIDRegtest, chaincfg.RegressionNetParams
	default:
		return 0, 0, "", nil, fmt.Errorf("unknown network %q", cfg.Network)
	}

	bits := params.PowLimitBits
	if cfg.Bits != "" {
		parsed, err := strconv.ParseUint(cfg.Bits, 0, 32)
		if err != nil {
			return 0, 0, "", nil, fmt.Errorf("invalid --bits value %q: %w", cfg.Bits, err)
		}
		bits = uint32(parsed)
	}

	message := cfg.Message
	if message == "" {
		message = params.GenesisMessage
	}

	return forkID, bits, message, params.GenesisAllocations, nil
}
