// Copyright (c) 2025 The BTPC developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	flags "github.com/jessevdk/go-flags"
)

type config struct {
	Network   string `short:"n" long:"network" description:"network to mine a genesis block for: mainnet, testnet, or regtest" default:"regtest"`
	Message   string `short:"m" long:"message" description:"coinbase message text mined into the genesis block"`
	Timestamp uint32 `short:"t" long:"timestamp" description:"genesis block timestamp, as a Unix time"`
	Bits      string `short:"b" long:"bits" description:"compact difficulty target (hex), e.g. 0x2e00ffff"`
	LogFile   string `long:"logfile" description:"log file path" default:"mine-genesis.log"`
}

func loadConfig() (*config, error) {
	cfg := config{}
	parser := flags.NewParser(&cfg, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		return nil, fmt.Errorf("mine-genesis: %w", err)
	}
	return &cfg, nil
}
