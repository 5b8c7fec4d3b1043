// Copyright (c) 2025 The BTPC developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Command btpc-check validates a single serialized block or
// transaction file against a named built-in network or a custom
// NetworkConfig YAML file, reporting the first rule it fails (spec.md
// §6's "optional validator CLI" surface above the consensus core).
package main

import (
	"fmt"
	"os"

	flags "github.com/jessevdk/go-flags"

	"github.com/btpc-project/btpc/blockchain"
	"github.com/btpc-project/btpc/chaincfg"
	"github.com/btpc-project/btpc/wire"
)

type options struct {
	Network    string `short:"n" long:"network" description:"mainnet, testnet, or regtest" default:"mainnet"`
	ConfigFile string `short:"c" long:"config" description:"path to a custom NetworkConfig YAML file, overriding --network"`
	Block      string `long:"block" description:"path to a serialized block file to check"`
	Tx         string `long:"tx" description:"path to a serialized transaction file to check"`
}

func main() {
	var opts options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	params, err := resolveParams(opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, "btpc-check:", err)
		os.Exit(1)
	}

	switch {
	case opts.Block != "":
		if err := checkBlockFile(opts.Block, params); err != nil {
			fmt.Fprintln(os.Stderr, "FAIL:", err)
			os.Exit(1)
		}
		fmt.Println("OK: block passes sanity checks")
	case opts.Tx != "":
		if err := checkTxFile(opts.Tx, params); err != nil {
			fmt.Fprintln(os.Stderr, "FAIL:", err)
			os.Exit(1)
		}
		fmt.Println("OK: transaction passes sanity checks")
	default:
		fmt.Fprintln(os.Stderr, "btpc-check: one of --block or --tx is required")
		os.Exit(1)
	}
}

func resolveParams(opts options) (*chaincfg.Params, error) {
	if opts.ConfigFile != "" {
		cfgFile, err := chaincfg.LoadNetworkConfigFromFile(opts.ConfigFile)
		if err != nil {
			return nil, fmt.Errorf("loading network config: %w", err)
		}
		return cfgFile.Params()
	}

	switch opts.Network {
	case "mainnet":
		return chaincfg.MainNetParams, nil
	case "testnet":
		return chaincfg.TestNetParams, nil
	case "regtest":
		return chaincfg.RegressionNetParams, nil
	default:
		return nil, fmt.Errorf("unknown network %q", opts.Network)
	}
}

func checkBlockFile(path string, params *chaincfg.Params) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	block := new(wire.MsgBlock)
	if err := block.Deserialize(f); err != nil {
		return fmt.Errorf("decoding block: %w", err)
	}

	return blockchain.CheckBlockSanity(block, params)
}

func checkTxFile(path string, params *chaincfg.Params) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	tx := new(wire.MsgTx)
	forkID, err := tx.Deserialize(f)
	if err != nil {
		return fmt.Errorf("decoding transaction: %w", err)
	}
	if chaincfg.ForkID(forkID) != params.ForkID {
		return fmt.Errorf("transaction's fork_id (%d) does not match network %q's (%d)", forkID, params.Name, params.ForkID)
	}

	return blockchain.CheckTransactionSanity(tx, params.ForkID)
}
