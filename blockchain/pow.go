// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2025 The BTPC developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"math/big"

	"github.com/btpc-project/btpc/chaincfg"
	"github.com/btpc-project/btpc/chainhash"
	"github.com/btpc-project/btpc/wire"
)

// CheckProofOfWork verifies that header's hash meets the difficulty
// target its Bits field encodes, and that the claimed target is never
// looser than the network's proof-of-work limit.
func CheckProofOfWork(header *wire.BlockHeader, params *chaincfg.Params) error {
	target, err := chaincfg.CompactToTarget(header.Bits)
	if err != nil {
		return ruleError(ErrBadProofOfWork, err.Error())
	}

	limit, err := chaincfg.CompactToTarget(params.PowLimitBits)
	if err != nil {
		return ruleError(ErrBadProofOfWork, err.Error())
	}
	if limit.Less(target) {
		return ruleError(ErrUnexpectedDifficulty, "target is looser than the network's proof-of-work limit")
	}

	hash := header.BlockHash()
	if !hash.MeetsTarget(target) {
		return ruleError(ErrBadProofOfWork, "block hash does not meet its claimed difficulty target")
	}
	return nil
}

// CalcNextWorkRequired applies BTPC's Bitcoin-style retarget rule
// (spec.md §4.3): every BlocksPerRetarget blocks, the target is scaled
// by the ratio of the actual timespan of the prior window to
// TargetTimespanSeconds, clamped to within a factor of
// RetargetClampFactor in either direction, and never loosened past the
// network's PowLimitBits.
func CalcNextWorkRequired(params *chaincfg.Params, lastBits uint32, firstBlockTime, lastBlockTime uint32) (uint32, error) {
	if params.PoWNoRetargeting {
		return params.PowLimitBits, nil
	}

	actualTimespan := int64(lastBlockTime) - int64(firstBlockTime)
	minTimespan := int64(chaincfg.TargetTimespanSeconds / chaincfg.RetargetClampFactor)
	maxTimespan := int64(chaincfg.TargetTimespanSeconds * chaincfg.RetargetClampFactor)

	if actualTimespan < minTimespan {
		actualTimespan = minTimespan
	}
	if actualTimespan > maxTimespan {
		actualTimespan = maxTimespan
	}

	oldTarget, err := chaincfg.CompactToTarget(lastBits)
	if err != nil {
		return 0, err
	}

	newTargetBig := new(big.Int).SetBytes(oldTarget[:])
	newTargetBig.Mul(newTargetBig, big.NewInt(actualTimespan))
	newTargetBig.Div(newTargetBig, big.NewInt(chaincfg.TargetTimespanSeconds))

	limit, err := chaincfg.CompactToTarget(params.PowLimitBits)
	if err != nil {
		return 0, err
	}
	limitBig := new(big.Int).SetBytes(limit[:])
	if newTargetBig.Cmp(limitBig) > 0 {
		newTargetBig = limitBig
	}

	newTargetBytes := newTargetBig.Bytes()
	if len(newTargetBytes) > chainhash.HashSize {
		return 0, chaincfg.ErrDifficultyOverflow
	}
	var newTarget chainhash.Hash
	copy(newTarget[chainhash.HashSize-len(newTargetBytes):], newTargetBytes)

	return chaincfg.TargetToCompact(newTarget), nil
}

// MineHeader searches nonce space (and, on exhaustion, bumps the
// timestamp forward by one second) until header's hash meets target or
// cancel fires. It returns false if cancel fires before a solution is
// found. This loop backs both cmd/mine-genesis and the mining
// package's interruptible worker.
func MineHeader(header *wire.BlockHeader, target chainhash.Hash, cancel <-chan struct{}) bool {
	startTime := header.Timestamp
	for {
		for nonce := uint32(0); ; nonce++ {
			select {
			case <-cancel:
				return false
			default:
			}

			header.Nonce = nonce
			if header.BlockHash().MeetsTarget(target) {
				return true
			}
			if nonce == ^uint32(0) {
				break
			}
		}
		header.Timestamp++
		if header.Timestamp-startTime > maxGenesisSearchSeconds {
			return false
		}
	}
}

const maxGenesisSearchSeconds = 3600 * 24 * 365
