// Copyright (c) 2025 The BTPC developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"math/big"

	"github.com/btpc-project/btpc/chaincfg"
)

// CalcBlockSubsidy computes the block reward at height under params'
// linear emission schedule (spec.md §4.5): the reward decreases by
// equal steps from InitialReward (the line's value at height 0) to
// TailEmission at DecayHeight, then holds at TailEmission forever; the
// genesis block itself (height 0) gets no subsidy — unlike Bitcoin's
// geometric halving, BTPC's issuance curve is a straight line.
//
// The interpolation is done in math/big rather than native uint64
// arithmetic. height * (InitialReward-TailEmission) is comfortably
// within uint64 range for any realistic chain height, but consensus
// code must never depend on that remaining true as parameters change,
// so the multiply-then-divide step here can never silently wrap.
func CalcBlockSubsidy(height int64, params *chaincfg.Params) uint64 {
	if height == 0 {
		return 0
	}
	if height < 0 {
		height = 0
	}
	if height >= params.DecayHeight || params.DecayHeight <= 0 {
		return params.TailEmission
	}
	if params.InitialReward <= params.TailEmission {
		return params.TailEmission
	}

	delta := new(big.Int).SetUint64(params.InitialReward - params.TailEmission)
	h := big.NewInt(height)
	decayHeight := big.NewInt(params.DecayHeight)

	// reward = InitialReward - floor(delta * height / DecayHeight)
	numerator := new(big.Int).Mul(delta, h)
	step := new(big.Int).Div(numerator, decayHeight)

	reward := new(big.Int).SetUint64(params.InitialReward)
	reward.Sub(reward, step)

	if !reward.IsUint64() {
		// Cannot happen given InitialReward > TailEmission and
		// height < DecayHeight, but never return a bogus value.
		return params.TailEmission
	}
	return reward.Uint64()
}
