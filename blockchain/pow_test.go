// Copyright (c) 2025 The BTPC developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"testing"

	"github.com/btpc-project/btpc/chaincfg"
	"github.com/btpc-project/btpc/wire"
	"github.com/stretchr/testify/require"
)

func TestCheckProofOfWorkAcceptsRegtestGenesis(t *testing.T) {
	header := chaincfg.RegressionNetParams.GenesisBlock.Header
	require.NoError(t, CheckProofOfWork(&header, chaincfg.RegressionNetParams))
}

func TestCheckProofOfWorkRejectsLooserTarget(t *testing.T) {
	header := chaincfg.RegressionNetParams.GenesisBlock.Header
	header.Bits = 0x7f7fffff // a far looser (easier) compact value than the network limit
	require.Error(t, CheckProofOfWork(&header, chaincfg.RegressionNetParams))
}

func TestCheckProofOfWorkRejectsUnmetTarget(t *testing.T) {
	// Mainnet's target has many leading zero bytes; an arbitrary,
	// unmined header is overwhelmingly unlikely to meet it.
	header := &wire.BlockHeader{Bits: chaincfg.MainNetParams.PowLimitBits, Nonce: 1}
	require.Error(t, CheckProofOfWork(header, chaincfg.MainNetParams))
}

func TestCalcNextWorkRequiredNoRetargetingOnRegtest(t *testing.T) {
	bits, err := CalcNextWorkRequired(chaincfg.RegressionNetParams, 0x1d00ffff, 0, 1209600)
	require.NoError(t, err)
	require.Equal(t, chaincfg.RegressionNetParams.PowLimitBits, bits)
}

func TestCalcNextWorkRequiredStableTimespanUnchanged(t *testing.T) {
	params := chaincfg.MainNetParams
	bits, err := CalcNextWorkRequired(params, params.PowLimitBits, 0, chaincfg.TargetTimespanSeconds)
	require.NoError(t, err)
	require.Equal(t, params.PowLimitBits, bits)
}

func TestCalcNextWorkRequiredClampsExtremeTimespan(t *testing.T) {
	params := chaincfg.MainNetParams
	// An actual timespan far shorter than target would, unclamped,
	// demand an enormously harder target; the clamp bounds the swing
	// to a factor of RetargetClampFactor.
	bits, err := CalcNextWorkRequired(params, params.PowLimitBits, 0, 1)
	require.NoError(t, err)

	target, err := chaincfg.CompactToTarget(bits)
	require.NoError(t, err)
	limit, err := chaincfg.CompactToTarget(params.PowLimitBits)
	require.NoError(t, err)
	require.True(t, target.Less(limit) || target == limit)
}

func TestCalcNextWorkRequiredNeverLoosenPastLimit(t *testing.T) {
	params := chaincfg.MainNetParams
	bits, err := CalcNextWorkRequired(params, params.PowLimitBits, 0, chaincfg.TargetTimespanSeconds*chaincfg.RetargetClampFactor*10)
	require.NoError(t, err)
	require.Equal(t, params.PowLimitBits, bits)
}
