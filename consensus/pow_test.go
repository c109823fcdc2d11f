// Copyright 2025 The Kreda Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package consensus

import (
	"encoding/binary"
	"math/big"
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/stretchr/testify/require"
)

func hashAtHeight(height int64) chainhash.Hash {
	var hash chainhash.Hash
	binary.LittleEndian.PutUint64(hash[:8], uint64(height)+1)
	return hash
}

// buildChain links n nodes (heights 0..n-1) and returns the tip.
func buildChain(n int64, timeAt func(int64) int64, bitsAt func(int64) uint32) *BlockIndex {
	var tip *BlockIndex
	for h := int64(0); h < n; h++ {
		tip = NewBlockIndex(tip, hashAtHeight(h), timeAt(h), bitsAt(h))
	}
	return tip
}

func constBits(bits uint32) func(int64) uint32 {
	return func(int64) uint32 { return bits }
}

// bigToHash writes a target magnitude into hash byte order.
func bigToHash(n *big.Int) chainhash.Hash {
	var be [32]byte
	n.FillBytes(be[:])

	var hash chainhash.Hash
	for i := range be {
		hash[i] = be[len(be)-1-i]
	}
	return hash
}

func TestBlockIndexAncestor(t *testing.T) {
	const n = 4096
	tip := buildChain(n, func(h int64) int64 { return h * 600 }, constBits(0x1d00ffff))

	// Spot-check against parent walking.
	for _, height := range []int64{0, 1, 2, 3, 500, 1023, 1024, 4000, 4094, 4095} {
		want := tip
		for want.Height != height {
			want = want.Parent()
		}
		require.Same(t, want, tip.Ancestor(height), "height %d", height)
	}

	require.Nil(t, tip.Ancestor(-1))
	require.Nil(t, tip.Ancestor(n))
	require.Same(t, tip, tip.Ancestor(tip.Height))
}

func TestNextWorkRequiredKeepsBitsBeforeActivation(t *testing.T) {
	params := MainNetParams

	tip := buildChain(100, func(h int64) int64 { return h * 600 }, constBits(0x1c7fffff))
	got := NextWorkRequired(tip, tip.Time+600, &params)
	require.Equal(t, uint32(0x1c7fffff), got)
}

func TestNextWorkRequiredBoundaryUnchangedOnPerfectTimespan(t *testing.T) {
	params := MainNetParams
	interval := params.DifficultyAdjustmentInterval()
	require.Equal(t, int64(2016), interval)

	base := int64(1000000)
	timeAt := func(h int64) int64 {
		if h == 0 {
			// Window start exactly one target timespan before the window end.
			return base + (interval-1)*600 - params.PowTargetTimespan
		}
		return base + h*600
	}
	tip := buildChain(interval, timeAt, constBits(0x1c7fffff))
	require.Equal(t, interval-1, tip.Height)

	got := NextWorkRequired(tip, tip.Time+600, &params)
	require.Equal(t, uint32(0x1c7fffff), got)
}

func TestCalculateNextWorkRequiredClamping(t *testing.T) {
	params := MainNetParams
	prev := NewBlockIndex(nil, hashAtHeight(0), 1000000, 0x1c100000)

	// Instant window: clamped to a quarter timespan, difficulty quadruples.
	got := CalculateNextWorkRequired(prev, prev.Time, &params)
	require.Equal(t, uint32(0x1c040000), got)

	// Ten times the target timespan: clamped to four timespans.
	got = CalculateNextWorkRequired(prev, prev.Time-10*params.PowTargetTimespan, &params)
	require.Equal(t, uint32(0x1c400000), got)

	// A slow window near the ceiling clamps to the ceiling.
	prev = NewBlockIndex(nil, hashAtHeight(0), 1000000, 0x1d00ffff)
	got = CalculateNextWorkRequired(prev, prev.Time-10*params.PowTargetTimespan, &params)
	require.Equal(t, BigToCompact(params.PowLimit), got)
}

func TestCalculateNextWorkRequiredNoRetargeting(t *testing.T) {
	params := RegressionNetParams
	prev := NewBlockIndex(nil, hashAtHeight(0), 1000000, 0x1c123456)

	got := CalculateNextWorkRequired(prev, prev.Time-10*params.PowTargetTimespan, &params)
	require.Equal(t, uint32(0x1c123456), got)
}

func TestNextWorkRequiredMinDifficultyEscape(t *testing.T) {
	params := TestNetParams
	limitBits := BigToCompact(params.PowLimit)

	// Recent blocks mined under the escape rule, an honest one behind them.
	bitsAt := func(h int64) uint32 {
		if h >= 100 {
			return limitBits
		}
		return 0x1c123456
	}
	tip := buildChain(106, func(h int64) int64 { return h * 600 }, bitsAt)

	// A late enough candidate gets the minimum difficulty outright.
	got := NextWorkRequired(tip, tip.Time+2*params.PowTargetSpacing+1, &params)
	require.Equal(t, limitBits, got)

	// Otherwise the difficulty of the last non-escape block applies.
	got = NextWorkRequired(tip, tip.Time+params.PowTargetSpacing, &params)
	require.Equal(t, uint32(0x1c123456), got)
}

func TestVarianceAdjustmentBelowRangeReturnsCeiling(t *testing.T) {
	params := MainNetParams
	params.PowRTHeight = 0

	tip := buildChain(30, func(h int64) int64 { return h * 600 }, constBits(0x1c100000))
	require.Less(t, tip.Height, params.DifficultyAdjustmentRange)

	got := NextWorkRequired(tip, tip.Time+600, &params)
	require.Equal(t, BigToCompact(params.PowLimit), got)
}

func TestVarianceAdjustmentPerfectSpacing(t *testing.T) {
	params := MainNetParams
	params.PowRTHeight = 0
	params.DifficultyAdjustmentRange = 24

	// Identical targets at perfect spacing: the average is the target itself.
	// The measured window covers range-1 intervals against a range-interval
	// goal, so the target scales by (range-1)/range.
	tip := buildChain(200, func(h int64) int64 { return h * 600 }, constBits(0x1c100000))

	got := NextWorkRequired(tip, tip.Time+600, &params)

	want, _, _ := CompactToBig(0x1c100000)
	want.Mul(want, big.NewInt(params.DifficultyAdjustmentRange-1))
	want.Div(want, big.NewInt(params.DifficultyAdjustmentRange))
	require.Equal(t, BigToCompact(want), got)
}

func TestVarianceAdjustmentTimespanClamp(t *testing.T) {
	params := MainNetParams
	params.PowRTHeight = 0
	params.DifficultyAdjustmentRange = 24

	// Blocks ten times too slow: the ratio clamps at four, no further.
	tip := buildChain(200, func(h int64) int64 { return h * 6000 }, constBits(0x1c100000))
	got := NextWorkRequired(tip, tip.Time+600, &params)
	require.Equal(t, uint32(0x1c400000), got)

	// Blocks ten times too fast: the ratio clamps at a quarter.
	tip = buildChain(200, func(h int64) int64 { return h * 60 }, constBits(0x1c100000))
	got = NextWorkRequired(tip, tip.Time+600, &params)
	require.Equal(t, uint32(0x1c040000), got)
}

func TestVarianceAdjustmentPeriodicCeilingDoubling(t *testing.T) {
	params := MainNetParams
	params.PowRTHeight = 0
	params.DifficultyAdjustmentRange = 24
	params.HeightInterval = 100

	limitBits := BigToCompact(params.PowLimit)
	slow := func(h int64) int64 { return h * 6000 }

	// Tip at height 250: 250/100 = 2, an even cycle. The relaxed target
	// clamps at the network ceiling.
	evenTip := buildChain(251, slow, constBits(limitBits))
	require.Equal(t, int64(2), evenTip.Height/params.HeightInterval)
	evenBits := NextWorkRequired(evenTip, evenTip.Time+600, &params)
	require.Equal(t, BigToCompact(params.PowLimit), evenBits)

	// Tip at height 150: 150/100 = 1, an odd cycle. The clamp doubles.
	oddTip := buildChain(151, slow, constBits(limitBits))
	require.Equal(t, int64(1), oddTip.Height/params.HeightInterval)
	oddBits := NextWorkRequired(oddTip, oddTip.Time+600, &params)

	doubled := new(big.Int).Lsh(params.PowLimit, 1)
	require.Equal(t, BigToCompact(doubled), oddBits)

	// The odd result never exceeds twice the network ceiling. The doubling
	// applies to the raw ceiling before compact encoding, so the bound is
	// 2*PowLimit, not the double of the even result's lossy encoding.
	oddTarget, _, _ := CompactToBig(oddBits)
	require.LessOrEqual(t, oddTarget.Cmp(doubled), 0)

	evenTarget, _, _ := CompactToBig(evenBits)
	require.LessOrEqual(t, evenTarget.Cmp(params.PowLimit), 0)
}

func TestPermittedDifficultyTransition(t *testing.T) {
	params := MainNetParams
	boundary := params.DifficultyAdjustmentInterval()

	tests := []struct {
		name      string
		height    int64
		oldBits   uint32
		newBits   uint32
		permitted bool
	}{
		{"non-boundary unchanged", 5, 0x1c100000, 0x1c100000, true},
		{"non-boundary changed", 5, 0x1c100000, 0x1c100001, false},
		{"boundary unchanged", boundary, 0x1c100000, 0x1c100000, true},
		{"boundary at upper bound", boundary, 0x1c100000, 0x1c400000, true},
		{"boundary above upper bound", boundary, 0x1c100000, 0x1c400001, false},
		{"boundary at lower bound", boundary, 0x1c100000, 0x1c040000, true},
		{"boundary below lower bound", boundary, 0x1c100000, 0x1c03ffff, false},
	}

	for _, tt := range tests {
		got := PermittedDifficultyTransition(&params, tt.height, tt.oldBits, tt.newBits)
		require.Equal(t, tt.permitted, got, tt.name)
	}

	// Min-difficulty networks accept any transition.
	testnet := TestNetParams
	require.True(t, PermittedDifficultyTransition(&testnet, boundary, 0x1c100000, 0x1d00ffff))
}

func TestCheckProofOfWork(t *testing.T) {
	params := MainNetParams
	bits := uint32(0x1d00ffff)
	target, _, _ := CompactToBig(bits)

	// A hash exactly on the target passes; one unit above fails.
	require.True(t, CheckProofOfWork(bigToHash(target), bits, &params))

	above := new(big.Int).Add(target, bigOne)
	require.False(t, CheckProofOfWork(bigToHash(above), bits, &params))

	zero := chainhash.Hash{}
	require.True(t, CheckProofOfWork(zero, bits, &params))

	// Malformed or out-of-range targets never validate.
	require.False(t, CheckProofOfWork(zero, 0x1d80ffff, &params), "negative target")
	require.False(t, CheckProofOfWork(zero, 0x23000001, &params), "overflowing target")
	require.False(t, CheckProofOfWork(zero, 0, &params), "zero target")
	require.False(t, CheckProofOfWork(zero, 0x1e00ffff, &params), "target above ceiling")
}
