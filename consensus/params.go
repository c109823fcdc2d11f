// Copyright 2025 The Kreda Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package consensus

import "math/big"

// Params holds the consensus rules of one Kreda network. Values are fixed at
// process start and never mutated, so every validation routine in this
// package may read them concurrently without locking.
type Params struct {
	// PowLimit is the highest permitted target, i.e. the lowest permitted
	// difficulty. Block targets above it are invalid.
	PowLimit *big.Int

	// PowTargetSpacing is the desired number of seconds between blocks.
	PowTargetSpacing int64

	// PowTargetTimespan is the desired duration of one full retarget window
	// in seconds.
	PowTargetTimespan int64

	// DifficultyAdjustmentRange is the number of past blocks averaged by the
	// per-block variance adjustment.
	DifficultyAdjustmentRange int64

	// PowRTHeight is the height after which non-boundary blocks switch from
	// keeping the previous target to the per-block variance adjustment.
	PowRTHeight int64

	// HeightInterval drives the periodic ceiling relaxation: whenever
	// height/HeightInterval is odd, the variance adjustment may raise the
	// target up to twice PowLimit.
	HeightInterval int64

	// PowNoRetargeting disables the fixed-interval retarget entirely.
	PowNoRetargeting bool

	// PowAllowMinDifficultyBlocks enables the testnet escape rule: a block
	// arriving late enough may be mined at the minimum difficulty.
	PowAllowMinDifficultyBlocks bool

	// QuorumTypeAssetLocks is the quorum type whose threshold signature
	// authorizes asset unlock withdrawals.
	QuorumTypeAssetLocks uint8
}

// DifficultyAdjustmentInterval returns the number of blocks between two
// fixed-interval retargets.
func (p *Params) DifficultyAdjustmentInterval() int64 {
	return p.PowTargetTimespan / p.PowTargetSpacing
}

var bigOne = big.NewInt(1)

// powLimit returns 2^bits - 1.
func powLimit(bits uint) *big.Int {
	return new(big.Int).Sub(new(big.Int).Lsh(bigOne, bits), bigOne)
}

// MainNetParams are the consensus rules of the main Kreda network.
var MainNetParams = Params{
	PowLimit:                    powLimit(224),
	PowTargetSpacing:            10 * 60,
	PowTargetTimespan:           14 * 24 * 60 * 60,
	DifficultyAdjustmentRange:   60,
	PowRTHeight:                 120000,
	HeightInterval:              10000,
	PowNoRetargeting:            false,
	PowAllowMinDifficultyBlocks: false,
	QuorumTypeAssetLocks:        1,
}

// TestNetParams are the consensus rules of the public test network.
var TestNetParams = Params{
	PowLimit:                    powLimit(236),
	PowTargetSpacing:            10 * 60,
	PowTargetTimespan:           14 * 24 * 60 * 60,
	DifficultyAdjustmentRange:   60,
	PowRTHeight:                 1500,
	HeightInterval:              10000,
	PowNoRetargeting:            false,
	PowAllowMinDifficultyBlocks: true,
	QuorumTypeAssetLocks:        100,
}

// RegressionNetParams are the consensus rules used by regression tests:
// trivial difficulty that never retargets.
var RegressionNetParams = Params{
	PowLimit:                    powLimit(255),
	PowTargetSpacing:            10 * 60,
	PowTargetTimespan:           14 * 24 * 60 * 60,
	DifficultyAdjustmentRange:   60,
	PowRTHeight:                 0,
	HeightInterval:              10000,
	PowNoRetargeting:            true,
	PowAllowMinDifficultyBlocks: true,
	QuorumTypeAssetLocks:        100,
}
