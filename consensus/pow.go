// Copyright 2025 The Kreda Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package consensus

import (
	"math/big"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// NextWorkRequired returns the compact target the block following prev must
// carry. blockTime is the candidate block's timestamp; it only matters on
// networks that allow minimum-difficulty blocks.
//
// prev must not be nil and, on a retarget boundary, must have a full
// adjustment interval of ancestors behind it. A conforming caller validates
// blocks in order on a connected chain and can never violate either
// precondition, so violations abort instead of returning an error.
func NextWorkRequired(prev *BlockIndex, blockTime int64, params *Params) uint32 {
	if prev == nil {
		panic("NextWorkRequired called without a previous block")
	}
	powLimitBits := BigToCompact(params.PowLimit)

	// Only change once per difficulty adjustment interval.
	if (prev.Height+1)%params.DifficultyAdjustmentInterval() != 0 {
		if params.PowAllowMinDifficultyBlocks {
			// Testnet escape: a block more than twice the target spacing
			// late may be mined at the minimum difficulty.
			if blockTime > prev.Time+params.PowTargetSpacing*2 {
				return powLimitBits
			}
			// Otherwise return the target of the last block that was not
			// mined under the escape rule.
			index := prev
			for index.Parent() != nil &&
				index.Height%params.DifficultyAdjustmentInterval() != 0 &&
				index.Bits == powLimitBits {
				index = index.Parent()
			}
			return index.Bits
		}

		if prev.Height+1 > params.PowRTHeight {
			return blockTimeVarianceAdjustment(prev, params)
		}

		return prev.Bits
	}

	// Go back by what we want to be one full timespan worth of blocks.
	firstHeight := prev.Height - (params.DifficultyAdjustmentInterval() - 1)
	first := prev.Ancestor(firstHeight)
	if first == nil {
		panic("NextWorkRequired: retarget boundary without a full interval of ancestors")
	}

	return CalculateNextWorkRequired(prev, first.Time, params)
}

// CalculateNextWorkRequired runs the fixed-interval retarget: scale the
// previous target by the ratio of the actual window duration to the desired
// one, with the ratio clamped to [1/4, 4] and the result clamped to PowLimit.
func CalculateNextWorkRequired(prev *BlockIndex, firstBlockTime int64, params *Params) uint32 {
	if params.PowNoRetargeting {
		return prev.Bits
	}

	actualTimespan := prev.Time - firstBlockTime
	if actualTimespan < params.PowTargetTimespan/4 {
		actualTimespan = params.PowTargetTimespan / 4
	}
	if actualTimespan > params.PowTargetTimespan*4 {
		actualTimespan = params.PowTargetTimespan * 4
	}

	next, _, _ := CompactToBig(prev.Bits)
	next.Mul(next, big.NewInt(actualTimespan))
	next.Div(next, big.NewInt(params.PowTargetTimespan))
	if next.Cmp(params.PowLimit) > 0 {
		next.Set(params.PowLimit)
	}

	return BigToCompact(next)
}

// blockTimeVarianceAdjustment retargets every block once activated. The new
// target derives from a decaying weighted average of the targets over the
// last DifficultyAdjustmentRange blocks, scaled by the clamped ratio of the
// window's actual to desired duration.
func blockTimeVarianceAdjustment(prev *BlockIndex, params *Params) uint32 {
	limit := new(big.Int).Set(params.PowLimit)

	// Need at least a full adjustment range of history below prev.
	if prev.Height < params.DifficultyAdjustmentRange {
		return BigToCompact(limit)
	}

	index := prev
	avg := new(big.Int)
	for count := int64(1); count <= params.DifficultyAdjustmentRange; count++ {
		target, _, _ := CompactToBig(index.Bits)
		if count == 1 {
			avg.Set(target)
		} else {
			// avg = (avg*count + target) / (count+1). Later samples carry
			// progressively less weight than a plain arithmetic mean.
			avg.Mul(avg, big.NewInt(count))
			avg.Add(avg, target)
			avg.Div(avg, big.NewInt(count+1))
		}

		if count != params.DifficultyAdjustmentRange {
			if index.Parent() == nil {
				panic("variance adjustment: chain shorter than the height check promised")
			}
			index = index.Parent()
		}
	}

	actualTimespan := prev.Time - index.Time
	targetTimespan := params.DifficultyAdjustmentRange * params.PowTargetSpacing
	if actualTimespan < targetTimespan/4 {
		actualTimespan = targetTimespan / 4
	}
	if actualTimespan > targetTimespan*4 {
		actualTimespan = targetTimespan * 4
	}

	next := new(big.Int).Set(avg)
	next.Mul(next, big.NewInt(actualTimespan))
	next.Div(next, big.NewInt(targetTimespan))

	// Periodic ceiling relaxation: on odd height-interval cycles the cap is
	// twice the network limit. The parity check is consensus critical.
	if (prev.Height/params.HeightInterval)%2 == 1 {
		limit.Lsh(limit, 1)
	}
	if next.Cmp(limit) > 0 {
		next.Set(limit)
	}

	return BigToCompact(next)
}

// PermittedDifficultyTransition reports whether the target recorded at
// height may legally follow the one before it. On retarget boundaries the
// new target must sit inside the window reachable from the old target under
// the clamped timespan ratio; elsewhere it must not change at all. The
// bounds are round-tripped through compact form before comparison so the
// check sees exactly the precision a conforming encoder produces.
func PermittedDifficultyTransition(params *Params, height int64, oldBits, newBits uint32) bool {
	if params.PowAllowMinDifficultyBlocks {
		return true
	}

	if height%params.DifficultyAdjustmentInterval() == 0 {
		observed, _, _ := CompactToBig(newBits)

		largest, _, _ := CompactToBig(oldBits)
		largest.Mul(largest, big.NewInt(params.PowTargetTimespan*4))
		largest.Div(largest, big.NewInt(params.PowTargetTimespan))
		if largest.Cmp(params.PowLimit) > 0 {
			largest.Set(params.PowLimit)
		}
		maximum, _, _ := CompactToBig(BigToCompact(largest))
		if maximum.Cmp(observed) < 0 {
			return false
		}

		smallest, _, _ := CompactToBig(oldBits)
		smallest.Mul(smallest, big.NewInt(params.PowTargetTimespan/4))
		smallest.Div(smallest, big.NewInt(params.PowTargetTimespan))
		if smallest.Cmp(params.PowLimit) > 0 {
			smallest.Set(params.PowLimit)
		}
		minimum, _, _ := CompactToBig(BigToCompact(smallest))
		if minimum.Cmp(observed) > 0 {
			return false
		}
	} else if oldBits != newBits {
		return false
	}

	return true
}

// CheckProofOfWork reports whether hash satisfies the claimed compact target
// under the network's rules: the target must decode to a positive value no
// higher than PowLimit, and the hash interpreted as a 256-bit integer must
// not exceed it.
func CheckProofOfWork(hash chainhash.Hash, bits uint32, params *Params) bool {
	target, negative, overflow := CompactToBig(bits)
	if negative || overflow || target.Sign() == 0 || target.Cmp(params.PowLimit) > 0 {
		return false
	}

	return HashToBig(&hash).Cmp(target) <= 0
}

// HashToBig interprets a block hash as a 256-bit unsigned integer. Hashes
// are stored little endian, big.Int wants big endian, so the bytes reverse.
func HashToBig(hash *chainhash.Hash) *big.Int {
	buf := *hash
	blen := len(buf)
	for i := 0; i < blen/2; i++ {
		buf[i], buf[blen-1-i] = buf[blen-1-i], buf[i]
	}
	return new(big.Int).SetBytes(buf[:])
}
