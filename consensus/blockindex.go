// Copyright 2025 The Kreda Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package consensus

import "github.com/btcsuite/btcd/chaincfg/chainhash"

// BlockIndex is one node of the in-memory block index: the header-derived
// fields the consensus rules read, linked to the node's parent. A node is
// immutable once constructed; the chain package owns construction and keeps
// the by-hash arena. Readers are expected to hold the caller's validation
// lock while traversing, the nodes themselves never change.
type BlockIndex struct {
	parent *BlockIndex

	// skip points to an ancestor far up the chain, letting Ancestor run in
	// O(log n) instead of chasing parent pointers one height at a time.
	skip *BlockIndex

	Hash   chainhash.Hash
	Height int64
	Time   int64
	Bits   uint32
}

// NewBlockIndex links a header's index fields under parent. A nil parent
// creates a genesis node at height 0.
func NewBlockIndex(parent *BlockIndex, hash chainhash.Hash, time int64, bits uint32) *BlockIndex {
	node := &BlockIndex{
		parent: parent,
		Hash:   hash,
		Time:   time,
		Bits:   bits,
	}
	if parent != nil {
		node.Height = parent.Height + 1
		node.skip = parent.Ancestor(skipHeight(node.Height))
	}
	return node
}

// Parent returns the node's ancestor one height down, or nil for genesis.
func (b *BlockIndex) Parent() *BlockIndex {
	return b.parent
}

// Ancestor returns the node's ancestor at the given height, or nil when the
// height is out of range. Follows skip pointers where they do not overshoot.
func (b *BlockIndex) Ancestor(height int64) *BlockIndex {
	if height < 0 || height > b.Height {
		return nil
	}

	walk := b
	heightWalk := b.Height
	for heightWalk > height {
		heightSkip := skipHeight(heightWalk)
		heightSkipPrev := skipHeight(heightWalk - 1)
		if walk.skip != nil && (heightSkip == height ||
			(heightSkip > height && !(heightSkipPrev < heightSkip-2 && heightSkipPrev >= height))) {
			// The skip pointer makes more progress than a parent step
			// without passing the requested height.
			walk = walk.skip
			heightWalk = heightSkip
		} else {
			walk = walk.parent
			heightWalk--
		}
	}
	return walk
}

// invertLowestOne clears the lowest set bit of n.
func invertLowestOne(n int64) int64 {
	return n & (n - 1)
}

// skipHeight picks the height of the skip pointer for a node at the given
// height. The heights are chosen so that chains of skip pointers between any
// two heights stay logarithmic in length.
func skipHeight(height int64) int64 {
	if height < 2 {
		return 0
	}

	// Determine which height to jump back to. Any number strictly lower than
	// height is acceptable, but the following expression seems to perform
	// well in simulations (max 110 steps to go back up to 2**18 blocks).
	if height&1 == 1 {
		return invertLowestOne(invertLowestOne(height-1)) + 1
	}
	return invertLowestOne(height)
}
