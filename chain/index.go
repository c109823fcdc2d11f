// Copyright 2025 The Kreda Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package chain

import (
	"errors"
	"fmt"
	"sync"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/kreda-project/kreda/consensus"
)

var (
	// ErrOrphanHeader is returned when a header's parent is not in the index.
	ErrOrphanHeader = errors.New("chain: header parent not found")

	// ErrDuplicateHeader is returned when a header is added twice.
	ErrDuplicateHeader = errors.New("chain: header already indexed")
)

// Index is the arena of connected block index nodes: every known header
// keyed by hash, plus the current best tip. The consensus routines only read
// *consensus.BlockIndex nodes handed out by the index; the embedded lock
// serializes writers against them.
type Index struct {
	sync.RWMutex

	byHash map[chainhash.Hash]*consensus.BlockIndex
	tip    *consensus.BlockIndex
}

// NewIndex returns an empty block index.
func NewIndex() *Index {
	return &Index{
		byHash: make(map[chainhash.Hash]*consensus.BlockIndex),
	}
}

// AddHeader connects one header to the index and returns its node. The
// parent must already be present; a zero parent hash marks the genesis
// header. A node higher than the current tip becomes the new tip.
func (idx *Index) AddHeader(hash, parent chainhash.Hash, time int64, bits uint32) (*consensus.BlockIndex, error) {
	idx.Lock()
	defer idx.Unlock()

	if _, ok := idx.byHash[hash]; ok {
		return nil, ErrDuplicateHeader
	}

	var parentNode *consensus.BlockIndex
	if parent != (chainhash.Hash{}) {
		parentNode = idx.byHash[parent]
		if parentNode == nil {
			return nil, fmt.Errorf("%w: %s wants parent %s", ErrOrphanHeader, hash, parent)
		}
	}

	node := consensus.NewBlockIndex(parentNode, hash, time, bits)
	idx.byHash[hash] = node
	if idx.tip == nil || node.Height > idx.tip.Height {
		idx.tip = node
	}
	return node, nil
}

// Lookup returns the index node for hash, or nil when unknown.
func (idx *Index) Lookup(hash chainhash.Hash) *consensus.BlockIndex {
	idx.RLock()
	defer idx.RUnlock()
	return idx.byHash[hash]
}

// Tip returns the best known node, or nil for an empty index.
func (idx *Index) Tip() *consensus.BlockIndex {
	idx.RLock()
	defer idx.RUnlock()
	return idx.tip
}

// Height returns the best known height, or -1 for an empty index.
func (idx *Index) Height() int64 {
	idx.RLock()
	defer idx.RUnlock()
	if idx.tip == nil {
		return -1
	}
	return idx.tip.Height
}

// CheckTransitions audits every difficulty transition on the best chain
// against the permitted retarget bounds. It returns the first violation
// found walking back from the tip.
func (idx *Index) CheckTransitions(params *consensus.Params) error {
	node := idx.Tip()
	for node != nil && node.Parent() != nil {
		prev := node.Parent()
		if !consensus.PermittedDifficultyTransition(params, node.Height, prev.Bits, node.Bits) {
			return fmt.Errorf("chain: impermissible difficulty transition %08x -> %08x at height %d",
				prev.Bits, node.Bits, node.Height)
		}
		node = prev
	}
	return nil
}
