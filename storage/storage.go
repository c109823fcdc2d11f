// Copyright 2025 The Kreda Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package storage

import "github.com/btcsuite/btcd/chaincfg/chainhash"

// Header is the persisted form of one block header's index fields.
type Header struct {
	Hash   chainhash.Hash
	Parent chainhash.Hash
	Height int64
	Time   int64
	Bits   uint32
}

// Storage supplies block headers to the chain index.
// Storage doesnt check consensus rules!
type Storage interface {
	// AddHeader persists one header.
	AddHeader(h Header) error
	// Headers returns up to limit headers starting at fromHeight, ordered by
	// height.
	Headers(fromHeight int64, limit int) ([]Header, error)
	// BestHeight returns the highest stored height, or -1 when empty.
	BestHeight() (int64, error)
}
