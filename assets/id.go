// Copyright 2025 The Kreda Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package assets

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/dchest/siphash"
)

const (
	// ShortIDSize is the size of a short id used to identify transactions
	// within one block (6 bytes)
	ShortIDSize = 6
)

// ShortID is a compact per-block transaction identifier used in relay
// announcements and log lines.
type ShortID [ShortIDSize]byte

// ShortTxID computes the siphash short id of txHash keyed by blockHash.
func ShortTxID(txHash, blockHash chainhash.Hash) ShortID {
	k0 := binary.LittleEndian.Uint64(blockHash[:8])
	k1 := binary.LittleEndian.Uint64(blockHash[8:16])

	var sum [8]byte
	binary.LittleEndian.PutUint64(sum[:], siphash.Hash(k0, k1, txHash[:]))

	var id ShortID
	copy(id[:], sum[:ShortIDSize])
	return id
}

// String returns string representation
func (id ShortID) String() string {
	return hex.EncodeToString(id[:])
}
