// Copyright 2025 The Kreda Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

// Package quorum defines the read side of the threshold-signing quorum
// subsystem: the data a validator needs about an active quorum and the
// capability interface for resolving one. Quorum formation, key share
// distribution and rotation live behind the Manager implementation.
package quorum

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/kreda-project/kreda/bls"
	"github.com/kreda-project/kreda/consensus"
)

// Type identifies a quorum family (its size and signing threshold profile)
// on one network.
type Type uint8

// Quorum is one active signing quorum: the hash of the block committing it
// and the aggregated threshold public key of its members.
type Quorum struct {
	Hash      chainhash.Hash
	PublicKey bls.PublicKey
}

// Manager resolves quorums for validators. Implementations may take locks on
// shared quorum state; calls can block and expose no cancellation. Passing
// the manager explicitly keeps validators free of process-global state and
// lets tests substitute a deterministic source.
type Manager interface {
	// ScanQuorums returns up to count active quorums of the given type as of
	// tip, newest first.
	ScanQuorums(t Type, tip *consensus.BlockIndex, count int) []*Quorum

	// GetQuorum returns the quorum committed at hash, or nil when unknown.
	GetQuorum(t Type, hash chainhash.Hash) *Quorum
}

// BuildSignHash derives the 32-byte message a quorum threshold signature
// must cover: the quorum type and hash bind the signature to one signing
// session, requestID to one request, msgHash to the signed payload.
func BuildSignHash(t Type, quorumHash, requestID, msgHash chainhash.Hash) chainhash.Hash {
	buf := make([]byte, 0, 1+3*chainhash.HashSize)
	buf = append(buf, byte(t))
	buf = append(buf, quorumHash[:]...)
	buf = append(buf, requestID[:]...)
	buf = append(buf, msgHash[:]...)
	return chainhash.DoubleHashH(buf)
}
