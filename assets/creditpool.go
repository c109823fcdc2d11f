// Copyright 2025 The Kreda Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package assets

import "sync"

// CreditPool is the read side of the credit pool ledger the unlock validator
// consults: the membership test over withdrawal indexes already spent. Reads
// happen under the caller's validation lock.
type CreditPool interface {
	// IndexUsed reports whether a withdrawal index was already accepted.
	IndexUsed(index uint64) bool
}

// IndexSet is an in-memory CreditPool backed by a plain set. The ledger
// subsystem feeds it while connecting blocks.
type IndexSet struct {
	sync.RWMutex

	used map[uint64]struct{}
}

// NewIndexSet returns an empty withdrawal index set.
func NewIndexSet() *IndexSet {
	return &IndexSet{used: make(map[uint64]struct{})}
}

// Add records an accepted withdrawal index.
func (s *IndexSet) Add(index uint64) {
	s.Lock()
	defer s.Unlock()
	s.used[index] = struct{}{}
}

// IndexUsed reports whether index was already accepted.
func (s *IndexSet) IndexUsed(index uint64) bool {
	s.RLock()
	defer s.RUnlock()
	_, ok := s.used[index]
	return ok
}

var _ CreditPool = (*IndexSet)(nil)
