// Copyright 2025 The Kreda Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package chain

import (
	"github.com/kreda-project/kreda/storage"
	"github.com/sirupsen/logrus"
)

// loadBatch is how many headers Load pulls from storage at a time.
const loadBatch = 2000

// Load replays every stored header into the index in height order. Headers
// whose parent never appears are fatal: storage is trusted to hold a
// connected chain.
func Load(idx *Index, store storage.Storage) error {
	best, err := store.BestHeight()
	if err != nil {
		return err
	}
	if best < 0 {
		logrus.Info("storage holds no headers")
		return nil
	}

	for height := int64(0); height <= best; height += loadBatch {
		headers, err := store.Headers(height, loadBatch)
		if err != nil {
			return err
		}

		for _, h := range headers {
			if _, err := idx.AddHeader(h.Hash, h.Parent, h.Time, h.Bits); err != nil {
				return err
			}
		}
	}

	logrus.Infof("loaded %d headers, tip %s", best+1, idx.Tip().Hash)
	return nil
}
