// Copyright 2025 The Kreda Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package assets

import (
	"encoding/hex"
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

func hashFromHex(t *testing.T, s string) chainhash.Hash {
	t.Helper()
	raw, err := hex.DecodeString(s)
	if err != nil {
		t.Fatal(err)
	}

	var hash chainhash.Hash
	copy(hash[:], raw)
	return hash
}

func TestShortTxID(t *testing.T) {
	txA := hashFromHex(t, "81e47a19e6b29b0a65b9591762ce5143ed30d0261e5d24a3201752506b20f15c")
	txB := hashFromHex(t, "3a42e66e46dd7633b57d1f921780a1ac715e6b93c19ee52ab714178eb3a9f673")

	tests := []struct {
		txHash    chainhash.Hash
		blockHash chainhash.Hash
		expected  string
	}{
		{txA, chainhash.Hash{}, "e973960ba690"},
		{txB, chainhash.Hash{}, "f0c06e838e59"},
		{txB, txA, "95bf0ca12d5b"},
	}

	for _, tt := range tests {
		id := ShortTxID(tt.txHash, tt.blockHash)
		if id.String() != tt.expected {
			t.Errorf("short id of %s in %s was %s, wanted %s",
				tt.txHash, tt.blockHash, id, tt.expected)
		}
	}
}
