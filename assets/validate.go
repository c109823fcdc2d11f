// Copyright 2025 The Kreda Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package assets

import (
	"crypto/sha256"
	"strconv"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/kreda-project/kreda/bls"
	"github.com/kreda-project/kreda/consensus"
	"github.com/kreda-project/kreda/quorum"
	"github.com/sirupsen/logrus"
)

// requestIDTag prefixes the ASCII string hashed into a withdrawal request id.
const requestIDTag = "plwdtx"

// activeQuorumScan is how many recent quorums may still sign withdrawals:
// the current cycle's quorum and the previous one.
const activeQuorumScan = 2

// BlockSource resolves block hashes to index entries, letting the unlock
// validator confirm a claimed quorum hash names a known block.
type BlockSource interface {
	Lookup(hash chainhash.Hash) *consensus.BlockIndex
}

// Validator checks asset lock and unlock special transactions. Collaborators
// are injected explicitly; it keeps no state of its own and every method is
// a pure decision over the supplied tip, pool and quorum views.
type Validator struct {
	params  *consensus.Params
	pool    CreditPool
	blocks  BlockSource
	quorums quorum.Manager
}

// NewValidator wires a validator to its chain-state collaborators.
func NewValidator(params *consensus.Params, pool CreditPool, blocks BlockSource, quorums quorum.Manager) *Validator {
	return &Validator{
		params:  params,
		pool:    pool,
		blocks:  blocks,
		quorums: quorums,
	}
}

// Check dispatches on the special transaction type. tip is the block index
// entry the transaction is validated against (the chain tip for mempool
// acceptance, the previous block for block connection).
func (v *Validator) Check(tx *Tx, tip *consensus.BlockIndex) error {
	switch tx.Type {
	case TxTypeAssetLock:
		return v.CheckAssetLockTx(tx)
	case TxTypeAssetUnlock:
		return v.CheckAssetUnlockTx(tx, tip)
	default:
		return malformedError("bad-not-asset-locks-at-all")
	}
}

// CheckSpecialTxs validates every special transaction of a candidate block
// against tip, logging rejected transactions by their short id.
func (v *Validator) CheckSpecialTxs(blockHash chainhash.Hash, txs []*Tx, tip *consensus.BlockIndex) error {
	for _, tx := range txs {
		if tx.Type != TxTypeAssetLock && tx.Type != TxTypeAssetUnlock {
			continue
		}
		if err := v.Check(tx, tip); err != nil {
			logrus.Debugf("special tx %s rejected: %v", ShortTxID(tx.Hash(), blockHash), err)
			return err
		}
	}
	return nil
}

// CheckAssetLockTx validates the structure of an asset lock transaction:
// exactly one empty OP_RETURN burn output whose value equals the sum of the
// payload's pay-to-public-key-hash credit outputs.
func (v *Validator) CheckAssetLockTx(tx *Tx) error {
	if tx.Type != TxTypeAssetLock {
		return malformedError("bad-assetlocktx-type")
	}

	var returnAmount int64
	for _, out := range tx.Outputs {
		script := out.PkScript
		if len(script) == 0 || script[0] != txscript.OP_RETURN {
			continue
		}

		if len(script) != 2 || script[1] != 0x00 {
			return malformedError("bad-assetlocktx-non-empty-return")
		}

		if out.Value <= 0 {
			return malformedError("bad-assetlocktx-zeroout-return")
		}

		// Should be only one OP_RETURN
		if returnAmount != 0 {
			return malformedError("bad-assetlocktx-multiple-return")
		}
		returnAmount = out.Value
	}

	if returnAmount == 0 {
		return malformedError("bad-assetlocktx-no-return")
	}

	var payload AssetLockPayload
	if err := GetTxPayload(tx, &payload); err != nil {
		return malformedError("bad-assetlocktx-payload")
	}

	if payload.Version == 0 || payload.Version > AssetLockPayloadVersion {
		return malformedError("bad-assetlocktx-version")
	}

	if payload.LockType != 0 {
		return malformedError("bad-assetlocktx-locktype")
	}

	if len(payload.CreditOutputs) == 0 {
		return malformedError("bad-assetlocktx-emptycreditoutputs")
	}

	var creditAmount int64
	for _, out := range payload.CreditOutputs {
		creditAmount += out.Value
		if txscript.GetScriptClass(out.PkScript) != txscript.PubKeyHashTy {
			return malformedError("bad-assetlocktx-pubKeyHash")
		}
	}
	if creditAmount != returnAmount {
		return malformedError("bad-assetlocktx-creditamount")
	}

	return nil
}

// CheckAssetUnlockTx validates an asset unlock transaction: structure, then
// replay protection against the credit pool, then the quorum threshold
// signature over the transaction with its signature field zeroed.
func (v *Validator) CheckAssetUnlockTx(tx *Tx, tip *consensus.BlockIndex) error {
	if tx.Type != TxTypeAssetUnlock {
		return malformedError("bad-assetunlocktx-type")
	}

	// Withdrawals conjure value out of the credit pool; they spend nothing.
	if len(tx.Inputs) != 0 {
		return malformedError("bad-assetunlocktx-have-input")
	}

	if len(tx.Outputs) > MaxWithdrawalsPerTx {
		return malformedError("bad-assetunlocktx-too-many-outs")
	}

	var payload AssetUnlockPayload
	if err := GetTxPayload(tx, &payload); err != nil {
		return malformedError("bad-assetunlocktx-payload")
	}

	if payload.Version == 0 || payload.Version > AssetUnlockPayloadVersion {
		return malformedError("bad-assetunlocktx-version")
	}

	if v.pool.IndexUsed(payload.Index) {
		return consensusError("bad-assetunlock-duplicated-index")
	}

	if v.blocks.Lookup(payload.QuorumHash) == nil {
		return consensusError("bad-assetunlock-quorum-hash")
	}

	// Recompute the signed message with the signature zeroed: the signature
	// never covers itself.
	txCopy := *tx
	unsigned := payload
	unsigned.QuorumSig = bls.Signature{}
	SetTxPayload(&txCopy, &unsigned)
	msgHash := txCopy.Hash()

	return v.verifyQuorumSig(&payload, msgHash, tip)
}

// verifyQuorumSig checks the threshold signature of an unlock payload: the
// claimed quorum must be among the most recent active ones, the request must
// sit inside its validity window, and the signature must verify against the
// quorum's public key over the composed sign hash.
func (v *Validator) verifyQuorumSig(payload *AssetUnlockPayload, msgHash chainhash.Hash, tip *consensus.BlockIndex) error {
	qtype := quorum.Type(v.params.QuorumTypeAssetLocks)

	active := false
	for _, q := range v.quorums.ScanQuorums(qtype, tip, activeQuorumScan) {
		if q.Hash == payload.QuorumHash {
			active = true
			break
		}
	}
	if !active {
		return consensusError("bad-assetunlock-not-active-quorum")
	}

	if tip.Height < int64(payload.RequestedHeight) || tip.Height >= payload.HeightToExpiry() {
		logrus.Infof("asset unlock tx %d with requested height %d could not be accepted on height %d",
			payload.Index, payload.RequestedHeight, tip.Height)
		return consensusError("bad-assetunlock-too-late")
	}

	q := v.quorums.GetQuorum(qtype, payload.QuorumHash)
	if q == nil {
		// ScanQuorums just returned it; a manager that cannot resolve it now
		// is broken, not a rejectable transaction.
		panic("asset unlock: active quorum not resolvable")
	}

	requestID := requestIDForIndex(payload.Index)
	signHash := quorum.BuildSignHash(qtype, q.Hash, requestID, msgHash)
	if payload.QuorumSig.Verify(&q.PublicKey, signHash) {
		return nil
	}

	return consensusError("bad-assetunlock-not-verified")
}

// requestIDForIndex hashes the fixed ASCII tag plus the decimal withdrawal
// index into the request identifier the quorum signed.
func requestIDForIndex(index uint64) chainhash.Hash {
	id := requestIDTag + strconv.FormatUint(index, 10)
	return chainhash.Hash(sha256.Sum256([]byte(id)))
}
