// Copyright 2025 The Kreda Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

// Package assets validates the asset lock and unlock special transactions
// that move value between the base chain and the credit pool. All checks are
// pure decision functions over immutable inputs; the chain index and credit
// pool they consult are read under the caller's validation lock.
package assets

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/sirupsen/logrus"
)

// TxType marks a special transaction kind. Classic transactions carry no
// payload; every other type appends a typed payload blob after the classic
// fields.
type TxType uint16

const (
	// TxTypeClassic is a plain value transfer.
	TxTypeClassic TxType = 0

	// TxTypeAssetLock burns base-chain value into credit pool outputs.
	TxTypeAssetLock TxType = 8

	// TxTypeAssetUnlock withdraws credit pool value back to the base chain.
	TxTypeAssetUnlock TxType = 9
)

// maxScriptLen caps script reads during deserialization.
const maxScriptLen = 10000

// Tx is a Kreda transaction. On the wire the 32-bit version field packs the
// format version in the low half and the special type in the high half.
type Tx struct {
	Version  uint16
	Type     TxType
	Inputs   []*wire.TxIn
	Outputs  []*wire.TxOut
	LockTime uint32
	Payload  []byte
}

// Bytes returns the canonical serialization of the transaction. The
// transaction hash covers exactly these bytes.
func (t *Tx) Bytes() []byte {
	buff := new(bytes.Buffer)

	packed := uint32(t.Version) | uint32(t.Type)<<16
	if err := binary.Write(buff, binary.LittleEndian, packed); err != nil {
		logrus.Fatal(err)
	}

	if err := wire.WriteVarInt(buff, 0, uint64(len(t.Inputs))); err != nil {
		logrus.Fatal(err)
	}
	for _, in := range t.Inputs {
		if _, err := buff.Write(in.PreviousOutPoint.Hash[:]); err != nil {
			logrus.Fatal(err)
		}
		if err := binary.Write(buff, binary.LittleEndian, in.PreviousOutPoint.Index); err != nil {
			logrus.Fatal(err)
		}
		if err := wire.WriteVarBytes(buff, 0, in.SignatureScript); err != nil {
			logrus.Fatal(err)
		}
		if err := binary.Write(buff, binary.LittleEndian, in.Sequence); err != nil {
			logrus.Fatal(err)
		}
	}

	if err := wire.WriteVarInt(buff, 0, uint64(len(t.Outputs))); err != nil {
		logrus.Fatal(err)
	}
	for _, out := range t.Outputs {
		if err := wire.WriteTxOut(buff, 0, 0, out); err != nil {
			logrus.Fatal(err)
		}
	}

	if err := binary.Write(buff, binary.LittleEndian, t.LockTime); err != nil {
		logrus.Fatal(err)
	}

	if t.Type != TxTypeClassic {
		if err := wire.WriteVarBytes(buff, 0, t.Payload); err != nil {
			logrus.Fatal(err)
		}
	}

	return buff.Bytes()
}

// Hash returns the double-SHA256 of the canonical serialization.
func (t *Tx) Hash() chainhash.Hash {
	return chainhash.DoubleHashH(t.Bytes())
}

// Payload codecs follow the wire Message convention: Bytes for the canonical
// serialization, Read to decode from a stream.
type Payload interface {
	Bytes() []byte
	Read(r io.Reader) error
}

var (
	errNoPayload       = errors.New("transaction carries no payload")
	errTrailingPayload = errors.New("payload has trailing bytes")
)

// GetTxPayload decodes the transaction's payload field into p. Trailing
// bytes after the payload are malformed.
func GetTxPayload(tx *Tx, p Payload) error {
	if tx.Payload == nil {
		return errNoPayload
	}

	r := bytes.NewReader(tx.Payload)
	if err := p.Read(r); err != nil {
		return err
	}
	if r.Len() != 0 {
		return errTrailingPayload
	}
	return nil
}

// SetTxPayload replaces the transaction's payload field with the canonical
// serialization of p.
func SetTxPayload(tx *Tx, p Payload) {
	tx.Payload = p.Bytes()
}
