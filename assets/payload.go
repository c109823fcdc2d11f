// Copyright 2025 The Kreda Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package assets

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/kreda-project/kreda/bls"
	"github.com/sirupsen/logrus"
)

const (
	// AssetLockPayloadVersion is the highest understood lock payload version.
	AssetLockPayloadVersion uint8 = 1

	// AssetUnlockPayloadVersion is the highest understood unlock payload
	// version.
	AssetUnlockPayloadVersion uint8 = 1

	// WithdrawalExpiryOffset is how many blocks an unlock request stays
	// valid past its requested height.
	WithdrawalExpiryOffset = 48

	// MaxWithdrawalsPerTx caps the outputs of one unlock transaction.
	MaxWithdrawalsPerTx = 32

	// maxCreditOutputs bounds the credit output count read from the wire.
	maxCreditOutputs = 1000
)

// AssetLockPayload describes value burned on the base chain and the credit
// outputs it funds. Immutable once decoded from a transaction.
type AssetLockPayload struct {
	Version       uint8
	LockType      uint8
	CreditOutputs []*wire.TxOut
}

// Bytes returns the canonical serialization of the payload.
func (p *AssetLockPayload) Bytes() []byte {
	buff := new(bytes.Buffer)

	if err := buff.WriteByte(p.Version); err != nil {
		logrus.Fatal(err)
	}
	if err := buff.WriteByte(p.LockType); err != nil {
		logrus.Fatal(err)
	}
	if err := wire.WriteVarInt(buff, 0, uint64(len(p.CreditOutputs))); err != nil {
		logrus.Fatal(err)
	}
	for _, out := range p.CreditOutputs {
		if err := wire.WriteTxOut(buff, 0, 0, out); err != nil {
			logrus.Fatal(err)
		}
	}

	return buff.Bytes()
}

// Read decodes the payload from r.
func (p *AssetLockPayload) Read(r io.Reader) error {
	var header [2]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return err
	}
	p.Version = header[0]
	p.LockType = header[1]

	count, err := wire.ReadVarInt(r, 0)
	if err != nil {
		return err
	}
	if count > maxCreditOutputs {
		return errors.New("too many credit outputs")
	}

	p.CreditOutputs = make([]*wire.TxOut, count)
	for i := uint64(0); i < count; i++ {
		var value int64
		if err := binary.Read(r, binary.LittleEndian, &value); err != nil {
			return err
		}
		script, err := wire.ReadVarBytes(r, 0, maxScriptLen, "credit output script")
		if err != nil {
			return err
		}
		p.CreditOutputs[i] = &wire.TxOut{Value: value, PkScript: script}
	}

	return nil
}

// AssetUnlockPayload authorizes one withdrawal from the credit pool. The
// quorum signature covers the transaction with this signature field zeroed.
type AssetUnlockPayload struct {
	Version uint8

	// Index is the withdrawal's globally unique sequence number. Indexes are
	// never reused; the credit pool records every accepted one.
	Index uint64

	Fee             uint32
	RequestedHeight uint32
	QuorumHash      chainhash.Hash
	QuorumSig       bls.Signature
}

// Bytes returns the canonical serialization of the payload.
func (p *AssetUnlockPayload) Bytes() []byte {
	buff := new(bytes.Buffer)

	if err := buff.WriteByte(p.Version); err != nil {
		logrus.Fatal(err)
	}
	if err := binary.Write(buff, binary.LittleEndian, p.Index); err != nil {
		logrus.Fatal(err)
	}
	if err := binary.Write(buff, binary.LittleEndian, p.Fee); err != nil {
		logrus.Fatal(err)
	}
	if err := binary.Write(buff, binary.LittleEndian, p.RequestedHeight); err != nil {
		logrus.Fatal(err)
	}
	if _, err := buff.Write(p.QuorumHash[:]); err != nil {
		logrus.Fatal(err)
	}
	if _, err := buff.Write(p.QuorumSig[:]); err != nil {
		logrus.Fatal(err)
	}

	return buff.Bytes()
}

// Read decodes the payload from r.
func (p *AssetUnlockPayload) Read(r io.Reader) error {
	var version [1]byte
	if _, err := io.ReadFull(r, version[:]); err != nil {
		return err
	}
	p.Version = version[0]

	if err := binary.Read(r, binary.LittleEndian, &p.Index); err != nil {
		return err
	}
	if err := binary.Read(r, binary.LittleEndian, &p.Fee); err != nil {
		return err
	}
	if err := binary.Read(r, binary.LittleEndian, &p.RequestedHeight); err != nil {
		return err
	}
	if _, err := io.ReadFull(r, p.QuorumHash[:]); err != nil {
		return err
	}
	if _, err := io.ReadFull(r, p.QuorumSig[:]); err != nil {
		return err
	}

	return nil
}

// HeightToExpiry returns the first height at which the request is expired.
func (p *AssetUnlockPayload) HeightToExpiry() int64 {
	return int64(p.RequestedHeight) + WithdrawalExpiryOffset
}
