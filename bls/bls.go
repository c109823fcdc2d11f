// Copyright 2025 The Kreda Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

// Package bls implements the threshold signature primitive used by quorum
// commitments: BLS over BLS12-381 with public keys in G1 and signatures in
// G2. Only aggregate (threshold) keys and signatures appear at this layer;
// share management happens inside the quorum subsystem.
package bls

import (
	"crypto/rand"
	"errors"
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

const (
	// PublicKeySize is the length of a compressed G1 public key.
	PublicKeySize = bls12381.SizeOfG1AffineCompressed

	// SignatureSize is the length of a compressed G2 signature.
	SignatureSize = bls12381.SizeOfG2AffineCompressed
)

// signDST is the hash-to-curve domain separation tag for quorum sign hashes.
var signDST = []byte("KREDA-V1-CS01-BLS12381G2_XMD:SHA-256_SSWU_RO_")

// PublicKey is a compressed G1 threshold public key.
type PublicKey [PublicKeySize]byte

// Signature is a compressed G2 threshold signature. The zero value is not a
// valid encoding and never verifies.
type Signature [SignatureSize]byte

// SecretKey is a BLS signing key. The validators never touch one; it exists
// for signing tools and for tests that need verifiable fixtures.
type SecretKey struct {
	s fr.Element
}

// GenerateSecretKey returns a fresh random signing key.
func GenerateSecretKey() (*SecretKey, error) {
	var sk SecretKey
	if _, err := sk.s.SetRandom(); err != nil {
		return nil, err
	}
	if sk.s.IsZero() {
		return nil, errors.New("bls: zero secret key")
	}
	return &sk, nil
}

// PublicKey returns the compressed G1 point s*G1.
func (sk *SecretKey) PublicKey() PublicKey {
	_, _, g1, _ := bls12381.Generators()

	var scalar big.Int
	sk.s.BigInt(&scalar)

	var p bls12381.G1Affine
	p.ScalarMultiplication(&g1, &scalar)
	return PublicKey(p.Bytes())
}

// Sign returns the signature s*H(msg).
func (sk *SecretKey) Sign(msg [32]byte) Signature {
	hm, err := bls12381.HashToG2(msg[:], signDST)
	if err != nil {
		// hashing a fixed-size message cannot fail
		panic(err)
	}

	var scalar big.Int
	sk.s.BigInt(&scalar)

	var sig bls12381.G2Affine
	sig.ScalarMultiplication(&hm, &scalar)
	return Signature(sig.Bytes())
}

// Verify reports whether sig is a valid signature of msg under pk. Malformed
// or off-subgroup encodings of either point never verify.
//
// The check is the standard pairing equation e(G1, sig) == e(pk, H(msg)),
// evaluated as e(-G1, sig) * e(pk, H(msg)) == 1.
func (sig *Signature) Verify(pk *PublicKey, msg [32]byte) bool {
	var p bls12381.G1Affine
	if _, err := p.SetBytes(pk[:]); err != nil || p.IsInfinity() {
		return false
	}

	var s bls12381.G2Affine
	if _, err := s.SetBytes(sig[:]); err != nil {
		return false
	}

	hm, err := bls12381.HashToG2(msg[:], signDST)
	if err != nil {
		return false
	}

	_, _, g1, _ := bls12381.Generators()
	var negG1 bls12381.G1Affine
	negG1.Neg(&g1)

	ok, err := bls12381.PairingCheck(
		[]bls12381.G1Affine{negG1, p},
		[]bls12381.G2Affine{s, hm},
	)
	return err == nil && ok
}

// RandomMessage returns 32 bytes of randomness, for tests and tooling.
func RandomMessage() [32]byte {
	var buf [32]byte
	if _, err := rand.Read(buf[:]); err != nil {
		panic("unable to read randomness")
	}
	return buf
}
