// Copyright 2025 The Kreda Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package consensus

import "math/big"

// The compact target format packs a 256-bit unsigned magnitude into 32 bits:
// the high byte is a base-256 exponent, the low 23 bits are the mantissa and
// bit 23 is a sign flag. It behaves like a base-256 floating point number:
//
//	target = mantissa * 256^(exponent-3)
//
// The format can represent negative numbers and values wider than 256 bits;
// both are malformed for targets and must be reported to the caller.

const (
	compactMantissaMask = 0x007fffff
	compactSignBit      = 0x00800000
)

// CompactToBig expands a compact encoded target to its full magnitude. It
// also reports whether the encoding is negative and whether it overflows 256
// bits; either flag makes the value unusable as a proof-of-work target.
func CompactToBig(compact uint32) (target *big.Int, negative, overflow bool) {
	mantissa := compact & compactMantissaMask
	exponent := uint(compact >> 24)

	if exponent <= 3 {
		mantissa >>= 8 * (3 - exponent)
		target = big.NewInt(int64(mantissa))
	} else {
		target = big.NewInt(int64(mantissa))
		target.Lsh(target, 8*(exponent-3))
	}

	negative = mantissa != 0 && compact&compactSignBit != 0
	overflow = mantissa != 0 && (exponent > 34 ||
		(mantissa > 0xff && exponent > 33) ||
		(mantissa > 0xffff && exponent > 32))
	return target, negative, overflow
}

// BigToCompact packs a magnitude into compact form, normalizing the mantissa
// to its three most significant bytes. When the mantissa's top byte would set
// the sign bit, the mantissa is shifted down one byte and the exponent bumped
// so that a non-negative input never yields a negative encoding.
func BigToCompact(n *big.Int) uint32 {
	if n.Sign() == 0 {
		return 0
	}

	var mantissa uint32
	exponent := uint(len(n.Bytes()))
	if exponent <= 3 {
		mantissa = uint32(n.Bits()[0]) << (8 * (3 - exponent))
	} else {
		nc := new(big.Int).Rsh(n, 8*(exponent-3))
		mantissa = uint32(nc.Bits()[0])
	}

	if mantissa&compactSignBit != 0 {
		mantissa >>= 8
		exponent++
	}

	compact := uint32(exponent)<<24 | mantissa
	if n.Sign() < 0 {
		compact |= compactSignBit
	}
	return compact
}
