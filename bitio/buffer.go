// Package bitio implements a bit-addressable I/O substrate for the Boxon
// wire format: a [Reader] and [Writer] pair over a byte slice with an
// explicit bit cursor, dual byte order, sign extension, and terminator
// semantics.
//
// The bit-fill/bit-drain accounting here follows the accumulator shape of the
// BitStreamEncoder/BitStreamDecoder pattern (MSB-first vs LSB-first bit
// packing selected per call), assembling values into a [math/big.Int] rather
// than a fixed-width bit buffer so that arbitrary bit widths are supported,
// together with the dual notion of
// "byte order" (which byte comes first) versus "bit order" (how a
// non-byte-multiple run of bits packs within the stream) that the Boxon wire
// format requires.
package bitio

import "math/big"

// bitPosition is an absolute bit offset from the start of a buffer.
//
// Invariant: bitPosition = bytePosition*8 + fractionalBits, 0 <= fractionalBits < 8.
type bitPosition int64

func (p bitPosition) bytePosition() int64   { return int64(p) / 8 }
func (p bitPosition) fractionalBits() uint  { return uint(int64(p) % 8) }

// signExtend sign-extends the low n bits of v (0 < n <= 64) treating bit n-1
// as the sign bit.
func signExtend(v uint64, n int) int64 {
	if n <= 0 || n >= 64 {
		return int64(v)
	}
	shift := 64 - uint(n)
	return int64(v<<shift) >> shift
}

// signExtendBig sign-extends v, which holds an unsigned n-bit magnitude, into
// its two's-complement signed value.
func signExtendBig(v *big.Int, n int) *big.Int {
	if n <= 0 {
		return v
	}
	signBit := new(big.Int).Lsh(big.NewInt(1), uint(n-1))
	if v.Cmp(signBit) < 0 {
		return v
	}
	modulus := new(big.Int).Lsh(big.NewInt(1), uint(n))
	return new(big.Int).Sub(v, modulus)
}

// maskBig returns v mod 2^n for n >= 0, always non-negative.
func maskBig(v *big.Int, n int) *big.Int {
	if n <= 0 {
		return big.NewInt(0)
	}
	modulus := new(big.Int).Lsh(big.NewInt(1), uint(n))
	r := new(big.Int).Mod(v, modulus)
	if r.Sign() < 0 {
		r.Add(r, modulus)
	}
	return r
}
