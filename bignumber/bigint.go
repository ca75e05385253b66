// Package bignumber implements the arbitrary-precision BigInt and BigDecimal
// types shared by the AS memory bridge and the host arithmetic exports (spec
// section 4.3). Both wrap math/big rather than hand-rolled limb arithmetic:
// every pack example that needs big integers (go-ethereum, bsc-erigon) reaches
// for math/big directly, and the decimal128-bounded BigDecimal on top of it
// has no suitable third-party analogue in the ecosystem.
package bignumber

import (
	"math/big"
	"strings"

	"github.com/chainindex/corert/errs"
)

// MaxBits is the largest bit width (plus sign bit) a BigInt may occupy,
// derived from Postgres's numeric column limit of 131072 decimal digits:
// 131072 * log2(10) + 1, matching the original runtime's envelope check.
const MaxBits = 435412

// BigInt is a two's-complement, arbitrary-precision signed integer bounded
// by MaxBits.
type BigInt struct {
	v *big.Int
}

func wrap(v *big.Int) (BigInt, error) {
	if v.BitLen()+1 > MaxBits {
		return BigInt{}, errs.NewNumberErr(errs.NumberTooBig, "bigint exceeds %d bits", MaxBits)
	}
	return BigInt{v: v}, nil
}

// Zero returns the BigInt value 0.
func Zero() BigInt { return BigInt{v: big.NewInt(0)} }

// FromInt64 builds a BigInt from an int64.
func FromInt64(n int64) BigInt { return BigInt{v: big.NewInt(n)} }

// FromBigInt wraps a math/big.Int, the conversion chain uses when lifting
// go-ethereum's *big.Int quantities (block numbers, gas, wei amounts) into
// guest-visible BigInt values.
func FromBigInt(v *big.Int) (BigInt, error) {
	if v == nil {
		return Zero(), nil
	}
	return wrap(new(big.Int).Set(v))
}

// FromSignedBytesLE decodes a little-endian two's-complement byte slice, the
// wire format AssemblyScript's BigInt class uses for its backing Uint8Array.
func FromSignedBytesLE(b []byte) (BigInt, error) {
	if len(b) == 0 {
		return Zero(), nil
	}
	be := make([]byte, len(b))
	for i, c := range b {
		be[len(b)-1-i] = c
	}
	negative := be[0]&0x80 != 0
	v := new(big.Int)
	if !negative {
		v.SetBytes(be)
		return wrap(v)
	}
	// Two's complement: invert and add one, then negate.
	inv := make([]byte, len(be))
	for i, c := range be {
		inv[i] = ^c
	}
	magnitude := new(big.Int).SetBytes(inv)
	magnitude.Add(magnitude, big.NewInt(1))
	v.Neg(magnitude)
	return wrap(v)
}

// ToSignedBytesLE encodes the value as a little-endian two's-complement byte
// slice sized to the minimal number of bytes that represent it (matching
// num_bigint's to_signed_bytes_le).
func (b BigInt) ToSignedBytesLE() []byte {
	if b.v.Sign() == 0 {
		return []byte{0}
	}
	if b.v.Sign() > 0 {
		be := b.v.Bytes()
		if be[0]&0x80 != 0 {
			be = append([]byte{0}, be...)
		}
		return reverseBytes(be)
	}
	magnitude := new(big.Int).Neg(b.v)
	nBytes := (magnitude.BitLen() / 8) + 1
	be := make([]byte, nBytes)
	magnitude.FillBytes(be)
	// Two's complement of the padded magnitude.
	carry := byte(1)
	for i := nBytes - 1; i >= 0; i-- {
		inv := ^be[i]
		sum := inv + carry
		if sum < inv {
			carry = 1
		} else {
			carry = 0
		}
		be[i] = sum
	}
	// Drop redundant leading 0xff bytes so the length stays minimal (e.g.
	// -128 is the single byte 0x80).
	for len(be) > 1 && be[0] == 0xff && be[1]&0x80 != 0 {
		be = be[1:]
	}
	if be[0]&0x80 == 0 {
		be = append([]byte{0xff}, be...)
	}
	return reverseBytes(be)
}

func reverseBytes(b []byte) []byte {
	out := make([]byte, len(b))
	for i, c := range b {
		out[len(b)-1-i] = c
	}
	return out
}

// FromString parses a base-10 signed decimal string.
func FromString(s string) (BigInt, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return BigInt{}, errs.NewNumberErr(errs.ParseFailure, "invalid decimal bigint %q", s)
	}
	return wrap(v)
}

// FromHex parses a "0x"-prefixed (or bare) base-16 signed string.
func FromHex(s string) (BigInt, error) {
	s = strings.TrimPrefix(s, "0x")
	s = strings.TrimPrefix(s, "0X")
	if s == "" {
		return Zero(), nil
	}
	v, ok := new(big.Int).SetString(s, 16)
	if !ok {
		return BigInt{}, errs.NewNumberErr(errs.ParseFailure, "invalid hex bigint %q", s)
	}
	return wrap(v)
}

// String renders the plain base-10 decimal form (no "0x" prefix), matching
// the original's Display impl which delegates straight to num_bigint.
func (b BigInt) String() string { return b.v.String() }

// ToHex renders a "0x"-prefixed base-16 form of the magnitude, matching the
// original's big_int_to_hex which encodes `to_bytes_be().1` (the sign is
// dropped, not spelled out as a "-" prefix, since the result must stay a
// valid "0x"-prefixed hex string).
func (b BigInt) ToHex() string {
	return "0x" + new(big.Int).Abs(b.v).Text(16)
}

// Inner exposes the wrapped *big.Int for BigDecimal interop.
func (b BigInt) Inner() *big.Int { return b.v }

// Sign returns -1, 0 or 1.
func (b BigInt) Sign() int { return b.v.Sign() }

// IsZero reports whether the value is zero.
func (b BigInt) IsZero() bool { return b.v.Sign() == 0 }

// Cmp compares b to other.
func (b BigInt) Cmp(other BigInt) int { return b.v.Cmp(other.v) }

// Add returns b + other.
func (b BigInt) Add(other BigInt) (BigInt, error) {
	return wrap(new(big.Int).Add(b.v, other.v))
}

// Sub returns b - other.
func (b BigInt) Sub(other BigInt) (BigInt, error) {
	return wrap(new(big.Int).Sub(b.v, other.v))
}

// Mul returns b * other.
func (b BigInt) Mul(other BigInt) (BigInt, error) {
	return wrap(new(big.Int).Mul(b.v, other.v))
}

// Div returns the truncating quotient b / other (sign follows the dividend,
// matching Rust's integer division and Go's big.Int.Quo).
func (b BigInt) Div(other BigInt) (BigInt, error) {
	if other.v.Sign() == 0 {
		return BigInt{}, errs.NewNumberErr(errs.DivideByZero, "bigint division by zero")
	}
	return wrap(new(big.Int).Quo(b.v, other.v))
}

// Mod returns the truncating remainder of b / other (sign follows the
// dividend, matching Rust's `%` and Go's big.Int.Rem).
func (b BigInt) Mod(other BigInt) (BigInt, error) {
	if other.v.Sign() == 0 {
		return BigInt{}, errs.NewNumberErr(errs.DivideByZero, "bigint modulo by zero")
	}
	return wrap(new(big.Int).Rem(b.v, other.v))
}

// Pow returns b raised to the (non-negative) power exp.
func (b BigInt) Pow(exp uint) (BigInt, error) {
	return wrap(new(big.Int).Exp(b.v, new(big.Int).SetUint64(uint64(exp)), nil))
}

// BitOr returns the bitwise OR of b and other.
func (b BigInt) BitOr(other BigInt) (BigInt, error) {
	return wrap(new(big.Int).Or(b.v, other.v))
}

// BitAnd returns the bitwise AND of b and other.
func (b BigInt) BitAnd(other BigInt) (BigInt, error) {
	return wrap(new(big.Int).And(b.v, other.v))
}

// Lsh returns b << bits. bits must fit in a byte, matching the guest ABI
// which passes the shift amount as a u8.
func (b BigInt) Lsh(bits uint8) (BigInt, error) {
	return wrap(new(big.Int).Lsh(b.v, uint(bits)))
}

// Rsh returns b >> bits (arithmetic shift, rounding toward negative
// infinity for negative values, matching num_bigint's Shr).
func (b BigInt) Rsh(bits uint8) (BigInt, error) {
	return wrap(new(big.Int).Rsh(b.v, uint(bits)))
}

// Neg returns -b.
func (b BigInt) Neg() (BigInt, error) {
	return wrap(new(big.Int).Neg(b.v))
}
