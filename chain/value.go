// Package chain implements the Ethereum chain-data model (spec section 3):
// block/transaction/event/log record shapes and the dynamically-typed ABI
// value used by the `ethereum.decode`/`ethereum.encode` host exports.
// Grounded on original_source/src/chain/ethereum/{asc,block,transaction,
// event,transaction_receipt}.rs, re-expressed over go-ethereum's
// common/core types (spec SPEC_FULL.md DOMAIN STACK) instead of the
// original's web3-rs/ethabi crates.
package chain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// ValueKind discriminates the variants of Value, numbered identically to
// the original's EthereumValueKind (renumbering would desync any code that
// serializes this discriminant, e.g. into an AscEnum tag byte).
type ValueKind uint32

const (
	KindAddress ValueKind = iota
	KindFixedBytes
	KindBytes
	KindInt
	KindUint
	KindBool
	KindString
	KindFixedArray
	KindArray
	KindTuple
)

func (k ValueKind) String() string {
	switch k {
	case KindAddress:
		return "address"
	case KindFixedBytes:
		return "fixed_bytes"
	case KindBytes:
		return "bytes"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindFixedArray:
		return "fixed_array"
	case KindArray:
		return "array"
	case KindTuple:
		return "tuple"
	default:
		return "unknown"
	}
}

// Value is a dynamically-typed Solidity ABI value, the Go equivalent of
// ethabi::Token as projected through the original's EthereumValueKind enum.
type Value struct {
	Kind       ValueKind
	Address    common.Address
	FixedBytes []byte
	Bytes      []byte
	Int        *big.Int
	Uint       *big.Int
	Bool       bool
	Str        string
	Array      []Value // both FixedArray and Array use this field
}

func NewAddress(a common.Address) Value  { return Value{Kind: KindAddress, Address: a} }
func NewFixedBytes(b []byte) Value       { return Value{Kind: KindFixedBytes, FixedBytes: b} }
func NewBytesValue(b []byte) Value       { return Value{Kind: KindBytes, Bytes: b} }
func NewInt(v *big.Int) Value            { return Value{Kind: KindInt, Int: v} }
func NewUint(v *big.Int) Value           { return Value{Kind: KindUint, Uint: v} }
func NewBoolValue(v bool) Value          { return Value{Kind: KindBool, Bool: v} }
func NewStringValue(s string) Value      { return Value{Kind: KindString, Str: s} }
func NewFixedArray(v []Value) Value      { return Value{Kind: KindFixedArray, Array: v} }
func NewArray(v []Value) Value           { return Value{Kind: KindArray, Array: v} }
func NewTuple(v []Value) Value           { return Value{Kind: KindTuple, Array: v} }
