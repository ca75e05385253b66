// Package store implements the Store Layer (spec section 4.4): a
// per-process in-memory overlay of entity snapshots, kept across blocks,
// fronting a durable ExternStore.
// Grounded on the teacher's ledger/state layer (core/ledger.go) generalized
// from balance/contract maps to typed entity snapshots, and on the original
// runtime's database::memory_db.rs/mod.rs split between cache and backend.
package store

import (
	"fmt"
	"sort"

	"github.com/chainindex/corert/bignumber"
)

// ValueKind discriminates the variants of Value, matching
// runtime::asc::native_types::store::StoreValueKind's explicit wire
// numbering exactly (renumbering would break anything that serializes this
// discriminant across a process boundary).
type ValueKind uint8

const (
	KindString ValueKind = iota
	KindInt
	KindBigDecimal
	KindBool
	KindList
	KindNull
	KindBytes
	KindBigInt
	KindInt8
)

func (k ValueKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindBigDecimal:
		return "big_decimal"
	case KindBool:
		return "bool"
	case KindList:
		return "array"
	case KindNull:
		return "null"
	case KindBytes:
		return "bytes"
	case KindBigInt:
		return "big_int"
	case KindInt8:
		return "int8"
	default:
		return "unknown"
	}
}

// Bytes is a raw byte string displayed as 0x-prefixed hex, matching the
// original's Bytes newtype around Vec<u8>.
type Bytes []byte

func (b Bytes) String() string {
	return fmt.Sprintf("0x%x", []byte(b))
}

// Value is a dynamically-typed store field value, the Go equivalent of the
// original runtime's Value enum. Exactly one of the typed fields is
// meaningful, selected by Kind.
type Value struct {
	Kind    ValueKind
	Str     string
	Int     int32
	Int8    int64
	Decimal bignumber.BigDecimal
	Bool    bool
	List    []Value
	Bytes   Bytes
	BigInt  bignumber.BigInt
}

func NewString(s string) Value   { return Value{Kind: KindString, Str: s} }
func NewInt(v int32) Value       { return Value{Kind: KindInt, Int: v} }
func NewInt8(v int64) Value      { return Value{Kind: KindInt8, Int8: v} }
func NewBool(v bool) Value       { return Value{Kind: KindBool, Bool: v} }
func NewList(v []Value) Value    { return Value{Kind: KindList, List: v} }
func NewNull() Value             { return Value{Kind: KindNull} }
func NewBytes(v Bytes) Value     { return Value{Kind: KindBytes, Bytes: v} }
func NewBigInt(v bignumber.BigInt) Value {
	return Value{Kind: KindBigInt, BigInt: v}
}
func NewBigDecimal(v bignumber.BigDecimal) Value {
	return Value{Kind: KindBigDecimal, Decimal: v}
}

// IsNull reports whether v is the Null variant.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// AsString returns the String variant's payload and whether v held one.
func (v Value) AsString() (string, bool) {
	if v.Kind != KindString {
		return "", false
	}
	return v.Str, true
}

// AsBool returns the Bool variant's payload and whether v held one.
func (v Value) AsBool() (bool, bool) {
	if v.Kind != KindBool {
		return false, false
	}
	return v.Bool, true
}

// AsList returns the List variant's payload and whether v held one.
func (v Value) AsList() ([]Value, bool) {
	if v.Kind != KindList {
		return nil, false
	}
	return v.List, true
}

// Equals compares two Values structurally, matching the derived PartialEq
// the original enum gets from Rust.
func (a Value) Equals(b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindString:
		return a.Str == b.Str
	case KindInt:
		return a.Int == b.Int
	case KindInt8:
		return a.Int8 == b.Int8
	case KindBigDecimal:
		return a.Decimal.Equals(b.Decimal)
	case KindBool:
		return a.Bool == b.Bool
	case KindList:
		if len(a.List) != len(b.List) {
			return false
		}
		for i := range a.List {
			if !a.List[i].Equals(b.List[i]) {
				return false
			}
		}
		return true
	case KindNull:
		return true
	case KindBytes:
		if len(a.Bytes) != len(b.Bytes) {
			return false
		}
		for i := range a.Bytes {
			if a.Bytes[i] != b.Bytes[i] {
				return false
			}
		}
		return true
	case KindBigInt:
		return a.BigInt.Cmp(b.BigInt) == 0
	default:
		return false
	}
}

// RawEntity is a mapping FieldName -> Value. It is a plain map;
// callers needing deterministic iteration order should use SortedFields.
type RawEntity map[string]Value

// SortedFields returns the entity's field names in lexical order, used by
// serializers that need a stable row representation.
func (e RawEntity) SortedFields() []string {
	names := make([]string, 0, len(e))
	for k := range e {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Clone returns a shallow copy of e suitable for appending a new overlay
// snapshot without mutating the previous one.
func (e RawEntity) Clone() RawEntity {
	out := make(RawEntity, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// ID reads the reserved "id" field, which every RawEntity must carry as a
// String value.
func (e RawEntity) ID() (string, bool) {
	v, ok := e["id"]
	if !ok {
		return "", false
	}
	return v.AsString()
}

// IsDeleted reads the reserved "__is_deleted__" tombstone field.
func (e RawEntity) IsDeleted() bool {
	v, ok := e["__is_deleted__"]
	if !ok {
		return false
	}
	b, _ := v.AsBool()
	return b
}

// BlockPtrField reads the reserved "__block_ptr__" field written by the
// overlay/extern store at commit time.
func (e RawEntity) BlockPtrField() (int64, bool) {
	v, ok := e["__block_ptr__"]
	if !ok {
		return 0, false
	}
	if v.Kind != KindInt8 {
		return 0, false
	}
	return v.Int8, true
}
