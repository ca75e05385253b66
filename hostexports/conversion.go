package hostexports

import (
	"encoding/hex"
	"strings"

	"github.com/mr-tron/base58"
	"github.com/wasmerio/wasmer-go/wasmer"

	"github.com/chainindex/corert/asc"
	"github.com/chainindex/corert/bignumber"
	"github.com/chainindex/corert/errs"
)

// conversionExports implements `conversion.*` (spec section 4.3's
// "Conversions"), named to match the guest-visible
// `typeConversion.bytesToString` family spec section 6 lists verbatim.
func conversionExports(wstore *wasmer.Store, inst asc.Heap) map[string]wasmer.IntoExtern {
	bytesToString := wasmer.NewFunction(
		wstore,
		wasmer.NewFunctionType(i32Params(1), i32Params(1)),
		func(args []wasmer.Value) ([]wasmer.Value, error) {
			b, err := asc.ReadUint8Array(inst, asc.NewPtr[[]byte](uint32(args[0].I32())))
			if err != nil {
				return nil, err
			}
			s := strings.TrimRight(string(b), "\x00")
			ptr, err := asc.NewString(inst, s)
			if err != nil {
				return nil, err
			}
			return []wasmer.Value{wasmer.NewI32(int32(ptr.Addr()))}, nil
		},
	)

	bytesToHex := wasmer.NewFunction(
		wstore,
		wasmer.NewFunctionType(i32Params(1), i32Params(1)),
		func(args []wasmer.Value) ([]wasmer.Value, error) {
			b, err := asc.ReadUint8Array(inst, asc.NewPtr[[]byte](uint32(args[0].I32())))
			if err != nil {
				return nil, err
			}
			ptr, err := asc.NewString(inst, "0x"+hex.EncodeToString(b))
			if err != nil {
				return nil, err
			}
			return []wasmer.Value{wasmer.NewI32(int32(ptr.Addr()))}, nil
		},
	)

	bytesToBase58 := wasmer.NewFunction(
		wstore,
		wasmer.NewFunctionType(i32Params(1), i32Params(1)),
		func(args []wasmer.Value) ([]wasmer.Value, error) {
			b, err := asc.ReadUint8Array(inst, asc.NewPtr[[]byte](uint32(args[0].I32())))
			if err != nil {
				return nil, err
			}
			ptr, err := asc.NewString(inst, base58.Encode(b))
			if err != nil {
				return nil, err
			}
			return []wasmer.Value{wasmer.NewI32(int32(ptr.Addr()))}, nil
		},
	)

	bigIntToString := wasmer.NewFunction(
		wstore,
		wasmer.NewFunctionType(i32Params(1), i32Params(1)),
		func(args []wasmer.Value) ([]wasmer.Value, error) {
			n, err := asc.ReadBigInt(inst, uint32(args[0].I32()))
			if err != nil {
				return nil, err
			}
			ptr, err := asc.NewString(inst, n.String())
			if err != nil {
				return nil, err
			}
			return []wasmer.Value{wasmer.NewI32(int32(ptr.Addr()))}, nil
		},
	)

	bigIntToHex := wasmer.NewFunction(
		wstore,
		wasmer.NewFunctionType(i32Params(1), i32Params(1)),
		func(args []wasmer.Value) ([]wasmer.Value, error) {
			n, err := asc.ReadBigInt(inst, uint32(args[0].I32()))
			if err != nil {
				return nil, err
			}
			ptr, err := asc.NewString(inst, n.ToHex())
			if err != nil {
				return nil, err
			}
			return []wasmer.Value{wasmer.NewI32(int32(ptr.Addr()))}, nil
		},
	)

	stringToH160 := wasmer.NewFunction(
		wstore,
		wasmer.NewFunctionType(i32Params(1), i32Params(1)),
		func(args []wasmer.Value) ([]wasmer.Value, error) {
			s, err := asc.ReadString(inst, asc.NewPtr[string](uint32(args[0].I32())))
			if err != nil {
				return nil, err
			}
			s = strings.TrimPrefix(s, "0x")
			s = strings.TrimPrefix(s, "0X")
			raw, err := hex.DecodeString(s)
			if err != nil {
				return nil, errs.NewHeapErr(errs.SizeMismatch, "invalid h160 hex string %q: %v", s, err)
			}
			if len(raw) != 20 {
				return nil, errs.NewHeapErr(errs.SizeMismatch, "expected 20-byte address, got %d bytes", len(raw))
			}
			ptr, err := asc.NewUint8Array(inst, raw)
			if err != nil {
				return nil, err
			}
			return []wasmer.Value{wasmer.NewI32(int32(ptr.Addr()))}, nil
		},
	)

	return map[string]wasmer.IntoExtern{
		"typeConversion.bytesToString": bytesToString,
		"typeConversion.bytesToHex":    bytesToHex,
		"typeConversion.bytesToBase58": bytesToBase58,
		"typeConversion.bigIntToString": bigIntToString,
		"typeConversion.bigIntToHex":   bigIntToHex,
		"typeConversion.stringToH160":  stringToH160,
	}
}

// jsonExports implements `json.toBigInt`: graph-ts's JSONValue::Number
// variant stores its payload as a string internally for arbitrary
// precision, so decoding it is the same shape as reading a StoreValue
// string enum (chain/asc.go's pattern), restricted to the Number
// discriminant (kind 2 in graph-ts's JSONValueKind).
func jsonExports(wstore *wasmer.Store, inst asc.Heap) map[string]wasmer.IntoExtern {
	const jsonKindNumber = 2

	toBigInt := wasmer.NewFunction(
		wstore,
		wasmer.NewFunctionType(i32Params(1), i32Params(1)),
		func(args []wasmer.Value) ([]wasmer.Value, error) {
			e, err := asc.ReadEnum(inst, uint32(args[0].I32()))
			if err != nil {
				return nil, err
			}
			if e.Kind != jsonKindNumber {
				return nil, errs.NewHeapErr(errs.UnknownVariant, "json.toBigInt: expected JSONValue::Number, got kind %d", e.Kind)
			}
			s, err := asc.ReadString(inst, asc.NewPtr[string](e.Payload.AsPtr()))
			if err != nil {
				return nil, err
			}
			n, err := bignumber.FromString(s)
			if err != nil {
				return nil, err
			}
			ptr, err := asc.NewBigInt(inst, n)
			if err != nil {
				return nil, err
			}
			return []wasmer.Value{wasmer.NewI32(int32(ptr))}, nil
		},
	)

	return map[string]wasmer.IntoExtern{
		"json.toBigInt": toBigInt,
	}
}
