package hostexports

import (
	"context"
	"fmt"
	"math/big"
	"reflect"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/wasmerio/wasmer-go/wasmer"

	"github.com/chainindex/corert/asc"
	"github.com/chainindex/corert/chain"
	"github.com/chainindex/corert/errs"
	"github.com/chainindex/corert/rpc"
)

// ethereumExports implements `ethereum.*` and `crypto.keccak256` (spec
// section 4.3's "Chain primitives"), built on go-ethereum's accounts/abi
// package for every leaf Solidity type and a manual word-concatenation for
// Array/FixedArray/Tuple, since packing a heterogeneous tuple through
// go-ethereum's reflect-based struct binding would require synthesizing
// guest-named Go struct types at runtime; static-width composite encoding
// covers the handlers this runtime targets (see DESIGN.md).
func ethereumExports(wstore *wasmer.Store, inst asc.Heap, cfg BuildConfig) map[string]wasmer.IntoExtern {
	encode := wasmer.NewFunction(
		wstore,
		wasmer.NewFunctionType(i32Params(1), i32Params(1)),
		func(args []wasmer.Value) ([]wasmer.Value, error) {
			token, err := chain.ValueFromAsc(inst, uint32(args[0].I32()))
			if err != nil {
				return nil, err
			}
			packed, err := packValue(token)
			if err != nil {
				return nil, err
			}
			ptr, err := asc.NewUint8Array(inst, packed)
			if err != nil {
				return nil, err
			}
			return []wasmer.Value{wasmer.NewI32(int32(ptr.Addr()))}, nil
		},
	)

	decode := wasmer.NewFunction(
		wstore,
		wasmer.NewFunctionType(i32Params(2), i32Params(1)),
		func(args []wasmer.Value) ([]wasmer.Value, error) {
			typeString, err := asc.ReadString(inst, asc.NewPtr[string](uint32(args[0].I32())))
			if err != nil {
				return nil, err
			}
			data, err := asc.ReadUint8Array(inst, asc.NewPtr[[]byte](uint32(args[1].I32())))
			if err != nil {
				return nil, err
			}
			token, err := unpackValue(typeString, data)
			if err != nil {
				return nil, err
			}
			ptr, err := token.ToAsc(inst)
			if err != nil {
				return nil, err
			}
			return []wasmer.Value{wasmer.NewI32(int32(ptr))}, nil
		},
	)

	keccak256 := wasmer.NewFunction(
		wstore,
		wasmer.NewFunctionType(i32Params(1), i32Params(1)),
		func(args []wasmer.Value) ([]wasmer.Value, error) {
			data, err := asc.ReadUint8Array(inst, asc.NewPtr[[]byte](uint32(args[0].I32())))
			if err != nil {
				return nil, err
			}
			hash := crypto.Keccak256(data)
			ptr, err := asc.NewUint8Array(inst, hash)
			if err != nil {
				return nil, err
			}
			return []wasmer.Value{wasmer.NewI32(int32(ptr.Addr()))}, nil
		},
	)

	call := wasmer.NewFunction(
		wstore,
		wasmer.NewFunctionType(i32Params(1), i32Params(1)),
		func(args []wasmer.Value) ([]wasmer.Value, error) {
			unresolved, err := chain.UnresolvedCallFromAsc(inst, uint32(args[0].I32()))
			if err != nil {
				return nil, err
			}
			if cfg.RPC == nil {
				return nil, errs.NewRPCErr(errs.UpstreamFailure, nil, "ethereum.call: no RPC agent configured")
			}
			resp, err := cfg.RPC.Call(context.Background(), rpc.CallRequest{
				ContractName:      unresolved.ContractName,
				ContractAddress:   common.BytesToAddress(unresolved.ContractAddress[:]).Hex(),
				FunctionName:      unresolved.FunctionName,
				FunctionSignature: unresolved.FunctionSignature,
				Args:              unresolved.Args,
			})
			if err != nil {
				return nil, err
			}
			elemPtrs := make([]uint32, len(resp.Values))
			for i, v := range resp.Values {
				p, err := v.ToAsc(inst)
				if err != nil {
					return nil, err
				}
				elemPtrs[i] = p
			}
			arrPtr, err := asc.NewArrayU32(inst, asc.TypeArrayEthereumValue, elemPtrs)
			if err != nil {
				return nil, err
			}
			return []wasmer.Value{wasmer.NewI32(int32(arrPtr))}, nil
		},
	)

	return map[string]wasmer.IntoExtern{
		"encode":         encode,
		"decode":         decode,
		"call":           call,
		"crypto.keccak256": keccak256,
	}
}

// packValue ABI-encodes a single token, recursing into Array/FixedArray/
// Tuple values by concatenating each element's own encoding.
func packValue(v chain.Value) ([]byte, error) {
	switch v.Kind {
	case chain.KindAddress:
		return packLeaf("address", v.Address)
	case chain.KindBool:
		return packLeaf("bool", v.Bool)
	case chain.KindString:
		return packLeaf("string", v.Str)
	case chain.KindBytes:
		return packLeaf("bytes", v.Bytes)
	case chain.KindFixedBytes:
		return packFixedBytes(v.FixedBytes)
	case chain.KindInt:
		return packLeaf("int256", v.Int)
	case chain.KindUint:
		return packLeaf("uint256", v.Uint)
	case chain.KindFixedArray, chain.KindArray, chain.KindTuple:
		var out []byte
		for _, elem := range v.Array {
			b, err := packValue(elem)
			if err != nil {
				return nil, err
			}
			out = append(out, b...)
		}
		return out, nil
	default:
		return nil, errs.NewHeapErr(errs.UnknownVariant, "ethereum.encode: unsupported value kind %v", v.Kind)
	}
}

func packLeaf(typeName string, value any) ([]byte, error) {
	ty, err := abi.NewType(typeName, "", nil)
	if err != nil {
		return nil, fmt.Errorf("ethereum.encode: build abi type %q: %w", typeName, err)
	}
	return abi.Arguments{{Type: ty}}.Pack(value)
}

// packFixedBytes right-pads b into the single 32-byte word ABI's bytesN
// static encoding uses (left-aligned, zero-padded), sized to the guest's
// own FixedBytes length rather than a fixed bytes32 assumption.
func packFixedBytes(b []byte) ([]byte, error) {
	n := len(b)
	if n == 0 || n > 32 {
		return nil, errs.NewHeapErr(errs.SizeMismatch, "fixed bytes length %d outside [1,32]", n)
	}
	arrType := reflect.ArrayOf(n, reflect.TypeOf(byte(0)))
	arrVal := reflect.New(arrType).Elem()
	reflect.Copy(arrVal, reflect.ValueOf(b))
	return packLeaf(fmt.Sprintf("bytes%d", n), arrVal.Interface())
}

// unpackValue ABI-decodes data per typeString, dispatching to chain.Value's
// matching constructor by the resolved abi.Type tag.
func unpackValue(typeString string, data []byte) (chain.Value, error) {
	ty, err := abi.NewType(typeString, "", nil)
	if err != nil {
		return chain.Value{}, fmt.Errorf("ethereum.decode: parse type %q: %w", typeString, err)
	}
	values, err := abi.Arguments{{Type: ty}}.UnpackValues(data)
	if err != nil {
		return chain.Value{}, fmt.Errorf("ethereum.decode: unpack %q: %w", typeString, err)
	}
	if len(values) != 1 {
		return chain.Value{}, errs.NewHeapErr(errs.SizeMismatch, "ethereum.decode: expected a single value, got %d", len(values))
	}
	return valueFromGoType(ty, values[0])
}

func valueFromGoType(ty abi.Type, v any) (chain.Value, error) {
	switch ty.T {
	case abi.AddressTy:
		return chain.NewAddress(v.(common.Address)), nil
	case abi.BoolTy:
		return chain.NewBoolValue(v.(bool)), nil
	case abi.StringTy:
		return chain.NewStringValue(v.(string)), nil
	case abi.BytesTy:
		return chain.NewBytesValue(v.([]byte)), nil
	case abi.FixedBytesTy:
		rv := reflect.ValueOf(v)
		out := make([]byte, rv.Len())
		reflect.Copy(reflect.ValueOf(out), rv)
		return chain.NewFixedBytes(out), nil
	case abi.IntTy:
		return chain.NewInt(v.(*big.Int)), nil
	case abi.UintTy:
		return chain.NewUint(v.(*big.Int)), nil
	case abi.SliceTy, abi.ArrayTy:
		rv := reflect.ValueOf(v)
		elems := make([]chain.Value, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			elem, err := valueFromGoType(*ty.Elem, rv.Index(i).Interface())
			if err != nil {
				return chain.Value{}, err
			}
			elems[i] = elem
		}
		if ty.T == abi.ArrayTy {
			return chain.NewFixedArray(elems), nil
		}
		return chain.NewArray(elems), nil
	default:
		return chain.Value{}, errs.NewHeapErr(errs.UnknownVariant, "ethereum.decode: unsupported abi type tag %d", ty.T)
	}
}
