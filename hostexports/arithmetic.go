package hostexports

import (
	"github.com/wasmerio/wasmer-go/wasmer"

	"github.com/chainindex/corert/asc"
	"github.com/chainindex/corert/bignumber"
)

// bigIntExports implements the BigInt half of `numbers.*` (spec section
// 4.3's "Arithmetic (big integers)"), named the way graph-ts's runtime
// declares them (`bigInt.plus`, `bigInt.minus`, ...) so a guest module
// compiled against the real graph-ts library resolves these imports
// unchanged.
func bigIntExports(wstore *wasmer.Store, inst asc.Heap) map[string]wasmer.IntoExtern {
	binary := func(op func(a, b bignumber.BigInt) (bignumber.BigInt, error)) wasmer.IntoExtern {
		return wasmer.NewFunction(
			wstore,
			wasmer.NewFunctionType(i32Params(2), i32Params(1)),
			func(args []wasmer.Value) ([]wasmer.Value, error) {
				a, err := asc.ReadBigInt(inst, uint32(args[0].I32()))
				if err != nil {
					return nil, err
				}
				b, err := asc.ReadBigInt(inst, uint32(args[1].I32()))
				if err != nil {
					return nil, err
				}
				result, err := op(a, b)
				if err != nil {
					return nil, err
				}
				ptr, err := asc.NewBigInt(inst, result)
				if err != nil {
					return nil, err
				}
				return []wasmer.Value{wasmer.NewI32(int32(ptr))}, nil
			},
		)
	}

	shift := func(op func(a bignumber.BigInt, bits uint8) (bignumber.BigInt, error)) wasmer.IntoExtern {
		return wasmer.NewFunction(
			wstore,
			wasmer.NewFunctionType(i32Params(2), i32Params(1)),
			func(args []wasmer.Value) ([]wasmer.Value, error) {
				a, err := asc.ReadBigInt(inst, uint32(args[0].I32()))
				if err != nil {
					return nil, err
				}
				bits := uint8(args[1].I32())
				result, err := op(a, bits)
				if err != nil {
					return nil, err
				}
				ptr, err := asc.NewBigInt(inst, result)
				if err != nil {
					return nil, err
				}
				return []wasmer.Value{wasmer.NewI32(int32(ptr))}, nil
			},
		)
	}

	pow := wasmer.NewFunction(
		wstore,
		wasmer.NewFunctionType(i32Params(2), i32Params(1)),
		func(args []wasmer.Value) ([]wasmer.Value, error) {
			a, err := asc.ReadBigInt(inst, uint32(args[0].I32()))
			if err != nil {
				return nil, err
			}
			exp := uint(uint32(args[1].I32()))
			result, err := a.Pow(exp)
			if err != nil {
				return nil, err
			}
			ptr, err := asc.NewBigInt(inst, result)
			if err != nil {
				return nil, err
			}
			return []wasmer.Value{wasmer.NewI32(int32(ptr))}, nil
		},
	)

	fromString := wasmer.NewFunction(
		wstore,
		wasmer.NewFunctionType(i32Params(1), i32Params(1)),
		func(args []wasmer.Value) ([]wasmer.Value, error) {
			s, err := asc.ReadString(inst, asc.NewPtr[string](uint32(args[0].I32())))
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

	dividedByDecimal := wasmer.NewFunction(
		wstore,
		wasmer.NewFunctionType(i32Params(2), i32Params(1)),
		func(args []wasmer.Value) ([]wasmer.Value, error) {
			a, err := asc.ReadBigInt(inst, uint32(args[0].I32()))
			if err != nil {
				return nil, err
			}
			b, err := asc.ReadBigDecimal(inst, uint32(args[1].I32()))
			if err != nil {
				return nil, err
			}
			ad, err := bignumber.FromBigInt(a.Inner())
			if err != nil {
				return nil, err
			}
			adDecimal, err := bignumber.NewBigDecimal(ad, 0)
			if err != nil {
				return nil, err
			}
			result, err := adDecimal.DividedBy(b)
			if err != nil {
				return nil, err
			}
			ptr, err := asc.NewBigDecimal(inst, result)
			if err != nil {
				return nil, err
			}
			return []wasmer.Value{wasmer.NewI32(int32(ptr))}, nil
		},
	)

	return map[string]wasmer.IntoExtern{
		"bigInt.plus":             binary(bignumber.BigInt.Add),
		"bigInt.minus":            binary(bignumber.BigInt.Sub),
		"bigInt.times":            binary(bignumber.BigInt.Mul),
		"bigInt.dividedBy":        binary(bignumber.BigInt.Div),
		"bigInt.mod":              binary(bignumber.BigInt.Mod),
		"bigInt.bitOr":            binary(bignumber.BigInt.BitOr),
		"bigInt.bitAnd":           binary(bignumber.BigInt.BitAnd),
		"bigInt.leftShift":        shift(bignumber.BigInt.Lsh),
		"bigInt.rightShift":       shift(bignumber.BigInt.Rsh),
		"bigInt.pow":              pow,
		"bigInt.fromString":       fromString,
		"bigInt.dividedByDecimal": dividedByDecimal,
	}
}
