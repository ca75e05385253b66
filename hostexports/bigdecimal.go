package hostexports

import (
	"github.com/wasmerio/wasmer-go/wasmer"

	"github.com/chainindex/corert/asc"
	"github.com/chainindex/corert/bignumber"
)

// bigDecimalExports implements the BigDecimal half of `numbers.*` (spec
// section 4.3's "Arithmetic (big decimals)"), named to match graph-ts's
// `bigDecimal.*` import declarations.
func bigDecimalExports(wstore *wasmer.Store, inst asc.Heap) map[string]wasmer.IntoExtern {
	binary := func(op func(a, b bignumber.BigDecimal) (bignumber.BigDecimal, error)) wasmer.IntoExtern {
		return wasmer.NewFunction(
			wstore,
			wasmer.NewFunctionType(i32Params(2), i32Params(1)),
			func(args []wasmer.Value) ([]wasmer.Value, error) {
				a, err := asc.ReadBigDecimal(inst, uint32(args[0].I32()))
				if err != nil {
					return nil, err
				}
				b, err := asc.ReadBigDecimal(inst, uint32(args[1].I32()))
				if err != nil {
					return nil, err
				}
				result, err := op(a, b)
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
	}

	equals := wasmer.NewFunction(
		wstore,
		wasmer.NewFunctionType(i32Params(2), i32Params(1)),
		func(args []wasmer.Value) ([]wasmer.Value, error) {
			a, err := asc.ReadBigDecimal(inst, uint32(args[0].I32()))
			if err != nil {
				return nil, err
			}
			b, err := asc.ReadBigDecimal(inst, uint32(args[1].I32()))
			if err != nil {
				return nil, err
			}
			result := int32(0)
			if a.Equals(b) {
				result = 1
			}
			return []wasmer.Value{wasmer.NewI32(result)}, nil
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
			d, err := bignumber.FromDecimalString(s)
			if err != nil {
				return nil, err
			}
			ptr, err := asc.NewBigDecimal(inst, d)
			if err != nil {
				return nil, err
			}
			return []wasmer.Value{wasmer.NewI32(int32(ptr))}, nil
		},
	)

	toString := wasmer.NewFunction(
		wstore,
		wasmer.NewFunctionType(i32Params(1), i32Params(1)),
		func(args []wasmer.Value) ([]wasmer.Value, error) {
			d, err := asc.ReadBigDecimal(inst, uint32(args[0].I32()))
			if err != nil {
				return nil, err
			}
			ptr, err := asc.NewString(inst, d.String())
			if err != nil {
				return nil, err
			}
			return []wasmer.Value{wasmer.NewI32(int32(ptr.Addr()))}, nil
		},
	)

	return map[string]wasmer.IntoExtern{
		"bigDecimal.plus":       binary(bignumber.BigDecimal.Plus),
		"bigDecimal.minus":      binary(bignumber.BigDecimal.Minus),
		"bigDecimal.times":      binary(bignumber.BigDecimal.Times),
		"bigDecimal.dividedBy":  binary(bignumber.BigDecimal.DividedBy),
		"bigDecimal.equals":     equals,
		"bigDecimal.fromString": fromString,
		"bigDecimal.toString":   toString,
	}
}

// numbersExports merges the bigint and bigdecimal operation tables under
// the single `numbers` module name spec section 6 groups them under.
func numbersExports(wstore *wasmer.Store, inst asc.Heap) map[string]wasmer.IntoExtern {
	out := map[string]wasmer.IntoExtern{}
	for k, v := range bigIntExports(wstore, inst) {
		out[k] = v
	}
	for k, v := range bigDecimalExports(wstore, inst) {
		out[k] = v
	}
	return out
}
