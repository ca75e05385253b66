package chain

import (
	"github.com/chainindex/corert/asc"
	"github.com/chainindex/corert/errs"
)

// UnresolvedCall is the guest's argument to `ethereum.call`, matching
// original_source/src/chain/ethereum/ethereum_call.rs's
// AscUnresolvedContractCallV4 field order exactly: contract_name,
// contract_address, function_name, function_signature, function_args.
type UnresolvedCall struct {
	ContractName      string
	ContractAddress   [20]byte
	FunctionName      string
	FunctionSignature string
	Args              []Value
}

// unresolvedCallStructSize is five consecutive u32 pointer fields.
const unresolvedCallStructSize = 20

func getU32LE(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

// UnresolvedCallFromAsc decodes the SmartContractCall struct at ptr.
func UnresolvedCallFromAsc(heap asc.Heap, ptr uint32) (UnresolvedCall, error) {
	content, err := asc.ReadObj(heap, ptr)
	if err != nil {
		return UnresolvedCall{}, err
	}
	if len(content) < unresolvedCallStructSize {
		return UnresolvedCall{}, errs.NewHeapErr(errs.SizeNotFit, "smart contract call struct requires %d bytes, got %d", unresolvedCallStructSize, len(content))
	}

	contractNamePtr := getU32LE(content[0:4])
	contractAddressPtr := getU32LE(content[4:8])
	functionNamePtr := getU32LE(content[8:12])
	functionSignaturePtr := getU32LE(content[12:16])
	functionArgsPtr := getU32LE(content[16:20])

	contractName, err := asc.ReadString(heap, asc.NewPtr[string](contractNamePtr))
	if err != nil {
		return UnresolvedCall{}, err
	}
	address, err := fromAscAddress(heap, contractAddressPtr)
	if err != nil {
		return UnresolvedCall{}, err
	}
	functionName, err := asc.ReadString(heap, asc.NewPtr[string](functionNamePtr))
	if err != nil {
		return UnresolvedCall{}, err
	}
	var functionSignature string
	if functionSignaturePtr != 0 {
		functionSignature, err = asc.ReadString(heap, asc.NewPtr[string](functionSignaturePtr))
		if err != nil {
			return UnresolvedCall{}, err
		}
	}

	var args []Value
	if functionArgsPtr != 0 {
		argPtrs, err := asc.ReadArrayU32(heap, functionArgsPtr)
		if err != nil {
			return UnresolvedCall{}, err
		}
		args = make([]Value, len(argPtrs))
		for i, p := range argPtrs {
			args[i], err = ValueFromAsc(heap, p)
			if err != nil {
				return UnresolvedCall{}, err
			}
		}
	}

	return UnresolvedCall{
		ContractName:      contractName,
		ContractAddress:   address,
		FunctionName:      functionName,
		FunctionSignature: functionSignature,
		Args:              args,
	}, nil
}
