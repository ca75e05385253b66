package chain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/chainindex/corert/asc"
	"github.com/chainindex/corert/bignumber"
	"github.com/chainindex/corert/errs"
)

// toAscBigInt lifts a possibly-nil *big.Int into a guest BigInt pointer,
// defaulting to zero rather than erroring, since most quantities here are
// optional chain fields (size, base fee, block-number watermarks).
func toAscBigInt(heap asc.Heap, v *big.Int) (uint32, error) {
	n, err := bignumber.FromBigInt(v)
	if err != nil {
		return 0, err
	}
	return asc.NewBigInt(heap, n)
}

func toAscHash(heap asc.Heap, b [32]byte) (uint32, error) {
	ptr, err := asc.NewUint8Array(heap, b[:])
	if err != nil {
		return 0, err
	}
	return ptr.Addr(), nil
}

func toAscAddress(heap asc.Heap, b [20]byte) (uint32, error) {
	ptr, err := asc.NewUint8Array(heap, b[:])
	if err != nil {
		return 0, err
	}
	return ptr.Addr(), nil
}

// ToAsc encodes v into the guest's linear memory as an AscEnum<EthereumValueKind>
// (the AS `ethereum.Value` class), returning its address. Grounded on
// original_source/src/chain/ethereum/asc.rs's `ToAscObj<AscEnum<EthereumValueKind>>
// for ethabi::Token`.
func (v Value) ToAsc(heap asc.Heap) (uint32, error) {
	var payload asc.EnumPayload
	switch v.Kind {
	case KindAddress:
		ptr, err := toAscAddress(heap, v.Address)
		if err != nil {
			return 0, err
		}
		payload = asc.PayloadFromPtr(ptr)
	case KindFixedBytes:
		ptr, err := asc.NewUint8Array(heap, v.FixedBytes)
		if err != nil {
			return 0, err
		}
		payload = asc.PayloadFromPtr(ptr.Addr())
	case KindBytes:
		ptr, err := asc.NewUint8Array(heap, v.Bytes)
		if err != nil {
			return 0, err
		}
		payload = asc.PayloadFromPtr(ptr.Addr())
	case KindInt:
		ptr, err := toAscBigInt(heap, v.Int)
		if err != nil {
			return 0, err
		}
		payload = asc.PayloadFromPtr(ptr)
	case KindUint:
		ptr, err := toAscBigInt(heap, v.Uint)
		if err != nil {
			return 0, err
		}
		payload = asc.PayloadFromPtr(ptr)
	case KindBool:
		payload = asc.PayloadFromBool(v.Bool)
	case KindString:
		ptr, err := asc.NewString(heap, v.Str)
		if err != nil {
			return 0, err
		}
		payload = asc.PayloadFromPtr(ptr.Addr())
	case KindFixedArray, KindArray, KindTuple:
		elemPtrs := make([]uint32, len(v.Array))
		for i, elem := range v.Array {
			ptr, err := elem.ToAsc(heap)
			if err != nil {
				return 0, err
			}
			elemPtrs[i] = ptr
		}
		arrPtr, err := asc.NewArrayU32(heap, asc.TypeArrayEthereumValue, elemPtrs)
		if err != nil {
			return 0, err
		}
		payload = asc.PayloadFromPtr(arrPtr)
	}
	return asc.NewEnum(heap, asc.TypeEthereumValue, asc.Enum{Kind: uint32(v.Kind), Payload: payload})
}

// addressToAsc encodes an (Address common) byte array as a guest Address value,
// used directly by callers that need an AscAddress pointer without the
// surrounding Value envelope (contract_address, author, from, to).
func addressToAsc(heap asc.Heap, addr [20]byte) (uint32, error) {
	return toAscAddress(heap, addr)
}

// ToAsc encodes b as the AscEthereumBlock class (spec section 3's block
// data), field order matching original_source/src/chain/ethereum/block.rs's
// AscEthereumBlock exactly.
func (b BlockData) ToAsc(heap asc.Heap) (uint32, error) {
	hash, err := toAscHash(heap, b.Hash)
	if err != nil {
		return 0, err
	}
	parentHash, err := toAscHash(heap, b.ParentHash)
	if err != nil {
		return 0, err
	}
	unclesHash, err := toAscHash(heap, b.UnclesHash)
	if err != nil {
		return 0, err
	}
	author, err := addressToAsc(heap, b.Author)
	if err != nil {
		return 0, err
	}
	stateRoot, err := toAscHash(heap, b.StateRoot)
	if err != nil {
		return 0, err
	}
	txRoot, err := toAscHash(heap, b.TransactionsRoot)
	if err != nil {
		return 0, err
	}
	receiptsRoot, err := toAscHash(heap, b.ReceiptsRoot)
	if err != nil {
		return 0, err
	}
	number, err := toAscBigInt(heap, new(big.Int).SetUint64(b.Number))
	if err != nil {
		return 0, err
	}
	gasUsed, err := toAscBigInt(heap, b.GasUsed)
	if err != nil {
		return 0, err
	}
	gasLimit, err := toAscBigInt(heap, b.GasLimit)
	if err != nil {
		return 0, err
	}
	timestamp, err := toAscBigInt(heap, b.Timestamp)
	if err != nil {
		return 0, err
	}
	difficulty, err := toAscBigInt(heap, b.Difficulty)
	if err != nil {
		return 0, err
	}
	totalDifficulty, err := toAscBigInt(heap, b.TotalDifficulty)
	if err != nil {
		return 0, err
	}

	size := asc.NullPtr
	if b.Size != nil {
		if size, err = toAscBigInt(heap, b.Size); err != nil {
			return 0, err
		}
	}
	baseFee := asc.NullPtr
	if b.BaseFeePerGas != nil {
		if baseFee, err = toAscBigInt(heap, b.BaseFeePerGas); err != nil {
			return 0, err
		}
	}

	return asc.NewStruct(heap, asc.TypeEthereumBlock, []uint32{
		hash, parentHash, unclesHash, author, stateRoot, txRoot, receiptsRoot,
		number, gasUsed, gasLimit, timestamp, difficulty, totalDifficulty, size, baseFee,
	})
}

// ToAsc encodes t as the AscEthereumTransaction class, field order matching
// original_source/src/chain/ethereum/transaction.rs's AscEthereumTransaction.
func (t TransactionData) ToAsc(heap asc.Heap) (uint32, error) {
	hash, err := toAscHash(heap, t.Hash)
	if err != nil {
		return 0, err
	}
	index, err := toAscBigInt(heap, new(big.Int).SetUint64(t.Index))
	if err != nil {
		return 0, err
	}
	from, err := addressToAsc(heap, t.From)
	if err != nil {
		return 0, err
	}
	to := asc.NullPtr
	if t.To != nil {
		if to, err = addressToAsc(heap, *t.To); err != nil {
			return 0, err
		}
	}
	value, err := toAscBigInt(heap, t.Value)
	if err != nil {
		return 0, err
	}
	gasLimit, err := toAscBigInt(heap, t.GasLimit)
	if err != nil {
		return 0, err
	}
	gasPrice, err := toAscBigInt(heap, t.GasPrice)
	if err != nil {
		return 0, err
	}
	inputPtr, err := asc.NewUint8Array(heap, t.Input)
	if err != nil {
		return 0, err
	}
	nonce, err := toAscBigInt(heap, t.Nonce)
	if err != nil {
		return 0, err
	}

	return asc.NewStruct(heap, asc.TypeEthereumTransaction, []uint32{
		hash, index, from, to, value, gasLimit, gasPrice, inputPtr.Addr(), nonce,
	})
}

// ToAsc encodes r as the AscEthereumTransactionReceipt class, field order
// matching original_source/src/chain/ethereum/transaction.rs's
// AscEthereumTransactionReceipt.
func (r TransactionReceipt) ToAsc(heap asc.Heap) (uint32, error) {
	txHash, err := toAscHash(heap, r.TransactionHash)
	if err != nil {
		return 0, err
	}
	txIndex, err := toAscBigInt(heap, new(big.Int).SetUint64(r.TransactionIndex))
	if err != nil {
		return 0, err
	}
	blockHash := asc.NullPtr
	if r.BlockHash != nil {
		if blockHash, err = toAscHash(heap, *r.BlockHash); err != nil {
			return 0, err
		}
	}
	blockNumber, err := toAscBigInt(heap, r.BlockNumber)
	if err != nil {
		return 0, err
	}
	cumulativeGasUsed, err := toAscBigInt(heap, r.CumulativeGasUsed)
	if err != nil {
		return 0, err
	}
	gasUsed, err := toAscBigInt(heap, r.GasUsed)
	if err != nil {
		return 0, err
	}
	contractAddr := asc.NullPtr
	if r.ContractAddress != nil {
		if contractAddr, err = addressToAsc(heap, *r.ContractAddress); err != nil {
			return 0, err
		}
	}
	logPtrs := make([]uint32, len(r.Logs))
	for i, l := range r.Logs {
		ptr, err := logToAsc(heap, l)
		if err != nil {
			return 0, err
		}
		logPtrs[i] = ptr
	}
	logsArr, err := asc.NewArrayU32(heap, asc.TypeArrayLog, logPtrs)
	if err != nil {
		return 0, err
	}
	status, err := toAscBigInt(heap, r.Status)
	if err != nil {
		return 0, err
	}
	root := asc.NullPtr
	if r.Root != nil {
		if root, err = toAscHash(heap, *r.Root); err != nil {
			return 0, err
		}
	}
	bloomPtr, err := asc.NewUint8Array(heap, r.LogsBloom)
	if err != nil {
		return 0, err
	}

	return asc.NewStruct(heap, asc.TypeTransactionReceipt, []uint32{
		txHash, txIndex, blockHash, blockNumber, cumulativeGasUsed, gasUsed,
		contractAddr, logsArr, status, root, bloomPtr.Addr(),
	})
}

// logToAsc encodes a go-ethereum core/types.Log as the AS `ethereum.Log`
// class: address, topics and data, the host-visible subset of the record.
func logToAsc(heap asc.Heap, l Log) (uint32, error) {
	addr, err := addressToAsc(heap, l.Address)
	if err != nil {
		return 0, err
	}
	topicPtrs := make([]uint32, len(l.Topics))
	for i, topic := range l.Topics {
		ptr, err := toAscHash(heap, topic)
		if err != nil {
			return 0, err
		}
		topicPtrs[i] = ptr
	}
	topicsArr, err := asc.NewArrayU32(heap, asc.TypeArrayH256, topicPtrs)
	if err != nil {
		return 0, err
	}
	dataPtr, err := asc.NewUint8Array(heap, l.Data)
	if err != nil {
		return 0, err
	}
	return asc.NewStruct(heap, asc.TypeLog, []uint32{addr, topicsArr, dataPtr.Addr()})
}

// ToAsc encodes p as the AscEventParam (`ethabi::LogParam`) class: a named,
// decoded event argument.
func (p EventParam) ToAsc(heap asc.Heap) (uint32, error) {
	name, err := asc.NewString(heap, p.Name)
	if err != nil {
		return 0, err
	}
	value, err := p.Value.ToAsc(heap)
	if err != nil {
		return 0, err
	}
	return asc.NewStruct(heap, asc.TypeEventParam, []uint32{name.Addr(), value})
}

// ToAsc encodes e as the AscEthereumEvent<AscEthereumTransaction,
// AscEthereumBlock> class, matching
// original_source/src/chain/ethereum/event.rs's AscEthereumEvent shape.
func (e EventData) ToAsc(heap asc.Heap) (uint32, error) {
	address, err := addressToAsc(heap, e.Address)
	if err != nil {
		return 0, err
	}
	logIndex, err := toAscBigInt(heap, e.LogIndex)
	if err != nil {
		return 0, err
	}
	txLogIndex, err := toAscBigInt(heap, e.TransactionLogIndex)
	if err != nil {
		return 0, err
	}
	logType := asc.NullPtr
	if e.LogType != nil {
		ptr, err := asc.NewString(heap, *e.LogType)
		if err != nil {
			return 0, err
		}
		logType = ptr.Addr()
	}
	block, err := e.Block.ToAsc(heap)
	if err != nil {
		return 0, err
	}
	tx, err := e.Transaction.ToAsc(heap)
	if err != nil {
		return 0, err
	}
	paramPtrs := make([]uint32, len(e.Params))
	for i, p := range e.Params {
		ptr, err := p.ToAsc(heap)
		if err != nil {
			return 0, err
		}
		paramPtrs[i] = ptr
	}
	paramsArr, err := asc.NewArrayU32(heap, asc.TypeArrayEventParam, paramPtrs)
	if err != nil {
		return 0, err
	}

	return asc.NewStruct(heap, asc.TypeEthereumEvent, []uint32{
		address, logIndex, txLogIndex, logType, block, tx, paramsArr,
	})
}

func fromAscAddress(heap asc.Heap, ptr uint32) ([20]byte, error) {
	b, err := asc.ReadUint8Array(heap, asc.NewPtr[[]byte](ptr))
	if err != nil {
		return [20]byte{}, err
	}
	if len(b) != 20 {
		return [20]byte{}, errs.NewHeapErr(errs.SizeMismatch, "expected 20-byte address, got %d bytes", len(b))
	}
	var out [20]byte
	copy(out[:], b)
	return out, nil
}

// ValueFromAsc decodes the AscEnum<EthereumValueKind> at ptr back into a
// Value, the reverse of Value.ToAsc. Grounded on
// original_source/src/chain/ethereum/asc.rs's
// `FromAscObj<AscEnum<EthereumValueKind>> for ethabi::Token`, used by the
// `ethereum.encode`/`ethereum.call` host exports to read a guest-built
// token/argument list.
func ValueFromAsc(heap asc.Heap, ptr uint32) (Value, error) {
	e, err := asc.ReadEnum(heap, ptr)
	if err != nil {
		return Value{}, err
	}
	kind := ValueKind(e.Kind)
	switch kind {
	case KindBool:
		return NewBoolValue(e.Payload.AsBool()), nil
	case KindAddress:
		b, err := fromAscAddress(heap, e.Payload.AsPtr())
		if err != nil {
			return Value{}, err
		}
		return NewAddress(common.Address(b)), nil
	case KindFixedBytes:
		b, err := asc.ReadUint8Array(heap, asc.NewPtr[[]byte](e.Payload.AsPtr()))
		if err != nil {
			return Value{}, err
		}
		return NewFixedBytes(b), nil
	case KindBytes:
		b, err := asc.ReadUint8Array(heap, asc.NewPtr[[]byte](e.Payload.AsPtr()))
		if err != nil {
			return Value{}, err
		}
		return NewBytesValue(b), nil
	case KindInt:
		n, err := asc.ReadBigInt(heap, e.Payload.AsPtr())
		if err != nil {
			return Value{}, err
		}
		return NewInt(n.Inner()), nil
	case KindUint:
		n, err := asc.ReadBigInt(heap, e.Payload.AsPtr())
		if err != nil {
			return Value{}, err
		}
		return NewUint(n.Inner()), nil
	case KindString:
		s, err := asc.ReadString(heap, asc.NewPtr[string](e.Payload.AsPtr()))
		if err != nil {
			return Value{}, err
		}
		return NewStringValue(s), nil
	case KindFixedArray, KindArray, KindTuple:
		elemPtrs, err := asc.ReadArrayU32(heap, e.Payload.AsPtr())
		if err != nil {
			return Value{}, err
		}
		elems := make([]Value, len(elemPtrs))
		for i, p := range elemPtrs {
			elems[i], err = ValueFromAsc(heap, p)
			if err != nil {
				return Value{}, err
			}
		}
		switch kind {
		case KindFixedArray:
			return NewFixedArray(elems), nil
		case KindTuple:
			return NewTuple(elems), nil
		default:
			return NewArray(elems), nil
		}
	default:
		return Value{}, errs.NewHeapErr(errs.UnknownVariant, "unknown ethereum value kind %d", e.Kind)
	}
}
