// Package errs defines the typed error taxonomy shared across the host
// runtime (spec section 7): HeapErr, NumberErr, StoreErr, PipelineErr and
// RPCErr. Reorg conditions are not an error type here: the pipeline
// inspector reports them as InspectionResult values (MaybeReorg,
// ForkBlock). Call sites wrap the underlying cause with
// fmt.Errorf("...: %w", err) in the teacher's style and use errors.As to
// recover the typed kind where behavior depends on it.
package errs

import "fmt"

// HeapKind enumerates the AS memory bridge failure modes (spec section 4.1).
type HeapKind int

const (
	HeapOOB HeapKind = iota
	NullPtrRead
	SizeNotFit
	SizeMismatch
	UnknownVariant
	MaxRecursion
	IncorrectBool
	Overflow
)

func (k HeapKind) String() string {
	switch k {
	case HeapOOB:
		return "heap_oob"
	case NullPtrRead:
		return "null_ptr_read"
	case SizeNotFit:
		return "size_not_fit"
	case SizeMismatch:
		return "size_mismatch"
	case UnknownVariant:
		return "unknown_variant"
	case MaxRecursion:
		return "max_recursion"
	case IncorrectBool:
		return "incorrect_bool"
	case Overflow:
		return "overflow"
	default:
		return "unknown_heap_error"
	}
}

// HeapErr is a guest-caused memory bridge failure. It is surfaced at the
// host-export boundary as a trap, never as a panic.
type HeapErr struct {
	Kind HeapKind
	Msg  string
}

func (e *HeapErr) Error() string {
	if e.Msg == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func NewHeapErr(kind HeapKind, format string, args ...any) *HeapErr {
	return &HeapErr{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// NumberKind enumerates arbitrary-precision arithmetic failures (spec
// section 4.3).
type NumberKind int

const (
	NumberTooBig NumberKind = iota
	DivideByZero
	ParseFailure
)

func (k NumberKind) String() string {
	switch k {
	case NumberTooBig:
		return "number_too_big"
	case DivideByZero:
		return "divide_by_zero"
	case ParseFailure:
		return "parse_failure"
	default:
		return "unknown_number_error"
	}
}

// NumberErr is a bigint/bigdecimal arithmetic failure.
type NumberErr struct {
	Kind NumberKind
	Msg  string
}

func (e *NumberErr) Error() string {
	if e.Msg == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func NewNumberErr(kind NumberKind, format string, args ...any) *NumberErr {
	return &NumberErr{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// StoreKind enumerates store-layer failures (spec section 4.4).
type StoreKind int

const (
	MissingID StoreKind = iota
	InvalidIDType
	MissingEntityType
	MissingEntityOnDelete
	ExternIOFailure
)

func (k StoreKind) String() string {
	switch k {
	case MissingID:
		return "missing_id"
	case InvalidIDType:
		return "invalid_id_type"
	case MissingEntityType:
		return "missing_entity_type"
	case MissingEntityOnDelete:
		return "missing_entity_on_delete"
	case ExternIOFailure:
		return "extern_io_failure"
	default:
		return "unknown_store_error"
	}
}

// StoreErr is a store-layer failure.
type StoreErr struct {
	Kind   StoreKind
	Msg    string
	Cause  error
	Entity string
	ID     string
}

func (e *StoreErr) Error() string {
	base := e.Kind.String()
	if e.Entity != "" {
		base = fmt.Sprintf("%s[%s:%s]", base, e.Entity, e.ID)
	}
	if e.Msg != "" {
		base = fmt.Sprintf("%s: %s", base, e.Msg)
	}
	if e.Cause != nil {
		base = fmt.Sprintf("%s: %v", base, e.Cause)
	}
	return base
}

func (e *StoreErr) Unwrap() error { return e.Cause }

func NewStoreErr(kind StoreKind, entity, id string, cause error) *StoreErr {
	return &StoreErr{Kind: kind, Entity: entity, ID: id, Cause: cause}
}

// PipelineKind enumerates fatal pipeline conditions (spec section 4.5/7).
type PipelineKind int

const (
	UnexpectedBlock PipelineKind = iota
	UnrecognizedBlock
)

func (k PipelineKind) String() string {
	switch k {
	case UnexpectedBlock:
		return "unexpected_block"
	case UnrecognizedBlock:
		return "unrecognized_block"
	default:
		return "unknown_pipeline_error"
	}
}

// PipelineErr is a fatal pipeline condition; the caller must halt.
type PipelineErr struct {
	Kind        PipelineKind
	BlockNumber uint64
	Msg         string
}

func (e *PipelineErr) Error() string {
	return fmt.Sprintf("%s at block %d: %s", e.Kind, e.BlockNumber, e.Msg)
}

func NewPipelineErr(kind PipelineKind, blockNumber uint64, format string, args ...any) *PipelineErr {
	return &PipelineErr{Kind: kind, BlockNumber: blockNumber, Msg: fmt.Sprintf(format, args...)}
}

// RPCKind enumerates RPC agent failures (spec section 7).
type RPCKind int

const (
	UpstreamFailure RPCKind = iota
	ABIMismatch
	FunctionNotFound
)

func (k RPCKind) String() string {
	switch k {
	case UpstreamFailure:
		return "upstream_failure"
	case ABIMismatch:
		return "abi_mismatch"
	case FunctionNotFound:
		return "function_not_found"
	default:
		return "unknown_rpc_error"
	}
}

// RPCErr is an RPC collaborator failure.
type RPCErr struct {
	Kind  RPCKind
	Msg   string
	Cause error
}

func (e *RPCErr) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *RPCErr) Unwrap() error { return e.Cause }

func NewRPCErr(kind RPCKind, cause error, format string, args ...any) *RPCErr {
	return &RPCErr{Kind: kind, Msg: fmt.Sprintf(format, args...), Cause: cause}
}

// Fatal reports whether err represents a condition the pipeline cannot
// recover from and must halt on (spec section 7).
func Fatal(err error) bool {
	var pe *PipelineErr
	return asPipelineErr(err, &pe)
}

func asPipelineErr(err error, target **PipelineErr) bool {
	for err != nil {
		if pe, ok := err.(*PipelineErr); ok {
			*target = pe
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
