// Package rpc implements the RPC Cache Agent (spec section 5's "RPC cache
// is shared... bounded and evicted at block boundary", keyed on
// `(call_signature, block_ptr)"). Grounded on
// original_source/src/rpc_client/mod.rs's RpcClient/RpcAgent: this module
// owns the caching/throttling/block-context policy; the transport itself
// (an actual JSON-RPC client) is an external collaborator per spec section
// 1's non-goals, injected as a Caller function.
package rpc

import (
	"context"

	"github.com/chainindex/corert/chain"
	"github.com/chainindex/corert/store"
)

// CallRequest describes one contract-function call a datasource handler
// makes via the `ethereum.call` host export, matching
// rpc_client/types.rs's CallRequest/UnresolvedContractCall.
type CallRequest struct {
	ContractName      string
	ContractAddress   string
	FunctionName      string
	FunctionSignature string
	Args              []chain.Value
}

// CallResponse is the decoded return values of a contract call.
type CallResponse struct {
	Values []chain.Value
}

// Caller performs the actual upstream JSON-RPC call at the given block,
// implemented by a real transport (web3/ethclient) outside this module's
// scope.
type Caller func(ctx context.Context, blockPtr store.BlockPtr, call CallRequest) (CallResponse, error)

// Agent is the RPC Cache Agent contract the Block Pipeline Controller
// depends on (pipeline.RPCAgent is a subset of this).
type Agent interface {
	SetBlockPtr(ptr store.BlockPtr)
	Call(ctx context.Context, call CallRequest) (CallResponse, error)
	ClearCache()
}
