package chain

import (
	gethtypes "github.com/ethereum/go-ethereum/core/types"
)

// Log is an Ethereum event log, reusing go-ethereum's own record shape
// (address, topics, data, block/tx linkage, removed-on-reorg flag)
// directly rather than redeclaring it, continuing this runtime's use of
// core/types for chain record shapes (spec section 3).
type Log = gethtypes.Log

// EventParam is one decoded, named argument of an Ethereum event log,
// the Go equivalent of ethabi::LogParam.
type EventParam struct {
	Name  string
	Value Value
}
