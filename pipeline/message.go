package pipeline

import (
	"github.com/chainindex/corert/chain"
	"github.com/chainindex/corert/store"
)

// RoutedEvent is one event already matched to the datasource and handler
// export that should process it, the Go equivalent of
// original_source/src/messages.rs's EthereumFilteredEvent. The data-filter
// stage (outside this package's scope) produces these from a raw block by
// matching each log's address/topic0 against active datasources' ABIs.
type RoutedEvent struct {
	Datasource string
	Handler    string
	Event      chain.EventData
}

// RoutedTransaction is one transaction matched to the datasource and
// handler export that should process it.
type RoutedTransaction struct {
	Datasource  string
	Handler     string
	Transaction chain.TransactionData
}

// BlockMessage is the Block Pipeline Controller's unit of work for one
// block: the block itself plus every routed event/transaction extracted
// from it, matching messages::FilteredDataMessage::Ethereum{events, block}.
type BlockMessage struct {
	Block        chain.BlockData
	Events       []RoutedEvent
	Transactions []RoutedTransaction
}

// BlockPtr extracts the BlockPtr identity of the message's block, for
// inspector classification and store commits.
func (m BlockMessage) BlockPtr() store.BlockPtr {
	return store.BlockPtr{
		Number:     m.Block.Number,
		Hash:       m.Block.Hash.Hex(),
		ParentHash: m.Block.ParentHash.Hex(),
	}
}
