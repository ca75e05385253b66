package chain

import "github.com/chainindex/corert/store"

// RawBlock is a block as produced by a block-ingestion source (spec §1's
// "producer of a RawBlock stream"), before datasource-specific filtering
// has selected which of its events/transactions are relevant.
type RawBlock struct {
	Block        BlockData
	Transactions []TransactionData
	Receipts     []TransactionReceipt
}

// BlockPtr extracts the BlockPtr identity of the raw block, for inspector
// classification.
func (b RawBlock) BlockPtr() store.BlockPtr {
	return store.BlockPtr{
		Number:     b.Block.Number,
		Hash:       b.Block.Hash.Hex(),
		ParentHash: b.Block.ParentHash.Hex(),
	}
}

// FilteredBlock is the Block Pipeline Controller's per-block input (spec
// §4.5): a block plus the subset of its events and transactions matched
// against active datasources' filters.
type FilteredBlock struct {
	Block  BlockData
	Events []EventData
	Txs    []TransactionData
}

// BlockPtr extracts the BlockPtr identity of the filtered block.
func (b FilteredBlock) BlockPtr() store.BlockPtr {
	return store.BlockPtr{
		Number:     b.Block.Number,
		Hash:       b.Block.Hash.Hex(),
		ParentHash: b.Block.ParentHash.Hex(),
	}
}
