package chain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// BlockData is an Ethereum block's host-visible fields, matching
// original_source/src/chain/ethereum/block.rs's EthereumBlockData. Size and
// BaseFeePerGas are pointers because both are optional on the wire
// (pre-EIP-1559 blocks have no base fee; some providers omit size).
type BlockData struct {
	Hash              common.Hash
	ParentHash        common.Hash
	UnclesHash        common.Hash
	Author            common.Address
	StateRoot         common.Hash
	TransactionsRoot  common.Hash
	ReceiptsRoot      common.Hash
	Number            uint64
	GasUsed           *big.Int
	GasLimit          *big.Int
	Timestamp         *big.Int
	Difficulty        *big.Int
	TotalDifficulty   *big.Int
	Size              *big.Int
	BaseFeePerGas     *big.Int
}
